package entity

import (
	"testing"

	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	t.Run("Accepted forms", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected string
		}{
			{"0708374149", "254708374149"},
			{"0110123456", "254110123456"},
			{"+254708374149", "254708374149"},
			{"254708374149", "254708374149"},
			{"  0708374149  ", "254708374149"},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				phone, err := NormalizePhone(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, phone)
			})
		}
	})

	t.Run("Rejected forms", func(t *testing.T) {
		testCases := []struct {
			input       string
			description string
		}{
			{"", "Empty string"},
			{"   ", "Whitespace only"},
			{"708374149", "Bare subscriber digits"},
			{"07083741", "Local form too short"},
			{"07083741491", "Local form too long"},
			{"25470837414", "International form too short"},
			{"2547083741491", "International form too long"},
			{"+255708374149", "Wrong country code"},
			{"255708374149", "Wrong prefix"},
			{"0708-374-149", "Separator characters"},
			{"0708 374 149", "Embedded spaces"},
			{"+2547O8374149", "Letter O instead of zero"},
			{"++254708374149", "Double plus"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := NormalizePhone(tc.input)
				assert.ErrorIs(t, err, errs.ErrInvalidPhoneFormat)
			})
		}
	})
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "2547*****149", MaskPhone("254708374149"))

	// Anything non-canonical is blanked entirely
	assert.Equal(t, "****", MaskPhone("0708374149"))
	assert.Equal(t, "****", MaskPhone(""))
}
