package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackDetails(t *testing.T) {
	t.Run("Successful callback metadata", func(t *testing.T) {
		cb := &StkCallback{
			MerchantRequestID: "29115-34620561-1",
			CheckoutRequestID: "ws_CO_191220191020363925",
			ResultCode:        0,
			ResultDesc:        "The service request is processed successfully.",
			Metadata: []MetadataItem{
				{Name: MetadataAmount, Value: float64(1)},
				{Name: MetadataReceiptNumber, Value: "NLJ7RT61SV"},
				{Name: MetadataTransactionDate, Value: float64(20191219102115)},
				{Name: MetadataPhoneNumber, Value: float64(254708374149)},
			},
		}

		d := cb.Details()
		assert.Equal(t, int64(100), d.AmountInCents)
		assert.Equal(t, "NLJ7RT61SV", d.ReceiptNumber)
		assert.Equal(t, "254708374149", d.PhoneNumber)
		assert.Equal(t, "20191219102115", d.TransactionDate)
	})

	t.Run("String values accepted", func(t *testing.T) {
		cb := &StkCallback{
			ResultCode: 0,
			Metadata: []MetadataItem{
				{Name: MetadataAmount, Value: "10.15"},
				{Name: MetadataReceiptNumber, Value: " NLJ7RT61SV "},
			},
		}

		d := cb.Details()
		assert.Equal(t, int64(1015), d.AmountInCents)
		assert.Equal(t, "NLJ7RT61SV", d.ReceiptNumber)
	})

	t.Run("Unknown and absent items", func(t *testing.T) {
		cb := &StkCallback{
			ResultCode: 0,
			Metadata: []MetadataItem{
				{Name: "Balance", Value: float64(900)},
				{Name: MetadataReceiptNumber, Value: "NLJ7RT61SV"},
			},
		}

		d := cb.Details()
		assert.Equal(t, "NLJ7RT61SV", d.ReceiptNumber)
		assert.Zero(t, d.AmountInCents)
		assert.Empty(t, d.PhoneNumber)
	})

	t.Run("Failed callback has no metadata", func(t *testing.T) {
		cb := &StkCallback{ResultCode: 1032, ResultDesc: "Request cancelled by user"}

		d := cb.Details()
		assert.Zero(t, d.AmountInCents)
		assert.Empty(t, d.ReceiptNumber)
	})
}

func TestCallbackOutcome(t *testing.T) {
	t.Run("Success carries the receipt", func(t *testing.T) {
		cb := &StkCallback{
			ResultCode: 0,
			ResultDesc: "The service request is processed successfully.",
			Metadata: []MetadataItem{
				{Name: MetadataReceiptNumber, Value: "NLJ7RT61SV"},
			},
		}

		outcome := cb.Outcome()
		assert.Equal(t, 0, outcome.ResultCode)
		assert.Equal(t, "NLJ7RT61SV", outcome.ReceiptNumber)
		assert.Equal(t, StatusComplete, outcome.Status())
	})

	t.Run("Failure leaves the receipt empty", func(t *testing.T) {
		cb := &StkCallback{ResultCode: 1032, ResultDesc: "Request cancelled by user"}

		outcome := cb.Outcome()
		assert.Equal(t, 1032, outcome.ResultCode)
		assert.Empty(t, outcome.ReceiptNumber)
		assert.Equal(t, StatusFailed, outcome.Status())
	})
}
