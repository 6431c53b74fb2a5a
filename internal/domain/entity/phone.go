package entity

import (
	"strings"

	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
)

// CountryPrefix is the Kenyan country code every canonical number starts with
const CountryPrefix = "254"

// CanonicalPhoneLength is the length of a canonical phone string (254XXXXXXXXX)
const CanonicalPhoneLength = 12

// NormalizePhone converts an accepted phone representation to the canonical
// 254-prefixed form the provider expects. Three shapes are accepted:
//   - 0XXXXXXXXX   (local, leading zero + 9 digits)
//   - +254XXXXXXXXX
//   - 254XXXXXXXXX
//
// Anything else fails with ErrInvalidPhoneFormat. The function is pure; it
// never touches shared state.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", errs.ErrInvalidPhoneFormat
	}

	// +254XXXXXXXXX collapses into the bare international form
	if strings.HasPrefix(phone, "+") {
		phone = phone[1:]
		if !strings.HasPrefix(phone, CountryPrefix) {
			return "", errs.ErrInvalidPhoneFormat
		}
	}

	if !isDigits(phone) {
		return "", errs.ErrInvalidPhoneFormat
	}

	switch {
	case strings.HasPrefix(phone, "0") && len(phone) == 10:
		phone = CountryPrefix + phone[1:]
	case strings.HasPrefix(phone, CountryPrefix) && len(phone) == CanonicalPhoneLength:
		// already canonical
	default:
		return "", errs.ErrInvalidPhoneFormat
	}

	return phone, nil
}

// MaskPhone renders a canonical phone number safe for logs: the subscriber
// digits in the middle are blanked, keeping enough of the prefix and suffix
// to correlate entries. Non-canonical input is masked entirely.
func MaskPhone(phone string) string {
	if len(phone) != CanonicalPhoneLength {
		return "****"
	}
	return phone[:4] + "*****" + phone[9:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
