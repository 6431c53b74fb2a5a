package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for amounts
const MaxDecimalPlaces = 2

// MaxAmountInCents is the M-Pesa per-transaction cap (KES 300,000) in cents
const MaxAmountInCents = 30_000_000

// ValidateAndConvertAmount validates a decimal amount string and converts it
// to cents using a string-based approach that avoids floating point entirely:
//   - no decimal point: append "00"
//   - one digit after the point: append "0"
//   - two digits: concatenate as is
//
// The amount must be positive and within the provider's per-transaction cap.
// Returns the amount as int64 cents, or an error from the ErrInvalidAmount family.
func ValidateAndConvertAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}

	var integerValue string
	if len(parts) == 1 {
		integerValue = parts[0] + "00"
	} else {
		switch len(parts[1]) {
		case 0:
			integerValue = parts[0] + "00"
		case 1:
			integerValue = parts[0] + parts[1] + "0"
		case 2:
			integerValue = parts[0] + parts[1]
		default:
			return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
		}
	}

	value, err := strconv.ParseInt(integerValue, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	if value == 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", errs.ErrInvalidAmount)
	}
	if value > MaxAmountInCents {
		return 0, fmt.Errorf("%w: amount cannot exceed KES 300000", errs.ErrInvalidAmount)
	}

	return value, nil
}

// AmountInCentsToString converts integer cents back to a decimal string,
// e.g. 1015 -> "10.15", 100 -> "1.00".
func AmountInCentsToString(amountInCents int64) string {
	isNegative := amountInCents < 0
	if isNegative {
		amountInCents = -amountInCents
	}

	amountStr := strconv.FormatInt(amountInCents, 10)
	for len(amountStr) < 3 {
		amountStr = "0" + amountStr
	}

	decimalPos := len(amountStr) - 2
	wholePart := amountStr[:decimalPos]
	decimalPart := amountStr[decimalPos:]

	if isNegative {
		return "-" + wholePart + "." + decimalPart
	}
	return wholePart + "." + decimalPart
}

// WholeShillings returns the amount rounded up to whole currency units, which
// is the form the provider wire format accepts. 1050 cents -> 11.
func WholeShillings(amountInCents int64) int64 {
	whole := amountInCents / 100
	if amountInCents%100 != 0 {
		whole++
	}
	return whole
}
