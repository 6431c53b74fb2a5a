package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Metadata item names the provider uses in successful callbacks
const (
	MetadataAmount          = "Amount"
	MetadataReceiptNumber   = "MpesaReceiptNumber"
	MetadataPhoneNumber     = "PhoneNumber"
	MetadataTransactionDate = "TransactionDate"
)

// StkCallback is the validated, trusted form of a provider callback. Instances
// exist only after the security pipeline's structure validation has passed;
// loosely-typed data never crosses into the reconciliation engine.
type StkCallback struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Metadata          []MetadataItem
}

// MetadataItem is one {Name, Value} pair from a successful callback. Values
// arrive as strings or JSON numbers depending on the field.
type MetadataItem struct {
	Name  string
	Value any
}

// CallbackDetails holds the payment facts extracted from callback metadata.
// A field the provider did not send stays at its zero value.
type CallbackDetails struct {
	AmountInCents   int64
	ReceiptNumber   string
	PhoneNumber     string
	TransactionDate string
}

// Details walks the metadata items and picks out the known fields by name.
// Unknown items are ignored; absent items leave the corresponding field empty.
func (c *StkCallback) Details() CallbackDetails {
	var d CallbackDetails
	for _, item := range c.Metadata {
		switch item.Name {
		case MetadataAmount:
			if cents, err := metadataAmountInCents(item.Value); err == nil {
				d.AmountInCents = cents
			}
		case MetadataReceiptNumber:
			d.ReceiptNumber = metadataString(item.Value)
		case MetadataPhoneNumber:
			d.PhoneNumber = metadataString(item.Value)
		case MetadataTransactionDate:
			d.TransactionDate = metadataString(item.Value)
		}
	}
	return d
}

// Outcome converts the callback into the terminal transition it requests
func (c *StkCallback) Outcome() Outcome {
	return Outcome{
		ResultCode:        c.ResultCode,
		ResultDescription: c.ResultDesc,
		ReceiptNumber:     c.Details().ReceiptNumber,
	}
}

// metadataString renders a metadata value as a trimmed string. Numeric values
// (amounts, phone numbers, dates all arrive as JSON numbers) are formatted
// without an exponent or trailing zeros.
func metadataString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func metadataAmountInCents(v any) (int64, error) {
	return ValidateAndConvertAmount(metadataString(v))
}
