package entity

import (
	"strings"
	"time"

	tport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	"github.com/google/uuid"
)

// TransactionStatus defines possible status values for a payment attempt
type TransactionStatus string

// TransactionStatus constants. Pending is the only initial state; Complete and
// Failed are terminal and one-way.
const (
	StatusPending  TransactionStatus = "pending"
	StatusComplete TransactionStatus = "complete"
	StatusFailed   TransactionStatus = "failed"
)

// Bounds for caller-supplied opaque strings
const (
	MaxReferenceLength   = 40
	MaxDescriptionLength = 100
)

// DefaultNarrative fills reference/description when the caller leaves them blank,
// matching what the provider sandbox expects
const DefaultNarrative = "Payment"

// Transaction represents one STK push payment attempt. The store exclusively
// owns mutation; everything outside persistence treats instances as snapshots.
type Transaction struct {
	ID                uint64            // Database primary key
	TransactionNo     string            // Process-assigned unique identifier, immutable
	MerchantRequestID string            // Provider correlation id from the push response
	CheckoutRequestID string            // Join key between callbacks, queries and this record
	Phone             string            // Canonical 254XXXXXXXXX form, immutable after creation
	Amount            string            // Decimal string with 2 decimal places, immutable
	AmountInCents     int64             // Amount in cents for exact comparisons
	Reference         string            // Caller-supplied, sanitized, bounded
	Description       string            // Caller-supplied, sanitized, bounded
	Status            TransactionStatus // Pending until exactly one terminal transition
	ResultCode        *int              // Provider result code, set only on terminal transition
	ResultDescription string            // Provider result description, set only on terminal transition
	ReceiptNumber     string            // M-Pesa receipt, set only on successful completion
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewTransaction builds a Pending transaction after a successful push. The
// phone must already be canonical and the amount already validated; the
// correlation ids come from the provider response, so a transaction can only
// exist once the provider has acknowledged the push.
func NewTransaction(
	merchantRequestID string,
	checkoutRequestID string,
	phone string,
	amount string,
	amountInCents int64,
	reference string,
	description string,
	timeProvider tport.TimeProvider,
) *Transaction {
	now := timeProvider.Now()
	return &Transaction{
		TransactionNo:     uuid.NewString(),
		MerchantRequestID: merchantRequestID,
		CheckoutRequestID: checkoutRequestID,
		Phone:             phone,
		Amount:            amount,
		AmountInCents:     amountInCents,
		Reference:         SanitizeNarrative(reference, MaxReferenceLength),
		Description:       SanitizeNarrative(description, MaxDescriptionLength),
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Outcome describes a terminal transition requested by the reconciliation
// engine. ResultCode 0 means Complete; anything else means Failed. Fields
// absent from the source stay empty, never fabricated.
type Outcome struct {
	ResultCode        int
	ResultDescription string
	ReceiptNumber     string
}

// Status returns the terminal status this outcome maps to
func (o Outcome) Status() TransactionStatus {
	if o.ResultCode == 0 {
		return StatusComplete
	}
	return StatusFailed
}

// IsTerminal reports whether the transaction has reached a final state
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusComplete || t.Status == StatusFailed
}

// IsSuccessful reports whether the payment completed
func (t *Transaction) IsSuccessful() bool {
	return t.Status == StatusComplete
}

// StatusCode collapses the status into the provider convention surfaced to
// clients: 0 = Complete, 1 = Pending or Failed.
func (t *Transaction) StatusCode() int {
	if t.Status == StatusComplete {
		return 0
	}
	return 1
}

// SanitizeNarrative trims, bounds and defaults a caller-supplied opaque string
func SanitizeNarrative(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultNarrative
	}
	// Strip control characters so the value is safe for the provider wire
	// format and for logs
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
