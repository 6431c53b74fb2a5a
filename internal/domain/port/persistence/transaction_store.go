package persistence

import (
	"context"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
)

// TransactionStore is the authoritative record of payment attempts, keyed by
// the provider-issued checkout request ID. It exclusively owns mutation; the
// reconciliation engine is the only caller permitted to request a transition.
type TransactionStore interface {
	// Create saves a new Pending transaction
	//
	// Possible errors:
	// - ErrDuplicateTransaction: a transaction with the same checkout request ID exists
	// - ErrDatabaseConnection: the store is unreachable
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByCheckoutRequestID retrieves a transaction by its provider join key
	//
	// Possible errors:
	// - ErrTransactionNotFound: no transaction carries the given ID
	// - ErrDatabaseConnection: the store is unreachable
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Transaction, error)

	// TransitionIfPending atomically applies the terminal outcome if and only
	// if the record is still Pending. It returns applied=false with no error
	// when the record is already terminal, leaving every existing field
	// untouched; two racing writers can never both commit.
	//
	// Possible errors:
	// - ErrTransactionNotFound: no transaction carries the given ID
	// - ErrDatabaseConnection: the store is unreachable
	TransitionIfPending(ctx context.Context, checkoutRequestID string, outcome entity.Outcome) (bool, error)

	// Exists checks whether a transaction with the given checkout request ID exists
	//
	// Possible errors:
	// - ErrDatabaseConnection: the store is unreachable
	Exists(ctx context.Context, checkoutRequestID string) (bool, error)
}
