package payment

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/persistence"
)

// Reconciler converges the two racing sources of truth - the asynchronous
// provider callback and the synchronous status query - onto a single terminal
// transaction state. Whichever source reaches the transition first wins; the
// later, redundant attempt is discarded silently rather than merged.
type Reconciler struct {
	store  persistence.TransactionStore
	logger coreport.Logger

	// Well-formed callbacks for checkout ids this process never issued are
	// acknowledged but counted, as a signal for anomaly detection
	unknownCallbacks atomic.Uint64
}

// NewReconciler creates a reconciliation engine over the given store
func NewReconciler(store persistence.TransactionStore, logger coreport.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger,
	}
}

// ApplyCallback applies a verdicted, trusted callback to the store. An
// already-terminal record is a no-op, not an error, so redelivery is
// harmless. Unknown checkout ids return ErrUnknownTransaction; the HTTP layer
// still acknowledges those to stop pointless provider retries.
func (r *Reconciler) ApplyCallback(ctx context.Context, cb *entity.StkCallback) error {
	txn, err := r.store.GetByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			count := r.unknownCallbacks.Add(1)
			r.logger.Warn("Callback references unknown transaction", map[string]any{
				"checkout_request_id": cb.CheckoutRequestID,
				"merchant_request_id": cb.MerchantRequestID,
				"result_code":         cb.ResultCode,
				"unknown_total":       count,
			})
			return errs.ErrUnknownTransaction
		}
		return err
	}

	if txn.IsTerminal() {
		r.logger.Debug("Callback for already-settled transaction ignored", map[string]any{
			"checkout_request_id": cb.CheckoutRequestID,
			"status":              string(txn.Status),
		})
		return nil
	}

	if cb.ResultCode == 0 {
		if details := cb.Details(); details.AmountInCents != 0 && details.AmountInCents != txn.AmountInCents {
			r.logger.Warn("Callback amount differs from initiated amount", map[string]any{
				"checkout_request_id": cb.CheckoutRequestID,
				"expected_cents":      txn.AmountInCents,
				"callback_cents":      details.AmountInCents,
			})
		}
	}

	return r.commit(ctx, cb.CheckoutRequestID, cb.Outcome(), "callback")
}

// ApplyQueryResult applies a mapped provider query response. A still-pending
// result is success with no transition. The same terminal-idempotency rule as
// the callback path applies, so the query racing the callback can never
// double-write.
func (r *Reconciler) ApplyQueryResult(ctx context.Context, checkoutRequestID string, res *gateway.QueryResult) error {
	if res.Pending {
		return nil
	}

	txn, err := r.store.GetByCheckoutRequestID(ctx, checkoutRequestID)
	if err != nil {
		return err
	}
	if txn.IsTerminal() {
		return nil
	}

	outcome := entity.Outcome{
		ResultCode:        res.ResultCode,
		ResultDescription: res.ResultDescription,
		ReceiptNumber:     res.ReceiptNumber,
	}
	return r.commit(ctx, checkoutRequestID, outcome, "query")
}

// commit attempts the terminal transition and logs which source won
func (r *Reconciler) commit(ctx context.Context, checkoutRequestID string, outcome entity.Outcome, source string) error {
	applied, err := r.store.TransitionIfPending(ctx, checkoutRequestID, outcome)
	if err != nil {
		return err
	}

	if !applied {
		r.logger.Debug("Terminal transition lost the race, discarding", map[string]any{
			"checkout_request_id": checkoutRequestID,
			"source":              source,
		})
		return nil
	}

	r.logger.Info("Transaction settled", map[string]any{
		"checkout_request_id": checkoutRequestID,
		"source":              source,
		"status":              string(outcome.Status()),
		"result_code":         outcome.ResultCode,
	})
	return nil
}

// UnknownCallbackCount reports how many well-formed callbacks referenced a
// checkout id this process never issued
func (r *Reconciler) UnknownCallbackCount() uint64 {
	return r.unknownCallbacks.Load()
}
