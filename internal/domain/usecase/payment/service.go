package payment

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/persistence"
)

// CheckoutRequest carries the caller-supplied fields of a payment initiation
type CheckoutRequest struct {
	Phone       string
	Amount      string
	Reference   string
	Description string
}

// CheckoutResult is what the caller gets back after a successful push
type CheckoutResult struct {
	TransactionNo       string
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// LocalTransaction is the stored-state snapshot attached to query responses
type LocalTransaction struct {
	TransactionNo string
	PhoneNumber   string
	Amount        string
	StatusCode    int
	Status        string
	ReceiptNumber string
	Created       string
}

// QueryStatus combines the provider's answer with the local record after
// reconciliation has run
type QueryStatus struct {
	Pending           bool
	ResultCode        int
	ResultDescription string
	Local             *LocalTransaction
}

// Service orchestrates payment initiation and status lookup against the
// provider gateway and the transaction store
type Service struct {
	gateway      gateway.Client
	store        persistence.TransactionStore
	reconciler   *Reconciler
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a payment service
func NewService(
	gatewayClient gateway.Client,
	store persistence.TransactionStore,
	reconciler *Reconciler,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		gateway:      gatewayClient,
		store:        store,
		reconciler:   reconciler,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// InitiatePush validates the request, asks the provider to push the payment
// prompt to the customer's phone, and records a pending transaction. Nothing
// is persisted when the provider rejects the push, so a failed attempt leaves
// no orphan row behind.
func (s *Service) InitiatePush(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	phone, err := entity.NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	amountInCents, err := entity.ValidateAndConvertAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	reference := entity.SanitizeNarrative(req.Reference, entity.MaxReferenceLength)
	description := entity.SanitizeNarrative(req.Description, entity.MaxDescriptionLength)

	res, err := s.gateway.InitiatePush(ctx, &gateway.PushRequest{
		Phone:         phone,
		AmountInCents: amountInCents,
		Reference:     reference,
		Description:   description,
	})
	if err != nil {
		s.logger.Error("Payment push rejected or unreachable", map[string]any{
			"phone_number": entity.MaskPhone(phone),
			"error":        err.Error(),
		})
		return nil, err
	}

	txn := entity.NewTransaction(
		res.MerchantRequestID,
		res.CheckoutRequestID,
		phone,
		entity.AmountInCentsToString(amountInCents),
		amountInCents,
		reference,
		description,
		s.timeProvider,
	)

	if err := s.store.Create(ctx, txn); err != nil {
		s.logger.Error("Failed to persist initiated transaction", map[string]any{
			"checkout_request_id": res.CheckoutRequestID,
			"error":               err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Payment push initiated", map[string]any{
		"transaction_no":      txn.TransactionNo,
		"checkout_request_id": res.CheckoutRequestID,
		"phone_number":        entity.MaskPhone(phone),
		"amount_cents":        amountInCents,
	})

	return &CheckoutResult{
		TransactionNo:       txn.TransactionNo,
		MerchantRequestID:   res.MerchantRequestID,
		CheckoutRequestID:   res.CheckoutRequestID,
		ResponseCode:        res.ResponseCode,
		ResponseDescription: res.ResponseDescription,
		CustomerMessage:     res.CustomerMessage,
	}, nil
}

// Query asks the provider for the current state of a push, reconciles any
// terminal answer into the store, and returns the provider fields alongside
// the (possibly just-updated) local record. An unknown checkout id still
// returns the provider's answer with a nil local snapshot.
func (s *Service) Query(ctx context.Context, checkoutRequestID string) (*QueryStatus, error) {
	if checkoutRequestID == "" {
		return nil, errs.ErrInvalidRequest
	}

	res, err := s.gateway.Query(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}

	if err := s.reconciler.ApplyQueryResult(ctx, checkoutRequestID, res); err != nil {
		if !errors.Is(err, errs.ErrTransactionNotFound) {
			return nil, err
		}
		s.logger.Warn("Query for checkout id with no local record", map[string]any{
			"checkout_request_id": checkoutRequestID,
		})
	}

	status := &QueryStatus{
		Pending:           res.Pending,
		ResultCode:        res.ResultCode,
		ResultDescription: res.ResultDescription,
	}

	txn, err := s.store.GetByCheckoutRequestID(ctx, checkoutRequestID)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			return status, nil
		}
		return nil, err
	}
	status.Local = snapshotOf(txn)
	return status, nil
}

func snapshotOf(txn *entity.Transaction) *LocalTransaction {
	return &LocalTransaction{
		TransactionNo: txn.TransactionNo,
		PhoneNumber:   txn.Phone,
		Amount:        txn.Amount,
		StatusCode:    txn.StatusCode(),
		Status:        string(txn.Status),
		ReceiptNumber: txn.ReceiptNumber,
		Created:       txn.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
