package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// TransactionRepository implements TransactionStore interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	timeProvider    coreport.TimeProvider
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		timeProvider:    timeProvider,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func (r *TransactionRepository) entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		TransactionNo:     transaction.TransactionNo,
		MerchantRequestID: transaction.MerchantRequestID,
		CheckoutRequestID: transaction.CheckoutRequestID,
		Phone:             transaction.Phone,
		Amount:            transaction.Amount,
		AmountInCents:     transaction.AmountInCents,
		Reference:         transaction.Reference,
		Description:       transaction.Description,
		Status:            string(transaction.Status),
		ResultCode:        transaction.ResultCode,
		ResultDescription: transaction.ResultDescription,
		ReceiptNumber:     transaction.ReceiptNumber,
		CreatedAt:         transaction.CreatedAt,
		UpdatedAt:         transaction.UpdatedAt,
	}
}

// modelToEntity converts a transaction model to an entity
func (r *TransactionRepository) modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:                m.ID,
		TransactionNo:     m.TransactionNo,
		MerchantRequestID: m.MerchantRequestID,
		CheckoutRequestID: m.CheckoutRequestID,
		Phone:             m.Phone,
		Amount:            m.Amount,
		AmountInCents:     m.AmountInCents,
		Reference:         m.Reference,
		Description:       m.Description,
		Status:            entity.TransactionStatus(m.Status),
		ResultCode:        m.ResultCode,
		ResultDescription: m.ResultDescription,
		ReceiptNumber:     m.ReceiptNumber,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// Create saves a newly initiated transaction
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"transaction_no":      transaction.TransactionNo,
		"checkout_request_id": transaction.CheckoutRequestID,
	})

	transactionModel := r.entityToModel(transaction)

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate transaction detected", map[string]any{
				"checkout_request_id": transaction.CheckoutRequestID,
			})
			return errs.ErrDuplicateTransaction
		}

		r.logger.Error("Failed to create transaction", map[string]any{
			"checkout_request_id": transaction.CheckoutRequestID,
			"error":               result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transaction.ID = transactionModel.ID

	r.logger.Info("Transaction created successfully", map[string]any{
		"transaction_no":      transaction.TransactionNo,
		"checkout_request_id": transaction.CheckoutRequestID,
	})
	return nil
}

// GetByCheckoutRequestID retrieves a transaction by its provider checkout id
func (r *TransactionRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"checkout_request_id": checkoutRequestID,
			"error":               result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel), nil
}

// TransitionIfPending moves a pending transaction to the terminal state the
// outcome dictates. The status guard in the WHERE clause makes the transition
// a compare-and-set: when two settlement sources race, exactly one UPDATE
// matches a row and the other reports applied=false.
func (r *TransactionRepository) TransitionIfPending(ctx context.Context, checkoutRequestID string, outcome entity.Outcome) (bool, error) {
	resultCode := outcome.ResultCode
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, string(entity.StatusPending)).
		Updates(map[string]interface{}{
			"status":             string(outcome.Status()),
			"result_code":        &resultCode,
			"result_description": outcome.ResultDescription,
			"receipt_number":     outcome.ReceiptNumber,
			"updated_at":         r.timeProvider.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to transition transaction", map[string]any{
			"checkout_request_id": checkoutRequestID,
			"error":               result.Error.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		// Either the row never existed or another writer settled it first.
		// The caller distinguishes the two with a lookup when it matters.
		return false, nil
	}

	return true, nil
}

// Exists checks if a transaction with the given checkout id already exists
func (r *TransactionRepository) Exists(ctx context.Context, checkoutRequestID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("checkout_request_id = ?", checkoutRequestID).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("Failed to check transaction existence", map[string]any{
			"checkout_request_id": checkoutRequestID,
			"error":               result.Error.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return count > 0, nil
}
