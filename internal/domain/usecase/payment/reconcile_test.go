package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/gateway"
	coremocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/core"
	persistencemocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/persistence"
)

const testCheckoutID = "ws_CO_191220191020363925"

func quietLogger(t *testing.T) *coremocks.MockLogger {
	logger := coremocks.NewMockLogger(t)
	logger.EXPECT().Debug(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Info(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Error(mock.Anything, mock.Anything).Maybe()
	return logger
}

func pendingTransaction() *entity.Transaction {
	return &entity.Transaction{
		ID:                1,
		TransactionNo:     "b3b2f3a0-9a7e-4c20-9d3b-3f1f2e6a8f10",
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: testCheckoutID,
		Phone:             "254708374149",
		Amount:            "10.00",
		AmountInCents:     1000,
		Status:            entity.StatusPending,
	}
}

func successCallback() *entity.StkCallback {
	return &entity.StkCallback{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: testCheckoutID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		Metadata: []entity.MetadataItem{
			{Name: entity.MetadataAmount, Value: float64(10)},
			{Name: entity.MetadataReceiptNumber, Value: "NLJ7RT61SV"},
			{Name: entity.MetadataPhoneNumber, Value: float64(254708374149)},
		},
	}
}

func TestApplyCallbackSuccess(t *testing.T) {
	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(pendingTransaction(), nil).Once()
	mockStore.EXPECT().TransitionIfPending(mock.Anything, testCheckoutID, mock.MatchedBy(func(o entity.Outcome) bool {
		return o.ResultCode == 0 && o.ReceiptNumber == "NLJ7RT61SV"
	})).Return(true, nil).Once()

	reconciler := NewReconciler(mockStore, quietLogger(t))
	err := reconciler.ApplyCallback(context.Background(), successCallback())
	assert.NoError(t, err)
}

func TestApplyCallbackFailure(t *testing.T) {
	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(pendingTransaction(), nil).Once()
	mockStore.EXPECT().TransitionIfPending(mock.Anything, testCheckoutID, mock.MatchedBy(func(o entity.Outcome) bool {
		return o.ResultCode == 1032 && o.ReceiptNumber == "" && o.Status() == entity.StatusFailed
	})).Return(true, nil).Once()

	cb := &entity.StkCallback{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: testCheckoutID,
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user.",
	}

	reconciler := NewReconciler(mockStore, quietLogger(t))
	assert.NoError(t, reconciler.ApplyCallback(context.Background(), cb))
}

func TestApplyCallbackUnknownTransaction(t *testing.T) {
	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(nil, errs.ErrTransactionNotFound).Twice()

	reconciler := NewReconciler(mockStore, quietLogger(t))

	err := reconciler.ApplyCallback(context.Background(), successCallback())
	assert.True(t, errors.Is(err, errs.ErrUnknownTransaction))
	assert.Equal(t, uint64(1), reconciler.UnknownCallbackCount())

	err = reconciler.ApplyCallback(context.Background(), successCallback())
	assert.True(t, errors.Is(err, errs.ErrUnknownTransaction))
	assert.Equal(t, uint64(2), reconciler.UnknownCallbackCount())
}

func TestApplyCallbackTerminalIsNoOp(t *testing.T) {
	settled := pendingTransaction()
	settled.Status = entity.StatusComplete
	settled.ReceiptNumber = "NLJ7RT61SV"

	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(settled, nil).Once()

	// No TransitionIfPending expectation: redelivery must not touch the row
	reconciler := NewReconciler(mockStore, quietLogger(t))
	assert.NoError(t, reconciler.ApplyCallback(context.Background(), successCallback()))
}

func TestApplyCallbackLosesRace(t *testing.T) {
	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(pendingTransaction(), nil).Once()
	mockStore.EXPECT().TransitionIfPending(mock.Anything, testCheckoutID, mock.Anything).
		Return(false, nil).Once()

	// The query settled the row between our read and our write; losing the
	// race is not an error
	reconciler := NewReconciler(mockStore, quietLogger(t))
	assert.NoError(t, reconciler.ApplyCallback(context.Background(), successCallback()))
}

func TestApplyCallbackAmountMismatchStillSettles(t *testing.T) {
	mockLogger := coremocks.NewMockLogger(t)
	mockLogger.EXPECT().Warn(mock.Anything, mock.MatchedBy(func(fields map[string]any) bool {
		return fields["callback_cents"] == int64(2500)
	})).Once()
	mockLogger.EXPECT().Debug(mock.Anything, mock.Anything).Maybe()
	mockLogger.EXPECT().Info(mock.Anything, mock.Anything).Maybe()

	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(pendingTransaction(), nil).Once()
	mockStore.EXPECT().TransitionIfPending(mock.Anything, testCheckoutID, mock.Anything).
		Return(true, nil).Once()

	cb := successCallback()
	cb.Metadata[0].Value = float64(25)

	reconciler := NewReconciler(mockStore, mockLogger)
	assert.NoError(t, reconciler.ApplyCallback(context.Background(), cb))
}

func TestApplyCallbackStoreFailure(t *testing.T) {
	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(nil, errs.ErrDatabaseConnection).Once()

	reconciler := NewReconciler(mockStore, quietLogger(t))
	err := reconciler.ApplyCallback(context.Background(), successCallback())
	assert.True(t, errors.Is(err, errs.ErrDatabaseConnection))
	assert.Zero(t, reconciler.UnknownCallbackCount())
}

func TestApplyQueryResultPending(t *testing.T) {
	mockStore := persistencemocks.NewMockTransactionStore(t)

	// A pending answer never touches the store
	reconciler := NewReconciler(mockStore, quietLogger(t))
	err := reconciler.ApplyQueryResult(context.Background(), testCheckoutID, &gateway.QueryResult{Pending: true})
	assert.NoError(t, err)
}

func TestApplyQueryResultSettles(t *testing.T) {
	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(pendingTransaction(), nil).Once()
	mockStore.EXPECT().TransitionIfPending(mock.Anything, testCheckoutID, entity.Outcome{
		ResultCode:        1037,
		ResultDescription: "DS timeout user cannot be reached",
	}).Return(true, nil).Once()

	reconciler := NewReconciler(mockStore, quietLogger(t))
	err := reconciler.ApplyQueryResult(context.Background(), testCheckoutID, &gateway.QueryResult{
		ResultCode:        1037,
		ResultDescription: "DS timeout user cannot be reached",
	})
	assert.NoError(t, err)
}

func TestApplyQueryResultTerminalIsNoOp(t *testing.T) {
	settled := pendingTransaction()
	settled.Status = entity.StatusFailed

	mockStore := persistencemocks.NewMockTransactionStore(t)
	mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
		Return(settled, nil).Once()

	reconciler := NewReconciler(mockStore, quietLogger(t))
	err := reconciler.ApplyQueryResult(context.Background(), testCheckoutID, &gateway.QueryResult{ResultCode: 0})
	assert.NoError(t, err)
}
