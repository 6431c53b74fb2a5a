package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/gateway"
	coremocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/core"
	gatewaymocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/gateway"
	persistencemocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/persistence"
)

func fixedTimeProvider(t *testing.T) *coremocks.MockTimeProvider {
	tp := coremocks.NewMockTimeProvider(t)
	tp.EXPECT().Now().Return(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)).Maybe()
	return tp
}

func TestInitiatePush(t *testing.T) {
	pushResponse := &gateway.PushResponse{
		MerchantRequestID:   "29115-34620561-1",
		CheckoutRequestID:   testCheckoutID,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}

	t.Run("Happy path persists a pending transaction", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockGateway.EXPECT().InitiatePush(mock.Anything, mock.MatchedBy(func(req *gateway.PushRequest) bool {
			return req.Phone == "254708374149" && req.AmountInCents == 1015 && req.Reference == "Order-42"
		})).Return(pushResponse, nil).Once()

		var created *entity.Transaction
		mockStore := persistencemocks.NewMockTransactionStore(t)
		mockStore.EXPECT().Create(mock.Anything, mock.Anything).
			Run(func(ctx context.Context, txn *entity.Transaction) { created = txn }).
			Return(nil).Once()

		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		result, err := service.InitiatePush(context.Background(), &CheckoutRequest{
			Phone:       "0708374149",
			Amount:      "10.15",
			Reference:   "Order-42",
			Description: "Groceries",
		})

		assert.NoError(t, err)
		assert.Equal(t, testCheckoutID, result.CheckoutRequestID)
		assert.Equal(t, "0", result.ResponseCode)
		assert.NotEmpty(t, result.TransactionNo)

		assert.NotNil(t, created)
		assert.Equal(t, entity.StatusPending, created.Status)
		assert.Equal(t, "254708374149", created.Phone)
		assert.Equal(t, int64(1015), created.AmountInCents)
		assert.Equal(t, "10.15", created.Amount)
	})

	t.Run("Invalid phone rejected before the gateway is called", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockStore := persistencemocks.NewMockTransactionStore(t)
		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		result, err := service.InitiatePush(context.Background(), &CheckoutRequest{Phone: "12345", Amount: "10.00"})
		assert.True(t, errors.Is(err, errs.ErrInvalidPhoneFormat))
		assert.Nil(t, result)
	})

	t.Run("Invalid amount rejected before the gateway is called", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockStore := persistencemocks.NewMockTransactionStore(t)
		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		result, err := service.InitiatePush(context.Background(), &CheckoutRequest{Phone: "0708374149", Amount: "0"})
		assert.True(t, errors.Is(err, errs.ErrInvalidAmount))
		assert.Nil(t, result)
	})

	t.Run("Gateway rejection persists nothing", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockGateway.EXPECT().InitiatePush(mock.Anything, mock.Anything).
			Return(nil, errs.ErrGatewayRejected).Once()

		mockStore := persistencemocks.NewMockTransactionStore(t)
		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		result, err := service.InitiatePush(context.Background(), &CheckoutRequest{Phone: "0708374149", Amount: "10.00"})
		assert.True(t, errors.Is(err, errs.ErrGatewayRejected))
		assert.Nil(t, result)
	})

	t.Run("Store failure surfaces", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockGateway.EXPECT().InitiatePush(mock.Anything, mock.Anything).Return(pushResponse, nil).Once()

		mockStore := persistencemocks.NewMockTransactionStore(t)
		mockStore.EXPECT().Create(mock.Anything, mock.Anything).Return(errs.ErrDuplicateTransaction).Once()

		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		result, err := service.InitiatePush(context.Background(), &CheckoutRequest{Phone: "0708374149", Amount: "10.00"})
		assert.True(t, errors.Is(err, errs.ErrDuplicateTransaction))
		assert.Nil(t, result)
	})

	t.Run("Empty narratives fall back to the default", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockGateway.EXPECT().InitiatePush(mock.Anything, mock.MatchedBy(func(req *gateway.PushRequest) bool {
			return req.Reference == entity.DefaultNarrative && req.Description == entity.DefaultNarrative
		})).Return(pushResponse, nil).Once()

		mockStore := persistencemocks.NewMockTransactionStore(t)
		mockStore.EXPECT().Create(mock.Anything, mock.Anything).Return(nil).Once()

		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		_, err := service.InitiatePush(context.Background(), &CheckoutRequest{Phone: "0708374149", Amount: "10.00"})
		assert.NoError(t, err)
	})
}

func TestQuery(t *testing.T) {
	t.Run("Empty checkout id rejected", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockStore := persistencemocks.NewMockTransactionStore(t)
		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		status, err := service.Query(context.Background(), "")
		assert.True(t, errors.Is(err, errs.ErrInvalidRequest))
		assert.Nil(t, status)
	})

	t.Run("Pending result returns local snapshot unchanged", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockGateway.EXPECT().Query(mock.Anything, testCheckoutID).
			Return(&gateway.QueryResult{Pending: true, ResultDescription: "The transaction is being processed"}, nil).Once()

		mockStore := persistencemocks.NewMockTransactionStore(t)
		mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
			Return(pendingTransaction(), nil).Once()

		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		status, err := service.Query(context.Background(), testCheckoutID)
		assert.NoError(t, err)
		assert.True(t, status.Pending)
		assert.NotNil(t, status.Local)
		assert.Equal(t, 1, status.Local.StatusCode)
		assert.Equal(t, string(entity.StatusPending), status.Local.Status)
	})

	t.Run("Terminal result is reconciled into the store", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockGateway.EXPECT().Query(mock.Anything, testCheckoutID).
			Return(&gateway.QueryResult{ResultCode: 0, ResultDescription: "The service request is processed successfully."}, nil).Once()

		settled := pendingTransaction()
		settled.Status = entity.StatusComplete
		settled.ReceiptNumber = "NLJ7RT61SV"

		mockStore := persistencemocks.NewMockTransactionStore(t)
		// First read feeds the reconciler, second read builds the snapshot
		mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
			Return(pendingTransaction(), nil).Once()
		mockStore.EXPECT().TransitionIfPending(mock.Anything, testCheckoutID, mock.Anything).
			Return(true, nil).Once()
		mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
			Return(settled, nil).Once()

		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		status, err := service.Query(context.Background(), testCheckoutID)
		assert.NoError(t, err)
		assert.False(t, status.Pending)
		assert.Equal(t, 0, status.ResultCode)
		assert.Equal(t, 0, status.Local.StatusCode)
		assert.Equal(t, "NLJ7RT61SV", status.Local.ReceiptNumber)
	})

	t.Run("Unknown checkout id still returns the provider answer", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockGateway.EXPECT().Query(mock.Anything, testCheckoutID).
			Return(&gateway.QueryResult{ResultCode: 1032, ResultDescription: "Request cancelled by user."}, nil).Once()

		mockStore := persistencemocks.NewMockTransactionStore(t)
		mockStore.EXPECT().GetByCheckoutRequestID(mock.Anything, testCheckoutID).
			Return(nil, errs.ErrTransactionNotFound).Twice()

		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		status, err := service.Query(context.Background(), testCheckoutID)
		assert.NoError(t, err)
		assert.Equal(t, 1032, status.ResultCode)
		assert.Nil(t, status.Local)
	})

	t.Run("Gateway failure surfaces", func(t *testing.T) {
		mockGateway := gatewaymocks.NewMockClient(t)
		mockGateway.EXPECT().Query(mock.Anything, testCheckoutID).
			Return(nil, errs.ErrGatewayUnreachable).Once()

		mockStore := persistencemocks.NewMockTransactionStore(t)
		service := NewService(mockGateway, mockStore, NewReconciler(mockStore, quietLogger(t)), fixedTimeProvider(t), quietLogger(t))

		status, err := service.Query(context.Background(), testCheckoutID)
		assert.True(t, errors.Is(err, errs.ErrGatewayUnreachable))
		assert.Nil(t, status)
	})
}
