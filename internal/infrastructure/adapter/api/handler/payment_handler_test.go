package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/gateway"
	paymentUseCase "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/usecase/payment"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/api/dto"
	coremocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/core"
	gatewaymocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/gateway"
	persistencemocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/persistence"
)

func paymentRouter(t *testing.T, gatewayClient *gatewaymocks.MockClient, store *persistencemocks.MockTransactionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	tp := coremocks.NewMockTimeProvider(t)
	tp.EXPECT().Now().Return(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)).Maybe()

	reconciler := paymentUseCase.NewReconciler(store, handlerLogger(t))
	service := paymentUseCase.NewService(gatewayClient, store, reconciler, tp, handlerLogger(t))
	paymentHandler := NewPaymentHandler(service, handlerLogger(t))

	router := gin.New()
	router.POST("/payment", paymentHandler.Checkout)
	router.GET("/payment/:checkoutRequestId/status", paymentHandler.Status)
	return router
}

func TestCheckout(t *testing.T) {
	pushResponse := &gateway.PushResponse{
		MerchantRequestID:   "29115-34620561-1",
		CheckoutRequestID:   callbackCheckoutID,
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}

	t.Run("Valid request accepted", func(t *testing.T) {
		gatewayClient := gatewaymocks.NewMockClient(t)
		gatewayClient.EXPECT().InitiatePush(mock.Anything, mock.Anything).Return(pushResponse, nil).Once()

		store := persistencemocks.NewMockTransactionStore(t)
		store.EXPECT().Create(mock.Anything, mock.Anything).Return(nil).Once()

		router := paymentRouter(t, gatewayClient, store)

		body, _ := json.Marshal(dto.CheckoutRequest{
			PhoneNumber: "0708374149",
			Amount:      "10.00",
			Reference:   "Order-42",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payment", bytes.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var res dto.CheckoutResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, callbackCheckoutID, res.CheckoutRequestID)
		assert.NotEmpty(t, res.TransactionNo)
	})

	t.Run("Missing required fields rejected", func(t *testing.T) {
		gatewayClient := gatewaymocks.NewMockClient(t)
		store := persistencemocks.NewMockTransactionStore(t)
		router := paymentRouter(t, gatewayClient, store)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payment", bytes.NewBufferString(`{"amount": "10.00"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid phone rejected", func(t *testing.T) {
		gatewayClient := gatewaymocks.NewMockClient(t)
		store := persistencemocks.NewMockTransactionStore(t)
		router := paymentRouter(t, gatewayClient, store)

		body, _ := json.Marshal(dto.CheckoutRequest{PhoneNumber: "12345", Amount: "10.00"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payment", bytes.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var res dto.ErrorResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, errs.ErrorCode(errs.ErrInvalidPhoneFormat), res.Code)
	})

	t.Run("Gateway rejection maps to bad gateway", func(t *testing.T) {
		gatewayClient := gatewaymocks.NewMockClient(t)
		gatewayClient.EXPECT().InitiatePush(mock.Anything, mock.Anything).
			Return(nil, errs.ErrGatewayRejected).Once()

		store := persistencemocks.NewMockTransactionStore(t)
		router := paymentRouter(t, gatewayClient, store)

		body, _ := json.Marshal(dto.CheckoutRequest{PhoneNumber: "0708374149", Amount: "10.00"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payment", bytes.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("Gateway outage maps to service unavailable", func(t *testing.T) {
		gatewayClient := gatewaymocks.NewMockClient(t)
		gatewayClient.EXPECT().InitiatePush(mock.Anything, mock.Anything).
			Return(nil, errs.ErrGatewayUnreachable).Once()

		store := persistencemocks.NewMockTransactionStore(t)
		router := paymentRouter(t, gatewayClient, store)

		body, _ := json.Marshal(dto.CheckoutRequest{PhoneNumber: "0708374149", Amount: "10.00"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payment", bytes.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestStatus(t *testing.T) {
	t.Run("Pending status includes local snapshot", func(t *testing.T) {
		gatewayClient := gatewaymocks.NewMockClient(t)
		gatewayClient.EXPECT().Query(mock.Anything, callbackCheckoutID).
			Return(&gateway.QueryResult{Pending: true, ResultDescription: "The transaction is being processed"}, nil).Once()

		store := persistencemocks.NewMockTransactionStore(t)
		store.EXPECT().GetByCheckoutRequestID(mock.Anything, callbackCheckoutID).
			Return(pendingCallbackTransaction(), nil).Once()

		router := paymentRouter(t, gatewayClient, store)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payment/"+callbackCheckoutID+"/status", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var res dto.StatusResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.True(t, res.Pending)
		assert.NotNil(t, res.Transaction)
		assert.Equal(t, 1, res.Transaction.StatusCode)
		assert.Equal(t, string(entity.StatusPending), res.Transaction.Status)
	})

	t.Run("Settled status reflects the reconciled record", func(t *testing.T) {
		gatewayClient := gatewaymocks.NewMockClient(t)
		gatewayClient.EXPECT().Query(mock.Anything, callbackCheckoutID).
			Return(&gateway.QueryResult{ResultCode: 0, ResultDescription: "The service request is processed successfully."}, nil).Once()

		settled := pendingCallbackTransaction()
		settled.Status = entity.StatusComplete
		settled.ReceiptNumber = "NLJ7RT61SV"

		store := persistencemocks.NewMockTransactionStore(t)
		store.EXPECT().GetByCheckoutRequestID(mock.Anything, callbackCheckoutID).
			Return(pendingCallbackTransaction(), nil).Once()
		store.EXPECT().TransitionIfPending(mock.Anything, callbackCheckoutID, mock.Anything).
			Return(true, nil).Once()
		store.EXPECT().GetByCheckoutRequestID(mock.Anything, callbackCheckoutID).
			Return(settled, nil).Once()

		router := paymentRouter(t, gatewayClient, store)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payment/"+callbackCheckoutID+"/status", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var res dto.StatusResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.False(t, res.Pending)
		assert.Equal(t, 0, res.Transaction.StatusCode)
		assert.Equal(t, "NLJ7RT61SV", res.Transaction.ReceiptNumber)
	})

	t.Run("Provider outage surfaces", func(t *testing.T) {
		gatewayClient := gatewaymocks.NewMockClient(t)
		gatewayClient.EXPECT().Query(mock.Anything, callbackCheckoutID).
			Return(nil, errs.ErrGatewayUnreachable).Once()

		store := persistencemocks.NewMockTransactionStore(t)
		router := paymentRouter(t, gatewayClient, store)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payment/"+callbackCheckoutID+"/status", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
