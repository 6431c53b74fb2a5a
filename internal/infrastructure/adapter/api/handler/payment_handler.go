package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	paymentUseCase "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/usecase/payment"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *paymentUseCase.Service
	logger         coreport.Logger
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(paymentService *paymentUseCase.Service, logger coreport.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Checkout handles the POST /payment endpoint
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid checkout request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	result, err := h.paymentService.InitiatePush(c.Request.Context(), &paymentUseCase.CheckoutRequest{
		Phone:       req.PhoneNumber,
		Amount:      req.Amount,
		Reference:   req.Reference,
		Description: req.Description,
	})
	if err != nil {
		status, message := checkoutErrorStatus(err)
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		TransactionNo:       result.TransactionNo,
		MerchantRequestID:   result.MerchantRequestID,
		CheckoutRequestID:   result.CheckoutRequestID,
		ResponseCode:        result.ResponseCode,
		ResponseDescription: result.ResponseDescription,
		CustomerMessage:     result.CustomerMessage,
	})
}

// Status handles the GET /payment/:checkoutRequestId/status endpoint
func (h *PaymentHandler) Status(c *gin.Context) {
	checkoutRequestID := c.Param("checkoutRequestId")

	status, err := h.paymentService.Query(c.Request.Context(), checkoutRequestID)
	if err != nil {
		httpStatus, message := checkoutErrorStatus(err)
		c.JSON(httpStatus, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: message,
		})
		return
	}

	response := dto.StatusResponse{
		Pending:           status.Pending,
		ResultCode:        status.ResultCode,
		ResultDescription: status.ResultDescription,
	}
	if status.Local != nil {
		response.Transaction = &dto.LocalTransactionDTO{
			TransactionNo: status.Local.TransactionNo,
			PhoneNumber:   status.Local.PhoneNumber,
			Amount:        status.Local.Amount,
			StatusCode:    status.Local.StatusCode,
			Status:        status.Local.Status,
			ReceiptNumber: status.Local.ReceiptNumber,
			Created:       status.Local.Created,
		}
	}

	c.JSON(http.StatusOK, response)
}

// checkoutErrorStatus maps domain errors to HTTP status codes and messages
func checkoutErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domainerr.ErrInvalidPhoneFormat),
		errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrNegativeAmount),
		errors.Is(err, domainerr.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domainerr.ErrDuplicateTransaction):
		return http.StatusConflict, "Transaction already exists"
	case errors.Is(err, domainerr.ErrTransactionNotFound):
		return http.StatusNotFound, "Transaction not found"
	case errors.Is(err, domainerr.ErrGatewayRejected):
		return http.StatusBadGateway, "Payment provider rejected the request"
	case errors.Is(err, domainerr.ErrGatewayUnreachable),
		errors.Is(err, domainerr.ErrCredentialRefreshFailed):
		return http.StatusServiceUnavailable, "Payment provider unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
