package handler

import (
	"errors"
	"io"
	"net/http"

	domainerr "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	callbackUseCase "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/usecase/callback"
	paymentUseCase "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/usecase/payment"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// maxCallbackBodyBytes bounds how much of a callback body is read before the
// structure check runs
const maxCallbackBodyBytes = 1 << 20

// CallbackHandler receives asynchronous settlement callbacks from the
// payment provider
type CallbackHandler struct {
	pipeline   *callbackUseCase.Pipeline
	reconciler *paymentUseCase.Reconciler
	logger     coreport.Logger
}

// NewCallbackHandler creates a new callback handler instance
func NewCallbackHandler(
	pipeline *callbackUseCase.Pipeline,
	reconciler *paymentUseCase.Reconciler,
	logger coreport.Logger,
) *CallbackHandler {
	return &CallbackHandler{
		pipeline:   pipeline,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Liveness handles the GET probe the provider sends to confirm the callback
// URL is reachable
func (h *CallbackHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, dto.LivenessResponse{Status: "Callback endpoint active"})
}

// Receive handles the POST callback delivery. Every request runs through the
// security pipeline; only verdicted callbacks reach the reconciler. An
// unknown transaction is still acknowledged so the provider stops retrying.
func (h *CallbackHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.RejectionResponse{
			Status: "Rejected",
			Reason: string(callbackUseCase.ReasonMalformedPayload),
		})
		return
	}

	verdict := h.pipeline.Inspect(&callbackUseCase.Request{
		SourceIP:  c.ClientIP(),
		Signature: c.GetHeader(callbackUseCase.SignatureHeader),
		RawBody:   body,
	})

	if !verdict.Accepted {
		c.JSON(rejectionStatus(verdict.Reason), dto.RejectionResponse{
			Status: "Rejected",
			Reason: string(verdict.Reason),
		})
		return
	}

	if err := h.reconciler.ApplyCallback(c.Request.Context(), verdict.Callback); err != nil {
		if !errors.Is(err, domainerr.ErrUnknownTransaction) {
			h.logger.Error("Failed to apply callback", map[string]any{
				"checkout_request_id": verdict.Callback.CheckoutRequestID,
				"error":               err.Error(),
			})
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: "Internal server error",
			})
			return
		}
	}

	c.JSON(http.StatusOK, dto.AcknowledgeResponse{
		ResultCode: 0,
		ResultDesc: "Accepted",
	})
}

// rejectionStatus maps a pipeline verdict reason to the HTTP status of the
// rejection response
func rejectionStatus(reason callbackUseCase.Reason) int {
	switch reason {
	case callbackUseCase.ReasonRateLimitExceeded:
		return http.StatusTooManyRequests
	case callbackUseCase.ReasonUntrustedSource:
		return http.StatusForbidden
	case callbackUseCase.ReasonSignatureInvalid:
		return http.StatusUnauthorized
	case callbackUseCase.ReasonMalformedPayload:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
