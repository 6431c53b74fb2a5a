package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{ErrInvalidPhoneFormat, CodeInvalidPhoneFormat},
		{ErrInvalidAmount, CodeInvalidAmount},
		{ErrNegativeAmount, CodeInvalidAmount},
		{ErrInvalidRequest, CodeInvalidRequest},
		{ErrDuplicateTransaction, CodeDuplicateTransaction},
		{ErrSignatureInvalid, CodeSignatureInvalid},
		{ErrUntrustedSource, CodeUntrustedSource},
		{ErrUnknownTransaction, CodeUnknownTransaction},
		{ErrTransactionNotFound, CodeTransactionNotFound},
		{ErrMalformedPayload, CodeMalformedPayload},
		{ErrRateLimitExceeded, CodeRateLimitExceeded},
		{ErrDatabaseConnection, CodeDatabaseConnection},
		{ErrCredentialRefreshFailed, CodeCredentialRefreshFailed},
		{ErrGatewayRejected, CodeGatewayRejected},
		{ErrGatewayUnreachable, CodeGatewayUnreachable},
		{ErrInternalServer, CodeInternalServer},
		{errors.New("something else"), CodeInternalServer},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
		})
	}

	t.Run("Wrapped errors keep their code", func(t *testing.T) {
		wrapped := fmt.Errorf("%w: extra context", ErrInvalidAmount)
		assert.Equal(t, CodeInvalidAmount, ErrorCode(wrapped))
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrGatewayUnreachable))
	assert.True(t, IsRetryable(NewGatewayError("push", "", "timeout", ErrGatewayUnreachable)))

	assert.False(t, IsRetryable(ErrGatewayRejected))
	assert.False(t, IsRetryable(ErrCredentialRefreshFailed))
	assert.False(t, IsRetryable(ErrInvalidAmount))
}

func TestGatewayError(t *testing.T) {
	err := NewGatewayError("push", "404.001.03", "Invalid Access Token", ErrGatewayRejected)

	assert.ErrorIs(t, err, ErrGatewayRejected)
	assert.Equal(t, CodeGatewayRejected, ErrorCode(err))

	var gwErr *GatewayError
	assert.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "push", gwErr.Operation)
	assert.Equal(t, "404.001.03", gwErr.ResponseCode)

	fields := gwErr.LogFields()
	assert.Equal(t, "gateway_error", fields["error_type"])
	assert.Equal(t, CodeGatewayRejected, fields["error_code"])
}

func TestCallbackRejectionError(t *testing.T) {
	err := &CallbackRejectionError{
		Layer:    "ip_allowlist",
		SourceIP: "10.0.0.1",
		Err:      ErrUntrustedSource,
	}

	assert.ErrorIs(t, err, ErrUntrustedSource)
	assert.Equal(t, CodeUntrustedSource, ErrorCode(err))

	fields := err.LogFields()
	assert.Equal(t, "callback_rejection", fields["error_type"])
	assert.Equal(t, "ip_allowlist", fields["layer"])
	assert.Equal(t, "10.0.0.1", fields["source_ip"])
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsDuplicateTransactionError(ErrDuplicateTransaction))
	assert.False(t, IsDuplicateTransactionError(ErrTransactionNotFound))

	assert.True(t, IsNotFoundError(ErrTransactionNotFound))
	assert.True(t, IsNotFoundError(ErrUnknownTransaction))
	assert.False(t, IsNotFoundError(ErrInvalidRequest))
}
