package callback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	coremocks "github.com/amirhossein-jamali/mpesa-gateway/mocks/port/core"
)

func pipelineLogger(t *testing.T) *coremocks.MockLogger {
	logger := coremocks.NewMockLogger(t)
	logger.EXPECT().Info(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()
	return logger
}

func fullPipeline(t *testing.T, secret string) *Pipeline {
	tp := coremocks.NewMockTimeProvider(t)
	tp.EXPECT().Now().Return(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)).Maybe()

	allowlist, err := NewIPAllowlist(nil, false)
	assert.NoError(t, err)

	validators := []Validator{
		NewRateLimiter(time.Minute, 5, tp),
		allowlist,
		NewStructureValidator(),
	}
	if secret != "" {
		validators = append(validators, NewSignatureValidator(secret))
	}
	return NewPipeline(pipelineLogger(t), validators...)
}

func TestPipelineAcceptsValidDelivery(t *testing.T) {
	pipeline := fullPipeline(t, "")

	verdict := pipeline.Inspect(&Request{
		SourceIP: "196.201.212.69",
		RawBody:  []byte(successPayload),
	})

	assert.True(t, verdict.Accepted)
	assert.Equal(t, ReasonAccepted, verdict.Reason)
	assert.NotNil(t, verdict.Callback)
	assert.Equal(t, "ws_CO_191220191020363925", verdict.Callback.CheckoutRequestID)
}

func TestPipelineRejectsUntrustedSource(t *testing.T) {
	pipeline := fullPipeline(t, "")

	verdict := pipeline.Inspect(&Request{
		SourceIP: "41.90.64.15",
		RawBody:  []byte(successPayload),
	})

	assert.False(t, verdict.Accepted)
	assert.Equal(t, ReasonUntrustedSource, verdict.Reason)
	assert.Nil(t, verdict.Callback)
}

func TestPipelineRejectsMalformedPayload(t *testing.T) {
	pipeline := fullPipeline(t, "")

	verdict := pipeline.Inspect(&Request{
		SourceIP: "196.201.212.69",
		RawBody:  []byte(`{"Body": {}}`),
	})

	assert.False(t, verdict.Accepted)
	assert.Equal(t, ReasonMalformedPayload, verdict.Reason)
}

func TestPipelineSignatureLayer(t *testing.T) {
	secret := "callback-shared-secret"
	pipeline := fullPipeline(t, secret)

	t.Run("Signed delivery accepted", func(t *testing.T) {
		body := []byte(successPayload)
		verdict := pipeline.Inspect(&Request{
			SourceIP:  "196.201.212.69",
			RawBody:   body,
			Signature: ComputeSignature([]byte(secret), body),
		})
		assert.True(t, verdict.Accepted)
	})

	t.Run("Unsigned delivery rejected", func(t *testing.T) {
		verdict := pipeline.Inspect(&Request{
			SourceIP: "196.201.212.69",
			RawBody:  []byte(successPayload),
		})
		assert.False(t, verdict.Accepted)
		assert.Equal(t, ReasonSignatureInvalid, verdict.Reason)
	})
}

func TestPipelineShortCircuits(t *testing.T) {
	tp := coremocks.NewMockTimeProvider(t)
	tp.EXPECT().Now().Return(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)).Maybe()

	allowlist, err := NewIPAllowlist(nil, false)
	assert.NoError(t, err)

	// Budget of one: the second delivery must die at the rate limit layer,
	// before the allowlist ever sees it
	pipeline := NewPipeline(pipelineLogger(t), NewRateLimiter(time.Minute, 1, tp), allowlist)

	first := pipeline.Inspect(&Request{SourceIP: "41.90.64.15"})
	assert.Equal(t, ReasonUntrustedSource, first.Reason)

	second := pipeline.Inspect(&Request{SourceIP: "41.90.64.15"})
	assert.Equal(t, ReasonRateLimitExceeded, second.Reason)
}

func TestPipelineEmptyValidatorList(t *testing.T) {
	pipeline := NewPipeline(pipelineLogger(t))
	verdict := pipeline.Inspect(&Request{SourceIP: "196.201.212.69"})
	assert.True(t, verdict.Accepted)
}
