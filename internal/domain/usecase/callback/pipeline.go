package callback

import (
	"errors"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
)

// Request is the raw material a webhook delivery hands to the pipeline. The
// structure validator fills Callback once the payload is proven well-formed;
// until then nothing downstream may touch the body.
type Request struct {
	SourceIP  string
	Signature string
	RawBody   []byte
	Callback  *entity.StkCallback
}

// Reason identifies why a callback was accepted or rejected
type Reason string

// Verdict reasons, one per pipeline layer plus acceptance
const (
	ReasonAccepted          Reason = "Accepted"
	ReasonRateLimitExceeded Reason = "RateLimitExceeded"
	ReasonUntrustedSource   Reason = "UntrustedSource"
	ReasonMalformedPayload  Reason = "MalformedPayload"
	ReasonSignatureInvalid  Reason = "SignatureInvalid"
)

// Verdict is the pipeline's decision for one delivery. Callback is non-nil
// only when Accepted is true.
type Verdict struct {
	Accepted bool
	Reason   Reason
	Callback *entity.StkCallback
}

// Validator is one independent security layer. A nil return means the layer
// passes; a domain error identifies the rejection.
type Validator interface {
	// Name identifies the layer in security event logs
	Name() string
	// Validate inspects the request, optionally enriching it (the structure
	// layer attaches the parsed callback)
	Validate(req *Request) error
}

// Pipeline runs validators in a fixed order and short-circuits at the first
// rejection, so the cheapest checks shield the more expensive ones from
// floods. Every verdict, accepted or not, emits a structured security event.
type Pipeline struct {
	validators []Validator
	logger     coreport.Logger
}

// NewPipeline creates a pipeline over an explicit, ordered validator list
func NewPipeline(logger coreport.Logger, validators ...Validator) *Pipeline {
	return &Pipeline{
		validators: validators,
		logger:     logger,
	}
}

// Inspect runs every layer against the delivery and returns the verdict
func (p *Pipeline) Inspect(req *Request) Verdict {
	for _, v := range p.validators {
		if err := v.Validate(req); err != nil {
			verdict := Verdict{Accepted: false, Reason: reasonFor(err)}
			p.logVerdict(req, v.Name(), verdict)
			return verdict
		}
	}

	verdict := Verdict{Accepted: true, Reason: ReasonAccepted, Callback: req.Callback}
	p.logVerdict(req, "", verdict)
	return verdict
}

// reasonFor maps a layer's domain error onto the shared verdict reason
func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, errs.ErrRateLimitExceeded):
		return ReasonRateLimitExceeded
	case errors.Is(err, errs.ErrUntrustedSource):
		return ReasonUntrustedSource
	case errors.Is(err, errs.ErrMalformedPayload):
		return ReasonMalformedPayload
	case errors.Is(err, errs.ErrSignatureInvalid):
		return ReasonSignatureInvalid
	default:
		return ReasonMalformedPayload
	}
}

// logVerdict emits the security event for a delivery. Only the source IP and
// correlation ids are logged; amounts, phone numbers and secret material never
// reach durable logs.
func (p *Pipeline) logVerdict(req *Request, layer string, verdict Verdict) {
	fields := map[string]any{
		"source_ip": req.SourceIP,
		"reason":    string(verdict.Reason),
	}
	if layer != "" {
		fields["layer"] = layer
	}
	if req.Callback != nil {
		fields["merchant_request_id"] = req.Callback.MerchantRequestID
		fields["checkout_request_id"] = req.Callback.CheckoutRequestID
	}

	if verdict.Accepted {
		p.logger.Info("Callback authorized", fields)
		return
	}
	p.logger.Warn("Callback rejected", fields)
}
