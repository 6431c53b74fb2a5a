package callback

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
)

// Field bounds for the provider wire format
const (
	maxCorrelationIDLength = 64
	maxResultDescLength    = 200
	maxMetadataItems       = 16
)

// Wire shape of the provider callback. Required fields are pointers so a
// missing key is distinguishable from a zero value; a wrong JSON type fails
// unmarshalling outright.
type callbackEnvelope struct {
	Body *struct {
		StkCallback *struct {
			MerchantRequestID *string `json:"MerchantRequestID"`
			CheckoutRequestID *string `json:"CheckoutRequestID"`
			ResultCode        *int    `json:"ResultCode"`
			ResultDesc        *string `json:"ResultDesc"`
			CallbackMetadata  *struct {
				Item []struct {
					Name  *string `json:"Name"`
					Value any     `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// StructureValidator proves the raw body parses into the expected nested
// shape before anything downstream trusts it. On success it attaches the
// sanitized entity.StkCallback to the request.
type StructureValidator struct{}

// NewStructureValidator creates the structure validation layer
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{}
}

// Name identifies the layer in security event logs
func (v *StructureValidator) Name() string {
	return "structure"
}

// Validate parses and bounds-checks the payload, rejecting anything that is
// not a well-formed stkCallback envelope
func (v *StructureValidator) Validate(req *Request) error {
	var envelope callbackEnvelope
	if err := json.Unmarshal(req.RawBody, &envelope); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrMalformedPayload, "body is not valid JSON")
	}

	if envelope.Body == nil || envelope.Body.StkCallback == nil {
		return fmt.Errorf("%w: missing Body.stkCallback", errs.ErrMalformedPayload)
	}
	cb := envelope.Body.StkCallback

	merchantID, err := requiredID("MerchantRequestID", cb.MerchantRequestID)
	if err != nil {
		return err
	}
	checkoutID, err := requiredID("CheckoutRequestID", cb.CheckoutRequestID)
	if err != nil {
		return err
	}
	if cb.ResultCode == nil {
		return fmt.Errorf("%w: missing ResultCode", errs.ErrMalformedPayload)
	}
	if *cb.ResultCode < 0 {
		return fmt.Errorf("%w: negative ResultCode", errs.ErrMalformedPayload)
	}
	if cb.ResultDesc == nil {
		return fmt.Errorf("%w: missing ResultDesc", errs.ErrMalformedPayload)
	}

	resultDesc := strings.TrimSpace(*cb.ResultDesc)
	if len(resultDesc) > maxResultDescLength {
		resultDesc = resultDesc[:maxResultDescLength]
	}

	// Successful callbacks must carry the payment metadata; failures carry none
	if *cb.ResultCode == 0 {
		if cb.CallbackMetadata == nil || len(cb.CallbackMetadata.Item) == 0 {
			return fmt.Errorf("%w: successful callback without CallbackMetadata", errs.ErrMalformedPayload)
		}
	}

	var items []entity.MetadataItem
	if cb.CallbackMetadata != nil {
		if len(cb.CallbackMetadata.Item) > maxMetadataItems {
			return fmt.Errorf("%w: too many metadata items", errs.ErrMalformedPayload)
		}
		items = make([]entity.MetadataItem, 0, len(cb.CallbackMetadata.Item))
		for _, item := range cb.CallbackMetadata.Item {
			if item.Name == nil || strings.TrimSpace(*item.Name) == "" {
				return fmt.Errorf("%w: metadata item without a Name", errs.ErrMalformedPayload)
			}
			items = append(items, entity.MetadataItem{
				Name:  strings.TrimSpace(*item.Name),
				Value: item.Value,
			})
		}
	}

	req.Callback = &entity.StkCallback{
		MerchantRequestID: merchantID,
		CheckoutRequestID: checkoutID,
		ResultCode:        *cb.ResultCode,
		ResultDesc:        resultDesc,
		Metadata:          items,
	}
	return nil
}

func requiredID(name string, value *string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%w: missing %s", errs.ErrMalformedPayload, name)
	}
	id := strings.TrimSpace(*value)
	if id == "" {
		return "", fmt.Errorf("%w: empty %s", errs.ErrMalformedPayload, name)
	}
	if len(id) > maxCorrelationIDLength {
		return "", fmt.Errorf("%w: %s exceeds %d characters", errs.ErrMalformedPayload, name, maxCorrelationIDLength)
	}
	return id, nil
}
