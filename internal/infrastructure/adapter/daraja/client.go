package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/entity"
	errs "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/error"
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/gateway"
)

const (
	transactionType = "CustomerPayBillOnline"

	// The provider expects timestamps in East Africa Time regardless of where
	// the service runs
	timestampLayout = "20060102150405"

	maxResponseBytes = 1 << 16
)

var eastAfricaTime = time.FixedZone("EAT", 3*60*60)

// Query result codes the provider uses for a push the customer has not yet
// answered. These must not settle the transaction.
var pendingResultCodes = map[int]struct{}{
	1001: {},
	4999: {},
}

// errorCodeStillProcessing is returned by the query endpoint while the push
// is in flight
const errorCodeStillProcessing = "500.001.1001"

// Client implements the gateway Client interface against the provider's STK
// push API
type Client struct {
	config       *Config
	tokenSource  gateway.TokenSource
	httpClient   *http.Client
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewClient creates a provider gateway client
func NewClient(
	config *Config,
	tokenSource gateway.TokenSource,
	httpClient *http.Client,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Client {
	return &Client{
		config:       config,
		tokenSource:  tokenSource,
		httpClient:   httpClient,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

type pushRequestBody struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type pushResponseBody struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type queryRequestBody struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type queryResponseBody struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	ResultCode          string `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
}

type errorResponseBody struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// credentials derives the request password from the shortcode, passkey and a
// fresh timestamp. The same timestamp value has to appear verbatim in the
// request body, so both are produced together.
func (c *Client) credentials() (password, timestamp string) {
	timestamp = c.timeProvider.Now().In(eastAfricaTime).Format(timestampLayout)
	raw := c.config.Shortcode + c.config.Passkey + timestamp
	password = base64.StdEncoding.EncodeToString([]byte(raw))
	return password, timestamp
}

// InitiatePush asks the provider to display the payment prompt on the
// customer's phone
func (c *Client) InitiatePush(ctx context.Context, req *gateway.PushRequest) (*gateway.PushResponse, error) {
	password, timestamp := c.credentials()

	body := pushRequestBody{
		BusinessShortCode: c.config.Shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            entity.WholeShillings(req.AmountInCents),
		PartyA:            req.Phone,
		PartyB:            c.config.Shortcode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.config.CallbackURL,
		AccountReference:  req.Reference,
		TransactionDesc:   req.Description,
	}

	var res pushResponseBody
	if err := c.post(ctx, "push", c.config.BaseURL+stkPushPath, body, &res); err != nil {
		return nil, err
	}

	if res.ResponseCode != "0" {
		c.logger.Warn("Push rejected by provider", map[string]any{
			"response_code":        res.ResponseCode,
			"response_description": res.ResponseDescription,
		})
		return nil, errs.NewGatewayError("push", res.ResponseCode, res.ResponseDescription, errs.ErrGatewayRejected)
	}

	return &gateway.PushResponse{
		MerchantRequestID:   res.MerchantRequestID,
		CheckoutRequestID:   res.CheckoutRequestID,
		ResponseCode:        res.ResponseCode,
		ResponseDescription: res.ResponseDescription,
		CustomerMessage:     res.CustomerMessage,
	}, nil
}

// Query asks the provider for the current state of a previously initiated
// push. A still-processing answer maps to a pending result, never an error.
func (c *Client) Query(ctx context.Context, checkoutRequestID string) (*gateway.QueryResult, error) {
	password, timestamp := c.credentials()

	body := queryRequestBody{
		BusinessShortCode: c.config.Shortcode,
		Password:          password,
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var res queryResponseBody
	if err := c.post(ctx, "query", c.config.BaseURL+stkQueryPath, body, &res); err != nil {
		var gwErr *errs.GatewayError
		if errors.As(err, &gwErr) && gwErr.ResponseCode == errorCodeStillProcessing {
			return &gateway.QueryResult{Pending: true, ResultDescription: gwErr.Description}, nil
		}
		return nil, err
	}

	resultCode, err := strconv.Atoi(res.ResultCode)
	if err != nil {
		return nil, errs.NewGatewayError("query", res.ResultCode, "unparseable result code", errs.ErrGatewayRejected)
	}

	if _, stillPending := pendingResultCodes[resultCode]; stillPending {
		return &gateway.QueryResult{Pending: true, ResultCode: resultCode, ResultDescription: res.ResultDesc}, nil
	}

	return &gateway.QueryResult{
		ResultCode:        resultCode,
		ResultDescription: res.ResultDesc,
	}, nil
}

// post sends an authenticated JSON request and decodes a successful response
// into out. Provider-side rejections come back as GatewayError values.
func (c *Client) post(ctx context.Context, operation, url string, body any, out any) error {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Provider request failed", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
		return errs.NewGatewayError(operation, "", err.Error(), errs.ErrGatewayUnreachable)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return errs.NewGatewayError(operation, "", err.Error(), errs.ErrGatewayUnreachable)
	}

	if res.StatusCode >= http.StatusInternalServerError {
		return errs.NewGatewayError(operation, strconv.Itoa(res.StatusCode), "provider server error", errs.ErrGatewayUnreachable)
	}

	if res.StatusCode != http.StatusOK {
		var provider errorResponseBody
		if err := json.Unmarshal(raw, &provider); err == nil && provider.ErrorCode != "" {
			return errs.NewGatewayError(operation, provider.ErrorCode, provider.ErrorMessage, errs.ErrGatewayRejected)
		}
		return errs.NewGatewayError(operation, strconv.Itoa(res.StatusCode), "unexpected provider response", errs.ErrGatewayRejected)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errs.NewGatewayError(operation, "", "malformed provider response", errs.ErrGatewayRejected)
	}
	return nil
}
