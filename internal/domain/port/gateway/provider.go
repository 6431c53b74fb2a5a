package gateway

import "context"

// PushRequest carries the validated input for an STK push. Phone is already
// canonical and the amount already bounds-checked by the caller.
type PushRequest struct {
	Phone         string
	AmountInCents int64
	Reference     string
	Description   string
}

// PushResponse is the provider's acknowledgment of an accepted push
type PushResponse struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// QueryResult is the mapped outcome of a status query. Pending means the
// provider has not settled the payment yet; it is a successful query that
// must not trigger a transition.
type QueryResult struct {
	Pending           bool
	ResultCode        int
	ResultDescription string
	ReceiptNumber     string
}

// Client talks to the remote payment provider. Implementations never mutate
// the transaction store; state transitions belong to the reconciliation engine.
type Client interface {
	// InitiatePush sends the payment prompt to the customer's phone.
	//
	// Possible errors:
	// - ErrGatewayRejected: the provider refused the request; not retryable
	// - ErrGatewayUnreachable: network error or timeout; safe to retry
	// - ErrCredentialRefreshFailed: no valid access token could be obtained
	InitiatePush(ctx context.Context, req *PushRequest) (*PushResponse, error)

	// Query asks the provider for the current state of a push.
	//
	// Possible errors: same as InitiatePush.
	Query(ctx context.Context, checkoutRequestID string) (*QueryResult, error)
}

// TokenSource supplies a valid bearer token for provider calls, refreshing it
// behind the scenes when it nears expiry.
type TokenSource interface {
	// Token returns a valid access token.
	//
	// Possible errors:
	// - ErrCredentialRefreshFailed: the refresh round trip failed
	Token(ctx context.Context) (string, error)
}
