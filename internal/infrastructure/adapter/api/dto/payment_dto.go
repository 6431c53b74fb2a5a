package dto

// CheckoutRequest represents the API request for initiating a payment push
type CheckoutRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
}

// CheckoutResponse represents the API response for an initiated payment push
type CheckoutResponse struct {
	TransactionNo       string `json:"transactionNo"`
	MerchantRequestID   string `json:"merchantRequestId"`
	CheckoutRequestID   string `json:"checkoutRequestId"`
	ResponseCode        string `json:"responseCode"`
	ResponseDescription string `json:"responseDescription"`
	CustomerMessage     string `json:"customerMessage"`
}

// StatusResponse represents the API response for a payment status query
type StatusResponse struct {
	Pending           bool                `json:"pending"`
	ResultCode        int                 `json:"resultCode"`
	ResultDescription string              `json:"resultDescription"`
	Transaction       *LocalTransactionDTO `json:"transaction,omitempty"`
}

// LocalTransactionDTO is the stored-state snapshot embedded in status responses
type LocalTransactionDTO struct {
	TransactionNo string `json:"transactionNo"`
	PhoneNumber   string `json:"phoneNumber"`
	Amount        string `json:"amount"`
	StatusCode    int    `json:"statusCode"`
	Status        string `json:"status"`
	ReceiptNumber string `json:"receiptNumber,omitempty"`
	Created       string `json:"created"`
}
