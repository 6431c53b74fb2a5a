package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	callbackUseCase "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/usecase/callback"
)

// stkCallbackBody mirrors the provider's settlement delivery format
type stkCallbackBody struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string         `json:"MerchantRequestID"`
			CheckoutRequestID string         `json:"CheckoutRequestID"`
			ResultCode        int            `json:"ResultCode"`
			ResultDesc        string         `json:"ResultDesc"`
			CallbackMetadata  *callbackItems `json:"CallbackMetadata,omitempty"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type callbackItems struct {
	Item []metadataItem `json:"Item"`
}

type metadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value,omitempty"`
}

// scenario defines one replayed settlement outcome
type scenario struct {
	Name       string
	ResultCode int
	ResultDesc string
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of callbacks to replay")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	secret := flag.String("secret", "", "Shared secret for signing callbacks (empty sends unsigned)")
	checkoutID := flag.String("checkout", "", "Checkout request id to target (empty generates random ids)")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	scenarios := []scenario{
		{"Success", 0, "The service request is processed successfully."},
		{"Cancelled", 1032, "Request cancelled by user"},
		{"Timeout", 1037, "DS timeout user cannot be reached"},
		{"InsufficientFunds", 1, "The balance is insufficient for the transaction"},
	}

	counts := make(map[int]int)
	var mu sync.Mutex

	jobs := make(chan int)
	var wg sync.WaitGroup
	client := &http.Client{Timeout: 10 * time.Second}

	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sc := scenarios[i%len(scenarios)]
				status, err := fire(client, *baseURL, *secret, *checkoutID, sc)
				mu.Lock()
				if err != nil {
					counts[-1]++
				} else {
					counts[status]++
				}
				mu.Unlock()
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}()
	}

	start := time.Now()
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	fmt.Printf("Replayed %d callbacks in %s\n", *totalRequests, time.Since(start).Round(time.Millisecond))
	mu.Lock()
	for status, n := range counts {
		if status == -1 {
			fmt.Printf("  transport errors: %d\n", n)
			continue
		}
		fmt.Printf("  HTTP %d: %d\n", status, n)
	}
	mu.Unlock()
}

// fire sends one synthetic settlement callback and reports the response status
func fire(client *http.Client, baseURL, secret, checkoutID string, sc scenario) (int, error) {
	var body stkCallbackBody
	cb := &body.Body.StkCallback
	cb.MerchantRequestID = fmt.Sprintf("%d-%d", rand.Intn(100000), rand.Intn(100000))
	cb.CheckoutRequestID = checkoutID
	if cb.CheckoutRequestID == "" {
		cb.CheckoutRequestID = fmt.Sprintf("ws_CO_%d", rand.Int63())
	}
	cb.ResultCode = sc.ResultCode
	cb.ResultDesc = sc.ResultDesc

	if sc.ResultCode == 0 {
		cb.CallbackMetadata = &callbackItems{Item: []metadataItem{
			{Name: "Amount", Value: 100.0},
			{Name: "MpesaReceiptNumber", Value: fmt.Sprintf("NLJ%dSV", rand.Intn(100000))},
			{Name: "TransactionDate", Value: 20260101120000},
			{Name: "PhoneNumber", Value: 254708374149},
		}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/callback", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(callbackUseCase.SignatureHeader, callbackUseCase.ComputeSignature([]byte(secret), payload))
	}

	res, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Body.Close() }()
	return res.StatusCode, nil
}
