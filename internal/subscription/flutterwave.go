package subscription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	subscriptionerrors "github.com/regtech-horizon/regtech-backend/internal/subscription/errors"
)

const defaultGatewayBaseURL = "https://api.flutterwave.com/v3"

// GatewayConfig carries the Flutterwave credentials. BaseURL is overridable
// so tests can point the client at a local server.
type GatewayConfig struct {
	SecretKey   string
	WebhookHash string
	BaseURL     string
}

func GatewayConfigFromEnv() GatewayConfig {
	cfg := GatewayConfig{
		SecretKey:   os.Getenv("FLW_SECRET_KEY"),
		WebhookHash: os.Getenv("FLW_WEBHOOK_HASH"),
		BaseURL:     os.Getenv("FLW_BASE_URL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGatewayBaseURL
	}
	return cfg
}

// VerifiedTransaction is the subset of the gateway verification response the
// service acts on. TxRef carries the subscription id set at checkout.
type VerifiedTransaction struct {
	TxRef       string
	Amount      float64
	Currency    string
	PaymentType string
	InvoiceURL  string
}

//go:generate mockgen -source=flutterwave.go -destination=mock/flutterwave_mock.go -package=mock

// Verifier re-checks a transaction against the gateway. The webhook payload
// itself is never trusted for amounts or references.
type Verifier interface {
	VerifyTransaction(ctx context.Context, transactionID int64) (VerifiedTransaction, error)
}

type flutterwaveClient struct {
	cfg        GatewayConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewFlutterwaveClient(cfg GatewayConfig, logger *zap.Logger) Verifier {
	return &flutterwaveClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.Named("subscription.flutterwave"),
	}
}

func (f *flutterwaveClient) VerifyTransaction(ctx context.Context, transactionID int64) (VerifiedTransaction, error) {
	url := fmt.Sprintf("%s/transactions/%d/verify", f.cfg.BaseURL, transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return VerifiedTransaction{}, err
	}
	req.Header.Set("Authorization", "Bearer "+f.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("gateway verification request failed",
			zap.Int64("transaction_id", transactionID), zap.Error(err))
		return VerifiedTransaction{}, subscriptionerrors.ErrGatewayVerification
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("gateway verification rejected",
			zap.Int64("transaction_id", transactionID), zap.Int("status", resp.StatusCode))
		return VerifiedTransaction{}, subscriptionerrors.ErrGatewayVerification
	}

	var body struct {
		Status string `json:"status"`
		Data   struct {
			TxRef       string  `json:"tx_ref"`
			Amount      float64 `json:"amount"`
			Currency    string  `json:"currency"`
			PaymentType string  `json:"payment_type"`
			Meta        struct {
				InvoiceURL string `json:"invoice_url"`
			} `json:"meta"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return VerifiedTransaction{}, subscriptionerrors.ErrGatewayVerification
	}
	if body.Status != "success" {
		return VerifiedTransaction{}, subscriptionerrors.ErrGatewayVerification
	}

	return VerifiedTransaction{
		TxRef:       body.Data.TxRef,
		Amount:      body.Data.Amount,
		Currency:    body.Data.Currency,
		PaymentType: body.Data.PaymentType,
		InvoiceURL:  body.Data.Meta.InvoiceURL,
	}, nil
}
