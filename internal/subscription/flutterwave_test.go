package subscription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	subscriptionerrors "github.com/regtech-horizon/regtech-backend/internal/subscription/errors"
)

func TestFlutterwaveClient_VerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/914/verify", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"data": {
				"tx_ref": "s-1",
				"amount": 49.99,
				"currency": "NGN",
				"payment_type": "card",
				"meta": {"invoice_url": "https://inv.example/914"}
			}
		}`))
	}))
	defer srv.Close()

	client := NewFlutterwaveClient(GatewayConfig{SecretKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
	verified, err := client.VerifyTransaction(context.Background(), 914)

	assert.NoError(t, err)
	assert.Equal(t, "s-1", verified.TxRef)
	assert.Equal(t, 49.99, verified.Amount)
	assert.Equal(t, "card", verified.PaymentType)
	assert.Equal(t, "https://inv.example/914", verified.InvoiceURL)
}

func TestFlutterwaveClient_RejectsNonSuccess(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusNotFound, `{"status":"error"}`},
		{"logical failure", http.StatusOK, `{"status":"error","data":{}}`},
		{"malformed body", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewFlutterwaveClient(GatewayConfig{SecretKey: "sk-test", BaseURL: srv.URL}, zap.NewNop())
			_, err := client.VerifyTransaction(context.Background(), 914)

			assert.ErrorIs(t, err, subscriptionerrors.ErrGatewayVerification)
		})
	}
}
