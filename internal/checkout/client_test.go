package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kartikmehra/shopkart-backend/pkg/config"
	"github.com/kartikmehra/shopkart-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func testPayload() OrderPayload {
	return OrderPayload{
		User: Contact{Name: "Ann", Email: "a@x.com", Address: "Main St", Phone: "555"},
		Products: []LineItem{
			{ProductID: "p1", Name: "Widget", Price: decimal.NewFromInt(100), Quantity: 2},
		},
		TotalAmount:    decimal.NewFromInt(200),
		Status:         enums.OrderStatusPending,
		OrderDate:      time.Now().UTC(),
		PaymentMethod:  enums.PaymentMethodCOD,
		PaymentStatus:  enums.PaymentStatusPending,
		IdempotencyKey: "tok-1",
	}
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(config.CheckoutConfig{APIBaseURL: server.URL, RequestTimeout: 5 * time.Second})
}

func TestSubmitSendsPayloadAndIdempotencyKey(t *testing.T) {
	var gotKey string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/orders/place" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "o1", "totalAmount": 200})
	}))
	defer server.Close()

	placed, err := newTestClient(server).Submit(context.Background(), testPayload())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if placed.ID != "o1" {
		t.Fatalf("unexpected order id %q", placed.ID)
	}
	if gotKey != "tok-1" {
		t.Fatalf("idempotency key not sent: %q", gotKey)
	}
	if gotBody["paymentMethod"] != "cod" || gotBody["status"] != "pending" {
		t.Fatalf("payload fields missing: %v", gotBody)
	}
	if _, ok := gotBody["user"].(map[string]any); !ok {
		t.Fatalf("user block missing: %v", gotBody)
	}
}

func TestSubmitNonJSONResponseIsProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server).Submit(context.Background(), testPayload())
	if !errors.Is(err, ErrInvalidResponseFormat) {
		t.Fatalf("expected ErrInvalidResponseFormat, got %v", err)
	}
}

func TestSubmitServerErrorSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"X"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Submit(context.Background(), testPayload())
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if srvErr.Message != "X" || srvErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected server error %+v", srvErr)
	}
}

func TestSubmitServerErrorWithoutMessageFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Submit(context.Background(), testPayload())
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if srvErr.Message != MsgPlaceOrderFailed {
		t.Fatalf("expected generic fallback, got %q", srvErr.Message)
	}
}
