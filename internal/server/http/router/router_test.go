package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/vendingmachine/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/vendingmachine/internal/test"
	"github.com/polkiloo/vendingmachine/internal/test/facadetest"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := facadetest.VendingFacadeStub{
		OperatorFacadeStub: facadetest.OperatorFacadeStub{
			TokenParserStub: testhelpers.TokenParserStub{Subject: testhelpers.OwnerID},
		},
	}
	return Setup(facade, logger)
}

func TestSetupRoutes(t *testing.T) {
	engine := newTestEngine()
	orderPath := "/v1/operator/machines/" + testhelpers.MachineID + "/orders/6f1c2d3e-4a5b-4c6d-8e7f-000000000100"
	createdAt := "?created_at=" + testhelpers.PurchaseTime.Format(time.RFC3339)
	payBody, _ := json.Marshal(map[string]any{"product_id": testhelpers.ColaID, "payment_type": "CASH", "coins": map[string]int{"coin_100": 2}})
	loginBody, _ := json.Marshal(map[string]string{"email": testhelpers.OwnerEmail, "password": testhelpers.OwnerPassword})
	registerBody, _ := json.Marshal(map[string]string{"full_name": "Nina Newcomer", "email": "nina@example.com", "password": "pw"})

	tests := []struct {
		name   string
		method string
		target string
		body   []byte
		auth   bool
		status int
	}{
		{name: "health", method: http.MethodGet, target: "/healthz", status: http.StatusOK},
		{name: "choose product", method: http.MethodGet, target: "/v1/machine/" + testhelpers.MachineID + "/choose_product/A1", status: http.StatusOK},
		{name: "pay for product", method: http.MethodPost, target: "/v1/machine/" + testhelpers.MachineID + "/pay_for_product", body: payBody, status: http.StatusCreated},
		{name: "register", method: http.MethodPost, target: "/v1/operator/register", body: registerBody, status: http.StatusOK},
		{name: "login", method: http.MethodPost, target: "/v1/operator/login", body: loginBody, status: http.StatusOK},
		{name: "machine requires auth", method: http.MethodGet, target: "/v1/operator/machines/" + testhelpers.MachineID, status: http.StatusUnauthorized},
		{name: "machine", method: http.MethodGet, target: "/v1/operator/machines/" + testhelpers.MachineID, auth: true, status: http.StatusOK},
		{name: "order requires auth", method: http.MethodGet, target: orderPath + createdAt, status: http.StatusUnauthorized},
		{name: "order", method: http.MethodGet, target: orderPath + createdAt, auth: true, status: http.StatusOK},
		{name: "deliver", method: http.MethodPost, target: orderPath + "/deliver" + createdAt, auth: true, status: http.StatusOK},
		{name: "cancel", method: http.MethodPost, target: orderPath + "/cancel" + createdAt, auth: true, status: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, target: "/api/user/orders", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, bytes.NewReader(tt.body))
			if tt.body != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.auth {
				req.Header.Set("Authorization", "Bearer token")
			}
			resp := httptest.NewRecorder()
			engine.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestSetupCompressesResponses(t *testing.T) {
	engine := newTestEngine()
	req := httptest.NewRequest(http.MethodGet, "/v1/machine/"+testhelpers.MachineID+"/choose_product/A1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if got := resp.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected gzip encoded response, got %q", got)
	}
}

var _ handlers.VendingFacade = facadetest.VendingFacadeStub{}
