// internal/handlers/payment_test.go
package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhtrieuvy/ecommerce-api/internal/config"
	"github.com/nhtrieuvy/ecommerce-api/internal/services"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

func momoTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Payment.MoMoPartnerCode = "MOMOTEST"
	cfg.Payment.MoMoAccessKey = "access-key"
	cfg.Payment.MoMoSecretKey = "secret-key"
	cfg.Frontend.BaseURL = "http://localhost:3000"
	return cfg
}

func momoReturnURL(cfg *config.Config, orderID string, resultCode int, tamper bool) string {
	q := url.Values{}
	q.Set("partnerCode", "MOMOTEST")
	q.Set("orderId", orderID)
	q.Set("requestId", "req-1")
	q.Set("amount", "150000")
	q.Set("orderInfo", "Payment for order")
	q.Set("orderType", "momo_wallet")
	q.Set("transId", "123456789")
	q.Set("resultCode", fmt.Sprintf("%d", resultCode))
	q.Set("message", "ok")
	q.Set("payType", "qr")
	q.Set("responseTime", "1700000000000")
	q.Set("extraData", "")

	raw := fmt.Sprintf(
		"accessKey=%s&amount=%s&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%s&resultCode=%s&transId=%s",
		cfg.Payment.MoMoAccessKey, q.Get("amount"), q.Get("extraData"), q.Get("message"),
		q.Get("orderId"), q.Get("orderInfo"), q.Get("orderType"), q.Get("partnerCode"),
		q.Get("payType"), q.Get("requestId"), q.Get("responseTime"), q.Get("resultCode"),
		q.Get("transId"),
	)
	signature := utils.SignHMACSHA256(raw, cfg.Payment.MoMoSecretKey)
	if tamper {
		q.Set("amount", "1")
	}
	q.Set("signature", signature)

	return "/payments/momo/return?" + q.Encode()
}

func paymentTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewPaymentHandler(services.NewPaymentService(nil, cfg, nil), cfg)

	r := gin.New()
	r.GET("/payments/momo/return", handler.MoMoReturn)
	return r
}

func TestMoMoReturnRedirectsSuccess(t *testing.T) {
	cfg := momoTestConfig()
	r := paymentTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, momoReturnURL(cfg, "order-1", 0, false), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "http://localhost:3000/payment/result")
	assert.Contains(t, location, "status=success")
	assert.Contains(t, location, "order_id=order-1")
}

func TestMoMoReturnRedirectsFailedResult(t *testing.T) {
	cfg := momoTestConfig()
	r := paymentTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, momoReturnURL(cfg, "order-1", 1006, false), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "status=failed")
}

func TestMoMoReturnRedirectsInvalidSignature(t *testing.T) {
	cfg := momoTestConfig()
	r := paymentTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, momoReturnURL(cfg, "order-1", 0, true), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "status=invalid")
}
