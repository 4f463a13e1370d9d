// internal/services/payment_service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhtrieuvy/ecommerce-api/internal/config"
	"github.com/nhtrieuvy/ecommerce-api/internal/models"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

func momoTestService(t *testing.T) *PaymentService {
	t.Helper()

	cfg := &config.Config{}
	cfg.Payment.MoMoPartnerCode = "MOMOTEST"
	cfg.Payment.MoMoAccessKey = "access-key"
	cfg.Payment.MoMoSecretKey = "secret-key"

	return NewPaymentService(nil, cfg, nil)
}

func signedCallback(cfg *config.Config, cb *MoMoCallback) *MoMoCallback {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		cfg.Payment.MoMoAccessKey, cb.Amount, cb.ExtraData, cb.Message, cb.OrderID,
		cb.OrderInfo, cb.OrderType, cb.PartnerCode, cb.PayType, cb.RequestID,
		cb.ResponseTime, cb.ResultCode, cb.TransID,
	)
	cb.Signature = utils.SignHMACSHA256(raw, cfg.Payment.MoMoSecretKey)
	return cb
}

func TestVerifyMoMoCallbackAcceptsValidSignature(t *testing.T) {
	svc := momoTestService(t)

	cb := signedCallback(svc.config, &MoMoCallback{
		PartnerCode:  "MOMOTEST",
		OrderID:      "a2f1c9d0-0000-0000-0000-000000000001",
		RequestID:    "req-1",
		Amount:       150000,
		OrderInfo:    "Payment for order",
		OrderType:    "momo_wallet",
		TransID:      2147483648,
		ResultCode:   0,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1700000000000,
	})

	require.NoError(t, svc.VerifyMoMoCallback(cb))
}

func TestVerifyMoMoCallbackRejectsTamperedAmount(t *testing.T) {
	svc := momoTestService(t)

	cb := signedCallback(svc.config, &MoMoCallback{
		PartnerCode: "MOMOTEST",
		OrderID:     "a2f1c9d0-0000-0000-0000-000000000001",
		RequestID:   "req-1",
		Amount:      150000,
		ResultCode:  0,
		Message:     "Successful.",
	})

	cb.Amount = 1

	err := svc.VerifyMoMoCallback(cb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")
}

func TestMoMoAmountMatchRequiresFullSum(t *testing.T) {
	payment := &models.Payment{Amount: 150000}

	tests := []struct {
		name    string
		amount  int64
		matches bool
	}{
		{"full amount", 150000, true},
		{"partial amount", 100000, false},
		{"overpayment", 150001, false},
		{"zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := &MoMoCallback{Amount: tt.amount}
			assert.Equal(t, tt.matches, momoAmountMatches(payment, cb))
		})
	}
}

func TestVerifyMoMoCallbackRejectsWrongSecret(t *testing.T) {
	svc := momoTestService(t)

	cb := &MoMoCallback{
		PartnerCode: "MOMOTEST",
		OrderID:     "a2f1c9d0-0000-0000-0000-000000000001",
		RequestID:   "req-1",
		Amount:      150000,
		ResultCode:  0,
	}
	cb.Signature = utils.SignHMACSHA256("accessKey=access-key", "some-other-secret")

	require.Error(t, svc.VerifyMoMoCallback(cb))
}
