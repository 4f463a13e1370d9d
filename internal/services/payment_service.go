// internal/services/payment_service.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/nhtrieuvy/ecommerce-api/internal/config"
	"github.com/nhtrieuvy/ecommerce-api/internal/models"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type PaymentService struct {
	db                  *gorm.DB
	config              *config.Config
	notificationService *NotificationService
	httpClient          *http.Client
}

// momoCreateRequest is the MoMo v2 gateway create-payment payload.
type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
	Deeplink   string `json:"deeplink"`
	QRCodeURL  string `json:"qrCodeUrl"`
}

// MoMoCallback carries the fields MoMo sends to both the return URL and the
// IPN endpoint.
type MoMoCallback struct {
	PartnerCode  string `json:"partnerCode" form:"partnerCode"`
	OrderID      string `json:"orderId" form:"orderId"`
	RequestID    string `json:"requestId" form:"requestId"`
	Amount       int64  `json:"amount" form:"amount"`
	OrderInfo    string `json:"orderInfo" form:"orderInfo"`
	OrderType    string `json:"orderType" form:"orderType"`
	TransID      int64  `json:"transId" form:"transId"`
	ResultCode   int    `json:"resultCode" form:"resultCode"`
	Message      string `json:"message" form:"message"`
	PayType      string `json:"payType" form:"payType"`
	ResponseTime int64  `json:"responseTime" form:"responseTime"`
	ExtraData    string `json:"extraData" form:"extraData"`
	Signature    string `json:"signature" form:"signature"`
}

type MoMoPaymentResponse struct {
	PayURL    string `json:"pay_url"`
	Deeplink  string `json:"deeplink,omitempty"`
	QRCodeURL string `json:"qr_code_url,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type RefundRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Reason  string    `json:"reason" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, notificationService *NotificationService) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:                  db,
		config:              config,
		notificationService: notificationService,
		httpClient:          &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateMoMoPayment signs and submits a create-payment request to the MoMo
// gateway for a pending order. The buyer is redirected to the returned payUrl.
func (s *PaymentService) CreateMoMoPayment(orderID, userID uuid.UUID) (*MoMoPaymentResponse, error) {
	order, payment, err := s.pendingPayment(orderID, userID, models.PaymentMethodMoMo)
	if err != nil {
		return nil, err
	}

	cfg := s.config.Payment
	requestID := uuid.New().String()
	// MoMo amounts are integral VND
	amount := int64(order.TotalAmount)
	orderInfo := fmt.Sprintf("Payment for order %s", order.ID)

	rawSignature := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		cfg.MoMoAccessKey, amount, "", cfg.MoMoNotifyURL, order.ID, orderInfo,
		cfg.MoMoPartnerCode, cfg.MoMoReturnURL, requestID, "captureWallet",
	)

	req := momoCreateRequest{
		PartnerCode: cfg.MoMoPartnerCode,
		AccessKey:   cfg.MoMoAccessKey,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     order.ID.String(),
		OrderInfo:   orderInfo,
		RedirectURL: cfg.MoMoReturnURL,
		IPNURL:      cfg.MoMoNotifyURL,
		ExtraData:   "",
		RequestType: "captureWallet",
		Lang:        "vi",
		Signature:   utils.SignHMACSHA256(rawSignature, cfg.MoMoSecretKey),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode momo request: %w", err)
	}

	resp, err := s.httpClient.Post(cfg.MoMoEndpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("momo gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	var momoResp momoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&momoResp); err != nil {
		return nil, fmt.Errorf("failed to decode momo response: %w", err)
	}

	if momoResp.ResultCode != 0 {
		return nil, fmt.Errorf("momo rejected payment request: %s", momoResp.Message)
	}

	// Remember the request so the IPN can be matched back
	if err := s.db.Model(payment).Updates(map[string]interface{}{
		"reference": requestID,
		"metadata": models.JSONB{
			"momo_request_id": requestID,
			"pay_url":         momoResp.PayURL,
		},
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment reference: %w", err)
	}

	return &MoMoPaymentResponse{
		PayURL:    momoResp.PayURL,
		Deeplink:  momoResp.Deeplink,
		QRCodeURL: momoResp.QRCodeURL,
	}, nil
}

// VerifyMoMoCallback checks the gateway signature on a return/IPN payload.
func (s *PaymentService) VerifyMoMoCallback(cb *MoMoCallback) error {
	cfg := s.config.Payment

	rawSignature := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		cfg.MoMoAccessKey, cb.Amount, cb.ExtraData, cb.Message, cb.OrderID, cb.OrderInfo,
		cb.OrderType, cb.PartnerCode, cb.PayType, cb.RequestID, cb.ResponseTime,
		cb.ResultCode, cb.TransID,
	)

	if !utils.VerifyHMACSHA256(rawSignature, cfg.MoMoSecretKey, cb.Signature) {
		return errors.New("invalid payment signature")
	}
	return nil
}

// ProcessMoMoIPN applies a verified IPN to the payment and order. Replayed
// notifications for an already-settled payment are ignored.
func (s *PaymentService) ProcessMoMoIPN(cb *MoMoCallback) error {
	if err := s.VerifyMoMoCallback(cb); err != nil {
		return err
	}

	orderID, err := uuid.Parse(cb.OrderID)
	if err != nil {
		return errors.New("order not found")
	}

	var settled *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("payment not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if payment.Status != models.PaymentStatusPending {
			// Already settled, accept the replay silently
			return nil
		}

		now := time.Now()
		if cb.ResultCode == 0 {
			// An authentic notification can still carry the wrong amount
			// (partial capture). Never settle for anything but the full sum.
			if !momoAmountMatches(&payment, cb) {
				return fmt.Errorf("payment amount mismatch: expected %d, got %d",
					int64(payment.Amount), cb.Amount)
			}

			if err := tx.Model(&payment).Updates(map[string]interface{}{
				"status":       models.PaymentStatusCompleted,
				"reference":    fmt.Sprintf("%d", cb.TransID),
				"processed_at": &now,
			}).Error; err != nil {
				return fmt.Errorf("failed to update payment: %w", err)
			}

			var order models.Order
			if err := tx.Preload("Buyer").First(&order, orderID).Error; err != nil {
				return fmt.Errorf("order not found: %w", err)
			}
			if order.Status == models.OrderStatusPending {
				if err := tx.Model(&order).Update("status", models.OrderStatusPaid).Error; err != nil {
					return fmt.Errorf("failed to mark order paid: %w", err)
				}
				order.Status = models.OrderStatusPaid
			}
			order.Payment = &payment
			settled = &order
			return nil
		}

		return tx.Model(&payment).Updates(map[string]interface{}{
			"status":       models.PaymentStatusFailed,
			"fail_reason":  cb.Message,
			"processed_at": &now,
		}).Error
	})
	if err != nil {
		return err
	}

	if settled != nil {
		go func(order models.Order) {
			if err := s.notificationService.SendPaymentReceivedEmail(&order, order.Payment); err != nil {
				logrus.WithError(err).Warn("Failed to send payment received email")
			}
		}(*settled)
	}

	return nil
}

// momoAmountMatches reports whether the notified amount equals the amount
// the payment was created with. MoMo amounts are whole VND.
func momoAmountMatches(payment *models.Payment, cb *MoMoCallback) bool {
	return int64(payment.Amount) == cb.Amount
}

// CreateStripePayment creates a Stripe PaymentIntent for a pending order.
func (s *PaymentService) CreateStripePayment(orderID, userID uuid.UUID) (*PaymentIntentResponse, error) {
	order, payment, err := s.pendingPayment(orderID, userID, models.PaymentMethodStripe)
	if err != nil {
		return nil, err
	}

	// Convert amount to cents for Stripe
	amountInCents := int64(order.TotalAmount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String("usd"),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("buyer_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := s.db.Model(payment).Update("reference", pi.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment reference: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmStripePayment re-checks the intent with Stripe and settles the order.
func (s *PaymentService) ConfirmStripePayment(orderID, userID uuid.UUID) error {
	var payment models.Payment
	if err := s.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("payment not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return errors.New("order not found")
	}
	if order.BuyerID != userID {
		return errors.New("unauthorized to confirm this payment")
	}

	pi, err := paymentintent.Get(payment.Reference, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	now := time.Now()
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&payment).Updates(map[string]interface{}{
				"status":       models.PaymentStatusCompleted,
				"processed_at": &now,
			}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
				Update("status", models.OrderStatusPaid).Error
		})
	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		return errors.New("payment requires additional action")
	default:
		return s.db.Model(&payment).Updates(map[string]interface{}{
			"status":       models.PaymentStatusFailed,
			"fail_reason":  string(pi.Status),
			"processed_at": &now,
		}).Error
	}
}

// ProcessRefund refunds a completed payment. Stripe refunds go through the
// API; MoMo and COD refunds are recorded for manual settlement.
func (s *PaymentService) ProcessRefund(req *RefundRequest) error {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var payment models.Payment
	if err := s.db.Where("order_id = ?", req.OrderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("payment not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if payment.Status != models.PaymentStatusCompleted {
		return errors.New("only completed payments can be refunded")
	}

	if payment.Method == models.PaymentMethodStripe {
		refundAmountCents := int64(payment.Amount * 100)
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(payment.Reference),
			Amount:        stripe.Int64(refundAmountCents),
			Reason:        stripe.String("requested_by_customer"),
		}
		if _, err := refund.New(params); err != nil {
			return fmt.Errorf("failed to process stripe refund: %w", err)
		}
	}

	now := time.Now()
	if err := s.db.Model(&payment).Updates(map[string]interface{}{
		"status":       models.PaymentStatusRefunded,
		"fail_reason":  req.Reason,
		"processed_at": &now,
	}).Error; err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	var order models.Order
	if err := s.db.Preload("Buyer").First(&order, req.OrderID).Error; err == nil {
		go func() {
			if err := s.notificationService.SendRefundEmail(&order, req.Reason); err != nil {
				logrus.WithError(err).Warn("Failed to send refund email")
			}
		}()
	}

	return nil
}

func (s *PaymentService) GetPayment(orderID, userID uuid.UUID, role models.UserRole) (*models.Payment, error) {
	var order models.Order
	if err := s.db.Preload("Store").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if role != models.UserRoleAdmin && order.BuyerID != userID && order.Store.OwnerID != userID {
		return nil, errors.New("unauthorized to view this payment")
	}

	var payment models.Payment
	if err := s.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("payment not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &payment, nil
}

// pendingPayment loads the order and its payment row, checking ownership,
// state, and that the chosen method matches the checkout.
func (s *PaymentService) pendingPayment(orderID, userID uuid.UUID, method models.PaymentMethod) (*models.Order, *models.Payment, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("order not found")
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if order.BuyerID != userID {
		return nil, nil, errors.New("unauthorized to pay for this order")
	}
	if order.Status != models.OrderStatusPending {
		return nil, nil, errors.New("order is not awaiting payment")
	}

	var payment models.Payment
	if err := s.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, nil, errors.New("payment not found")
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, nil, errors.New("payment already processed")
	}
	if payment.Method != method {
		return nil, nil, fmt.Errorf("order was checked out with %s", payment.Method)
	}

	return &order, &payment, nil
}
