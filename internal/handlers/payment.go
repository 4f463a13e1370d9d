// internal/handlers/payment.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nhtrieuvy/ecommerce-api/internal/config"
	"github.com/nhtrieuvy/ecommerce-api/internal/i18n"
	"github.com/nhtrieuvy/ecommerce-api/internal/services"
	"github.com/nhtrieuvy/ecommerce-api/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	config         *config.Config
}

func NewPaymentHandler(paymentService *services.PaymentService, config *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		config:         config,
	}
}

// POST /payments/momo/:orderId
func (h *PaymentHandler) CreateMoMoPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	payment, err := h.paymentService.CreateMoMoPayment(orderID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyOrderNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentPending),
		"payment": payment,
	})
}

// GET /payments/momo/return
//
// MoMo redirects the buyer's browser here after the wallet flow. The payload
// is verified and the buyer is bounced back to the frontend with the result.
func (h *PaymentHandler) MoMoReturn(c *gin.Context) {
	cb := momoCallbackFromQuery(c)

	redirect := func(status string) {
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/payment/result?order_id=%s&status=%s",
			h.config.Frontend.BaseURL, cb.OrderID, status))
	}

	if err := h.paymentService.VerifyMoMoCallback(cb); err != nil {
		logrus.WithField("order_id", cb.OrderID).Warn("MoMo return with invalid signature")
		redirect("invalid")
		return
	}

	if cb.ResultCode != 0 {
		redirect("failed")
		return
	}

	// The IPN is the source of truth; the return URL only shows the outcome.
	redirect("success")
}

// POST /payments/momo/ipn
//
// Server-to-server notification from the MoMo gateway. Must answer 204 on
// success per the gateway contract.
func (h *PaymentHandler) MoMoIPN(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var cb services.MoMoCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.paymentService.ProcessMoMoIPN(&cb); err != nil {
		if strings.Contains(err.Error(), "signature") {
			logrus.WithField("order_id", cb.OrderID).Warn("MoMo IPN with invalid signature")
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentInvalidSig), nil)
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyPaymentNotFound))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /payments/stripe/:orderId
func (h *PaymentHandler) CreateStripePayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	intent, err := h.paymentService.CreateStripePayment(orderID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyOrderNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"payment_intent": intent,
	})
}

// POST /payments/stripe/:orderId/confirm
func (h *PaymentHandler) ConfirmStripePayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	if err := h.paymentService.ConfirmStripePayment(orderID, userID); err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyPaymentNotFound))
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentFailed), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentSuccess),
	})
}

// GET /payments/:orderId
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	payment, err := h.paymentService.GetPayment(orderID, userID, currentUserRole(c))
	if err != nil {
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyPaymentNotFound))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"payment": payment,
	})
}

// POST /admin/payments/refund
func (h *PaymentHandler) ProcessRefund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.paymentService.ProcessRefund(&req); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyPaymentNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentRefunded),
	})
}

// momoCallbackFromQuery decodes the redirect query string MoMo appends to
// the return URL.
func momoCallbackFromQuery(c *gin.Context) *services.MoMoCallback {
	cb := &services.MoMoCallback{
		PartnerCode: c.Query("partnerCode"),
		OrderID:     c.Query("orderId"),
		RequestID:   c.Query("requestId"),
		OrderInfo:   c.Query("orderInfo"),
		OrderType:   c.Query("orderType"),
		Message:     c.Query("message"),
		PayType:     c.Query("payType"),
		ExtraData:   c.Query("extraData"),
		Signature:   c.Query("signature"),
	}

	cb.Amount, _ = strconv.ParseInt(c.Query("amount"), 10, 64)
	cb.TransID, _ = strconv.ParseInt(c.Query("transId"), 10, 64)
	cb.ResponseTime, _ = strconv.ParseInt(c.Query("responseTime"), 10, 64)
	if resultCode, err := strconv.Atoi(c.Query("resultCode")); err == nil {
		cb.ResultCode = resultCode
	}

	return cb
}
