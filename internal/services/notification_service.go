// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nhtrieuvy/ecommerce-api/internal/config"
	"github.com/nhtrieuvy/ecommerce-api/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Authentication notifications
func (s *NotificationService) SendWelcomeEmail(user *models.User, verificationToken string) error {
	template := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":        user.Username,
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken),
		"PlatformName":    "E-Commerce Marketplace",
	}

	subject := "Welcome to E-Commerce Marketplace"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	template := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Username":  user.Username,
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}

	subject := "Password Reset Request"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Order notifications
func (s *NotificationService) SendOrderConfirmationEmail(order *models.Order) error {
	buyer := order.Buyer

	data := map[string]interface{}{
		"BuyerName":       buyer.Username,
		"OrderID":         order.ID,
		"TotalAmount":     order.TotalAmount,
		"ItemCount":       len(order.Items),
		"OrderDetailsURL": fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	subject := fmt.Sprintf("Order Confirmation #%s", order.ID)
	template := s.getEmailTemplate("order_confirmation")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(buyer.Email, subject, body)
}

func (s *NotificationService) SendNewOrderEmail(order *models.Order, seller *models.User) error {
	data := map[string]interface{}{
		"SellerName":  seller.Username,
		"BuyerName":   order.Buyer.Username,
		"OrderID":     order.ID,
		"TotalAmount": order.TotalAmount,
		"OrderURL":    fmt.Sprintf("%s/seller/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	subject := fmt.Sprintf("New Order Received #%s", order.ID)
	template := s.getEmailTemplate("new_order")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(seller.Email, subject, body)
}

func (s *NotificationService) SendOrderStatusEmail(order *models.Order) error {
	buyer := order.Buyer

	data := map[string]interface{}{
		"BuyerName": buyer.Username,
		"OrderID":   order.ID,
		"NewStatus": order.Status,
		"OrderURL":  fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	subject := fmt.Sprintf("Order #%s Status Update", order.ID)
	template := s.getEmailTemplate("order_status")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(buyer.Email, subject, body)
}

// Payment notifications
func (s *NotificationService) SendPaymentReceivedEmail(order *models.Order, payment *models.Payment) error {
	buyer := order.Buyer

	data := map[string]interface{}{
		"BuyerName": buyer.Username,
		"OrderID":   order.ID,
		"Amount":    payment.Amount,
		"Method":    payment.Method,
		"Reference": payment.Reference,
	}

	subject := fmt.Sprintf("Payment Received for Order #%s", order.ID)
	template := s.getEmailTemplate("payment_received")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(buyer.Email, subject, body)
}

func (s *NotificationService) SendRefundEmail(order *models.Order, reason string) error {
	buyer := order.Buyer

	data := map[string]interface{}{
		"BuyerName": buyer.Username,
		"OrderID":   order.ID,
		"Amount":    order.TotalAmount,
		"Reason":    reason,
	}

	subject := fmt.Sprintf("Refund Processed for Order #%s", order.ID)
	template := s.getEmailTemplate("refund_notification")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(buyer.Email, subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to E-Commerce Marketplace",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Thank you for joining {{.PlatformName}}. Please verify your email address by clicking the link below:</p>
	<a href="{{.VerificationURL}}">Verify Email</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"order_confirmation": {
			Subject: "Order Confirmation",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.BuyerName}}!</h2>
	<p>Your order <strong>#{{.OrderID}}</strong> ({{.ItemCount}} item(s)) has been placed.</p>
	<p>Total: {{.TotalAmount}}</p>
	<a href="{{.OrderDetailsURL}}">View Order Details</a>
	<p>Best regards,<br>E-Commerce Marketplace Team</p>
</body>
</html>`,
		},
		// Add more templates as needed...
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
