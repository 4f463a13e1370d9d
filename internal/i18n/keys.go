// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordReset      = "auth.password_reset"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"
	KeyAccessDenied       = "user.access_denied"

	// Stores
	KeyStoreCreated      = "store.created"
	KeyStoreUpdated      = "store.updated"
	KeyStoreNotFound     = "store.not_found"
	KeyStoreExists       = "store.exists"
	KeyStoreNotActive    = "store.not_active"
	KeySellerOnly        = "store.seller_only"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"
	KeyReviewCreated     = "product.review_created"

	// Comparison
	KeyComparisonAdded            = "comparison.added"
	KeyComparisonRemoved          = "comparison.removed"
	KeyComparisonCategoryMismatch = "comparison.category_mismatch"
	KeyComparisonNotFound         = "comparison.not_found"

	// Cart
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemUpdated = "cart.item_updated"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartCleared     = "cart.cleared"
	KeyCartEmpty       = "cart.empty"
	KeyCartNotFound    = "cart.not_found"

	// Orders
	KeyOrderCreated   = "order.created"
	KeyOrderUpdated   = "order.updated"
	KeyOrderCancelled = "order.cancelled"
	KeyOrderNotFound  = "order.not_found"

	// Payments
	KeyPaymentSuccess        = "payment.success"
	KeyPaymentFailed         = "payment.failed"
	KeyPaymentPending        = "payment.pending"
	KeyPaymentRefunded       = "payment.refunded"
	KeyPaymentInvalidAmount  = "payment.invalid_amount"
	KeyPaymentNotFound       = "payment.not_found"
	KeyPaymentInvalidSig     = "payment.invalid_signature"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Verification
	KeyVerificationSuccess = "verification.success"
	KeyVerificationFailed  = "verification.failed"
)
