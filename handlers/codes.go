package handlers

// Stable machine-readable error kinds surfaced alongside the human
// message, so clients can branch without parsing text.
const (
	CodeSlotConflict        = "SLOT_CONFLICT"
	CodeQuotaExhausted      = "QUOTA_EXHAUSTED"
	CodePackageExpired      = "PACKAGE_EXPIRED"
	CodePackageNotFound     = "PACKAGE_NOT_FOUND"
	CodePaymentNotCompleted = "PAYMENT_NOT_COMPLETED"
	CodeUserMismatch        = "USER_MISMATCH"
	CodeInvalidQuota        = "INVALID_QUOTA"
	CodeProviderUnavailable = "PAYMENT_PROVIDER_UNAVAILABLE"
)
