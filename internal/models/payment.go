package models

// PaymentStatus ödeme yaşam döngüsü: PENDING -> SUCCESS | FAILED.
// SUCCESS ve FAILED son durumlardır.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// CanTransition sadece PENDING durumundan çıkışa izin verir
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	return s == PaymentStatusPending && to.IsTerminal()
}

type CreatePassOrderRequest struct {
	TermsAccepted bool `json:"terms_accepted"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	// Stripe'ta payment_id ve signature boş gelebilir
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type CreateSubjectOrderRequest struct {
	SubjectID uint `json:"subject_id" validate:"required"`
}

type CreatePackageOrderRequest struct {
	PackageID uint `json:"package_id" validate:"required"`
}

type VerifySubjectPaymentRequest struct {
	SubjectID uint `json:"subject_id" validate:"required"`
	VerifyPaymentRequest
}

type VerifyPackagePaymentRequest struct {
	PackageID uint `json:"package_id" validate:"required"`
	VerifyPaymentRequest
}

// CheckoutOrder istemcinin ödeme ekranını açması için gereken bilgiler
type CheckoutOrder struct {
	Provider    string `json:"provider"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id,omitempty"`
	ClientToken string `json:"client_token,omitempty"`
	PassID      uint   `json:"pass_id,omitempty"`
	ItemName    string `json:"item_name"`
	UserEmail   string `json:"user_email"`
	UserName    string `json:"user_name"`
}

type VerifyResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type PaymentsHealth struct {
	Configured bool     `json:"configured"`
	Provider   string   `json:"provider"`
	Missing    []string `json:"missing"`
}
