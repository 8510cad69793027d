package service

import "errors"

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")
)

// Booking
var (
	ErrNoActivePass       = errors.New("no active pass found")
	ErrCreditsExhausted   = errors.New("no credits remaining on your pass")
	ErrSessionUnavailable = errors.New("session is not available")
	ErrSessionFull        = errors.New("session is full")
	ErrAlreadyBooked      = errors.New("you have already booked this session")
)

// Payments
var (
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrGatewayUnavailable        = errors.New("payments are not configured")
	ErrActivePassExists          = errors.New("you already have an active pass")
	ErrTermsNotAccepted          = errors.New("terms must be accepted")
	ErrPassUnavailable           = errors.New("pass is not available")
	ErrAlreadyPurchased          = errors.New("already purchased")
	ErrInvalidStateTransition    = errors.New("payment is not pending")
)

// Live session admin
var (
	ErrMeetingLinkRequired   = errors.New("meeting link is required to activate a session")
	ErrSessionHasBookings    = errors.New("session has bookings and cannot be deleted")
	ErrCapacityBelowBookings = errors.New("capacity cannot be lower than active bookings")
)

// Identity and content
var (
	ErrUserBlocked        = errors.New("account is blocked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIdentifierTaken    = errors.New("an account with this email or phone already exists")
	ErrCaptchaFailed      = errors.New("captcha verification failed")
	ErrWorksheetLocked    = errors.New("worksheet is locked")
)
