package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meritrix/meritrix-backend/internal/config"
	"github.com/meritrix/meritrix-backend/internal/metrics"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/idempotency"
	"github.com/meritrix/meritrix-backend/pkg/money"
	"github.com/meritrix/meritrix-backend/pkg/payment"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

// Webhook olay id'leri bu süre boyunca tekrar işlenmez
const webhookDedupeTTL = 72 * time.Hour

// PaymentService ders ve paket satın alımları ile gateway webhook'ları
type PaymentService struct {
	cfg          *config.Config
	gateway      payment.Gateway
	purchaseRepo *repository.PurchaseRepository
	contentRepo  *repository.ContentRepository
	packageRepo  *repository.PackageRepository
	passRepo     *repository.PassRepository
	userRepo     *repository.UserRepository
	passService  *PassService
	store        idempotency.Store
	logger       *zap.Logger
}

func NewPaymentService(
	cfg *config.Config,
	gateway payment.Gateway,
	purchaseRepo *repository.PurchaseRepository,
	contentRepo *repository.ContentRepository,
	packageRepo *repository.PackageRepository,
	passRepo *repository.PassRepository,
	userRepo *repository.UserRepository,
	passService *PassService,
	store idempotency.Store,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		cfg:          cfg,
		gateway:      gateway,
		purchaseRepo: purchaseRepo,
		contentRepo:  contentRepo,
		packageRepo:  packageRepo,
		passRepo:     passRepo,
		userRepo:     userRepo,
		passService:  passService,
		store:        store,
		logger:       logger.Named("payment"),
	}
}

// Health seçili sağlayıcının yapılandırma durumu
func (s *PaymentService) Health() models.PaymentsHealth {
	configured, missing := s.cfg.PaymentsConfigured()
	if missing == nil {
		missing = []string{}
	}
	return models.PaymentsHealth{
		Configured: configured && s.gateway != nil,
		Provider:   s.cfg.Payment.Provider,
		Missing:    missing,
	}
}

// WebhookSignatureHeader imzanın okunacağı başlık; gateway yoksa boş
func (s *PaymentService) WebhookSignatureHeader() string {
	if s.gateway == nil {
		return ""
	}
	return s.gateway.SignatureHeader()
}

func (s *PaymentService) CreateSubjectOrder(ctx context.Context, userID uint, req models.CreateSubjectOrderRequest) (*models.CheckoutOrder, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	if req.SubjectID == 0 {
		return nil, ErrInvalidInput
	}

	purchased, err := s.purchaseRepo.HasSuccessfulSubject(ctx, userID, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if purchased {
		return nil, ErrAlreadyPurchased
	}

	subject, err := s.contentRepo.GetSubject(ctx, req.SubjectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if subject.Price <= 0 {
		return nil, fmt.Errorf("%w: subject is free", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	amount := money.ToMinorUnits(subject.Price)
	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountMinor: amount,
		Currency:    s.cfg.Payment.Currency,
		Receipt:     utils.Receipt("sub", subject.ID, userID),
		Notes: map[string]string{
			"user_id":    fmt.Sprintf("%d", userID),
			"subject_id": fmt.Sprintf("%d", subject.ID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	purchase := &models.SubjectPurchase{
		UserID:     userID,
		SubjectID:  subject.ID,
		AmountPaid: amount,
		Currency:   order.Currency,
		Gateway:    s.gateway.Name(),
		PaymentRef: order.ID,
		OrderID:    order.ID,
	}
	if err := s.purchaseRepo.UpsertSubjectPending(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	return &models.CheckoutOrder{
		Provider:    s.gateway.Name(),
		OrderID:     order.ID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		KeyID:       s.gateway.KeyID(),
		ClientToken: order.ClientToken,
		ItemName:    subject.Name,
		UserEmail:   user.Email,
		UserName:    user.Name,
	}, nil
}

func (s *PaymentService) CreatePackageOrder(ctx context.Context, userID uint, req models.CreatePackageOrderRequest) (*models.CheckoutOrder, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	if req.PackageID == 0 {
		return nil, ErrInvalidInput
	}

	purchased, err := s.purchaseRepo.HasSuccessfulPackage(ctx, userID, req.PackageID)
	if err != nil {
		return nil, err
	}
	if purchased {
		return nil, ErrAlreadyPurchased
	}

	pkg, err := s.packageRepo.GetByID(ctx, req.PackageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, fmt.Errorf("%w: package is not active", ErrInvalidInput)
	}
	if pkg.Price <= 0 {
		return nil, fmt.Errorf("%w: package has no price", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	amount := money.ToMinorUnits(pkg.Price)
	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountMinor: amount,
		Currency:    s.cfg.Payment.Currency,
		Receipt:     utils.Receipt("pkg", pkg.ID, userID),
		Notes: map[string]string{
			"user_id":    fmt.Sprintf("%d", userID),
			"package_id": fmt.Sprintf("%d", pkg.ID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	purchase := &models.PackagePurchase{
		UserID:     userID,
		PackageID:  pkg.ID,
		AmountPaid: amount,
		Currency:   order.Currency,
		Gateway:    s.gateway.Name(),
		PaymentRef: order.ID,
		OrderID:    order.ID,
	}
	if err := s.purchaseRepo.UpsertPackagePending(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	return &models.CheckoutOrder{
		Provider:    s.gateway.Name(),
		OrderID:     order.ID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		KeyID:       s.gateway.KeyID(),
		ClientToken: order.ClientToken,
		ItemName:    pkg.Name,
		UserEmail:   user.Email,
		UserName:    user.Name,
	}, nil
}

func (s *PaymentService) VerifySubjectPayment(ctx context.Context, userID uint, req models.VerifySubjectPaymentRequest) (*models.VerifyResult, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	purchase, err := s.purchaseRepo.FindSubjectPurchase(ctx, userID, req.SubjectID, req.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.verifyPurchase(ctx, metrics.KindSubject, purchase.PaymentStatus, req.VerifyPaymentRequest,
		func(fields map[string]any) (bool, error) {
			return s.purchaseRepo.TransitionSubject(ctx, purchase.ID, models.PaymentStatusPending, models.PaymentStatusSuccess, fields)
		},
		func() (models.PaymentStatus, error) {
			current, err := s.purchaseRepo.FindSubjectPurchase(ctx, userID, req.SubjectID, req.OrderID)
			if err != nil {
				return "", err
			}
			return current.PaymentStatus, nil
		})
}

func (s *PaymentService) VerifyPackagePayment(ctx context.Context, userID uint, req models.VerifyPackagePaymentRequest) (*models.VerifyResult, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}

	purchase, err := s.purchaseRepo.FindPackagePurchase(ctx, userID, req.PackageID, req.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.verifyPurchase(ctx, metrics.KindPackage, purchase.PaymentStatus, req.VerifyPaymentRequest,
		func(fields map[string]any) (bool, error) {
			return s.purchaseRepo.TransitionPackage(ctx, purchase.ID, models.PaymentStatusPending, models.PaymentStatusSuccess, fields)
		},
		func() (models.PaymentStatus, error) {
			current, err := s.purchaseRepo.FindPackagePurchase(ctx, userID, req.PackageID, req.OrderID)
			if err != nil {
				return "", err
			}
			return current.PaymentStatus, nil
		})
}

// verifyPurchase PENDING -> SUCCESS geçişi; imza tutmazsa kayıt PENDING kalır
func (s *PaymentService) verifyPurchase(
	ctx context.Context,
	kind string,
	status models.PaymentStatus,
	req models.VerifyPaymentRequest,
	apply func(fields map[string]any) (bool, error),
	reload func() (models.PaymentStatus, error),
) (*models.VerifyResult, error) {
	if err := checkVerifyRequest(s.gateway, req); err != nil {
		return nil, err
	}
	switch status {
	case models.PaymentStatusSuccess:
		return &models.VerifyResult{OK: true, Message: "Already verified."}, nil
	case models.PaymentStatusFailed:
		return nil, ErrInvalidStateTransition
	}

	ok, err := s.gateway.VerifyPayment(ctx, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}
	if !ok {
		metrics.PaymentVerifications.WithLabelValues(kind, "failed").Inc()
		s.logger.Warn("signature mismatch", zap.String("kind", kind), zap.String("order_id", req.OrderID))
		return nil, ErrPaymentVerificationFailed
	}

	changed, err := apply(map[string]any{
		"payment_id": req.PaymentID,
		"signature":  req.Signature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark purchase paid: %w", err)
	}
	if !changed {
		// Webhook arada işlemiş olabilir
		current, err := reload()
		if err != nil {
			return nil, err
		}
		if current == models.PaymentStatusSuccess {
			return &models.VerifyResult{OK: true, Message: "Already verified."}, nil
		}
		return nil, ErrInvalidStateTransition
	}

	metrics.PaymentVerifications.WithLabelValues(kind, "success").Inc()
	s.logger.Info("purchase verified", zap.String("kind", kind), zap.String("order_id", req.OrderID))
	return &models.VerifyResult{OK: true, Message: "Payment verified."}, nil
}

// HandleWebhook gateway bildirimini doğrular ve ilgili kaydı son durumuna taşır.
// İmza ve ayrıştırma hataları dışında hatalar loglanır ve olay kabul edilir.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.gateway == nil {
		return ErrGatewayUnavailable
	}
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		metrics.WebhookEvents.WithLabelValues("unknown", "invalid_signature").Inc()
		return ErrPaymentVerificationFailed
	}

	event, err := s.gateway.ParseWebhookEvent(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if event.Type == payment.EventIgnored || event.OrderID == "" {
		metrics.WebhookEvents.WithLabelValues(event.RawType, "ignored").Inc()
		return nil
	}

	key := s.gateway.Name() + ":" + event.ID
	if event.ID != "" {
		first, err := s.store.MarkProcessed(ctx, key, webhookDedupeTTL)
		if err != nil {
			s.logger.Warn("idempotency store unavailable", zap.Error(err))
		} else if !first {
			metrics.WebhookEvents.WithLabelValues(event.RawType, "duplicate").Inc()
			return nil
		}
	}

	if err := s.applyEvent(ctx, event); err != nil {
		metrics.WebhookEvents.WithLabelValues(event.RawType, "error").Inc()
		s.logger.Error("webhook processing failed",
			zap.String("event", event.RawType),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		if event.ID != "" {
			if err := s.store.Release(ctx, key); err != nil {
				s.logger.Warn("failed to release webhook key", zap.Error(err))
			}
		}
		return nil
	}

	metrics.WebhookEvents.WithLabelValues(event.RawType, "processed").Inc()
	return nil
}

func (s *PaymentService) applyEvent(ctx context.Context, event *payment.WebhookEvent) error {
	to := models.PaymentStatusSuccess
	if event.Type == payment.EventPaymentFailed {
		to = models.PaymentStatusFailed
	}
	fields := map[string]any{}
	if event.PaymentID != "" {
		fields["payment_id"] = event.PaymentID
	}

	changed, err := s.purchaseRepo.TransitionSubjectByOrder(ctx, event.OrderID, models.PaymentStatusPending, to, fields)
	if err != nil {
		return fmt.Errorf("subject purchase: %w", err)
	}
	if changed {
		s.logger.Info("subject purchase updated by webhook", zap.String("order_id", event.OrderID), zap.String("status", string(to)))
		return nil
	}

	changed, err = s.purchaseRepo.TransitionPackageByOrder(ctx, event.OrderID, models.PaymentStatusPending, to, fields)
	if err != nil {
		return fmt.Errorf("package purchase: %w", err)
	}
	if changed {
		s.logger.Info("package purchase updated by webhook", zap.String("order_id", event.OrderID), zap.String("status", string(to)))
		return nil
	}

	changed, err = s.passRepo.TransitionByOrderID(ctx, event.OrderID, models.PaymentStatusPending, to, fields)
	if err != nil {
		return fmt.Errorf("session pass: %w", err)
	}
	if changed {
		s.logger.Info("session pass updated by webhook", zap.String("order_id", event.OrderID), zap.String("status", string(to)))
		if to == models.PaymentStatusSuccess && s.passService != nil {
			if pass, err := s.passRepo.GetByOrderID(ctx, event.OrderID); err == nil {
				go s.passService.notifyActivated(pass.ID)
			}
		}
	}
	return nil
}

// checkVerifyRequest imza isteyen gateway'lerde payment id ve imza zorunlu
func checkVerifyRequest(gateway payment.Gateway, req models.VerifyPaymentRequest) error {
	if req.OrderID == "" {
		return fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	if gateway.RequiresSignature() && (req.PaymentID == "" || req.Signature == "") {
		return fmt.Errorf("%w: payment id and signature are required", ErrInvalidInput)
	}
	return nil
}
