package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meritrix/meritrix-backend/internal/metrics"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/email"
	"github.com/meritrix/meritrix-backend/pkg/payment"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type PassService struct {
	passRepo *repository.PassRepository
	userRepo *repository.UserRepository
	gateway  payment.Gateway
	mailer   email.Mailer
	logger   *zap.Logger
}

// NewPassService gateway nil ise sipariş ve doğrulama ErrGatewayUnavailable döner
func NewPassService(
	passRepo *repository.PassRepository,
	userRepo *repository.UserRepository,
	gateway payment.Gateway,
	mailer email.Mailer,
	logger *zap.Logger,
) *PassService {
	return &PassService{
		passRepo: passRepo,
		userRepo: userRepo,
		gateway:  gateway,
		mailer:   mailer,
		logger:   logger.Named("pass"),
	}
}

// CreateOrder pass satın alımı için gateway siparişi açar ve PENDING pass kaydı oluşturur
func (s *PassService) CreateOrder(ctx context.Context, userID uint, passType models.PassType, req models.CreatePassOrderRequest) (*models.CheckoutOrder, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if !req.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}

	product, err := s.passRepo.GetProductByType(ctx, passType)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPassUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pass product: %w", err)
	}
	if !product.IsActive {
		return nil, ErrPassUnavailable
	}

	// Kredisi kalan pass varken yenisi satılmaz
	active, err := s.passRepo.HasActivePass(ctx, userID, passType)
	if err != nil {
		return nil, fmt.Errorf("failed to check active pass: %w", err)
	}
	if active {
		return nil, ErrActivePassExists
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountMinor: product.PriceCents,
		Currency:    product.Currency,
		Receipt:     utils.Receipt("vedic_pass", userID),
		Notes: map[string]string{
			"user_id":    fmt.Sprintf("%d", userID),
			"pass_type":  string(product.PassType),
			"product_id": fmt.Sprintf("%d", product.ID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	now := time.Now()
	pass := &models.SessionPass{
		UserID:          userID,
		PassType:        product.PassType,
		ProductID:       product.ID,
		TotalCredits:    product.TotalCredits,
		UsedCredits:     0,
		Currency:        product.Currency,
		MrpCents:        product.MrpCents,
		PriceCents:      product.PriceCents,
		PaymentStatus:   models.PaymentStatusPending,
		Gateway:         s.gateway.Name(),
		OrderID:         order.ID,
		TermsVersion:    product.TermsVersion,
		TermsAcceptedAt: &now,
	}
	if err := s.passRepo.Create(ctx, pass); err != nil {
		return nil, fmt.Errorf("failed to create pass: %w", err)
	}

	s.logger.Info("pass order created",
		zap.Uint("user_id", userID),
		zap.Uint("pass_id", pass.ID),
		zap.String("order_id", order.ID),
	)

	return &models.CheckoutOrder{
		Provider:    s.gateway.Name(),
		OrderID:     order.ID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		KeyID:       s.gateway.KeyID(),
		ClientToken: order.ClientToken,
		PassID:      pass.ID,
		ItemName:    product.Title,
		UserEmail:   user.Email,
		UserName:    user.Name,
	}, nil
}

// VerifyPayment checkout imzasını doğrular ve pass'i SUCCESS yapar.
// İmza tutmazsa pass PENDING kalır; SUCCESS olan pass için tekrar çağrı başarı döner.
func (s *PassService) VerifyPayment(ctx context.Context, userID uint, req models.VerifyPaymentRequest) (*models.VerifyResult, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if err := checkVerifyRequest(s.gateway, req); err != nil {
		return nil, err
	}

	ok, err := s.gateway.VerifyPayment(ctx, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment: %w", err)
	}
	if !ok {
		metrics.PaymentVerifications.WithLabelValues(metrics.KindPass, "failed").Inc()
		s.logger.Warn("pass signature mismatch", zap.Uint("user_id", userID), zap.String("order_id", req.OrderID))
		return nil, ErrPaymentVerificationFailed
	}

	pass, err := s.passRepo.GetByOrderID(ctx, req.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if pass.UserID != userID {
		return nil, ErrNotFound
	}

	switch pass.PaymentStatus {
	case models.PaymentStatusSuccess:
		return &models.VerifyResult{OK: true, Message: "Already verified."}, nil
	case models.PaymentStatusFailed:
		return nil, ErrInvalidStateTransition
	}

	changed, err := s.passRepo.TransitionStatus(ctx, pass.ID, models.PaymentStatusPending, models.PaymentStatusSuccess, map[string]any{
		"payment_id": req.PaymentID,
		"signature":  req.Signature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate pass: %w", err)
	}
	if !changed {
		// Webhook aynı anda işlemiş olabilir
		current, err := s.passRepo.GetByID(ctx, pass.ID)
		if err != nil {
			return nil, err
		}
		if current.PaymentStatus == models.PaymentStatusSuccess {
			return &models.VerifyResult{OK: true, Message: "Already verified."}, nil
		}
		return nil, ErrInvalidStateTransition
	}

	metrics.PaymentVerifications.WithLabelValues(metrics.KindPass, "success").Inc()
	s.logger.Info("pass activated", zap.Uint("user_id", userID), zap.Uint("pass_id", pass.ID))
	go s.notifyActivated(pass.ID)

	return &models.VerifyResult{OK: true, Message: "Pass activated."}, nil
}

func (s *PassService) notifyActivated(passID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pass, err := s.passRepo.GetByID(ctx, passID)
	if err != nil {
		s.logger.Warn("pass email skipped", zap.Uint("pass_id", passID), zap.Error(err))
		return
	}
	user, err := s.userRepo.GetByID(ctx, pass.UserID)
	if err != nil {
		s.logger.Warn("pass email skipped", zap.Uint("pass_id", passID), zap.Error(err))
		return
	}
	title := string(pass.PassType)
	if product, err := s.passRepo.GetProductByID(ctx, pass.ProductID); err == nil {
		title = product.Title
	}
	if err := s.mailer.SendPassActivated(ctx, user.Email, user.Name, title, pass.TotalCredits); err != nil {
		s.logger.Error("failed to send pass email", zap.Uint("pass_id", passID), zap.Error(err))
	}
}

// Status en son ödenmiş pass'in kredileri, yoksa nil
func (s *PassService) Status(ctx context.Context, userID uint, passType models.PassType) (*models.PassStatus, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	pass, err := s.passRepo.LatestSuccessful(ctx, userID, passType)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.PassStatus{
		TotalCredits: pass.TotalCredits,
		UsedCredits:  pass.UsedCredits,
	}, nil
}

// Product aktif ürün, yoksa nil
func (s *PassService) Product(ctx context.Context, passType models.PassType) (*models.PassProduct, error) {
	product, err := s.passRepo.GetProductByType(ctx, passType)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, nil
	}
	return product, nil
}

func (s *PassService) ListProducts(ctx context.Context) ([]models.PassProduct, error) {
	return s.passRepo.ListProducts(ctx)
}

func (s *PassService) UpdateProduct(ctx context.Context, id uint, req models.UpdatePassProductRequest) (*models.PassProduct, error) {
	fields := map[string]any{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrInvalidInput
		}
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Subtitle != nil {
		fields["subtitle"] = *req.Subtitle
	}
	if req.TotalCredits != nil {
		fields["total_credits"] = *req.TotalCredits
	}
	if req.MrpCents != nil {
		fields["mrp_cents"] = *req.MrpCents
	}
	if req.PriceCents != nil {
		fields["price_cents"] = *req.PriceCents
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.TermsVersion != nil {
		fields["terms_version"] = *req.TermsVersion
	}
	if req.DurationMins != nil {
		fields["duration_mins"] = *req.DurationMins
	}
	if req.Currency != nil {
		fields["currency"] = strings.ToUpper(*req.Currency)
	}

	if len(fields) > 0 {
		err := s.passRepo.UpdateProduct(ctx, id, fields)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update pass product: %w", err)
		}
	}

	product, err := s.passRepo.GetProductByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return product, err
}
