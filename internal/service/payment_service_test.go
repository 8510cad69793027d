package service

import (
	"context"
	"testing"

	"github.com/meritrix/meritrix-backend/internal/config"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/internal/testutil"
	"github.com/meritrix/meritrix-backend/pkg/idempotency"
	"github.com/meritrix/meritrix-backend/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB, gateway payment.Gateway) *PaymentService {
	cfg := &config.Config{Payment: config.PaymentConfig{Provider: "razorpay", Currency: "INR"}}
	return NewPaymentService(
		cfg,
		gateway,
		repository.NewPurchaseRepository(db),
		repository.NewContentRepository(db),
		repository.NewPackageRepository(db),
		repository.NewPassRepository(db),
		repository.NewUserRepository(db),
		newPassService(db, gateway),
		idempotency.NewMemoryStore(),
		zap.NewNop(),
	)
}

func TestSubjectOrderAndVerify(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	gateway := testutil.NewFakeGateway()
	svc := newPaymentService(db, gateway)
	user := testutil.CreateUser(t, db, models.RoleStudent)
	catalog := testutil.CreateCatalog(t, db, 49)

	order, err := svc.CreateSubjectOrder(ctx, user.ID, models.CreateSubjectOrderRequest{SubjectID: catalog.Subject.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(4900), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, catalog.Subject.Name, order.ItemName)

	req := models.VerifySubjectPaymentRequest{
		SubjectID: catalog.Subject.ID,
		VerifyPaymentRequest: models.VerifyPaymentRequest{
			OrderID: order.OrderID, PaymentID: "pay_1", Signature: "bad",
		},
	}
	_, err = svc.VerifySubjectPayment(ctx, user.ID, req)
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)

	req.Signature = testutil.Signature(order.OrderID, "pay_1")
	result, err := svc.VerifySubjectPayment(ctx, user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Payment verified.", result.Message)

	again, err := svc.VerifySubjectPayment(ctx, user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Already verified.", again.Message)

	_, err = svc.CreateSubjectOrder(ctx, user.ID, models.CreateSubjectOrderRequest{SubjectID: catalog.Subject.ID})
	assert.ErrorIs(t, err, ErrAlreadyPurchased)

	other := testutil.CreateUser(t, db, models.RoleStudent)
	_, err = svc.VerifySubjectPayment(ctx, other.ID, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubjectOrder_Rejections(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, models.RoleStudent)
	free := testutil.CreateCatalog(t, db, 0)

	_, err := newPaymentService(db, nil).CreateSubjectOrder(ctx, user.ID, models.CreateSubjectOrderRequest{SubjectID: free.Subject.ID})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	svc := newPaymentService(db, testutil.NewFakeGateway())
	_, err = svc.CreateSubjectOrder(ctx, user.ID, models.CreateSubjectOrderRequest{SubjectID: free.Subject.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateSubjectOrder(ctx, user.ID, models.CreateSubjectOrderRequest{SubjectID: 999})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateSubjectOrder(ctx, 0, models.CreateSubjectOrderRequest{SubjectID: free.Subject.ID})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPackageOrderUnlocksSubjects(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := newPaymentService(db, testutil.NewFakeGateway())
	user := testutil.CreateUser(t, db, models.RoleStudent)
	catalog := testutil.CreateCatalog(t, db, 49)
	pkg := testutil.CreatePackage(t, db, 99, true, catalog.Subject)
	inactive := testutil.CreatePackage(t, db, 99, false, catalog.Subject)

	_, err := svc.CreatePackageOrder(ctx, user.ID, models.CreatePackageOrderRequest{PackageID: inactive.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	order, err := svc.CreatePackageOrder(ctx, user.ID, models.CreatePackageOrderRequest{PackageID: pkg.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(9900), order.Amount)

	_, err = svc.VerifyPackagePayment(ctx, user.ID, models.VerifyPackagePaymentRequest{
		PackageID: pkg.ID,
		VerifyPaymentRequest: models.VerifyPaymentRequest{
			OrderID: order.OrderID, PaymentID: "pay_9", Signature: testutil.Signature(order.OrderID, "pay_9"),
		},
	})
	require.NoError(t, err)

	subjects, err := repository.NewPurchaseRepository(db).SuccessfulSubjectIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, subjects[catalog.Subject.ID])
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid signature", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := newPaymentService(db, testutil.NewFakeGateway())
		err := svc.HandleWebhook(ctx, testutil.WebhookBody("evt_1", "payment.captured", "order_x", "pay_x"), "wrong")
		assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
	})

	t.Run("gateway not configured", func(t *testing.T) {
		db := testutil.NewDB(t)
		err := newPaymentService(db, nil).HandleWebhook(ctx, []byte("{}"), "")
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})

	t.Run("malformed body", func(t *testing.T) {
		db := testutil.NewDB(t)
		gateway := testutil.NewFakeGateway()
		err := newPaymentService(db, gateway).HandleWebhook(ctx, []byte("not json"), gateway.WebhookSecret)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("captured activates pass", func(t *testing.T) {
		db := testutil.NewDB(t)
		gateway := testutil.NewFakeGateway()
		svc := newPaymentService(db, gateway)
		user := testutil.CreateUser(t, db, models.RoleStudent)
		product := testutil.CreateProduct(t, db, 5)
		pass := testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusPending, 0)

		body := testutil.WebhookBody("evt_1", "payment.captured", pass.OrderID, "pay_1")
		require.NoError(t, svc.HandleWebhook(ctx, body, gateway.WebhookSecret))

		var reloaded models.SessionPass
		require.NoError(t, db.First(&reloaded, pass.ID).Error)
		assert.Equal(t, models.PaymentStatusSuccess, reloaded.PaymentStatus)
		require.NotNil(t, reloaded.PaymentID)
		assert.Equal(t, "pay_1", *reloaded.PaymentID)

		// Aynı olay tekrar gelirse durum değişmez
		require.NoError(t, svc.HandleWebhook(ctx, body, gateway.WebhookSecret))
		require.NoError(t, db.First(&reloaded, pass.ID).Error)
		assert.Equal(t, models.PaymentStatusSuccess, reloaded.PaymentStatus)
	})

	t.Run("failed event", func(t *testing.T) {
		db := testutil.NewDB(t)
		gateway := testutil.NewFakeGateway()
		svc := newPaymentService(db, gateway)
		user := testutil.CreateUser(t, db, models.RoleStudent)
		catalog := testutil.CreateCatalog(t, db, 49)

		order, err := svc.CreateSubjectOrder(ctx, user.ID, models.CreateSubjectOrderRequest{SubjectID: catalog.Subject.ID})
		require.NoError(t, err)

		body := testutil.WebhookBody("evt_2", "payment.failed", order.OrderID, "pay_2")
		require.NoError(t, svc.HandleWebhook(ctx, body, gateway.WebhookSecret))

		purchase, err := repository.NewPurchaseRepository(db).FindSubjectPurchase(ctx, user.ID, catalog.Subject.ID, order.OrderID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, purchase.PaymentStatus)

		// FAILED kayıt sonradan gelen captured olayıyla SUCCESS olmaz
		late := testutil.WebhookBody("evt_3", "payment.captured", order.OrderID, "pay_2")
		require.NoError(t, svc.HandleWebhook(ctx, late, gateway.WebhookSecret))
		purchase, err = repository.NewPurchaseRepository(db).FindSubjectPurchase(ctx, user.ID, catalog.Subject.ID, order.OrderID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, purchase.PaymentStatus)
	})

	t.Run("ignored and unknown orders", func(t *testing.T) {
		db := testutil.NewDB(t)
		gateway := testutil.NewFakeGateway()
		svc := newPaymentService(db, gateway)

		assert.NoError(t, svc.HandleWebhook(ctx, testutil.WebhookBody("evt_4", "order.paid", "order_x", ""), gateway.WebhookSecret))
		assert.NoError(t, svc.HandleWebhook(ctx, testutil.WebhookBody("evt_5", "payment.captured", "order_unknown", "pay"), gateway.WebhookSecret))
	})
}

func TestPaymentsHealth(t *testing.T) {
	db := testutil.NewDB(t)

	health := newPaymentService(db, nil).Health()
	assert.False(t, health.Configured)
	assert.Equal(t, "razorpay", health.Provider)
	assert.NotEmpty(t, health.Missing)

	assert.Empty(t, newPaymentService(db, nil).WebhookSignatureHeader())
	assert.Equal(t, "X-Fake-Signature", newPaymentService(db, testutil.NewFakeGateway()).WebhookSignatureHeader())
}
