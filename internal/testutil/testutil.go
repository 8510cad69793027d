// Package testutil servis ve repository testleri için SQLite veritabanı ve
// sahte ödeme sağlayıcısı.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/payment"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB tek bağlantılı bellek içi SQLite; transaction'lar sırayla çalışır
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

var (
	userSeq  atomic.Int64
	orderSeq atomic.Int64
)

func CreateUser(t testing.TB, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	user := &models.User{
		Name:     fmt.Sprintf("User %d", n),
		Email:    fmt.Sprintf("user%d@example.com", n),
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateProduct(t testing.TB, db *gorm.DB, credits int) *models.PassProduct {
	t.Helper()
	product := &models.PassProduct{
		PassType:        models.PassTypeVedicMaths,
		SessionCategory: models.SessionCategoryVedic,
		Title:           "Vedic Maths",
		TotalCredits:    credits,
		DurationMins:    45,
		Currency:        "INR",
		MrpCents:        249900,
		PriceCents:      199900,
		TermsVersion:    "v1",
		IsActive:        true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// CreatePass verilen durumda ve kullanılmış kredide pass
func CreatePass(t testing.TB, db *gorm.DB, userID uint, product *models.PassProduct, status models.PaymentStatus, used int) *models.SessionPass {
	t.Helper()
	pass := &models.SessionPass{
		UserID:        userID,
		PassType:      product.PassType,
		ProductID:     product.ID,
		TotalCredits:  product.TotalCredits,
		UsedCredits:   used,
		Currency:      product.Currency,
		PriceCents:    product.PriceCents,
		PaymentStatus: status,
		Gateway:       "fake",
		OrderID:       fmt.Sprintf("order_pass_%d_%d", userID, orderSeq.Add(1)),
		TermsVersion:  product.TermsVersion,
	}
	require.NoError(t, db.Create(pass).Error)
	return pass
}

func CreateSession(t testing.TB, db *gorm.DB, category string, maxStudents int, active bool) *models.LiveSession {
	t.Helper()
	session := &models.LiveSession{
		Title:        "Live session",
		Category:     category,
		SessionType:  models.SessionTypeBatch,
		Mode:         models.SessionModeOnline,
		MaxStudents:  maxStudents,
		ScheduledAt:  time.Now().Add(48 * time.Hour),
		DurationMins: 45,
		MeetingLink:  "https://meet.example.com/room",
		IsActive:     active,
	}
	require.NoError(t, db.Create(session).Error)
	return session
}

// FakeGateway imzası "sig_<order>_<payment>" biçimindeyse geçerli sayar
type FakeGateway struct {
	mu     sync.Mutex
	seq    int
	Orders []payment.OrderRequest

	// WebhookSecret webhook imzası olarak beklenen değer
	WebhookSecret string

	// Unsigned Stripe gibi imzasız checkout; ödeme SucceededOrders'daysa geçerli
	Unsigned        bool
	SucceededOrders map[string]bool
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{WebhookSecret: "whsec_test"}
}

func (g *FakeGateway) Name() string            { return "fake" }
func (g *FakeGateway) KeyID() string           { return "key_test" }
func (g *FakeGateway) SignatureHeader() string { return "X-Fake-Signature" }
func (g *FakeGateway) RequiresSignature() bool { return !g.Unsigned }

func (g *FakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.Orders = append(g.Orders, req)
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.seq),
		Amount:   req.AmountMinor,
		Currency: req.Currency,
	}, nil
}

func (g *FakeGateway) VerifyPayment(_ context.Context, orderID, paymentID, signature string) (bool, error) {
	if g.Unsigned {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.SucceededOrders[orderID], nil
	}
	return signature == Signature(orderID, paymentID), nil
}

func (g *FakeGateway) VerifyWebhookSignature(_ []byte, signature string) bool {
	return signature == g.WebhookSecret
}

type fakeEvent struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

func (g *FakeGateway) ParseWebhookEvent(body []byte) (*payment.WebhookEvent, error) {
	var ev fakeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, payment.ErrInvalidEvent
	}
	event := &payment.WebhookEvent{
		ID:        ev.ID,
		RawType:   ev.Type,
		OrderID:   ev.OrderID,
		PaymentID: ev.PaymentID,
		Type:      payment.EventIgnored,
	}
	switch ev.Type {
	case "payment.captured":
		event.Type = payment.EventPaymentSucceeded
	case "payment.failed":
		event.Type = payment.EventPaymentFailed
	}
	return event, nil
}

func Signature(orderID, paymentID string) string {
	return "sig_" + orderID + "_" + paymentID
}

// WebhookBody FakeGateway'in ayrıştırdığı olay gövdesi
func WebhookBody(id, eventType, orderID, paymentID string) []byte {
	body, _ := json.Marshal(fakeEvent{ID: id, Type: eventType, OrderID: orderID, PaymentID: paymentID})
	return body
}

var _ payment.Gateway = (*FakeGateway)(nil)

var slugSeq atomic.Int64

// Catalog tek sınıf, ders ve bölümden oluşan küçük içerik ağacı
type Catalog struct {
	Grade    *models.Grade
	Subject  *models.Subject
	Chapter  *models.Chapter
	Free     *models.Worksheet
	Paid     *models.Worksheet
	Unlisted *models.Worksheet
}

// CreateCatalog bir ücretsiz, bir ücretli ve bir yayınlanmamış worksheet içerir
func CreateCatalog(t testing.TB, db *gorm.DB, price int64) *Catalog {
	t.Helper()
	n := slugSeq.Add(1)

	grade := &models.Grade{Name: fmt.Sprintf("Grade %d", n), SortOrder: int(n)}
	require.NoError(t, db.Create(grade).Error)

	subject := &models.Subject{
		GradeID:   grade.ID,
		Name:      "Mathematics",
		Slug:      fmt.Sprintf("mathematics-%d", n),
		Price:     price,
		Mrp:       price + 30,
		SalePrice: price,
	}
	require.NoError(t, db.Create(subject).Error)

	chapter := &models.Chapter{SubjectID: subject.ID, Name: "Numbers", Slug: fmt.Sprintf("numbers-%d", n), SortOrder: 1}
	require.NoError(t, db.Create(chapter).Error)

	worksheet := func(suffix string, tier models.WorksheetTier, free, published bool, order int) *models.Worksheet {
		ws := &models.Worksheet{
			ChapterID:   chapter.ID,
			Title:       "Worksheet " + suffix,
			Slug:        fmt.Sprintf("numbers-%d-%s", n, suffix),
			Tier:        tier,
			IsFree:      free,
			IsPublished: published,
			PdfURL:      "https://cdn.example.com/" + suffix + ".pdf",
			SortOrder:   order,
		}
		require.NoError(t, db.Create(ws).Error)
		return ws
	}

	return &Catalog{
		Grade:    grade,
		Subject:  subject,
		Chapter:  chapter,
		Free:     worksheet("free", models.TierFoundational, true, true, 1),
		Paid:     worksheet("paid", models.TierMastery, false, true, 2),
		Unlisted: worksheet("draft", models.TierSkillBuilder, false, false, 3),
	}
}

func CreatePackage(t testing.TB, db *gorm.DB, price int64, active bool, subjects ...*models.Subject) *models.Package {
	t.Helper()
	n := slugSeq.Add(1)
	pkg := &models.Package{
		Name:      fmt.Sprintf("Combo %d", n),
		Slug:      fmt.Sprintf("combo-%d", n),
		Price:     price,
		Mrp:       price + 50,
		SalePrice: price,
		IsActive:  active,
	}
	for _, s := range subjects {
		pkg.Subjects = append(pkg.Subjects, *s)
	}
	require.NoError(t, db.Omit("Subjects.*").Create(pkg).Error)
	return pkg
}
