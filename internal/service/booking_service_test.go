package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/internal/testutil"
	"github.com/meritrix/meritrix-backend/pkg/email"
	"github.com/meritrix/meritrix-backend/pkg/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newBookingService(db *gorm.DB) *BookingService {
	return NewBookingService(
		db,
		repository.NewPassRepository(db),
		repository.NewLiveSessionRepository(db),
		repository.NewLiveBookingRepository(db),
		repository.NewUserRepository(db),
		email.NoopMailer{},
		qrcode.NewQRService(128),
		zap.NewNop(),
	)
}

func reloadPass(t *testing.T, db *gorm.DB, id uint) models.SessionPass {
	t.Helper()
	var pass models.SessionPass
	require.NoError(t, db.First(&pass, id).Error)
	return pass
}

func TestBookSession_ConsumesOneCredit(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newBookingService(db)
	user := testutil.CreateUser(t, db, models.RoleStudent)
	product := testutil.CreateProduct(t, db, 5)
	pass := testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 0)
	session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 3, true)

	result, err := svc.BookSession(context.Background(), user.ID, session.ID)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 1, result.CreditsUsed)
	assert.Equal(t, 5, result.CreditsTotal)

	assert.Equal(t, 1, reloadPass(t, db, pass.ID).UsedCredits)

	var booking models.LiveBooking
	require.NoError(t, db.First(&booking, result.BookingID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, models.PaymentStatusSuccess, booking.PaymentStatus)
	assert.Equal(t, int64(0), booking.AmountPaid)
	require.NotNil(t, booking.PassID)
	assert.Equal(t, pass.ID, *booking.PassID)
	assert.Equal(t, models.BookingTermsVersion, booking.TermsVersion)
}

func TestBookSession_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("no active pass", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := newBookingService(db)
		user := testutil.CreateUser(t, db, models.RoleStudent)
		product := testutil.CreateProduct(t, db, 5)
		testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusPending, 0)
		session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 3, true)

		_, err := svc.BookSession(ctx, user.ID, session.ID)
		assert.ErrorIs(t, err, ErrNoActivePass)
	})

	t.Run("credits exhausted", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := newBookingService(db)
		user := testutil.CreateUser(t, db, models.RoleStudent)
		product := testutil.CreateProduct(t, db, 5)
		pass := testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 5)
		session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 3, true)

		_, err := svc.BookSession(ctx, user.ID, session.ID)
		assert.ErrorIs(t, err, ErrCreditsExhausted)
		assert.Equal(t, 5, reloadPass(t, db, pass.ID).UsedCredits)

		var count int64
		db.Model(&models.LiveBooking{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("inactive session", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := newBookingService(db)
		user := testutil.CreateUser(t, db, models.RoleStudent)
		product := testutil.CreateProduct(t, db, 5)
		testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 0)
		session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 3, false)

		_, err := svc.BookSession(ctx, user.ID, session.ID)
		assert.ErrorIs(t, err, ErrSessionUnavailable)
	})

	t.Run("wrong category", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := newBookingService(db)
		user := testutil.CreateUser(t, db, models.RoleStudent)
		product := testutil.CreateProduct(t, db, 5)
		testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 0)
		session := testutil.CreateSession(t, db, models.SessionCategoryGeneral, 3, true)

		_, err := svc.BookSession(ctx, user.ID, session.ID)
		assert.ErrorIs(t, err, ErrSessionUnavailable)
	})

	t.Run("missing session", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := newBookingService(db)
		user := testutil.CreateUser(t, db, models.RoleStudent)
		product := testutil.CreateProduct(t, db, 5)
		testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 0)

		_, err := svc.BookSession(ctx, user.ID, 999)
		assert.ErrorIs(t, err, ErrSessionUnavailable)
	})

	t.Run("session full", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := newBookingService(db)
		product := testutil.CreateProduct(t, db, 5)
		session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 1, true)

		first := testutil.CreateUser(t, db, models.RoleStudent)
		testutil.CreatePass(t, db, first.ID, product, models.PaymentStatusSuccess, 0)
		_, err := svc.BookSession(ctx, first.ID, session.ID)
		require.NoError(t, err)

		second := testutil.CreateUser(t, db, models.RoleStudent)
		pass := testutil.CreatePass(t, db, second.ID, product, models.PaymentStatusSuccess, 0)
		_, err = svc.BookSession(ctx, second.ID, session.ID)
		assert.ErrorIs(t, err, ErrSessionFull)
		assert.Zero(t, reloadPass(t, db, pass.ID).UsedCredits)
	})

	t.Run("already booked", func(t *testing.T) {
		db := testutil.NewDB(t)
		svc := newBookingService(db)
		user := testutil.CreateUser(t, db, models.RoleStudent)
		product := testutil.CreateProduct(t, db, 5)
		pass := testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 0)
		session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 3, true)

		_, err := svc.BookSession(ctx, user.ID, session.ID)
		require.NoError(t, err)
		_, err = svc.BookSession(ctx, user.ID, session.ID)
		assert.ErrorIs(t, err, ErrAlreadyBooked)
		assert.Equal(t, 1, reloadPass(t, db, pass.ID).UsedCredits)
	})

	t.Run("anonymous", func(t *testing.T) {
		db := testutil.NewDB(t)
		_, err := newBookingService(db).BookSession(ctx, 0, 1)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestBookSession_UsesLatestSuccessfulPass(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newBookingService(db)
	user := testutil.CreateUser(t, db, models.RoleStudent)
	product := testutil.CreateProduct(t, db, 5)
	old := testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 5)
	latest := testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 2)
	session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 3, true)

	result, err := svc.BookSession(context.Background(), user.ID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.CreditsUsed)
	assert.Equal(t, 3, reloadPass(t, db, latest.ID).UsedCredits)
	assert.Equal(t, 5, reloadPass(t, db, old.ID).UsedCredits)
}

func TestBookSession_ConcurrentCreditsNeverOverspend(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newBookingService(db)
	user := testutil.CreateUser(t, db, models.RoleStudent)
	product := testutil.CreateProduct(t, db, 5)
	pass := testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 0)

	const attempts = 10
	sessions := make([]*models.LiveSession, attempts)
	for i := range sessions {
		sessions[i] = testutil.CreateSession(t, db, models.SessionCategoryVedic, 5, true)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		exhausted int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(sessionID uint) {
			defer wg.Done()
			_, err := svc.BookSession(context.Background(), user.ID, sessionID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrCreditsExhausted):
				exhausted++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(sessions[i].ID)
	}
	wg.Wait()

	assert.Equal(t, 5, successes)
	assert.Equal(t, 5, exhausted)
	assert.Equal(t, 5, reloadPass(t, db, pass.ID).UsedCredits)

	var bookings int64
	db.Model(&models.LiveBooking{}).Where("pass_id = ?", pass.ID).Count(&bookings)
	assert.Equal(t, int64(5), bookings)
}

func TestBookSession_ConcurrentCapacityNeverExceeded(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newBookingService(db)
	product := testutil.CreateProduct(t, db, 5)
	session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 3, true)

	const students = 10
	users := make([]*models.User, students)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, models.RoleStudent)
		testutil.CreatePass(t, db, users[i].ID, product, models.PaymentStatusSuccess, 0)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		full      int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.BookSession(context.Background(), userID, session.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSessionFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 3, successes)
	assert.Equal(t, 7, full)

	var booked int64
	db.Model(&models.LiveBooking{}).Where("live_session_id = ?", session.ID).Count(&booked)
	assert.Equal(t, int64(3), booked)

	var spent int64
	db.Model(&models.SessionPass{}).Select("COALESCE(SUM(used_credits), 0)").Scan(&spent)
	assert.Equal(t, int64(3), spent)
}

func TestListBookableSessions(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newBookingService(db)
	ctx := context.Background()
	product := testutil.CreateProduct(t, db, 5)

	open := testutil.CreateSession(t, db, models.SessionCategoryVedic, 2, true)
	testutil.CreateSession(t, db, models.SessionCategoryVedic, 2, false)
	testutil.CreateSession(t, db, models.SessionCategoryGeneral, 2, true)

	user := testutil.CreateUser(t, db, models.RoleStudent)
	testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 0)
	_, err := svc.BookSession(ctx, user.ID, open.ID)
	require.NoError(t, err)

	catalog, err := svc.ListBookableSessions(ctx, models.SessionCategoryVedic, true)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, open.ID, catalog[0].ID)
	assert.Equal(t, 1, catalog[0].BookedCount)
	assert.Equal(t, 1, catalog[0].SpotsLeft)

	all, err := svc.ListBookableSessions(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListBookableSessions_OrderAndUpcomingFilter(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newBookingService(db)
	ctx := context.Background()
	now := time.Now()

	schedule := func(offset time.Duration) uint {
		session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 4, true)
		require.NoError(t, db.Model(&models.LiveSession{}).
			Where("id = ?", session.ID).
			Update("scheduled_at", now.Add(offset)).Error)
		return session.ID
	}
	later := schedule(72 * time.Hour)
	past := schedule(-24 * time.Hour)
	soon := schedule(24 * time.Hour)

	ids := func(catalog []models.BookableSession) []uint {
		out := make([]uint, 0, len(catalog))
		for _, session := range catalog {
			out = append(out, session.ID)
		}
		return out
	}

	upcoming, err := svc.ListBookableSessions(ctx, models.SessionCategoryVedic, true)
	require.NoError(t, err)
	assert.Equal(t, []uint{soon, later}, ids(upcoming))

	all, err := svc.ListBookableSessions(ctx, models.SessionCategoryVedic, false)
	require.NoError(t, err)
	assert.Equal(t, []uint{past, soon, later}, ids(all))
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].ScheduledAt.Before(all[i-1].ScheduledAt))
	}
	for _, session := range all {
		assert.Equal(t, 4, session.SpotsLeft)
	}
}

func TestBookingQRCode(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newBookingService(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, models.RoleStudent)
	product := testutil.CreateProduct(t, db, 5)
	testutil.CreatePass(t, db, user.ID, product, models.PaymentStatusSuccess, 0)
	session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 2, true)

	result, err := svc.BookSession(ctx, user.ID, session.ID)
	require.NoError(t, err)

	png, err := svc.BookingQRCode(ctx, user.ID, result.BookingID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	other := testutil.CreateUser(t, db, models.RoleStudent)
	_, err = svc.BookingQRCode(ctx, other.ID, result.BookingID)
	assert.ErrorIs(t, err, ErrNotFound)

	bookings, err := svc.MyBookings(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, session.ID, bookings[0].LiveSessionID)
}
