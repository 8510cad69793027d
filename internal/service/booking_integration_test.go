//go:build integration

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/seed"
	"github.com/meritrix/meritrix-backend/internal/testutil"
	"github.com/meritrix/meritrix-backend/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgresDB migrate edilmiş ve seed'lenmiş geçici bir PostgreSQL
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("meritrix_test"),
		tcpostgres.WithUsername("meritrix"),
		tcpostgres.WithPassword("meritrix"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dir, err := database.FindMigrationsDir()
	require.NoError(t, err)
	migrator, err := database.NewMigrator(dsn, dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, seed.New(db, zap.NewNop()).Run(ctx))
	return db
}

func TestPostgres_ConcurrentBookingsRespectCreditsAndCapacity(t *testing.T) {
	db := newPostgresDB(t)
	svc := newBookingService(db)

	var product models.PassProduct
	require.NoError(t, db.Where("pass_type = ?", models.PassTypeVedicMaths).First(&product).Error)

	t.Run("credits", func(t *testing.T) {
		user := testutil.CreateUser(t, db, models.RoleStudent)
		pass := testutil.CreatePass(t, db, user.ID, &product, models.PaymentStatusSuccess, 0)

		sessions := make([]*models.LiveSession, 10)
		for i := range sessions {
			sessions[i] = testutil.CreateSession(t, db, models.SessionCategoryVedic, 10, true)
		}

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			ok        int
			exhausted int
		)
		for _, session := range sessions {
			wg.Add(1)
			go func(sessionID uint) {
				defer wg.Done()
				_, err := svc.BookSession(context.Background(), user.ID, sessionID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, ErrCreditsExhausted):
					exhausted++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(session.ID)
		}
		wg.Wait()

		assert.Equal(t, product.TotalCredits, ok)
		assert.Equal(t, len(sessions)-product.TotalCredits, exhausted)
		assert.Equal(t, product.TotalCredits, reloadPass(t, db, pass.ID).UsedCredits)
	})

	t.Run("capacity", func(t *testing.T) {
		session := testutil.CreateSession(t, db, models.SessionCategoryVedic, 3, true)

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			ok   int
			full int
		)
		for i := 0; i < 8; i++ {
			user := testutil.CreateUser(t, db, models.RoleStudent)
			testutil.CreatePass(t, db, user.ID, &product, models.PaymentStatusSuccess, 0)
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				_, err := svc.BookSession(context.Background(), userID, session.ID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, ErrSessionFull):
					full++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(user.ID)
		}
		wg.Wait()

		assert.Equal(t, 3, ok)
		assert.Equal(t, 5, full)

		var active int64
		require.NoError(t, db.Model(&models.LiveBooking{}).
			Where("live_session_id = ? AND status = ?", session.ID, models.BookingStatusConfirmed).
			Count(&active).Error)
		assert.Equal(t, int64(3), active)
	})
}
