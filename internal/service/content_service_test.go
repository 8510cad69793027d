package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/internal/testutil"
	"github.com/meritrix/meritrix-backend/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type presignStorage struct {
	keys []string
}

func (s *presignStorage) Upload(context.Context, string, string, io.Reader) error { return nil }
func (s *presignStorage) Delete(context.Context, string) error                    { return nil }
func (s *presignStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	s.keys = append(s.keys, key)
	return "https://signed.example.com/" + key, nil
}

func newContentService(db *gorm.DB, store storage.StorageService) *ContentService {
	return NewContentService(
		repository.NewContentRepository(db),
		repository.NewPurchaseRepository(db),
		repository.NewPackageRepository(db),
		store,
		time.Minute,
		zap.NewNop(),
	)
}

func markSubjectPaid(t *testing.T, db *gorm.DB, userID, subjectID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.SubjectPurchase{
		UserID:        userID,
		SubjectID:     subjectID,
		AmountPaid:    4900,
		Currency:      "INR",
		PaymentStatus: models.PaymentStatusSuccess,
		Gateway:       "fake",
		OrderID:       "order_paid_" + t.Name(),
	}).Error)
}

func findWorksheet(tree *models.SubjectTree, id uint) *models.WorksheetNode {
	for _, chapter := range tree.Chapters {
		for i := range chapter.Worksheets {
			if chapter.Worksheets[i].ID == id {
				return &chapter.Worksheets[i]
			}
		}
	}
	return nil
}

func TestSubjectTree_LocksPaidWorksheets(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := newContentService(db, storage.NoopStorage{})
	user := testutil.CreateUser(t, db, models.RoleStudent)
	catalog := testutil.CreateCatalog(t, db, 49)

	tree, err := svc.SubjectTree(ctx, user.ID, catalog.Subject.ID)
	require.NoError(t, err)
	assert.False(t, tree.Subject.HasPurchased)
	assert.Equal(t, catalog.Grade.Name, tree.Subject.GradeName)
	require.Len(t, tree.Chapters, 1)
	assert.Len(t, tree.Chapters[0].Worksheets, 2)
	assert.Nil(t, findWorksheet(tree, catalog.Unlisted.ID))

	free := findWorksheet(tree, catalog.Free.ID)
	require.NotNil(t, free)
	assert.False(t, free.IsLocked)
	assert.Equal(t, catalog.Free.PdfURL, free.PdfURL)

	paid := findWorksheet(tree, catalog.Paid.ID)
	require.NotNil(t, paid)
	assert.True(t, paid.IsLocked)
	assert.Empty(t, paid.PdfURL)

	markSubjectPaid(t, db, user.ID, catalog.Subject.ID)
	tree, err = svc.SubjectTree(ctx, user.ID, catalog.Subject.ID)
	require.NoError(t, err)
	assert.True(t, tree.Subject.HasPurchased)
	assert.False(t, findWorksheet(tree, catalog.Paid.ID).IsLocked)

	_, err = svc.SubjectTree(ctx, user.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubjectTree_PresignsStoredPDFs(t *testing.T) {
	db := testutil.NewDB(t)
	store := &presignStorage{}
	svc := newContentService(db, store)
	user := testutil.CreateUser(t, db, models.RoleStudent)
	catalog := testutil.CreateCatalog(t, db, 49)
	require.NoError(t, db.Model(catalog.Free).Update("pdf_key", "worksheets/free.pdf").Error)

	tree, err := svc.SubjectTree(context.Background(), user.ID, catalog.Subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/worksheets/free.pdf", findWorksheet(tree, catalog.Free.ID).PdfURL)
	assert.Equal(t, []string{"worksheets/free.pdf"}, store.keys)
}

func TestSetCompletion(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := newContentService(db, storage.NoopStorage{})
	user := testutil.CreateUser(t, db, models.RoleStudent)
	catalog := testutil.CreateCatalog(t, db, 49)
	done, undo := true, false

	require.NoError(t, svc.SetCompletion(ctx, user.ID, models.SetCompletionRequest{WorksheetID: catalog.Free.ID, Completed: &done}))
	// Tekrar işaretlemek hata vermez
	require.NoError(t, svc.SetCompletion(ctx, user.ID, models.SetCompletionRequest{WorksheetID: catalog.Free.ID, Completed: &done}))

	err := svc.SetCompletion(ctx, user.ID, models.SetCompletionRequest{WorksheetID: catalog.Paid.ID, Completed: &done})
	assert.ErrorIs(t, err, ErrWorksheetLocked)

	err = svc.SetCompletion(ctx, user.ID, models.SetCompletionRequest{WorksheetID: catalog.Unlisted.ID, Completed: &done})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.SetCompletion(ctx, user.ID, models.SetCompletionRequest{WorksheetID: catalog.Free.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	dashboard, err := svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, dashboard.Subjects, 1)
	assert.Equal(t, 2, dashboard.Subjects[0].Total)
	assert.Equal(t, 1, dashboard.Subjects[0].Completed)
	assert.Equal(t, 50, dashboard.Subjects[0].Percent)
	assert.Equal(t, 50, dashboard.OverallPercent)

	require.NoError(t, svc.SetCompletion(ctx, user.ID, models.SetCompletionRequest{WorksheetID: catalog.Free.ID, Completed: &undo}))
	dashboard, err = svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, dashboard.TotalCompleted)
}

func TestOfferings(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newContentService(db, storage.NoopStorage{})
	catalog := testutil.CreateCatalog(t, db, 49)
	pack := testutil.CreatePackage(t, db, 99, true, catalog.Subject)

	other := testutil.CreateCatalog(t, db, 59)
	testutil.CreatePackage(t, db, 149, true, catalog.Subject, other.Subject)

	offerings, err := svc.Offerings(context.Background())
	require.NoError(t, err)

	var subjects, packs []models.Offering
	for _, o := range offerings {
		switch o.Type {
		case models.OfferingSubject:
			subjects = append(subjects, o)
		case models.OfferingGradePack:
			packs = append(packs, o)
		}
	}
	require.Len(t, subjects, 2)
	assert.Equal(t, int64(79), subjects[0].Mrp)
	assert.Equal(t, int64(49), subjects[0].SalePrice)
	assert.Equal(t, 38, subjects[0].DiscountPercent)

	// İki sınıfa yayılan paket vitrinde gösterilmez
	require.Len(t, packs, 1)
	assert.Equal(t, pack.ID, packs[0].ID)
	assert.True(t, packs[0].IncludesAllSubjects)
	assert.Equal(t, 1, packs[0].SubjectCount)
}
