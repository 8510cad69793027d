package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AdminService panel istatistikleri, kuponlar ve içerik ağacı yönetimi
type AdminService struct {
	userRepo    *repository.UserRepository
	contentRepo *repository.ContentRepository
	packageRepo *repository.PackageRepository
	couponRepo  *repository.CouponRepository
	storage     storage.StorageService
	logger      *zap.Logger
}

func NewAdminService(
	userRepo *repository.UserRepository,
	contentRepo *repository.ContentRepository,
	packageRepo *repository.PackageRepository,
	couponRepo *repository.CouponRepository,
	storageService storage.StorageService,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		contentRepo: contentRepo,
		packageRepo: packageRepo,
		couponRepo:  couponRepo,
		storage:     storageService,
		logger:      logger.Named("admin"),
	}
}

func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.userRepo.Count(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		stats.TotalStudents, err = s.userRepo.Count(gctx, models.RoleStudent)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalWorksheets, err = s.contentRepo.CountPublishedWorksheets(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSubjects, err = s.contentRepo.CountSubjects(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalPackages, err = s.packageRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCoupons, err = s.couponRepo.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &stats, nil
}

// Coupons

func (s *AdminService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.couponRepo.GetAll(ctx)
}

func (s *AdminService) CreateCoupon(ctx context.Context, req models.CouponRequest) (*models.Coupon, error) {
	coupon := &models.Coupon{}
	if err := applyCoupon(coupon, req); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, uniqueOr(err, "coupon code is taken")
	}
	return coupon, nil
}

func (s *AdminService) UpdateCoupon(ctx context.Context, id uint, req models.CouponRequest) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := applyCoupon(coupon, req); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, uniqueOr(err, "coupon code is taken")
	}
	return coupon, nil
}

func (s *AdminService) DeleteCoupon(ctx context.Context, id uint) error {
	return notFound(s.couponRepo.Delete(ctx, id))
}

func applyCoupon(coupon *models.Coupon, req models.CouponRequest) error {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	if req.DiscountPercent < 1 || req.DiscountPercent > 100 {
		return fmt.Errorf("%w: discount must be between 1 and 100", ErrInvalidInput)
	}
	coupon.Code = code
	coupon.DiscountPercent = req.DiscountPercent
	coupon.MaxUses = req.MaxUses
	coupon.MinAmount = req.MinAmount
	coupon.ExpiresAt = req.ExpiresAt
	coupon.IsActive = req.IsActive
	return nil
}

// Grades

func (s *AdminService) CreateGrade(ctx context.Context, req models.GradeRequest) (*models.Grade, error) {
	grade := &models.Grade{Name: strings.TrimSpace(req.Name), SortOrder: req.SortOrder}
	if err := s.contentRepo.CreateGrade(ctx, grade); err != nil {
		return nil, uniqueOr(err, "grade name is taken")
	}
	return grade, nil
}

func (s *AdminService) UpdateGrade(ctx context.Context, id uint, req models.GradeRequest) (*models.Grade, error) {
	grade, err := s.contentRepo.GetGrade(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	grade.Name = strings.TrimSpace(req.Name)
	grade.SortOrder = req.SortOrder
	if err := s.contentRepo.UpdateGrade(ctx, grade); err != nil {
		return nil, uniqueOr(err, "grade name is taken")
	}
	return grade, nil
}

func (s *AdminService) DeleteGrade(ctx context.Context, id uint) error {
	return notFound(s.contentRepo.DeleteGrade(ctx, id))
}

// Subjects

func (s *AdminService) CreateSubject(ctx context.Context, req models.SubjectRequest) (*models.Subject, error) {
	if _, err := s.contentRepo.GetGrade(ctx, req.GradeID); err != nil {
		return nil, notFound(err)
	}
	subject := &models.Subject{}
	applySubject(subject, req)
	if err := s.contentRepo.CreateSubject(ctx, subject); err != nil {
		return nil, uniqueOr(err, "subject slug is taken")
	}
	return subject, nil
}

func (s *AdminService) UpdateSubject(ctx context.Context, id uint, req models.SubjectRequest) (*models.Subject, error) {
	subject, err := s.contentRepo.GetSubject(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	applySubject(subject, req)
	if err := s.contentRepo.UpdateSubject(ctx, subject); err != nil {
		return nil, uniqueOr(err, "subject slug is taken")
	}
	return subject, nil
}

func (s *AdminService) DeleteSubject(ctx context.Context, id uint) error {
	return notFound(s.contentRepo.DeleteSubject(ctx, id))
}

func applySubject(subject *models.Subject, req models.SubjectRequest) {
	subject.GradeID = req.GradeID
	subject.Grade = nil
	subject.Name = strings.TrimSpace(req.Name)
	subject.Slug = strings.TrimSpace(req.Slug)
	subject.Description = req.Description
	subject.Price = req.Price
	subject.Mrp = req.Mrp
	subject.SalePrice = req.SalePrice
	subject.SortOrder = req.SortOrder
}

// Chapters

func (s *AdminService) ListChapters(ctx context.Context, subjectID uint) ([]models.Chapter, error) {
	return s.contentRepo.ListChapters(ctx, subjectID)
}

func (s *AdminService) CreateChapter(ctx context.Context, req models.ChapterRequest) (*models.Chapter, error) {
	if _, err := s.contentRepo.GetSubject(ctx, req.SubjectID); err != nil {
		return nil, notFound(err)
	}
	chapter := &models.Chapter{
		SubjectID: req.SubjectID,
		Name:      strings.TrimSpace(req.Name),
		Slug:      strings.TrimSpace(req.Slug),
		SortOrder: req.SortOrder,
	}
	if err := s.contentRepo.CreateChapter(ctx, chapter); err != nil {
		return nil, uniqueOr(err, "chapter slug is taken")
	}
	return chapter, nil
}

func (s *AdminService) UpdateChapter(ctx context.Context, id uint, req models.ChapterRequest) (*models.Chapter, error) {
	chapter, err := s.contentRepo.GetChapter(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	chapter.SubjectID = req.SubjectID
	chapter.Name = strings.TrimSpace(req.Name)
	chapter.Slug = strings.TrimSpace(req.Slug)
	chapter.SortOrder = req.SortOrder
	if err := s.contentRepo.UpdateChapter(ctx, chapter); err != nil {
		return nil, uniqueOr(err, "chapter slug is taken")
	}
	return chapter, nil
}

func (s *AdminService) DeleteChapter(ctx context.Context, id uint) error {
	return notFound(s.contentRepo.DeleteChapter(ctx, id))
}

// Worksheets

func (s *AdminService) ListWorksheets(ctx context.Context, chapterID uint) ([]models.Worksheet, error) {
	return s.contentRepo.ListWorksheets(ctx, chapterID)
}

func (s *AdminService) CreateWorksheet(ctx context.Context, req models.WorksheetRequest) (*models.Worksheet, error) {
	if _, err := s.contentRepo.GetChapter(ctx, req.ChapterID); err != nil {
		return nil, notFound(err)
	}
	ws := &models.Worksheet{}
	applyWorksheet(ws, req)
	if err := s.contentRepo.CreateWorksheet(ctx, ws); err != nil {
		return nil, uniqueOr(err, "worksheet slug is taken")
	}
	return ws, nil
}

func (s *AdminService) UpdateWorksheet(ctx context.Context, id uint, req models.WorksheetRequest) (*models.Worksheet, error) {
	ws, err := s.contentRepo.GetWorksheet(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	applyWorksheet(ws, req)
	if err := s.contentRepo.UpdateWorksheet(ctx, ws); err != nil {
		return nil, uniqueOr(err, "worksheet slug is taken")
	}
	return ws, nil
}

func (s *AdminService) DeleteWorksheet(ctx context.Context, id uint) error {
	ws, err := s.contentRepo.GetWorksheet(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := s.contentRepo.DeleteWorksheet(ctx, id); err != nil {
		return notFound(err)
	}
	if ws.PdfKey != "" {
		if err := s.storage.Delete(ctx, ws.PdfKey); err != nil {
			s.logger.Warn("failed to delete worksheet pdf", zap.String("key", ws.PdfKey), zap.Error(err))
		}
	}
	return nil
}

// UploadWorksheetPDF dosyayı nesne deposuna yazar ve anahtarı worksheet'e bağlar
func (s *AdminService) UploadWorksheetPDF(ctx context.Context, id uint, filename string, body io.Reader) (*models.Worksheet, error) {
	if !strings.EqualFold(path.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("%w: only PDF files are accepted", ErrInvalidInput)
	}
	ws, err := s.contentRepo.GetWorksheet(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	key := fmt.Sprintf("worksheets/%d/%s.pdf", ws.ID, uuid.NewString())
	if err := s.storage.Upload(ctx, key, "application/pdf", body); err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to upload pdf: %w", err)
	}
	if err := s.contentRepo.SetWorksheetPDF(ctx, ws.ID, key); err != nil {
		return nil, notFound(err)
	}

	if ws.PdfKey != "" {
		if err := s.storage.Delete(ctx, ws.PdfKey); err != nil {
			s.logger.Warn("failed to delete previous pdf", zap.String("key", ws.PdfKey), zap.Error(err))
		}
	}
	ws.PdfKey = key
	s.logger.Info("worksheet pdf uploaded", zap.Uint("worksheet_id", ws.ID), zap.String("key", key))
	return ws, nil
}

func applyWorksheet(ws *models.Worksheet, req models.WorksheetRequest) {
	ws.ChapterID = req.ChapterID
	ws.Chapter = nil
	ws.Title = strings.TrimSpace(req.Title)
	ws.Slug = strings.TrimSpace(req.Slug)
	ws.Description = req.Description
	ws.Tier = req.Tier
	ws.IsFree = req.IsFree
	ws.IsPublished = req.IsPublished
	ws.PdfURL = req.PdfURL
	ws.AnswerURL = req.AnswerURL
	ws.SortOrder = req.SortOrder
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func uniqueOr(err error, msg string) error {
	if repository.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, msg)
	}
	return err
}
