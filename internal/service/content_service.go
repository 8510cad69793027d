package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/money"
	"github.com/meritrix/meritrix-backend/pkg/storage"
	"go.uber.org/zap"
)

type ContentService struct {
	contentRepo  *repository.ContentRepository
	purchaseRepo *repository.PurchaseRepository
	packageRepo  *repository.PackageRepository
	storage      storage.StorageService
	presignTTL   time.Duration
	logger       *zap.Logger
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	purchaseRepo *repository.PurchaseRepository,
	packageRepo *repository.PackageRepository,
	storageService storage.StorageService,
	presignTTL time.Duration,
	logger *zap.Logger,
) *ContentService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &ContentService{
		contentRepo:  contentRepo,
		purchaseRepo: purchaseRepo,
		packageRepo:  packageRepo,
		storage:      storageService,
		presignTTL:   presignTTL,
		logger:       logger.Named("content"),
	}
}

func (s *ContentService) ListGrades(ctx context.Context) ([]models.Grade, error) {
	return s.contentRepo.ListGrades(ctx)
}

func (s *ContentService) ListSubjects(ctx context.Context, gradeID uint) ([]models.Subject, error) {
	return s.contentRepo.ListSubjects(ctx, gradeID)
}

func (s *ContentService) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	return s.packageRepo.GetActive(ctx)
}

// SubjectTree bölüm ve worksheet ağacı; kilitli worksheet'lerin PDF linki verilmez
func (s *ContentService) SubjectTree(ctx context.Context, userID, subjectID uint) (*models.SubjectTree, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	subject, err := s.contentRepo.GetSubjectTree(ctx, subjectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	purchased, err := s.purchaseRepo.SuccessfulSubjectIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	completed, err := s.contentRepo.CompletedWorksheetIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	hasPurchased := purchased[subject.ID]

	tree := &models.SubjectTree{
		Subject: models.SubjectSummary{
			ID:           subject.ID,
			Name:         subject.Name,
			GradeName:    gradeName(subject),
			Price:        subject.Price,
			HasPurchased: hasPurchased,
		},
		Chapters: make([]models.ChapterNode, 0, len(subject.Chapters)),
	}

	for _, chapter := range subject.Chapters {
		node := models.ChapterNode{
			ID:         chapter.ID,
			Name:       chapter.Name,
			Worksheets: make([]models.WorksheetNode, 0, len(chapter.Worksheets)),
		}
		for _, ws := range chapter.Worksheets {
			locked := !ws.IsFree && !hasPurchased
			item := models.WorksheetNode{
				ID:          ws.ID,
				Title:       ws.Title,
				Tier:        ws.Tier,
				IsFree:      ws.IsFree,
				IsLocked:    locked,
				IsCompleted: completed[ws.ID],
			}
			if !locked {
				item.PdfURL = s.pdfURL(ctx, ws)
			}
			node.Worksheets = append(node.Worksheets, item)
		}
		tree.Chapters = append(tree.Chapters, node)
	}
	return tree, nil
}

// pdfURL depolama yapılandırılmışsa imzalı link, değilse kayıtlı URL
func (s *ContentService) pdfURL(ctx context.Context, ws models.Worksheet) string {
	if ws.PdfKey == "" {
		return ws.PdfURL
	}
	url, err := s.storage.PresignGet(ctx, ws.PdfKey, s.presignTTL)
	if err != nil {
		if !errors.Is(err, storage.ErrNotConfigured) {
			s.logger.Warn("failed to presign worksheet pdf", zap.Uint("worksheet_id", ws.ID), zap.Error(err))
		}
		return ws.PdfURL
	}
	return url
}

func (s *ContentService) SetCompletion(ctx context.Context, userID uint, req models.SetCompletionRequest) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	if req.WorksheetID == 0 || req.Completed == nil {
		return ErrInvalidInput
	}

	ws, err := s.contentRepo.GetWorksheet(ctx, req.WorksheetID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !ws.IsPublished || ws.Chapter == nil {
		return ErrNotFound
	}

	if !ws.IsFree {
		purchased, err := s.purchaseRepo.SuccessfulSubjectIDs(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load purchases: %w", err)
		}
		if !purchased[ws.Chapter.SubjectID] {
			return ErrWorksheetLocked
		}
	}

	if *req.Completed {
		return s.contentRepo.MarkCompleted(ctx, userID, ws.ID)
	}
	return s.contentRepo.UnmarkCompleted(ctx, userID, ws.ID)
}

// Dashboard ders bazında tamamlanma yüzdeleri
func (s *ContentService) Dashboard(ctx context.Context, userID uint) (*models.Dashboard, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	subjects, err := s.contentRepo.ListSubjectsWithWorksheets(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.contentRepo.CompletedWorksheetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{Subjects: make([]models.SubjectProgress, 0, len(subjects))}
	for _, subject := range subjects {
		progress := models.SubjectProgress{
			ID:        subject.ID,
			Name:      subject.Name,
			GradeName: gradeName(&subject),
		}
		for _, chapter := range subject.Chapters {
			for _, ws := range chapter.Worksheets {
				progress.Total++
				if completed[ws.ID] {
					progress.Completed++
				}
			}
		}
		progress.Percent = money.Percent(progress.Completed, progress.Total)
		dashboard.TotalWorksheets += progress.Total
		dashboard.TotalCompleted += progress.Completed
		dashboard.Subjects = append(dashboard.Subjects, progress)
	}
	dashboard.OverallPercent = money.Percent(dashboard.TotalCompleted, dashboard.TotalWorksheets)
	return dashboard, nil
}

// Offerings vitrin: yayınlanmış içeriği olan dersler ve tek sınıfa ait paketler
func (s *ContentService) Offerings(ctx context.Context) ([]models.Offering, error) {
	subjects, err := s.contentRepo.ListSubjectsWithWorksheets(ctx)
	if err != nil {
		return nil, err
	}

	offerings := make([]models.Offering, 0, len(subjects))
	subjectsPerGrade := make(map[uint]int)
	for _, subject := range subjects {
		subjectsPerGrade[subject.GradeID]++
		if publishedCount(subject) == 0 {
			continue
		}
		sale := money.EffectivePrice(subject.Price, subject.SalePrice)
		offerings = append(offerings, models.Offering{
			Type:            models.OfferingSubject,
			ID:              subject.ID,
			Title:           subject.Name,
			GradeName:       gradeName(&subject),
			Mrp:             money.DisplayMrp(subject.Mrp, sale),
			SalePrice:       sale,
			DiscountPercent: money.DiscountPercent(subject.Mrp, sale),
			IsActive:        true,
		})
	}

	packages, err := s.packageRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, pkg := range packages {
		gradeID, grade, ok := singleGrade(pkg.Subjects)
		if !ok {
			continue
		}
		sale := money.EffectivePrice(pkg.Price, pkg.SalePrice)
		offerings = append(offerings, models.Offering{
			Type:                models.OfferingGradePack,
			ID:                  pkg.ID,
			Title:               pkg.Name,
			GradeName:           grade,
			Mrp:                 money.DisplayMrp(pkg.Mrp, sale),
			SalePrice:           sale,
			DiscountPercent:     money.DiscountPercent(pkg.Mrp, sale),
			IncludesAllSubjects: len(pkg.Subjects) >= subjectsPerGrade[gradeID],
			SubjectCount:        len(pkg.Subjects),
			IsActive:            pkg.IsActive,
		})
	}
	return offerings, nil
}

func publishedCount(subject models.Subject) int {
	n := 0
	for _, chapter := range subject.Chapters {
		n += len(chapter.Worksheets)
	}
	return n
}

// singleGrade tüm dersler aynı sınıftaysa o sınıf
func singleGrade(subjects []models.Subject) (uint, string, bool) {
	if len(subjects) == 0 {
		return 0, "", false
	}
	gradeID := subjects[0].GradeID
	for _, subject := range subjects[1:] {
		if subject.GradeID != gradeID {
			return 0, "", false
		}
	}
	return gradeID, gradeName(&subjects[0]), true
}

func gradeName(subject *models.Subject) string {
	if subject.Grade == nil {
		return ""
	}
	return subject.Grade.Name
}
