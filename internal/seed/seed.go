// Package seed geliştirme ve demo ortamları için başlangıç kataloğunu yükler.
// Tüm adımlar slug/isim üzerinden upsert yapar, tekrar çalıştırmak güvenlidir.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type subjectSeed struct {
	name      string
	slugBase  string
	mrp       int64
	salePrice int64
}

type comboSeed struct {
	grade     string
	slug      string
	mrp       int64
	salePrice int64
}

var (
	gradeOrders = []int{6, 7, 8}

	subjectSeeds = []subjectSeed{
		{name: "Mathematics", slugBase: "math", mrp: 79, salePrice: 49},
		{name: "Science", slugBase: "science", mrp: 69, salePrice: 39},
		{name: "English", slugBase: "english", mrp: 59, salePrice: 34},
	}

	comboSeeds = []comboSeed{
		{grade: "Grade 6", slug: "grade-6-combo", mrp: 149, salePrice: 99},
		{grade: "Grade 7", slug: "grade-7-combo", mrp: 159, salePrice: 109},
		{grade: "Grade 8", slug: "grade-8-combo", mrp: 169, salePrice: 119},
	}
)

const (
	chaptersPerSubject = 3
	worksheetsPerTier  = 2
)

// VedicPassProduct seed edilen varsayılan pass ürünü
func VedicPassProduct() *models.PassProduct {
	return &models.PassProduct{
		PassType:        models.PassTypeVedicMaths,
		SessionCategory: models.SessionCategoryVedic,
		Title:           "Vedic Maths - 5 Live Sessions",
		Subtitle:        "Five 1:1 live sessions with a Vedic Maths mentor",
		TotalCredits:    5,
		DurationMins:    45,
		Currency:        "INR",
		MrpCents:        249900,
		PriceCents:      199900,
		TermsVersion:    "v1",
		IsActive:        true,
	}
}

type Seeder struct {
	content  *repository.ContentRepository
	packages *repository.PackageRepository
	passes   *repository.PassRepository
	logger   *zap.Logger
}

func New(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		content:  repository.NewContentRepository(db),
		packages: repository.NewPackageRepository(db),
		passes:   repository.NewPassRepository(db),
		logger:   logger.Named("seed"),
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	gradeSubjects := make(map[string][]models.Subject)

	for _, order := range gradeOrders {
		grade := &models.Grade{Name: fmt.Sprintf("Grade %d", order), SortOrder: order}
		if err := s.content.UpsertGrade(ctx, grade); err != nil {
			return fmt.Errorf("seed grade %s: %w", grade.Name, err)
		}

		for i, seed := range subjectSeeds {
			subject := &models.Subject{
				GradeID:   grade.ID,
				Name:      seed.name,
				Slug:      fmt.Sprintf("%s-%d", seed.slugBase, order),
				Price:     seed.salePrice,
				Mrp:       seed.mrp,
				SalePrice: seed.salePrice,
				SortOrder: i,
			}
			if err := s.content.UpsertSubject(ctx, subject); err != nil {
				return fmt.Errorf("seed subject %s: %w", subject.Slug, err)
			}
			if err := s.seedChapters(ctx, subject); err != nil {
				return err
			}
			gradeSubjects[grade.Name] = append(gradeSubjects[grade.Name], *subject)
		}
	}

	for _, combo := range comboSeeds {
		if err := s.seedCombo(ctx, combo, gradeSubjects[combo.grade]); err != nil {
			return err
		}
	}

	if err := s.passes.UpsertProduct(ctx, VedicPassProduct()); err != nil {
		return fmt.Errorf("seed pass product: %w", err)
	}

	s.logger.Info("seed complete",
		zap.Int("grades", len(gradeOrders)),
		zap.Int("subjects", len(gradeOrders)*len(subjectSeeds)),
		zap.Int("packages", len(comboSeeds)),
	)
	return nil
}

func (s *Seeder) seedChapters(ctx context.Context, subject *models.Subject) error {
	for n := 1; n <= chaptersPerSubject; n++ {
		chapter := &models.Chapter{
			SubjectID: subject.ID,
			Name:      fmt.Sprintf("Chapter %d", n),
			Slug:      fmt.Sprintf("%s-ch%d", subject.Slug, n),
			SortOrder: n,
		}
		if err := s.content.UpsertChapter(ctx, chapter); err != nil {
			return fmt.Errorf("seed chapter %s: %w", chapter.Slug, err)
		}

		for t, tier := range models.WorksheetTiers {
			for i := 1; i <= worksheetsPerTier; i++ {
				ws := &models.Worksheet{
					ChapterID:   chapter.ID,
					Title:       fmt.Sprintf("%s %s Worksheet %d", chapter.Name, tierTitle(tier), i),
					Slug:        fmt.Sprintf("%s-%s-%d", chapter.Slug, tier, i),
					Description: fmt.Sprintf("Practice worksheet for %s %s", subject.Name, chapter.Name),
					Tier:        tier,
					// Her bölümün ilk temel worksheet'i ücretsiz
					IsFree:      tier == models.TierFoundational && i == 1,
					IsPublished: true,
					SortOrder:   t*10 + i,
				}
				if err := s.content.UpsertWorksheet(ctx, ws); err != nil {
					return fmt.Errorf("seed worksheet %s: %w", ws.Slug, err)
				}
			}
		}
	}
	return nil
}

func (s *Seeder) seedCombo(ctx context.Context, combo comboSeed, subjects []models.Subject) error {
	if len(subjects) == 0 {
		return nil
	}

	existing, err := s.packages.GetBySlug(ctx, combo.slug)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("seed package %s: %w", combo.slug, err)
	}

	if existing == nil {
		pkg := &models.Package{
			Name:      combo.grade + " Combo",
			Slug:      combo.slug,
			Price:     combo.salePrice,
			Mrp:       combo.mrp,
			SalePrice: combo.salePrice,
			IsActive:  true,
			Subjects:  subjects,
		}
		if err := s.packages.Create(ctx, pkg); err != nil {
			return fmt.Errorf("seed package %s: %w", combo.slug, err)
		}
		return nil
	}

	existing.Mrp = combo.mrp
	existing.SalePrice = combo.salePrice
	existing.Price = combo.salePrice
	if err := s.packages.Update(ctx, existing, subjects); err != nil {
		return fmt.Errorf("seed package %s: %w", combo.slug, err)
	}
	return nil
}

// tierTitle skill_builder -> Skill Builder
func tierTitle(tier models.WorksheetTier) string {
	words := strings.Split(string(tier), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
