package repository

import (
	"context"
	"time"

	"github.com/meritrix/meritrix-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRepository grade > subject > chapter > worksheet ağacı ve tamamlama kayıtları
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{
		db: db,
	}
}

func orderBySort(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

func publishedWorksheets(db *gorm.DB) *gorm.DB {
	return db.Where("is_published = ?", true).Order("sort_order ASC").Order("id ASC")
}

// Grades

func (r *ContentRepository) ListGrades(ctx context.Context) ([]models.Grade, error) {
	var grades []models.Grade
	err := orderBySort(r.db.WithContext(ctx)).Find(&grades).Error
	return grades, err
}

func (r *ContentRepository) GetGrade(ctx context.Context, id uint) (*models.Grade, error) {
	var grade models.Grade
	if err := r.db.WithContext(ctx).First(&grade, id).Error; err != nil {
		return nil, translate(err)
	}
	return &grade, nil
}

func (r *ContentRepository) CreateGrade(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *ContentRepository) UpdateGrade(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *ContentRepository) DeleteGrade(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Grade{}, id)
}

// UpsertGrade isim üzerinden; seed için
func (r *ContentRepository) UpsertGrade(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"sort_order", "updated_at"}),
	}).Create(grade).Error
}

// Subjects

// ListSubjects grade sırası, sonra subject sırası
func (r *ContentRepository) ListSubjects(ctx context.Context, gradeID uint) ([]models.Subject, error) {
	var subjects []models.Subject
	q := r.db.WithContext(ctx).
		Select("subjects.*").
		Joins("JOIN grades ON grades.id = subjects.grade_id").
		Preload("Grade").
		Order("grades.sort_order ASC").
		Order("subjects.sort_order ASC").
		Order("subjects.id ASC")
	if gradeID != 0 {
		q = q.Where("subjects.grade_id = ?", gradeID)
	}
	err := q.Find(&subjects).Error
	return subjects, err
}

// ListSubjectsWithWorksheets dashboard ve vitrin için yayınlanmış worksheet'lerle birlikte
func (r *ContentRepository) ListSubjectsWithWorksheets(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.WithContext(ctx).
		Select("subjects.*").
		Joins("JOIN grades ON grades.id = subjects.grade_id").
		Preload("Grade").
		Preload("Chapters", orderBySort).
		Preload("Chapters.Worksheets", publishedWorksheets).
		Order("grades.sort_order ASC").
		Order("subjects.sort_order ASC").
		Order("subjects.id ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *ContentRepository) GetSubject(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).Preload("Grade").First(&subject, id).Error; err != nil {
		return nil, translate(err)
	}
	return &subject, nil
}

// GetSubjectTree bölümler ve yayınlanmış worksheet'ler sıralı gelir
func (r *ContentRepository) GetSubjectTree(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.WithContext(ctx).
		Preload("Grade").
		Preload("Chapters", orderBySort).
		Preload("Chapters.Worksheets", publishedWorksheets).
		First(&subject, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &subject, nil
}

func (r *ContentRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *ContentRepository) UpdateSubject(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Omit("Grade", "Chapters").Save(subject).Error
}

func (r *ContentRepository) DeleteSubject(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Subject{}, id)
}

func (r *ContentRepository) UpsertSubject(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "mrp", "sale_price", "updated_at"}),
	}).Create(subject).Error
}

func (r *ContentRepository) CountSubjects(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subject{}).Count(&count).Error
	return count, err
}

// Chapters

func (r *ContentRepository) ListChapters(ctx context.Context, subjectID uint) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := orderBySort(r.db.WithContext(ctx)).Where("subject_id = ?", subjectID).Find(&chapters).Error
	return chapters, err
}

func (r *ContentRepository) GetChapter(ctx context.Context, id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.WithContext(ctx).First(&chapter, id).Error; err != nil {
		return nil, translate(err)
	}
	return &chapter, nil
}

func (r *ContentRepository) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Create(chapter).Error
}

func (r *ContentRepository) UpdateChapter(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Omit("Worksheets").Save(chapter).Error
}

func (r *ContentRepository) DeleteChapter(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Chapter{}, id)
}

func (r *ContentRepository) UpsertChapter(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "sort_order", "updated_at"}),
	}).Create(chapter).Error
}

// Worksheets

func (r *ContentRepository) ListWorksheets(ctx context.Context, chapterID uint) ([]models.Worksheet, error) {
	var worksheets []models.Worksheet
	err := orderBySort(r.db.WithContext(ctx)).Where("chapter_id = ?", chapterID).Find(&worksheets).Error
	return worksheets, err
}

// GetWorksheet erişim kontrolü için bölümüyle birlikte
func (r *ContentRepository) GetWorksheet(ctx context.Context, id uint) (*models.Worksheet, error) {
	var worksheet models.Worksheet
	if err := r.db.WithContext(ctx).Preload("Chapter").First(&worksheet, id).Error; err != nil {
		return nil, translate(err)
	}
	return &worksheet, nil
}

func (r *ContentRepository) CreateWorksheet(ctx context.Context, worksheet *models.Worksheet) error {
	return r.db.WithContext(ctx).Create(worksheet).Error
}

func (r *ContentRepository) UpdateWorksheet(ctx context.Context, worksheet *models.Worksheet) error {
	return r.db.WithContext(ctx).Omit("Chapter").Save(worksheet).Error
}

func (r *ContentRepository) SetWorksheetPDF(ctx context.Context, id uint, key string) error {
	result := r.db.WithContext(ctx).Model(&models.Worksheet{}).Where("id = ?", id).Update("pdf_key", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContentRepository) DeleteWorksheet(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("worksheet_id = ?", id).Delete(&models.WorksheetCompletion{}).Error; err != nil {
		return err
	}
	return deleteByID(r.db.WithContext(ctx), &models.Worksheet{}, id)
}

func (r *ContentRepository) UpsertWorksheet(ctx context.Context, worksheet *models.Worksheet) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(worksheet).Error
}

func (r *ContentRepository) CountPublishedWorksheets(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Worksheet{}).Where("is_published = ?", true).Count(&count).Error
	return count, err
}

// Completions

// CompletedWorksheetIDs kullanıcının tamamladığı worksheet id'leri
func (r *ContentRepository) CompletedWorksheetIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.WorksheetCompletion{}).
		Where("user_id = ?", userID).
		Pluck("worksheet_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *ContentRepository) MarkCompleted(ctx context.Context, userID, worksheetID uint) error {
	completion := &models.WorksheetCompletion{
		UserID:      userID,
		WorksheetID: worksheetID,
		CompletedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "worksheet_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed_at"}),
	}).Create(completion).Error
}

// UnmarkCompleted kayıt yoksa hata vermez
func (r *ContentRepository) UnmarkCompleted(ctx context.Context, userID, worksheetID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND worksheet_id = ?", userID, worksheetID).
		Delete(&models.WorksheetCompletion{}).Error
}

func deleteByID(db *gorm.DB, model any, id uint) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
