package models

import "time"

type WorksheetTier string

const (
	TierFoundational WorksheetTier = "foundational"
	TierSkillBuilder WorksheetTier = "skill_builder"
	TierMastery      WorksheetTier = "mastery"
)

var WorksheetTiers = []WorksheetTier{TierFoundational, TierSkillBuilder, TierMastery}

type Grade struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	Subjects  []Subject `json:"subjects,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subject fiyatları rupi cinsinden tam sayı tutulur
type Subject struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	GradeID     uint      `json:"grade_id" gorm:"not null;index"`
	Grade       *Grade    `json:"grade,omitempty"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	Price       int64     `json:"price" gorm:"not null;default:0"`
	Mrp         int64     `json:"mrp" gorm:"not null;default:0"`
	SalePrice   int64     `json:"sale_price" gorm:"not null;default:0"`
	SortOrder   int       `json:"sort_order" gorm:"not null;default:0"`
	Chapters    []Chapter `json:"chapters,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Chapter struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	SubjectID  uint        `json:"subject_id" gorm:"not null;index"`
	Name       string      `json:"name" gorm:"not null"`
	Slug       string      `json:"slug" gorm:"uniqueIndex;not null"`
	SortOrder  int         `json:"sort_order" gorm:"not null;default:0"`
	Worksheets []Worksheet `json:"worksheets,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type Worksheet struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	ChapterID   uint          `json:"chapter_id" gorm:"not null;index"`
	Chapter     *Chapter      `json:"chapter,omitempty"`
	Title       string        `json:"title" gorm:"not null"`
	Slug        string        `json:"slug" gorm:"uniqueIndex;not null"`
	Description string        `json:"description"`
	Tier        WorksheetTier `json:"tier" gorm:"type:varchar(16);not null"`
	IsFree      bool          `json:"is_free" gorm:"not null;default:false"`
	IsPublished bool          `json:"is_published" gorm:"not null;default:false"`
	PdfKey      string        `json:"pdf_key,omitempty"`
	PdfURL      string        `json:"pdf_url,omitempty"`
	AnswerURL   string        `json:"answer_url,omitempty"`
	SortOrder   int           `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type WorksheetCompletion struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_completions_user_worksheet"`
	WorksheetID uint      `json:"worksheet_id" gorm:"not null;uniqueIndex:idx_completions_user_worksheet"`
	CompletedAt time.Time `json:"completed_at"`
}

// Öğrenci görünümü

type SubjectTree struct {
	Subject  SubjectSummary `json:"subject"`
	Chapters []ChapterNode  `json:"chapters"`
}

type SubjectSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	GradeName    string `json:"grade_name"`
	Price        int64  `json:"price"`
	HasPurchased bool   `json:"has_purchased"`
}

type ChapterNode struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	Worksheets []WorksheetNode `json:"worksheets"`
}

type WorksheetNode struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Tier        WorksheetTier `json:"tier"`
	IsFree      bool          `json:"is_free"`
	IsLocked    bool          `json:"is_locked"`
	IsCompleted bool          `json:"is_completed"`
	PdfURL      string        `json:"pdf_url,omitempty"`
}

type SetCompletionRequest struct {
	WorksheetID uint  `json:"worksheet_id" validate:"required"`
	Completed   *bool `json:"completed" validate:"required"`
}

type SubjectProgress struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	GradeName string `json:"grade_name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Percent   int    `json:"percent"`
}

type Dashboard struct {
	OverallPercent  int               `json:"overall_percent"`
	TotalWorksheets int               `json:"total_worksheets"`
	TotalCompleted  int               `json:"total_completed"`
	Subjects        []SubjectProgress `json:"subjects"`
}

const (
	OfferingSubject   = "SUBJECT"
	OfferingGradePack = "GRADE_PACK"
)

type Offering struct {
	Type                string `json:"type"`
	ID                  uint   `json:"id"`
	Title               string `json:"title"`
	GradeName           string `json:"grade_name"`
	Mrp                 int64  `json:"mrp"`
	SalePrice           int64  `json:"sale_price"`
	DiscountPercent     int    `json:"discount_percent"`
	IncludesAllSubjects bool   `json:"includes_all_subjects,omitempty"`
	SubjectCount        int    `json:"subject_count,omitempty"`
	IsActive            bool   `json:"is_active"`
}

// Admin istekleri

type GradeRequest struct {
	Name      string `json:"name" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

type SubjectRequest struct {
	GradeID     uint   `json:"grade_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"min=0"`
	Mrp         int64  `json:"mrp" validate:"min=0"`
	SalePrice   int64  `json:"sale_price" validate:"min=0"`
	SortOrder   int    `json:"sort_order"`
}

type ChapterRequest struct {
	SubjectID uint   `json:"subject_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Slug      string `json:"slug" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

type WorksheetRequest struct {
	ChapterID   uint          `json:"chapter_id" validate:"required"`
	Title       string        `json:"title" validate:"required"`
	Slug        string        `json:"slug" validate:"required"`
	Description string        `json:"description"`
	Tier        WorksheetTier `json:"tier" validate:"required,worksheet_tier"`
	IsFree      bool          `json:"is_free"`
	IsPublished bool          `json:"is_published"`
	PdfURL      string        `json:"pdf_url" validate:"omitempty,url"`
	AnswerURL   string        `json:"answer_url" validate:"omitempty,url"`
	SortOrder   int           `json:"sort_order"`
}
