package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExcerptLength is the number of characters of content kept in a list excerpt.
const ExcerptLength = 115

// ExcerptSuffix is appended to every excerpt, whatever the content length.
const ExcerptSuffix = "..."

// Memory is a user-authored note with a cover image and a visibility flag.
//
// ID, UserID and CreatedAt are fixed at creation. Only Content, CoverURL and
// IsPublic change afterwards, and only through the owner.
type Memory struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"userId" gorm:"column:user_id;not null;index"`
	Content   string    `json:"content" gorm:"column:content;not null"`
	CoverURL  string    `json:"coverUrl" gorm:"column:cover_url;not null"`
	IsPublic  bool      `json:"isPublic" gorm:"column:is_public;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime;index"`
}

// TableName pins the table name for GORM.
func (Memory) TableName() string {
	return "memories"
}

// BeforeCreate assigns a UUID when the caller did not set one, so rows get
// an id regardless of the database's own defaults.
func (m *Memory) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// OwnedBy reports whether userID is the owner of m.
func (m *Memory) OwnedBy(userID string) bool {
	return userID != "" && m.UserID == userID
}

// Summary returns the list view of m.
func (m *Memory) Summary() MemorySummary {
	return MemorySummary{
		ID:       m.ID,
		CoverURL: m.CoverURL,
		Excerpt:  Excerpt(m.Content),
	}
}

// MemorySummary is the list view of a Memory.
type MemorySummary struct {
	ID       string `json:"id"`
	CoverURL string `json:"coverUrl"`
	Excerpt  string `json:"excerpt"`
}

// MemoryInput holds the mutable fields of a Memory, as accepted by create and update.
type MemoryInput struct {
	Content  string
	CoverURL string
	IsPublic bool
}

// Excerpt returns the first ExcerptLength characters of content followed by
// ExcerptSuffix. The suffix is appended even when content is shorter.
//
// Characters are counted as runes so multi-byte text is never split mid-character.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + ExcerptSuffix
}
