package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a blog post. Comments holds the denormalized count of all
// comment rows (any status) attached to the post; it is adjusted inside the
// same transaction as the comment row mutation, never read-modify-write.
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Excerpt   *string   `json:"excerpt,omitempty"`
	Category  string    `json:"category" gorm:"index"`
	Published bool      `json:"published" gorm:"not null;default:false"`
	Views     int       `json:"views" gorm:"not null;default:0"`
	Comments  int       `json:"comments" gorm:"not null;default:0"`
	AuthorID  string    `json:"authorId" gorm:"not null;index;size:36"`
	Author    *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Thread    []Comment `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a fresh UUID when the caller did not supply one.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

const excerptRunes = 150

// ExcerptOrDerived returns the stored excerpt, or the first 150 runes of the
// content followed by an ellipsis when no excerpt was written.
func (p *Post) ExcerptOrDerived() string {
	if p.Excerpt != nil && *p.Excerpt != "" {
		return *p.Excerpt
	}
	runes := []rune(p.Content)
	if len(runes) <= excerptRunes {
		return p.Content
	}
	return strings.TrimRight(string(runes[:excerptRunes]), " ") + "..."
}

// PostSummary is the minimal projection of a post attached to comments so the
// moderation UI can show which post a comment belongs to.
type PostSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PostStats aggregates the dashboard numbers over all posts, independent of
// any listing filter.
type PostStats struct {
	Total      int64 `json:"total"`
	Published  int64 `json:"published"`
	Drafts     int64 `json:"drafts"`
	TotalViews int64 `json:"totalViews"`
}

// PostFilter narrows the post listing. Status accepts "published", "draft" or
// "all"; Search matches title, excerpt and content case-insensitively.
type PostFilter struct {
	Status   string
	Category string
	Search   string
	Offset   int
	Limit    int
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=200"`
	Content   string  `json:"content" validate:"required"`
	Excerpt   *string `json:"excerpt,omitempty"`
	Category  string  `json:"category" validate:"required"`
	Published bool    `json:"published"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content   *string `json:"content,omitempty" validate:"omitempty,min=1"`
	Excerpt   *string `json:"excerpt,omitempty"`
	Category  *string `json:"category,omitempty"`
	Published *bool   `json:"published,omitempty"`
}
