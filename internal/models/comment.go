package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentStatus is the moderation state of a comment. Any state may move to
// any other state, but only through an explicit moderator action.
type CommentStatus string

const (
	StatusPending  CommentStatus = "PENDING"
	StatusApproved CommentStatus = "APPROVED"
	StatusRejected CommentStatus = "REJECTED"
	StatusSpam     CommentStatus = "SPAM"
)

// ParseCommentStatus normalizes caller input (case-insensitive) to the
// canonical upper form and rejects anything outside the four known states.
func ParseCommentStatus(s string) (CommentStatus, error) {
	switch status := CommentStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case StatusPending, StatusApproved, StatusRejected, StatusSpam:
		return status, nil
	default:
		return "", fmt.Errorf("invalid comment status: %q", s)
	}
}

// Comment represents a reader comment on a blog post. Comments are submitted
// unauthenticated, start out PENDING, and support one level of nesting:
// a reply's ParentID must point at a top-level comment of the same post.
type Comment struct {
	ID        string        `json:"id" gorm:"primaryKey;size:36"`
	Content   string        `json:"content" gorm:"type:text;not null"`
	Author    string        `json:"author" gorm:"not null"`
	Email     string        `json:"email" gorm:"not null"`
	Status    CommentStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	IsReply   bool          `json:"isReply" gorm:"not null;default:false"`
	ParentID  *string       `json:"parentId,omitempty" gorm:"index;size:36"`
	PostID    string        `json:"postId" gorm:"not null;index;size:36"`
	Post      *PostSummary  `json:"post,omitempty" gorm:"-"`
	Replies   []Comment     `json:"replies,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `json:"createdAt"`
}

// BeforeCreate assigns a fresh UUID when the caller did not supply one.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentStats is the status breakdown over all comments, regardless of any
// active listing filter, so the moderation UI can show tab counts.
type CommentStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Spam     int64 `json:"spam"`
}

// CreateCommentRequest defines the request body for submitting a new comment
type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required"`
	Author   string  `json:"author" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	PostID   string  `json:"postId" validate:"required"`
	ParentID *string `json:"parentId,omitempty"`
}

// UpdateCommentRequest defines the request body for a partial comment update.
// Omitted fields are left untouched.
type UpdateCommentRequest struct {
	Status  string `json:"status,omitempty"`
	Content string `json:"content,omitempty"`
}

// Bulk moderation action names accepted by the admin endpoint.
const (
	BulkActionUpdateStatus = "updateStatus"
	BulkActionDelete       = "delete"
)

// BulkCommentRequest defines the request body for bulk moderation actions
type BulkCommentRequest struct {
	Action     string   `json:"action" validate:"required"`
	CommentIDs []string `json:"commentIds" validate:"required,min=1"`
	Status     string   `json:"status,omitempty"`
}
