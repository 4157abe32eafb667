package repositories

import (
	"github.com/briandvp/brian-blog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id string) (*models.Comment, error)
	GetCommentsByPostID(postID string, status models.CommentStatus) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	DeleteCommentCascade(id string) (removed int64, err error)
	ListComments(status *models.CommentStatus, offset, limit int) ([]models.Comment, int64, error)
	GetCommentStats() (models.CommentStats, error)
	UpdateStatusBulk(ids []string, status models.CommentStatus) (int64, error)
	DeleteBulk(ids []string) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment inserts the comment and increments the owning post's
// denormalized comment counter in the same transaction. The counter update is
// a SQL expression so concurrent creations cannot lose increments.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments", gorm.Expr("comments + ?", 1)).Error
	})
}

// GetCommentByID retrieves a comment with its APPROVED replies, oldest first.
func (r *PostgresCommentRepository) GetCommentByID(id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.StatusApproved).Order("created_at ASC")
		}).
		First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachPostSummaries([]*models.Comment{&comment}); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves the top-level comments of a post matching the
// given status, newest first, each with its APPROVED replies oldest first.
func (r *PostgresCommentRepository) GetCommentsByPostID(postID string, status models.CommentStatus) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Where("post_id = ? AND status = ? AND parent_id IS NULL", postID, status).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.StatusApproved).Order("created_at ASC")
		}).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment persists changes to an existing comment. Status changes never
// touch the post counter: the number of rows attached to the post is unchanged.
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Omit(clause.Associations).Save(comment).Error
}

// DeleteCommentCascade removes a comment together with its direct replies and
// decrements the post counter by the number of rows removed, all in one
// transaction. Returns gorm.ErrRecordNotFound when the id does not resolve.
func (r *PostgresCommentRepository) DeleteCommentCascade(id string) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			return err
		}
		replies := tx.Where("parent_id = ?", id).Delete(&models.Comment{})
		if replies.Error != nil {
			return replies.Error
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		removed = replies.RowsAffected + 1
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments", gorm.Expr("comments - ?", removed)).Error
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ListComments returns one page of comments across all posts (any nesting
// level), newest first, with the owning post's id and title attached. A nil
// status means no filter. The second return value is the total matching count.
func (r *PostgresCommentRepository) ListComments(status *models.CommentStatus, offset, limit int) ([]models.Comment, int64, error) {
	query := r.db.Model(&models.Comment{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	refs := make([]*models.Comment, len(comments))
	for i := range comments {
		refs[i] = &comments[i]
	}
	if err := r.attachPostSummaries(refs); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// GetCommentStats computes the status breakdown over all comments, ignoring
// any listing filter, so tab counts stay stable while the moderator filters.
func (r *PostgresCommentRepository) GetCommentStats() (models.CommentStats, error) {
	var rows []struct {
		Status models.CommentStatus
		Count  int64
	}
	err := r.db.Model(&models.Comment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return models.CommentStats{}, err
	}

	var stats models.CommentStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.StatusPending:
			stats.Pending = row.Count
		case models.StatusApproved:
			stats.Approved = row.Count
		case models.StatusRejected:
			stats.Rejected = row.Count
		case models.StatusSpam:
			stats.Spam = row.Count
		}
	}
	return stats, nil
}

// UpdateStatusBulk sets the status on every listed comment that exists.
// Unmatched ids are silently skipped; the returned count is rows updated.
func (r *PostgresCommentRepository) UpdateStatusBulk(ids []string, status models.CommentStatus) (int64, error) {
	result := r.db.Model(&models.Comment{}).
		Where("id IN ?", ids).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// DeleteBulk removes every listed comment through the same cascade-and-counter
// path as a single delete. The returned count is the number of requested ids
// that existed; replies removed by the cascade are not counted, matching the
// matched-row semantics of UpdateStatusBulk.
func (r *PostgresCommentRepository) DeleteBulk(ids []string) (int64, error) {
	var affected int64
	for _, id := range ids {
		if _, err := r.DeleteCommentCascade(id); err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return affected, err
		}
		affected++
	}
	return affected, nil
}

// attachPostSummaries fills the gorm-ignored Post field on each comment with
// the id and title of its owning post, using one query for the whole batch.
func (r *PostgresCommentRepository) attachPostSummaries(comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(comments))
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.PostID]; !ok {
			seen[c.PostID] = struct{}{}
			ids = append(ids, c.PostID)
		}
	}

	var summaries []models.PostSummary
	err := r.db.Model(&models.Post{}).
		Select("id, title").
		Where("id IN ?", ids).
		Scan(&summaries).Error
	if err != nil {
		return err
	}

	byID := make(map[string]models.PostSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	for _, c := range comments {
		if s, ok := byID[c.PostID]; ok {
			summary := s
			c.Post = &summary
		}
	}
	return nil
}
