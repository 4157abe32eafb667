package repositories

import (
	"github.com/briandvp/brian-blog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id string) (*models.Post, error)
	ListPosts(filter models.PostFilter) ([]models.Post, int64, error)
	GetPostStats() (models.PostStats, error)
	UpdatePost(post *models.Post) error
	DeletePost(id string) error
	IncrementViews(id string) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID together with its author
func (r *PostgresPostRepository) GetPostByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns one page of posts matching the filter, newest first, and
// the total matching count.
func (r *PostgresPostRepository) ListPosts(filter models.PostFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	switch filter.Status {
	case "published":
		query = query.Where("published = ?", true)
	case "draft":
		query = query.Where("published = ?", false)
	}
	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"title ILIKE ? OR excerpt ILIKE ? OR content ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := query.Preload("Author").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPostStats aggregates dashboard numbers over all posts
func (r *PostgresPostRepository) GetPostStats() (models.PostStats, error) {
	var stats models.PostStats
	if err := r.db.Model(&models.Post{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := r.db.Model(&models.Post{}).Where("published = ?", true).Count(&stats.Published).Error; err != nil {
		return stats, err
	}
	stats.Drafts = stats.Total - stats.Published
	err := r.db.Model(&models.Post{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&stats.TotalViews).Error
	return stats, err
}

// UpdatePost persists changes to an existing post
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Omit(clause.Associations).Save(post).Error
}

// DeletePost deletes a post by ID; its comments are removed by the store's
// cascade on the post association.
func (r *PostgresPostRepository) DeletePost(id string) error {
	return r.db.Select("Thread").Delete(&models.Post{ID: id}).Error
}

// IncrementViews bumps the view counter with a SQL expression so concurrent
// reads cannot lose updates.
func (r *PostgresPostRepository) IncrementViews(id string) error {
	return r.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}
