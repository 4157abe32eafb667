package handlers_test

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/briandvp/brian-blog/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps
// the same contract the SQL implementations provide, including the
// denormalized post counter and the reply cascade, so handler tests can
// observe end-to-end behavior without a database.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*models.User
	posts    map[string]*models.Post
	comments map[string]*models.Comment
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		posts:    make(map[string]*models.Post),
		comments: make(map[string]*models.Comment),
	}
}

// nextTime hands out strictly increasing timestamps so ordering assertions
// are deterministic.
func (s *memStore) nextTime() time.Time {
	s.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

// --- UserRepository ---

func (s *memStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = s.nextTime()
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memStore) GetUserByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *memStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- PostRepository ---

func (s *memStore) CreatePost(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.CreatedAt = s.nextTime()
	post.UpdatedAt = post.CreatedAt
	clone := *post
	clone.Author = nil
	s.posts[post.ID] = &clone
	return nil
}

func (s *memStore) GetPostByID(id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *post
	if author, ok := s.users[post.AuthorID]; ok {
		authorClone := *author
		clone.Author = &authorClone
	}
	return &clone, nil
}

func (s *memStore) ListPosts(filter models.PostFilter) ([]models.Post, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []models.Post
	for _, post := range s.posts {
		if filter.Status == "published" && !post.Published {
			continue
		}
		if filter.Status == "draft" && post.Published {
			continue
		}
		if filter.Category != "" && filter.Category != "all" && post.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			excerpt := ""
			if post.Excerpt != nil {
				excerpt = *post.Excerpt
			}
			haystack := strings.ToLower(post.Title + " " + excerpt + " " + post.Content)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, *post)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *memStore) GetPostStats() (models.PostStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.PostStats
	for _, post := range s.posts {
		stats.Total++
		if post.Published {
			stats.Published++
		} else {
			stats.Drafts++
		}
		stats.TotalViews += int64(post.Views)
	}
	return stats, nil
}

func (s *memStore) UpdatePost(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *post
	clone.Author = nil
	clone.UpdatedAt = s.nextTime()
	s.posts[post.ID] = &clone
	return nil
}

func (s *memStore) DeletePost(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	for commentID, comment := range s.comments {
		if comment.PostID == id {
			delete(s.comments, commentID)
		}
	}
	return nil
}

func (s *memStore) IncrementViews(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	post.Views++
	return nil
}

// --- CommentRepository ---

func (s *memStore) CreateComment(comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[comment.PostID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = s.nextTime()
	clone := *comment
	clone.Post = nil
	clone.Replies = nil
	s.comments[comment.ID] = &clone
	post.Comments++
	return nil
}

func (s *memStore) GetCommentByID(id string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *comment
	clone.Replies = s.approvedReplies(id)
	s.attachPostSummary(&clone)
	return &clone, nil
}

func (s *memStore) GetCommentsByPostID(postID string, status models.CommentStatus) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []models.Comment
	for _, comment := range s.comments {
		if comment.PostID != postID || comment.ParentID != nil || comment.Status != status {
			continue
		}
		clone := *comment
		clone.Replies = s.approvedReplies(comment.ID)
		comments = append(comments, clone)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *memStore) UpdateComment(comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *comment
	clone.Post = nil
	clone.Replies = nil
	s.comments[comment.ID] = &clone
	return nil
}

func (s *memStore) DeleteCommentCascade(id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteCascadeLocked(id)
}

func (s *memStore) deleteCascadeLocked(id string) (int64, error) {
	comment, ok := s.comments[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	removed := int64(1)
	for replyID, reply := range s.comments {
		if reply.ParentID != nil && *reply.ParentID == id {
			delete(s.comments, replyID)
			removed++
		}
	}
	delete(s.comments, id)
	if post, ok := s.posts[comment.PostID]; ok {
		post.Comments -= int(removed)
	}
	return removed, nil
}

func (s *memStore) ListComments(status *models.CommentStatus, offset, limit int) ([]models.Comment, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []models.Comment
	for _, comment := range s.comments {
		if status != nil && comment.Status != *status {
			continue
		}
		clone := *comment
		s.attachPostSummary(&clone)
		comments = append(comments, clone)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	total := int64(len(comments))
	if offset >= len(comments) {
		return nil, total, nil
	}
	comments = comments[offset:]
	if limit > 0 && limit < len(comments) {
		comments = comments[:limit]
	}
	return comments, total, nil
}

func (s *memStore) GetCommentStats() (models.CommentStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.CommentStats
	for _, comment := range s.comments {
		stats.Total++
		switch comment.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		case models.StatusSpam:
			stats.Spam++
		}
	}
	return stats, nil
}

func (s *memStore) UpdateStatusBulk(ids []string, status models.CommentStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for _, id := range ids {
		if comment, ok := s.comments[id]; ok {
			comment.Status = status
			affected++
		}
	}
	return affected, nil
}

func (s *memStore) DeleteBulk(ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var affected int64
	for _, id := range ids {
		if _, err := s.deleteCascadeLocked(id); err != nil {
			continue
		}
		affected++
	}
	return affected, nil
}

func (s *memStore) approvedReplies(parentID string) []models.Comment {
	var replies []models.Comment
	for _, comment := range s.comments {
		if comment.ParentID != nil && *comment.ParentID == parentID && comment.Status == models.StatusApproved {
			replies = append(replies, *comment)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies
}

func (s *memStore) attachPostSummary(comment *models.Comment) {
	if post, ok := s.posts[comment.PostID]; ok {
		comment.Post = &models.PostSummary{ID: post.ID, Title: post.Title}
	}
}
