package handlers

import (
	"net/http"

	"github.com/briandvp/brian-blog/internal/models"
	"github.com/briandvp/brian-blog/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests for the public comment surface
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository // To resolve the owning post of a comment
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/comments", h.ListComments)
	g.POST("/comments", h.CreateComment)
	g.GET("/comments/:id", h.GetComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// ListComments returns the top-level comments of a post, newest first, each
// with its APPROVED replies oldest first. The status filter defaults to
// APPROVED so readers only ever see moderated comments. Unlike the admin
// listing, "all" is not accepted here: the public surface always filters to a
// single status, and unfiltered reads belong to /comments/admin.
func (h *CommentHandler) ListComments(c echo.Context) error {
	postID := c.QueryParam("postId")
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "postId is required")
	}

	status := models.StatusApproved
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := models.ParseCommentStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		status = parsed
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment submits a new comment. The stored status is always PENDING
// regardless of caller input; a moderator has to approve it explicitly.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(req.PostID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return err
	}

	// One level of nesting only: a reply must target a top-level comment of
	// the same post.
	if req.ParentID != nil {
		parent, err := h.commentRepository.GetCommentByID(*req.ParentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return echo.NewHTTPError(http.StatusBadRequest, "Parent comment not found")
			}
			return err
		}
		if parent.IsReply {
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot reply to a reply")
		}
		if parent.PostID != req.PostID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:  req.Content,
		Author:   req.Author,
		Email:    req.Email,
		PostID:   req.PostID,
		ParentID: req.ParentID,
		IsReply:  req.ParentID != nil,
		Status:   models.StatusPending,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return err
	}

	comment.Post = &models.PostSummary{ID: post.ID, Title: post.Title}
	return c.JSON(http.StatusCreated, comment)
}

// GetComment retrieves a single comment with its post title and its APPROVED
// replies, oldest first.
func (h *CommentHandler) GetComment(c echo.Context) error {
	comment, err := h.commentRepository.GetCommentByID(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// UpdateComment applies a partial update to a comment. Only the supplied
// fields change; a status change never touches the post's comment counter.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	comment, err := h.commentRepository.GetCommentByID(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return err
	}

	if req.Status != "" {
		status, err := models.ParseCommentStatus(req.Status)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		comment.Status = status
	}
	if req.Content != "" {
		comment.Content = req.Content
	}

	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment together with its replies and corrects the
// post's comment counter by the number of rows removed.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	if _, err := h.commentRepository.DeleteCommentCascade(c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}
