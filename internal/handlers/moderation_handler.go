package handlers

import (
	"net/http"
	"strconv"

	"github.com/briandvp/brian-blog/internal/models"
	"github.com/briandvp/brian-blog/internal/repositories"
	"github.com/labstack/echo/v4"
)

const (
	defaultAdminPage  = 1
	defaultAdminLimit = 20
)

// ModerationHandler handles the admin comment listing and bulk actions
type ModerationHandler struct {
	commentRepository repositories.CommentRepository
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(commentRepo repositories.CommentRepository) *ModerationHandler {
	return &ModerationHandler{commentRepository: commentRepo}
}

// RegisterModerationRoutes registers the admin comment routes
func (h *ModerationHandler) RegisterModerationRoutes(g *echo.Group) {
	g.GET("/comments/admin", h.ListAllComments)
	g.PUT("/comments/admin", h.BulkAction)
}

// AdminCommentList is the admin listing response: one page of comments plus
// pagination metadata and the global status breakdown.
type AdminCommentList struct {
	Comments   []models.Comment    `json:"comments"`
	Pagination models.Pagination   `json:"pagination"`
	Stats      models.CommentStats `json:"stats"`
}

// ListAllComments returns one page of comments across all posts and nesting
// levels, newest first. Stats are computed over the unfiltered set so the tab
// counts do not change with the active filter.
func (h *ModerationHandler) ListAllComments(c echo.Context) error {
	var status *models.CommentStatus
	if raw := c.QueryParam("status"); raw != "" && raw != "all" {
		parsed, err := models.ParseCommentStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		status = &parsed
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = defaultAdminPage
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultAdminLimit
	}

	comments, total, err := h.commentRepository.ListComments(status, (page-1)*limit, limit)
	if err != nil {
		return err
	}

	stats, err := h.commentRepository.GetCommentStats()
	if err != nil {
		return err
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	return c.JSON(http.StatusOK, AdminCommentList{
		Comments:   comments,
		Pagination: models.NewPagination(page, limit, total),
		Stats:      stats,
	})
}

// BulkAction applies a moderation action to a list of comments. Ids that do
// not resolve are skipped silently; the response reports how many rows were
// actually affected.
func (h *ModerationHandler) BulkAction(c echo.Context) error {
	var req models.BulkCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var affected int64
	switch req.Action {
	case models.BulkActionUpdateStatus:
		if req.Status == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Status is required for this action")
		}
		status, err := models.ParseCommentStatus(req.Status)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		affected, err = h.commentRepository.UpdateStatusBulk(req.CommentIDs, status)
		if err != nil {
			return err
		}
	case models.BulkActionDelete:
		var err error
		affected, err = h.commentRepository.DeleteBulk(req.CommentIDs)
		if err != nil {
			return err
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid action")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Action " + req.Action + " completed successfully",
		"affected": affected,
	})
}
