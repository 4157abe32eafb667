package handlers

import (
	"net/http"
	"strconv"

	"github.com/briandvp/brian-blog/internal/models"
	"github.com/briandvp/brian-blog/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	defaultPostPage  = 1
	defaultPostLimit = 10
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes. Mutations require the
// admin JWT; reads are public.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts", h.CreatePost, auth)
	g.PUT("/posts/:id", h.UpdatePost, auth)
	g.DELETE("/posts/:id", h.DeletePost, auth)
}

// PostList is the post listing response: one page of posts plus pagination
// metadata and dashboard stats over all posts.
type PostList struct {
	Posts      []models.Post     `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
	Stats      models.PostStats  `json:"stats"`
}

// ListPosts returns one page of posts, newest first, filtered by status,
// category and free-text search.
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = defaultPostPage
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPostLimit
	}

	filter := models.PostFilter{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}

	posts, total, err := h.postRepository.ListPosts(filter)
	if err != nil {
		return err
	}

	stats, err := h.postRepository.GetPostStats()
	if err != nil {
		return err
	}

	if posts == nil {
		posts = []models.Post{}
	}
	for i := range posts {
		excerpt := posts[i].ExcerptOrDerived()
		posts[i].Excerpt = &excerpt
	}
	return c.JSON(http.StatusOK, PostList{
		Posts:      posts,
		Pagination: models.NewPagination(page, limit, total),
		Stats:      stats,
	})
}

// GetPost retrieves a post by ID and counts the view
func (h *PostHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return err
	}

	if err := h.postRepository.IncrementViews(postID); err != nil {
		return err
	}
	post.Views++ // reflect the view just counted

	excerpt := post.ExcerptOrDerived()
	post.Excerpt = &excerpt

	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// CreatePost creates a new post owned by the authenticated admin
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims := c.Get("user").(*models.JwtCustomClaims)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	author, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		return err
	}

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		Published: req.Published,
		AuthorID:  author.ID,
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return err
	}
	post.Author = author

	return c.JSON(http.StatusCreated, post)
}

// UpdatePost applies a partial update to a post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = req.Excerpt
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := h.postRepository.UpdatePost(post); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost removes a post; its comments go with it
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return err
	}

	if err := h.postRepository.DeletePost(postID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Post deleted successfully",
		"post":    post,
	})
}
