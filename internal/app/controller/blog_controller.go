package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lexxo/lexxo-backend/internal/app/model"
	"github.com/lexxo/lexxo-backend/internal/app/service"
	apperrors "github.com/lexxo/lexxo-backend/internal/errors"
	"github.com/lexxo/lexxo-backend/internal/middleware"
)

type BlogController struct {
	blogService service.BlogService
}

func NewBlogController(blogService service.BlogService) *BlogController {
	return &BlogController{
		blogService: blogService,
	}
}

// normalizeListQuery clamps pagination values. The binding tags skip min
// checks for explicit zero values, so an out-of-range page or limit falls
// back here rather than reaching the envelope math.
func normalizeListQuery(query *model.BlogListQuery) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 10
	}
}

// paginationResponse builds the page envelope for blog listings
func paginationResponse(page, limit int, total int64) gin.H {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return gin.H{
		"currentPage": page,
		"totalPages":  totalPages,
		"totalBlogs":  total,
		"hasNextPage": page < totalPages,
		"hasPrevPage": page > 1,
	}
}

func parseBlogID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid blog post ID")
		return 0, false
	}
	return uint(id), true
}

// Create creates a new blog post
// POST /api/v1/blog
func (ctrl *BlogController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in to continue")
		return
	}

	var req model.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create blog request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Title (3-200 chars) and content (10-10000 chars) are required")
		return
	}

	blog, err := ctrl.blogService.Create(userID, &req)
	if err != nil {
		log.Error("Failed to create blog post", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create blog")
		return
	}

	log.Info("Blog post created", map[string]interface{}{
		"blog_id":   blog.ID,
		"author_id": userID,
		"status":    blog.Status,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Blog post created successfully",
		"blog":    blog,
	})
}

// List returns published blog posts with pagination. Admins may also filter
// by status to see drafts.
// GET /api/v1/blog
func (ctrl *BlogController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var query model.BlogListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.Warn("Invalid blog list query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid pagination or filter parameters")
		return
	}
	normalizeListQuery(&query)

	// Guests get the empty role, which the service treats as non-admin
	role, _ := middleware.GetUserRole(c)

	blogs, total, err := ctrl.blogService.List(&query, role)
	if err != nil {
		log.Error("Failed to list blog posts", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list blogs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"blogs":      blogs,
		"pagination": paginationResponse(query.Page, query.Limit, total),
	})
}

// GetByID returns a single blog post. Drafts are only visible to admins.
// GET /api/v1/blog/:id
func (ctrl *BlogController) GetByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseBlogID(c)
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)

	blog, err := ctrl.blogService.GetByID(id, role)
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			log.Warn("Blog post not found", map[string]interface{}{
				"blog_id": id,
			})
			apperrors.NotFound(c, apperrors.BlogNotFound, "Blog post not found")
			return
		}
		log.Error("Failed to get blog post", err, map[string]interface{}{
			"blog_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get blog")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"blog":    blog,
	})
}

// Update edits a blog post owned by the requester
// PUT /api/v1/blog/:id
func (ctrl *BlogController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in to continue")
		return
	}

	id, ok := parseBlogID(c)
	if !ok {
		return
	}

	var req model.UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update blog request", map[string]interface{}{
			"blog_id": id,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid blog post fields")
		return
	}

	blog, err := ctrl.blogService.Update(id, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBlogNotFound):
			apperrors.NotFound(c, apperrors.BlogNotFound, "Blog post not found")
		case errors.Is(err, service.ErrNotBlogAuthor):
			log.Warn("Update rejected: requester is not the author", map[string]interface{}{
				"blog_id": id,
				"user_id": userID,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You can only update your own blog posts")
		default:
			log.Error("Failed to update blog post", err, map[string]interface{}{
				"blog_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update blog")
		}
		return
	}

	log.Info("Blog post updated", map[string]interface{}{
		"blog_id": blog.ID,
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Blog post updated successfully",
		"blog":    blog,
	})
}

// Delete removes a blog post owned by the requester
// DELETE /api/v1/blog/:id
func (ctrl *BlogController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in to continue")
		return
	}

	id, ok := parseBlogID(c)
	if !ok {
		return
	}

	if err := ctrl.blogService.Delete(id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrBlogNotFound):
			apperrors.NotFound(c, apperrors.BlogNotFound, "Blog post not found")
		case errors.Is(err, service.ErrNotBlogAuthor):
			log.Warn("Delete rejected: requester is not the author", map[string]interface{}{
				"blog_id": id,
				"user_id": userID,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You can only delete your own blog posts")
		default:
			log.Error("Failed to delete blog post", err, map[string]interface{}{
				"blog_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete blog")
		}
		return
	}

	log.Info("Blog post deleted", map[string]interface{}{
		"blog_id": id,
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Blog post deleted successfully",
	})
}

// ListAdminBlogs returns the admin's own blog posts, drafts included
// GET /api/v1/blog/admin/blogs
func (ctrl *BlogController) ListAdminBlogs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in to continue")
		return
	}

	var query model.BlogListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.Warn("Invalid admin blog list query", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid pagination or filter parameters")
		return
	}
	normalizeListQuery(&query)

	blogs, total, err := ctrl.blogService.ListByAuthor(userID, &query)
	if err != nil {
		log.Error("Failed to list admin blog posts", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list admin blogs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"blogs":      blogs,
		"pagination": paginationResponse(query.Page, query.Limit, total),
	})
}

// Stats returns dashboard statistics for the admin's own blog posts
// GET /api/v1/blog/admin/stats
func (ctrl *BlogController) Stats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Please log in to continue")
		return
	}

	stats, err := ctrl.blogService.Stats(userID)
	if err != nil {
		log.Error("Failed to compute blog stats", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "blog stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
