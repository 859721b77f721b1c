package service

import (
	"errors"
	"strings"

	"github.com/lexxo/lexxo-backend/internal/app/model"
	"github.com/lexxo/lexxo-backend/internal/app/repository"
	"github.com/lexxo/lexxo-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound  = errors.New("blog post not found")
	ErrNotBlogAuthor = errors.New("not the author of this blog post")
)

type BlogService interface {
	Create(authorID uint, req *model.CreateBlogRequest) (*model.Blog, error)
	GetByID(id uint, role model.UserRole) (*model.Blog, error)
	List(query *model.BlogListQuery, role model.UserRole) ([]model.Blog, int64, error)
	ListByAuthor(authorID uint, query *model.BlogListQuery) ([]model.Blog, int64, error)
	Update(id, requesterID uint, req *model.UpdateBlogRequest) (*model.Blog, error)
	Delete(id, requesterID uint) error
	Stats(authorID uint) (*model.BlogStats, error)
}

type blogService struct {
	blogRepo repository.BlogRepository
}

func NewBlogService(blogRepo repository.BlogRepository) BlogService {
	return &blogService{blogRepo: blogRepo}
}

// Create stores a new post owned by authorID. Role enforcement lives in the
// route middleware, not here.
func (s *blogService) Create(authorID uint, req *model.CreateBlogRequest) (*model.Blog, error) {
	status := model.StatusPublished
	if req.Status != nil {
		status = *req.Status
	}

	blog := &model.Blog{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     trimTags(req.Tags),
		Status:   status,
		AuthorID: authorID,
	}

	if err := s.blogRepo.Create(blog); err != nil {
		logger.Error("Failed to create blog post", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}

	logger.Info("Blog post created", map[string]interface{}{
		"blog_id":   blog.ID,
		"author_id": authorID,
		"status":    blog.Status,
	})

	return blog, nil
}

// GetByID returns the post. Non-admin callers get ErrBlogNotFound for drafts
// rather than a forbidden error, so draft existence does not leak.
func (s *blogService) GetByID(id uint, role model.UserRole) (*model.Blog, error) {
	blog, err := s.blogRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		logger.Error("Failed to fetch blog post", err, map[string]interface{}{
			"blog_id": id,
		})
		return nil, err
	}

	if role != model.RoleAdmin && blog.Status != model.StatusPublished {
		return nil, ErrBlogNotFound
	}

	return blog, nil
}

// List returns a page of posts. Non-admin callers always see published posts
// only, whatever status filter they asked for.
func (s *blogService) List(query *model.BlogListQuery, role model.UserRole) ([]model.Blog, int64, error) {
	if role != model.RoleAdmin {
		published := model.StatusPublished
		query.Status = &published
	}

	return s.blogRepo.List(query)
}

// ListByAuthor scopes the listing to the caller's own posts
func (s *blogService) ListByAuthor(authorID uint, query *model.BlogListQuery) ([]model.Blog, int64, error) {
	query.AuthorID = &authorID
	return s.blogRepo.List(query)
}

// Update edits a post. Only the recorded author may edit, regardless of role.
func (s *blogService) Update(id, requesterID uint, req *model.UpdateBlogRequest) (*model.Blog, error) {
	blog, err := s.blogRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	if blog.AuthorID != requesterID {
		logger.Warn("Blog update rejected: requester is not the author", map[string]interface{}{
			"blog_id":      id,
			"author_id":    blog.AuthorID,
			"requester_id": requesterID,
		})
		return nil, ErrNotBlogAuthor
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Tags != nil {
		blog.Tags = trimTags(req.Tags)
	}
	if req.Status != nil {
		blog.Status = *req.Status
	}

	if err := s.blogRepo.Update(blog); err != nil {
		logger.Error("Failed to update blog post", err, map[string]interface{}{
			"blog_id": id,
		})
		return nil, err
	}

	logger.Info("Blog post updated", map[string]interface{}{
		"blog_id": id,
	})

	return blog, nil
}

// Delete removes a post after the existence check, then the ownership check,
// in that order.
func (s *blogService) Delete(id, requesterID uint) error {
	blog, err := s.blogRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}

	if blog.AuthorID != requesterID {
		logger.Warn("Blog delete rejected: requester is not the author", map[string]interface{}{
			"blog_id":      id,
			"author_id":    blog.AuthorID,
			"requester_id": requesterID,
		})
		return ErrNotBlogAuthor
	}

	if err := s.blogRepo.Delete(id); err != nil {
		logger.Error("Failed to delete blog post", err, map[string]interface{}{
			"blog_id": id,
		})
		return err
	}

	logger.Info("Blog post deleted", map[string]interface{}{
		"blog_id": id,
	})

	return nil
}

// Stats summarizes the caller's own posts
func (s *blogService) Stats(authorID uint) (*model.BlogStats, error) {
	stats, err := s.blogRepo.Stats(authorID)
	if err != nil {
		logger.Error("Failed to compute blog stats", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return stats, nil
}

func trimTags(tags []string) []string {
	trimmed := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			trimmed = append(trimmed, tag)
		}
	}
	return trimmed
}
