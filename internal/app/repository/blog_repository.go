package repository

import (
	"sort"
	"time"

	"github.com/lexxo/lexxo-backend/internal/app/model"
	"gorm.io/gorm"
)

type BlogRepository interface {
	Create(blog *model.Blog) error
	FindByID(id uint) (*model.Blog, error)
	List(query *model.BlogListQuery) ([]model.Blog, int64, error)
	Update(blog *model.Blog) error
	Delete(id uint) error
	Stats(authorID uint) (*model.BlogStats, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(blog *model.Blog) error {
	if err := r.db.Create(blog).Error; err != nil {
		return err
	}

	// Reload with the author populated, mirroring what reads return
	return r.db.Preload("Author").First(blog, blog.ID).Error
}

func (r *blogRepository) FindByID(id uint) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.Preload("Author").First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// List returns one page of posts, newest first, with the total match count.
func (r *blogRepository) List(query *model.BlogListQuery) ([]model.Blog, int64, error) {
	var blogs []model.Blog
	var total int64

	db := r.db.Model(&model.Blog{})

	if query.Status != nil {
		db = db.Where("status = ?", *query.Status)
	}
	if query.AuthorID != nil {
		db = db.Where("author_id = ?", *query.AuthorID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 10
	}

	err := db.Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

func (r *blogRepository) Update(blog *model.Blog) error {
	if err := r.db.Save(blog).Error; err != nil {
		return err
	}
	return r.db.Preload("Author").First(blog, blog.ID).Error
}

func (r *blogRepository) Delete(id uint) error {
	return r.db.Delete(&model.Blog{}, id).Error
}

// Stats aggregates counts and the top 10 tags over a single author's posts.
// Tags are stored as JSON arrays, so the frequency ranking is computed here
// rather than with a SQL group-by.
func (r *blogRepository) Stats(authorID uint) (*model.BlogStats, error) {
	stats := &model.BlogStats{TopTags: []model.TagCount{}}

	base := func() *gorm.DB {
		return r.db.Model(&model.Blog{}).Where("author_id = ?", authorID)
	}

	if err := base().Count(&stats.TotalBlogs).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", model.StatusPublished).Count(&stats.PublishedBlogs).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", model.StatusDraft).Count(&stats.DraftBlogs).Error; err != nil {
		return nil, err
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := base().Where("created_at >= ?", thirtyDaysAgo).Count(&stats.RecentBlogs).Error; err != nil {
		return nil, err
	}

	var blogs []model.Blog
	if err := base().Select("tags").Find(&blogs).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, blog := range blogs {
		for _, tag := range blog.Tags {
			counts[tag]++
		}
	}

	for tag, count := range counts {
		stats.TopTags = append(stats.TopTags, model.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(stats.TopTags, func(i, j int) bool {
		if stats.TopTags[i].Count != stats.TopTags[j].Count {
			return stats.TopTags[i].Count > stats.TopTags[j].Count
		}
		return stats.TopTags[i].Tag < stats.TopTags[j].Tag
	})
	if len(stats.TopTags) > 10 {
		stats.TopTags = stats.TopTags[:10]
	}

	return stats, nil
}
