package model

import (
	"time"
)

// BlogStatus is the publication state of a post
type BlogStatus string

const (
	StatusDraft     BlogStatus = "draft"
	StatusPublished BlogStatus = "published"
)

type Blog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title   string     `gorm:"type:varchar(200);not null" json:"title"`
	Content string     `gorm:"type:text;not null" json:"content"`
	Status  BlogStatus `gorm:"type:varchar(20);default:'published'" json:"status"`
	Tags    []string   `gorm:"serializer:json" json:"tags"`

	AuthorID uint `gorm:"not null;index" json:"authorId"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author"`
}

func (Blog) TableName() string {
	return "blogs"
}

// CreateBlogRequest is the payload for creating a post
type CreateBlogRequest struct {
	Title   string      `json:"title" binding:"required,min=3,max=200"`
	Content string      `json:"content" binding:"required,min=10,max=10000"`
	Tags    []string    `json:"tags"`
	Status  *BlogStatus `json:"status" binding:"omitempty,oneof=draft published"`
}

// UpdateBlogRequest is the payload for editing a post; nil fields are untouched
type UpdateBlogRequest struct {
	Title   *string     `json:"title" binding:"omitempty,min=3,max=200"`
	Content *string     `json:"content" binding:"omitempty,min=10,max=10000"`
	Tags    []string    `json:"tags"`
	Status  *BlogStatus `json:"status" binding:"omitempty,oneof=draft published"`
}

// BlogListQuery filters and paginates post listings
type BlogListQuery struct {
	Status   *BlogStatus `form:"status" binding:"omitempty,oneof=draft published"`
	AuthorID *uint       `form:"-"`
	Page     int         `form:"page,default=1" binding:"omitempty,min=1"`
	Limit    int         `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

// BlogStats summarizes an author's posts for the admin dashboard
type BlogStats struct {
	TotalBlogs     int64      `json:"totalBlogs"`
	PublishedBlogs int64      `json:"publishedBlogs"`
	DraftBlogs     int64      `json:"draftBlogs"`
	RecentBlogs    int64      `json:"recentBlogs"`
	TopTags        []TagCount `json:"topTags"`
}

// TagCount is one entry of the top-tags ranking
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
