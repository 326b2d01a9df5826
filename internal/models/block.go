// ABOUTME: ContentBlock and Category models for practice material.
// ABOUTME: Blocks hold text or an attached media reference, labelled by category.
package models

import "time"

// ContentBlock is a unit of practice material: a text snippet or a
// reference to attached media, optionally labelled with a Category.
type ContentBlock struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	MediaURL   *string   `json:"mediaUrl,omitempty"`
	CategoryID *string   `json:"categoryId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (b ContentBlock) EntityID() string { return b.ID }

// NewContentBlock creates a block with a generated id and current timestamp.
func NewContentBlock(title string) *ContentBlock {
	return &ContentBlock{
		ID:        NewID(),
		Title:     title,
		CreatedAt: Now(),
	}
}

// WithContent sets the block's text content.
func (b *ContentBlock) WithContent(content string) *ContentBlock {
	b.Content = content
	return b
}

// WithMediaURL attaches a media reference.
func (b *ContentBlock) WithMediaURL(url string) *ContentBlock {
	b.MediaURL = &url
	return b
}

// WithCategory labels the block with a category id.
func (b *ContentBlock) WithCategory(categoryID string) *ContentBlock {
	b.CategoryID = &categoryID
	return b
}

// ContentBlockPatch is a partial update for a ContentBlock. Nil fields
// leave the existing value untouched.
type ContentBlockPatch struct {
	Title      *string
	Content    *string
	MediaURL   *string
	CategoryID *string
}

// Apply shallow-merges the patch over the block.
func (p ContentBlockPatch) Apply(b *ContentBlock) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.MediaURL != nil {
		b.MediaURL = p.MediaURL
	}
	if p.CategoryID != nil {
		b.CategoryID = p.CategoryID
	}
}

// Category is a label for organizing content blocks.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Category) EntityID() string { return c.ID }

// NewCategory creates a category with a generated id.
func NewCategory(name string) *Category {
	return &Category{
		ID:        NewID(),
		Name:      name,
		CreatedAt: Now(),
	}
}

// CategoryPatch is a partial update for a Category.
type CategoryPatch struct {
	Name  *string
	Color *string
}

// Apply shallow-merges the patch over the category.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
}
