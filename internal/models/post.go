// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Post represents a text post. Likes and Dislikes are derived counters: they
// always equal the number of LIKE/DISLIKE engagement rows for the post, and
// every engagement mutation updates both in the same transaction.
type Post struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	Dislikes  int       `gorm:"not null;default:0" json:"dislikes"`
	CreatorID string    `gorm:"not null;index;size:64" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetContent replaces the post's content. Blank content is rejected; create
// and edit deliberately share this rule.
func (p *Post) SetContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError("Content must not be empty")
	}
	p.Content = content
	return nil
}

// SetUpdatedAt advances the updated-at timestamp. It never rewinds, so
// UpdatedAt stays monotonic and >= CreatedAt.
func (p *Post) SetUpdatedAt(t time.Time) {
	if t.After(p.UpdatedAt) {
		p.UpdatedAt = t
	}
}

// AddLike increments the like counter.
func (p *Post) AddLike() {
	p.Likes++
}

// RemoveLike decrements the like counter, clamping at zero. The resolver only
// removes a like it knows exists, so the clamp is a floor, not an error path.
func (p *Post) RemoveLike() {
	if p.Likes > 0 {
		p.Likes--
	}
}

// AddDislike increments the dislike counter.
func (p *Post) AddDislike() {
	p.Dislikes++
}

// RemoveDislike decrements the dislike counter, clamping at zero.
func (p *Post) RemoveDislike() {
	if p.Dislikes > 0 {
		p.Dislikes--
	}
}

// PostView is the public response shape of a post, with the creator identity
// snapshot taken at read time.
type PostView struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Likes     int            `json:"likes"`
	Dislikes  int            `json:"dislikes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Creator   CreatorSummary `json:"creator"`
}

// View returns the post's public representation with the given creator snapshot.
func (p *Post) View(creator CreatorSummary) PostView {
	return PostView{
		ID:        p.ID,
		Content:   p.Content,
		Likes:     p.Likes,
		Dislikes:  p.Dislikes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Creator:   creator,
	}
}
