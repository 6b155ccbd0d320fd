// Package models contains data structures for the application's domain models.
package models

import "time"

// ReactionKind is the desired reaction supplied in a react request.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "LIKE"
	ReactionDislike ReactionKind = "DISLIKE"
)

// ReactionFromBool maps the wire-level like flag to a ReactionKind.
func ReactionFromBool(like bool) ReactionKind {
	if like {
		return ReactionLike
	}
	return ReactionDislike
}

// EngagementState is the relation between one user and one post.
type EngagementState string

const (
	EngagementNone     EngagementState = "NONE"
	EngagementLiked    EngagementState = "LIKED"
	EngagementDisliked EngagementState = "DISLIKED"
)

// EngagementOp is the persistence operation a resolver transition requires
// on the engagement row.
type EngagementOp string

const (
	EngagementInsert EngagementOp = "INSERT"
	EngagementUpdate EngagementOp = "UPDATE"
	EngagementDelete EngagementOp = "DELETE"
)

// Engagement records a single user's reaction to a single post.
// The (UserID, PostID) pair is unique: the relation is a partial function
// from (user, post) to {LIKE, DISLIKE, absent}.
type Engagement struct {
	UserID    string       `gorm:"primaryKey;size:64" json:"user_id"`
	PostID    string       `gorm:"primaryKey;size:64" json:"post_id"`
	Kind      ReactionKind `gorm:"not null;size:16" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}

// State returns the engagement state the row encodes.
func (e *Engagement) State() EngagementState {
	if e.Kind == ReactionLike {
		return EngagementLiked
	}
	return EngagementDisliked
}
