package service

import "ripple/internal/models"

// Transition describes how a single reaction moves a user's engagement and
// what that does to the post's counters.
type Transition struct {
	Next         models.EngagementState
	LikeDelta    int
	DislikeDelta int
	Op           models.EngagementOp
}

// ResolveEngagement computes the three-state engagement transition for a
// reaction. Repeating the current reaction toggles it off; the opposite
// reaction flips the row in place so both counters move together.
func ResolveEngagement(current models.EngagementState, reaction models.ReactionKind) Transition {
	switch current {
	case models.EngagementLiked:
		if reaction == models.ReactionLike {
			return Transition{Next: models.EngagementNone, LikeDelta: -1, Op: models.EngagementDelete}
		}
		return Transition{Next: models.EngagementDisliked, LikeDelta: -1, DislikeDelta: 1, Op: models.EngagementUpdate}
	case models.EngagementDisliked:
		if reaction == models.ReactionDislike {
			return Transition{Next: models.EngagementNone, DislikeDelta: -1, Op: models.EngagementDelete}
		}
		return Transition{Next: models.EngagementLiked, LikeDelta: 1, DislikeDelta: -1, Op: models.EngagementUpdate}
	default:
		if reaction == models.ReactionLike {
			return Transition{Next: models.EngagementLiked, LikeDelta: 1, Op: models.EngagementInsert}
		}
		return Transition{Next: models.EngagementDisliked, DislikeDelta: 1, Op: models.EngagementInsert}
	}
}
