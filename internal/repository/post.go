// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post and engagement data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetWithCreator(ctx context.Context, id string) (*models.Post, *models.User, error)
	ListWithCreators(ctx context.Context, filter string) ([]*models.Post, []*models.User, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	FindEngagement(ctx context.Context, userID, postID string) (models.EngagementState, error)
	SaveReaction(ctx context.Context, post *models.Post, engagement models.Engagement, op models.EngagementOp) error
}

// postRepository implements PostRepository
type postRepository struct {
	db    *gorm.DB
	users UserRepository
}

// NewPostRepository creates a new post repository. Creator lookups are
// delegated to the user repository.
func NewPostRepository(db *gorm.DB, users UserRepository) PostRepository {
	return &postRepository{db: db, users: users}
}

// feedPayload is the cached shape for the unfiltered post feed.
type feedPayload struct {
	Posts    []*models.Post `json:"posts"`
	Creators []*models.User `json:"creators"`
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostsListKey())
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetWithCreator loads a post together with its creator. The creator may be
// nil when the referencing row survived an account removal.
func (r *postRepository) GetWithCreator(ctx context.Context, id string) (*models.Post, *models.User, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, models.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, nil, err
	}

	creator, err := r.users.GetByID(ctx, post.CreatorID)
	if err != nil {
		return nil, nil, err
	}
	return &post, creator, nil
}

// ListWithCreators returns the posts matching the filter, newest first,
// plus every distinct creator referenced by those posts. The unfiltered
// feed is served cache-aside.
func (r *postRepository) ListWithCreators(ctx context.Context, filter string) ([]*models.Post, []*models.User, error) {
	if filter == "" {
		var payload feedPayload
		err := cache.Aside(ctx, cache.PostsListKey(), &payload, cache.ListTTL, func() error {
			posts, creators, fetchErr := r.queryWithCreators(ctx, "")
			if fetchErr != nil {
				return fetchErr
			}
			payload.Posts = posts
			payload.Creators = creators
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		return payload.Posts, payload.Creators, nil
	}
	return r.queryWithCreators(ctx, filter)
}

func (r *postRepository) queryWithCreators(ctx context.Context, filter string) ([]*models.Post, []*models.User, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter != "" {
		query = query.Where("content LIKE ?", "%"+filter+"%")
	}

	var posts []*models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(posts))
	seen := map[string]struct{}{}
	for _, p := range posts {
		if _, ok := seen[p.CreatorID]; ok {
			continue
		}
		seen[p.CreatorID] = struct{}{}
		ids = append(ids, p.CreatorID)
	}

	creators, err := r.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return posts, creators, nil
}

// Update persists content and updated_at only. Counters are written solely by
// SaveReaction, so an edit working from a stale snapshot can never clobber a
// committed reaction.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE posts SET content = ?, updated_at = ? WHERE id = ?`,
		post.Content, post.UpdatedAt, post.ID,
	).Error
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post and its engagement rows in one transaction so a
// partial failure never leaves dangling reactions.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM engagements WHERE post_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM posts WHERE id = ?`, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) FindEngagement(ctx context.Context, userID, postID string) (models.EngagementState, error) {
	var engagement models.Engagement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&engagement).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EngagementNone, nil
	}
	if err != nil {
		return models.EngagementNone, err
	}
	return engagement.State(), nil
}

// SaveReaction persists the post's counters and the engagement row change in
// a single transaction. The insert uses ON CONFLICT DO NOTHING so a racing
// duplicate cannot surface as a key violation. Reactions leave updated_at
// alone; only edits advance it.
func (r *postRepository) SaveReaction(ctx context.Context, post *models.Post, engagement models.Engagement, op models.EngagementOp) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`UPDATE posts SET likes = ?, dislikes = ? WHERE id = ?`,
			post.Likes, post.Dislikes, post.ID,
		).Error; err != nil {
			return err
		}

		switch op {
		case models.EngagementInsert:
			return tx.Exec(
				`INSERT INTO engagements (user_id, post_id, kind, created_at)
				 VALUES (?, ?, ?, ?)
				 ON CONFLICT (user_id, post_id) DO NOTHING`,
				engagement.UserID, engagement.PostID, engagement.Kind, time.Now().UTC(),
			).Error
		case models.EngagementUpdate:
			return tx.Exec(
				`UPDATE engagements SET kind = ? WHERE user_id = ? AND post_id = ?`,
				engagement.Kind, engagement.UserID, engagement.PostID,
			).Error
		case models.EngagementDelete:
			return tx.Exec(
				`DELETE FROM engagements WHERE user_id = ? AND post_id = ?`,
				engagement.UserID, engagement.PostID,
			).Error
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}
