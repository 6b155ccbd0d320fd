// Package service contains the business rules of the application. Services
// verify caller credentials themselves, so authentication failures never
// reach storage.
package service

import (
	"context"
	"sync"
	"time"

	"ripple/internal/auth"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	tokens   auth.TokenVerifier
	ids      auth.IDGenerator
	now      func() time.Time
	locks    keyedMutex
}

type CreatePostInput struct {
	Token   string
	Content string
}

type ListPostsInput struct {
	Token  string
	Filter string
}

type EditPostInput struct {
	Token   string
	PostID  string
	Content string
}

type DeletePostInput struct {
	Token  string
	PostID string
}

type ReactInput struct {
	Token  string
	PostID string
	Like   bool
}

func NewPostService(
	postRepo repository.PostRepository,
	tokens auth.TokenVerifier,
	ids auth.IDGenerator,
	now func() time.Time,
) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{
		postRepo: postRepo,
		tokens:   tokens,
		ids:      ids,
		now:      now,
	}
}

// keyedMutex serializes read-modify-write cycles per post so concurrent
// reactions on the same post cannot interleave between the engagement read
// and the counter write.
type keyedMutex struct {
	mu sync.Map
}

func (k *keyedMutex) lock(key string) func() {
	v, _ := k.mu.LoadOrStore(key, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// ListPosts returns every post matching the optional content filter, newest
// first, each carrying its creator's identity snapshot.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.PostView, error) {
	if _, err := s.tokens.Verify(in.Token); err != nil {
		return nil, err
	}

	posts, creators, err := s.postRepo.ListWithCreators(ctx, in.Filter)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.CreatorSummary, len(creators))
	for _, c := range creators {
		byID[c.ID] = c.Summary()
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		creator, ok := byID[p.CreatorID]
		if !ok {
			// Orphaned rows indicate a data-integrity fault. Skip them
			// rather than failing the whole feed.
			middleware.Logger.WarnContext(ctx, "dropping post with missing creator",
				"post_id", p.ID, "creator_id", p.CreatorID)
			continue
		}
		views = append(views, p.View(creator))
	}
	return views, nil
}

// GetPost returns a single post with its creator snapshot.
func (s *PostService) GetPost(ctx context.Context, token, postID string) (*models.PostView, error) {
	payload, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	post, creator, err := s.postRepo.GetWithCreator(ctx, postID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		middleware.Logger.WarnContext(ctx, "post has no creator row",
			"post_id", post.ID, "creator_id", post.CreatorID, "requested_by", payload.ID)
		return nil, models.NewNotFoundError("post", postID)
	}

	view := post.View(creator.Summary())
	return &view, nil
}

// CreatePost stores a new post owned by the caller.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	payload, err := s.tokens.Verify(in.Token)
	if err != nil {
		return nil, err
	}

	created := s.now()
	post := &models.Post{
		ID:        s.ids.New(),
		CreatorID: payload.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := post.SetContent(in.Content); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	view := post.View(models.CreatorSummary{ID: payload.ID, Name: payload.Name})
	return &view, nil
}

// EditPost replaces the content of a post owned by the caller. Admins do not
// get to rewrite other people's words; editing stays creator-only.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (*models.PostView, error) {
	payload, err := s.tokens.Verify(in.Token)
	if err != nil {
		return nil, err
	}

	// Read straight from storage. A cached snapshot could carry counters
	// already overtaken by a reaction, and the edited view must not.
	post, _, err := s.postRepo.GetWithCreator(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !canMutate(post, payload, false) {
		return nil, models.NewAuthorizationError("Only the creator can edit this post")
	}

	if err := post.SetContent(in.Content); err != nil {
		return nil, err
	}
	post.SetUpdatedAt(s.now())

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	view := post.View(models.CreatorSummary{ID: payload.ID, Name: payload.Name})
	return &view, nil
}

// DeletePost removes a post and its engagement rows. The creator may delete
// their own post; admins may delete any post.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	payload, err := s.tokens.Verify(in.Token)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !canMutate(post, payload, true) {
		return models.NewAuthorizationError("Only the creator or an admin can delete this post")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ReactToPost applies a like or dislike, resolving the caller's current
// engagement into a transition and persisting counters and engagement row
// atomically.
func (s *PostService) ReactToPost(ctx context.Context, in ReactInput) (*models.PostView, error) {
	payload, err := s.tokens.Verify(in.Token)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(in.PostID)
	defer unlock()

	post, creator, err := s.postRepo.GetWithCreator(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.CreatorID == payload.ID {
		return nil, models.NewAuthorizationError("You cannot react to your own post")
	}

	state, err := s.postRepo.FindEngagement(ctx, payload.ID, in.PostID)
	if err != nil {
		return nil, err
	}

	reaction := models.ReactionFromBool(in.Like)
	transition := ResolveEngagement(state, reaction)
	applyDeltas(post, transition)

	engagement := models.Engagement{UserID: payload.ID, PostID: in.PostID, Kind: reaction}
	if err := s.postRepo.SaveReaction(ctx, post, engagement, transition.Op); err != nil {
		return nil, err
	}
	middleware.EngagementTransitions.WithLabelValues(string(transition.Op)).Inc()

	summary := models.CreatorSummary{ID: post.CreatorID}
	if creator != nil {
		summary = creator.Summary()
	}
	view := post.View(summary)
	return &view, nil
}

// canMutate is the single ownership/role policy for post mutations. The
// admin override applies to delete but never to edit.
func canMutate(post *models.Post, caller *models.AuthPayload, allowAdmin bool) bool {
	if post.CreatorID == caller.ID {
		return true
	}
	return allowAdmin && caller.Role == models.RoleAdmin
}

func applyDeltas(post *models.Post, t Transition) {
	switch t.LikeDelta {
	case 1:
		post.AddLike()
	case -1:
		post.RemoveLike()
	}
	switch t.DislikeDelta {
	case 1:
		post.AddDislike()
	case -1:
		post.RemoveDislike()
	}
}
