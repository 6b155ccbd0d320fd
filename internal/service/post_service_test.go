package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, string) (*models.Post, error)
	getWithCreatorFn   func(context.Context, string) (*models.Post, *models.User, error)
	listWithCreatorsFn func(context.Context, string) ([]*models.Post, []*models.User, error)
	updateFn           func(context.Context, *models.Post) error
	deleteFn           func(context.Context, string) error
	findEngagementFn   func(context.Context, string, string) (models.EngagementState, error)
	saveReactionFn     func(context.Context, *models.Post, models.Engagement, models.EngagementOp) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetWithCreator(ctx context.Context, id string) (*models.Post, *models.User, error) {
	return s.getWithCreatorFn(ctx, id)
}
func (s *postRepoStub) ListWithCreators(ctx context.Context, filter string) ([]*models.Post, []*models.User, error) {
	return s.listWithCreatorsFn(ctx, filter)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) FindEngagement(ctx context.Context, userID, postID string) (models.EngagementState, error) {
	return s.findEngagementFn(ctx, userID, postID)
}
func (s *postRepoStub) SaveReaction(ctx context.Context, post *models.Post, engagement models.Engagement, op models.EngagementOp) error {
	return s.saveReactionFn(ctx, post, engagement, op)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ string) (*models.Post, error) { return &models.Post{}, nil },
		getWithCreatorFn: func(_ context.Context, _ string) (*models.Post, *models.User, error) {
			return &models.Post{}, &models.User{}, nil
		},
		listWithCreatorsFn: func(_ context.Context, _ string) ([]*models.Post, []*models.User, error) {
			return nil, nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ string) error { return nil },
		findEngagementFn: func(_ context.Context, _, _ string) (models.EngagementState, error) {
			return models.EngagementNone, nil
		},
		saveReactionFn: func(_ context.Context, _ *models.Post, _ models.Engagement, _ models.EngagementOp) error {
			return nil
		},
	}
}

// verifierStub is a stub for auth.TokenVerifier keyed by literal token values.
type verifierStub struct {
	payloads map[string]*models.AuthPayload
}

func (s *verifierStub) Verify(token string) (*models.AuthPayload, error) {
	if p, ok := s.payloads[token]; ok {
		return p, nil
	}
	return nil, models.NewAuthenticationError("Invalid or expired token")
}

// idStub is a deterministic auth.IDGenerator.
type idStub struct {
	next string
}

func (s *idStub) New() string { return s.next }

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

var testVerifier = &verifierStub{payloads: map[string]*models.AuthPayload{
	"token-ada":   {ID: "u-ada", Name: "ada", Role: models.RoleNormal},
	"token-bob":   {ID: "u-bob", Name: "bob", Role: models.RoleNormal},
	"token-admin": {ID: "u-admin", Name: "root", Role: models.RoleAdmin},
}}

func newTestPostService(repo *postRepoStub) *PostService {
	return NewPostService(repo, testVerifier, &idStub{next: "p-new"}, fixedNow)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestPostService_RejectsInvalidToken(t *testing.T) {
	t.Parallel()
	repoTouched := false
	repo := noopPostRepo()
	repo.listWithCreatorsFn = func(_ context.Context, _ string) ([]*models.Post, []*models.User, error) {
		repoTouched = true
		return nil, nil, nil
	}
	repo.createFn = func(_ context.Context, _ *models.Post) error {
		repoTouched = true
		return nil
	}
	repo.getWithCreatorFn = func(_ context.Context, _ string) (*models.Post, *models.User, error) {
		repoTouched = true
		return nil, nil, nil
	}
	svc := newTestPostService(repo)
	ctx := context.Background()

	_, err := svc.ListPosts(ctx, ListPostsInput{Token: "forged"})
	assertAppErrorCode(t, err, models.CodeAuthentication)

	_, err = svc.CreatePost(ctx, CreatePostInput{Token: "forged", Content: "hi"})
	assertAppErrorCode(t, err, models.CodeAuthentication)

	_, err = svc.ReactToPost(ctx, ReactInput{Token: "forged", PostID: "p1", Like: true})
	assertAppErrorCode(t, err, models.CodeAuthentication)

	assert.False(t, repoTouched, "rejected credentials must never reach storage")
}

func TestPostService_CreateAndList(t *testing.T) {
	t.Parallel()
	var stored *models.Post
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, post *models.Post) error {
		stored = post
		return nil
	}
	repo.listWithCreatorsFn = func(_ context.Context, _ string) ([]*models.Post, []*models.User, error) {
		return []*models.Post{stored}, []*models.User{{ID: "u-ada", Name: "ada"}}, nil
	}
	svc := newTestPostService(repo)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, CreatePostInput{Token: "token-ada", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "p-new", created.ID)
	assert.Equal(t, "u-ada", stored.CreatorID)
	assert.Equal(t, fixedNow(), stored.CreatedAt)

	views, err := svc.ListPosts(ctx, ListPostsInput{Token: "token-bob"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "hello", views[0].Content)
	assert.Equal(t, "ada", views[0].Creator.Name)
	assert.Zero(t, views[0].Likes)
	assert.Zero(t, views[0].Dislikes)
}

func TestPostService_CreatePost_BlankContent(t *testing.T) {
	t.Parallel()
	created := false
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, _ *models.Post) error {
		created = true
		return nil
	}
	svc := newTestPostService(repo)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{Token: "token-ada", Content: "   "})
	assertAppErrorCode(t, err, models.CodeValidation)
	assert.False(t, created)
}

func TestPostService_ListPosts_DropsOrphanedRows(t *testing.T) {
	t.Parallel()
	repo := noopPostRepo()
	repo.listWithCreatorsFn = func(_ context.Context, _ string) ([]*models.Post, []*models.User, error) {
		return []*models.Post{
				{ID: "p1", Content: "kept", CreatorID: "u-ada"},
				{ID: "p2", Content: "orphan", CreatorID: "u-gone"},
			},
			[]*models.User{{ID: "u-ada", Name: "ada"}}, nil
	}
	svc := newTestPostService(repo)

	views, err := svc.ListPosts(context.Background(), ListPostsInput{Token: "token-bob"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "p1", views[0].ID)
}

func TestPostService_EditPost(t *testing.T) {
	t.Parallel()
	base := func() *models.Post {
		return &models.Post{
			ID:        "p1",
			Content:   "original",
			CreatorID: "u-ada",
			CreatedAt: fixedNow().Add(-time.Hour),
			UpdatedAt: fixedNow().Add(-time.Hour),
		}
	}

	withPost := func(repo *postRepoStub, post *models.Post) {
		repo.getWithCreatorFn = func(_ context.Context, _ string) (*models.Post, *models.User, error) {
			return post, &models.User{ID: post.CreatorID, Name: "ada"}, nil
		}
	}

	t.Run("Creator Edits", func(t *testing.T) {
		var saved *models.Post
		repo := noopPostRepo()
		withPost(repo, base())
		repo.updateFn = func(_ context.Context, post *models.Post) error {
			saved = post
			return nil
		}
		svc := newTestPostService(repo)

		view, err := svc.EditPost(context.Background(), EditPostInput{Token: "token-ada", PostID: "p1", Content: "revised"})
		require.NoError(t, err)
		assert.Equal(t, "revised", view.Content)
		assert.Equal(t, "revised", saved.Content)
		assert.Equal(t, fixedNow(), saved.UpdatedAt)
	})

	t.Run("Counters Survive The Edit", func(t *testing.T) {
		post := base()
		post.Likes = 4
		post.Dislikes = 2
		repo := noopPostRepo()
		withPost(repo, post)
		svc := newTestPostService(repo)

		view, err := svc.EditPost(context.Background(), EditPostInput{Token: "token-ada", PostID: "p1", Content: "revised"})
		require.NoError(t, err)
		assert.Equal(t, 4, view.Likes)
		assert.Equal(t, 2, view.Dislikes)
	})

	t.Run("Other User Forbidden", func(t *testing.T) {
		repo := noopPostRepo()
		withPost(repo, base())
		svc := newTestPostService(repo)

		_, err := svc.EditPost(context.Background(), EditPostInput{Token: "token-bob", PostID: "p1", Content: "hijack"})
		assertAppErrorCode(t, err, models.CodeAuthorization)
	})

	t.Run("Admin Cannot Edit Others", func(t *testing.T) {
		repo := noopPostRepo()
		withPost(repo, base())
		svc := newTestPostService(repo)

		_, err := svc.EditPost(context.Background(), EditPostInput{Token: "token-admin", PostID: "p1", Content: "override"})
		assertAppErrorCode(t, err, models.CodeAuthorization)
	})

	t.Run("Blank Content Rejected", func(t *testing.T) {
		repo := noopPostRepo()
		withPost(repo, base())
		svc := newTestPostService(repo)

		_, err := svc.EditPost(context.Background(), EditPostInput{Token: "token-ada", PostID: "p1", Content: " "})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Missing Post", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getWithCreatorFn = func(_ context.Context, id string) (*models.Post, *models.User, error) {
			return nil, nil, models.NewNotFoundError("post", id)
		}
		svc := newTestPostService(repo)

		_, err := svc.EditPost(context.Background(), EditPostInput{Token: "token-ada", PostID: "nope", Content: "x"})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()
	base := func() *models.Post {
		return &models.Post{ID: "p1", CreatorID: "u-ada"}
	}

	tests := []struct {
		name         string
		token        string
		expectDelete bool
		expectCode   string
	}{
		{name: "Creator Deletes Own", token: "token-ada", expectDelete: true},
		{name: "Admin Deletes Any", token: "token-admin", expectDelete: true},
		{name: "Other User Forbidden", token: "token-bob", expectCode: models.CodeAuthorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			repo := noopPostRepo()
			repo.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) { return base(), nil }
			repo.deleteFn = func(_ context.Context, _ string) error {
				deleted = true
				return nil
			}
			svc := newTestPostService(repo)

			err := svc.DeletePost(context.Background(), DeletePostInput{Token: tt.token, PostID: "p1"})
			if tt.expectCode != "" {
				assertAppErrorCode(t, err, tt.expectCode)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectDelete, deleted)
		})
	}
}

// reactionHarness keeps engagement state and the post across calls so a
// sequence of reactions behaves like it would against a real store.
type reactionHarness struct {
	post  *models.Post
	state models.EngagementState
	ops   []models.EngagementOp
}

func newReactionHarness() (*reactionHarness, *postRepoStub) {
	h := &reactionHarness{
		post: &models.Post{
			ID:        "p1",
			Content:   "hi",
			CreatorID: "u-ada",
			UpdatedAt: fixedNow().Add(-time.Hour),
		},
		state: models.EngagementNone,
	}
	repo := noopPostRepo()
	repo.getWithCreatorFn = func(_ context.Context, _ string) (*models.Post, *models.User, error) {
		snapshot := *h.post
		return &snapshot, &models.User{ID: "u-ada", Name: "ada"}, nil
	}
	repo.findEngagementFn = func(_ context.Context, _, _ string) (models.EngagementState, error) {
		return h.state, nil
	}
	repo.saveReactionFn = func(_ context.Context, post *models.Post, engagement models.Engagement, op models.EngagementOp) error {
		h.post = post
		h.ops = append(h.ops, op)
		switch op {
		case models.EngagementDelete:
			h.state = models.EngagementNone
		default:
			h.state = (&models.Engagement{Kind: engagement.Kind}).State()
		}
		return nil
	}
	return h, repo
}

func TestPostService_ReactToPost(t *testing.T) {
	t.Parallel()

	t.Run("Missing Post", func(t *testing.T) {
		saved := false
		repo := noopPostRepo()
		repo.getWithCreatorFn = func(_ context.Context, id string) (*models.Post, *models.User, error) {
			return nil, nil, models.NewNotFoundError("post", id)
		}
		repo.saveReactionFn = func(_ context.Context, _ *models.Post, _ models.Engagement, _ models.EngagementOp) error {
			saved = true
			return nil
		}
		svc := newTestPostService(repo)

		_, err := svc.ReactToPost(context.Background(), ReactInput{Token: "token-bob", PostID: "nope", Like: true})
		assertAppErrorCode(t, err, models.CodeNotFound)
		assert.False(t, saved)
	})

	t.Run("Creator Cannot React To Own Post", func(t *testing.T) {
		_, repo := newReactionHarness()
		svc := newTestPostService(repo)

		_, err := svc.ReactToPost(context.Background(), ReactInput{Token: "token-ada", PostID: "p1", Like: true})
		assertAppErrorCode(t, err, models.CodeAuthorization)
	})

	t.Run("Like Then Like Again Is Neutral", func(t *testing.T) {
		h, repo := newReactionHarness()
		svc := newTestPostService(repo)
		ctx := context.Background()

		view, err := svc.ReactToPost(ctx, ReactInput{Token: "token-bob", PostID: "p1", Like: true})
		require.NoError(t, err)
		assert.Equal(t, 1, view.Likes)

		view, err = svc.ReactToPost(ctx, ReactInput{Token: "token-bob", PostID: "p1", Like: true})
		require.NoError(t, err)
		assert.Zero(t, view.Likes)
		assert.Zero(t, view.Dislikes)
		assert.Equal(t, models.EngagementNone, h.state)
		assert.Equal(t, []models.EngagementOp{models.EngagementInsert, models.EngagementDelete}, h.ops)
	})

	t.Run("Like Then Dislike Flips Both Counters", func(t *testing.T) {
		h, repo := newReactionHarness()
		svc := newTestPostService(repo)
		ctx := context.Background()

		_, err := svc.ReactToPost(ctx, ReactInput{Token: "token-bob", PostID: "p1", Like: true})
		require.NoError(t, err)

		view, err := svc.ReactToPost(ctx, ReactInput{Token: "token-bob", PostID: "p1", Like: false})
		require.NoError(t, err)
		assert.Zero(t, view.Likes)
		assert.Equal(t, 1, view.Dislikes)
		assert.Equal(t, models.EngagementDisliked, h.state)
		assert.Equal(t, []models.EngagementOp{models.EngagementInsert, models.EngagementUpdate}, h.ops)
	})

	t.Run("Reaction Leaves Updated At Alone", func(t *testing.T) {
		h, repo := newReactionHarness()
		before := h.post.UpdatedAt
		svc := newTestPostService(repo)

		view, err := svc.ReactToPost(context.Background(), ReactInput{Token: "token-bob", PostID: "p1", Like: true})
		require.NoError(t, err)
		assert.Equal(t, before, view.UpdatedAt)
		assert.Equal(t, before, h.post.UpdatedAt)
	})

	t.Run("Counters Survive Other Reactors", func(t *testing.T) {
		h, repo := newReactionHarness()
		// bob reacts, then the admin reacts. Engagement state is tracked per
		// caller in a real store; here the harness resets it between users.
		svc := newTestPostService(repo)
		ctx := context.Background()

		_, err := svc.ReactToPost(ctx, ReactInput{Token: "token-bob", PostID: "p1", Like: true})
		require.NoError(t, err)

		h.state = models.EngagementNone
		view, err := svc.ReactToPost(ctx, ReactInput{Token: "token-admin", PostID: "p1", Like: true})
		require.NoError(t, err)
		assert.Equal(t, 2, view.Likes)
	})
}
