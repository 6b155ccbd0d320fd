package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	postKeyPrefix = "post:%s"
	postsListKey  = "posts:all"
)

const (
	// PostTTL is the cache lifetime of a single post view.
	PostTTL = 5 * time.Minute
	// ListTTL is the cache lifetime of the unfiltered post list.
	ListTTL = 30 * time.Second
)

// PostKey returns the cache key for a single post.
func PostKey(postID string) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// PostsListKey returns the cache key for the unfiltered post list.
func PostsListKey() string {
	return postsListKey
}

// Invalidate removes a key from the cache.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost removes a post and the list view from the cache.
func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, postsListKey)
}
