package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/testutil"
	"inkwell/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPosts(t *testing.T, store *testutil.MemStore, n int, topic string, authorID uuid.UUID) []*models.Post {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]*models.Post, n)
	for i := 0; i < n; i++ {
		post := &models.Post{
			ID:          uuid.New(),
			Title:       fmt.Sprintf("post %d", i),
			Description: "desc",
			Markdown:    "body",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			Author:      models.AuthorSnapshot{ID: authorID, Username: "alice"},
			Topic:       models.TopicSnapshot{ID: uuid.New(), Name: topic},
		}
		require.NoError(t, store.CreatePost(context.Background(), post))
		posts[i] = post
	}
	return posts
}

func TestListPostsPagination(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)
	seedPosts(t, store, 25, "cooking", uuid.New())

	cases := []struct {
		page, limit    int
		wantLen        int
		wantTotalPages int
	}{
		{1, 10, 10, 3},
		{2, 10, 10, 3},
		{3, 10, 5, 3},
		{4, 10, 0, 3},
		{1, 25, 25, 1},
		{1, 7, 7, 4},
	}
	for _, tc := range cases {
		page, err := composer.ListPosts(context.Background(), database.PostFilter{}, tc.page, tc.limit, nil)
		require.NoError(t, err, "page=%d limit=%d", tc.page, tc.limit)
		assert.Len(t, page.Posts, tc.wantLen, "page=%d limit=%d", tc.page, tc.limit)
		assert.Equal(t, tc.wantTotalPages, page.TotalPages, "page=%d limit=%d", tc.page, tc.limit)
		assert.Equal(t, 25, page.Count)
	}
}

func TestListPostsRejectsBadPagination(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)

	for _, tc := range []struct{ page, limit int }{
		{0, 10},
		{-1, 10},
		{1, 0},
		{1, -5},
	} {
		_, err := composer.ListPosts(context.Background(), database.PostFilter{}, tc.page, tc.limit, nil)
		require.Error(t, err, "page=%d limit=%d", tc.page, tc.limit)
		assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)
	seedPosts(t, store, 5, "cooking", uuid.New())

	page, err := composer.ListPosts(context.Background(), database.PostFilter{}, 1, 10, nil)
	require.NoError(t, err)
	require.Len(t, page.Posts, 5)
	for i := 1; i < len(page.Posts); i++ {
		assert.False(t, page.Posts[i].CreatedAt.After(page.Posts[i-1].CreatedAt))
	}
}

func TestListPostsTopicFilterScopesCount(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)
	seedPosts(t, store, 8, "cooking", uuid.New())
	seedPosts(t, store, 3, "travel", uuid.New())

	page, err := composer.ListPosts(context.Background(), database.PostFilter{TopicName: "travel"}, 1, 10, nil)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 1, page.TotalPages)
	for _, post := range page.Posts {
		assert.Equal(t, "travel", post.Topic.Name)
	}
}

func TestListPostsExcludesRemoved(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)
	authorID := uuid.New()
	posts := seedPosts(t, store, 4, "cooking", authorID)

	require.NoError(t, store.RemovePost(context.Background(), posts[0].ID, authorID))

	page, err := composer.ListPosts(context.Background(), database.PostFilter{}, 1, 10, nil)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.Equal(t, 3, page.Count)
	for _, p := range page.Posts {
		assert.NotEqual(t, posts[0].ID, p.ID)
	}
}

func TestListPostsEnrichmentOnlyForViewer(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)
	posts := seedPosts(t, store, 3, "cooking", uuid.New())

	viewer := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	require.NoError(t, store.CreateUser(context.Background(), viewer))
	require.NoError(t, store.InsertLike(context.Background(), viewer.ID, posts[1].ID))
	require.NoError(t, store.AddBookmark(context.Background(), viewer.ID, posts[2].ID.String()))
	viewer, err := store.GetUser(context.Background(), viewer.ID)
	require.NoError(t, err)

	anonymous, err := composer.ListPosts(context.Background(), database.PostFilter{}, 1, 10, nil)
	require.NoError(t, err)
	for _, post := range anonymous.Posts {
		assert.Nil(t, post.UserData)
	}

	enriched, err := composer.ListPosts(context.Background(), database.PostFilter{}, 1, 10, viewer)
	require.NoError(t, err)
	byID := make(map[uuid.UUID]models.PostSummary)
	for _, post := range enriched.Posts {
		require.NotNil(t, post.UserData, "every post carries userData for a viewer")
		byID[post.ID] = post
	}
	assert.False(t, byID[posts[0].ID].UserData.Liked)
	assert.False(t, byID[posts[0].ID].UserData.Bookmarked)
	assert.True(t, byID[posts[1].ID].UserData.Liked)
	assert.True(t, byID[posts[2].ID].UserData.Bookmarked)
}

func TestGetPostEnrichedForViewer(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)
	posts := seedPosts(t, store, 2, "cooking", uuid.New())

	viewer := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	require.NoError(t, store.CreateUser(context.Background(), viewer))
	require.NoError(t, store.InsertLike(context.Background(), viewer.ID, posts[0].ID))
	require.NoError(t, store.AddBookmark(context.Background(), viewer.ID, posts[0].ID.String()))

	view, err := composer.GetPost(context.Background(), posts[0].ID, viewer)
	require.NoError(t, err)
	require.NotNil(t, view.UserData)
	assert.True(t, view.UserData.Liked)
	assert.True(t, view.UserData.Bookmarked)

	untouched, err := composer.GetPost(context.Background(), posts[1].ID, viewer)
	require.NoError(t, err)
	require.NotNil(t, untouched.UserData)
	assert.False(t, untouched.UserData.Liked)
	assert.False(t, untouched.UserData.Bookmarked)
}

func TestGetPostRemovedIsNotFound(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)
	authorID := uuid.New()
	posts := seedPosts(t, store, 1, "cooking", authorID)

	view, err := composer.GetPost(context.Background(), posts[0].ID, nil)
	require.NoError(t, err)
	assert.Equal(t, posts[0].ID, view.ID)
	assert.Nil(t, view.UserData)

	require.NoError(t, store.RemovePost(context.Background(), posts[0].ID, authorID))

	_, err = composer.GetPost(context.Background(), posts[0].ID, nil)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestBookmarkFeedSkipsRemoved(t *testing.T) {
	store := testutil.NewMemStore()
	composer := NewComposer(store)
	authorID := uuid.New()
	posts := seedPosts(t, store, 3, "cooking", authorID)

	viewer := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	require.NoError(t, store.CreateUser(context.Background(), viewer))
	for _, post := range posts {
		require.NoError(t, store.AddBookmark(context.Background(), viewer.ID, post.ID.String()))
	}
	require.NoError(t, store.RemovePost(context.Background(), posts[0].ID, authorID))
	viewer, err := store.GetUser(context.Background(), viewer.ID)
	require.NoError(t, err)

	feed, err := composer.BookmarkFeed(context.Background(), viewer)
	require.NoError(t, err)
	assert.Len(t, feed, 2)
	for _, post := range feed {
		require.NotNil(t, post.UserData)
		assert.True(t, post.UserData.Bookmarked)
	}
}
