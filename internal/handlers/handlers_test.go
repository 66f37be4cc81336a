package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/engine"
	"inkwell/internal/feed"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/testutil"
	"inkwell/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAPI wires the full stack over the in-memory store: actors, gate,
// composer and the route mux with session middleware, driven through
// httptest with cookies carried between calls.
type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *testutil.MemStore
	cookies map[string][]*http.Cookie // per logical client
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := testutil.NewMemStore()
	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, store, metrics)
	gate := auth.NewGate(store, nil, time.Hour)

	server := NewServer(
		system,
		system.Root,
		eng,
		gate,
		feed.NewComposer(store),
		feed.NewGraphResolver(store),
		store,
		metrics,
		"",
	)

	return &testAPI{
		t:       t,
		handler: middleware.SessionMiddleware(gate)(server.Routes()),
		store:   store,
		cookies: make(map[string][]*http.Cookie),
	}
}

// do sends a request as the named client, carrying that client's cookies
// and folding any Set-Cookie headers back in.
func (api *testAPI) do(client, method, path string, body interface{}) *httptest.ResponseRecorder {
	api.t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(api.t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range api.cookies[client] {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	api.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		api.setCookie(client, c)
	}
	return w
}

func (api *testAPI) setCookie(client string, c *http.Cookie) {
	kept := api.cookies[client][:0]
	for _, existing := range api.cookies[client] {
		if existing.Name != c.Name {
			kept = append(kept, existing)
		}
	}
	if c.MaxAge >= 0 && c.Value != "" {
		kept = append(kept, c)
	}
	api.cookies[client] = kept
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func (api *testAPI) signUp(client, username, email string) models.User {
	api.t.Helper()
	w := api.do(client, "POST", "/api/users/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	require.Equal(api.t, http.StatusCreated, w.Code, w.Body.String())
	var user models.User
	decodeJSON(api.t, w, &user)
	return user
}

func (api *testAPI) signIn(client, email string) {
	api.t.Helper()
	w := api.do(client, "PATCH", "/api/users/auth/signin", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(api.t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(api.t, api.cookies[client], "sign-in must set session cookies")
}

func (api *testAPI) createPost(client, title, topic string) models.Post {
	api.t.Helper()
	w := api.do(client, "POST", "/api/posts", map[string]string{
		"title":       title,
		"description": "a description",
		"markdown":    "# content",
		"topicName":   topic,
	})
	require.Equal(api.t, http.StatusCreated, w.Code, w.Body.String())
	var post models.Post
	decodeJSON(api.t, w, &post)
	return post
}

func TestSignUpValidationAndDuplicates(t *testing.T) {
	api := newTestAPI(t)

	w := api.do("a", "POST", "/api/users/auth/signup", map[string]string{
		"username": "bad name!",
		"email":    "a@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	api.signUp("a", "alice", "alice@example.com")

	w = api.do("b", "POST", "/api/users/auth/signup", map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusNotAcceptable, w.Code)
	var errBody map[string]string
	decodeJSON(t, w, &errBody)
	assert.Contains(t, errBody["error"], "email")
}

func TestSignInWrongPasswordIs401(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("a", "alice", "alice@example.com")

	w := api.do("a", "PATCH", "/api/users/auth/signin", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, api.cookies["a"])
}

func TestCreatePostRequiresSession(t *testing.T) {
	api := newTestAPI(t)

	w := api.do("anon", "POST", "/api/posts", map[string]string{
		"title":       "t",
		"description": "d",
		"markdown":    "m",
		"topicName":   "cooking",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	api.signUp("a", "alice", "alice@example.com")
	api.signIn("a", "alice@example.com")
	post := api.createPost("a", "First Post", "Cooking")

	assert.Equal(t, "cooking", post.Topic.Name)
	assert.Equal(t, "alice", post.Author.Username)

	api.createPost("a", "Off Topic", "travel")

	w = api.do("anon", "GET", "/api/posts?topic=cooking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page feed.Page
	decodeJSON(t, w, &page)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, post.ID, page.Posts[0].ID)
	assert.Equal(t, "cooking", page.Posts[0].Topic.Name)

	// The filter matches the stored name exactly; the original casing
	// used at creation is gone after normalization.
	w = api.do("anon", "GET", "/api/posts?topic=Cooking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cased feed.Page
	decodeJSON(t, w, &cased)
	assert.Empty(t, cased.Posts)
	assert.Equal(t, 0, cased.Count)
}

func TestFeedEnrichmentPerViewer(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("a", "alice", "alice@example.com")
	api.signIn("a", "alice@example.com")
	api.signUp("b", "bob", "bob@example.com")
	api.signIn("b", "bob@example.com")

	post := api.createPost("a", "First Post", "cooking")
	api.createPost("a", "Second Post", "cooking")

	w := api.do("b", "POST", "/api/posts/"+post.ID.String()+"/likes", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = api.do("b", "POST", "/api/users/bookmarks/"+post.ID.String(), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Anonymous listing carries no per-viewer data.
	w = api.do("anon", "GET", "/api/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var anonPage feed.Page
	decodeJSON(t, w, &anonPage)
	require.Len(t, anonPage.Posts, 2)
	for _, p := range anonPage.Posts {
		assert.Nil(t, p.UserData)
	}

	// Bob sees his like and bookmark on the one post he touched.
	w = api.do("b", "GET", "/api/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bobPage feed.Page
	decodeJSON(t, w, &bobPage)
	require.Len(t, bobPage.Posts, 2)
	for _, p := range bobPage.Posts {
		require.NotNil(t, p.UserData)
		if p.ID == post.ID {
			assert.True(t, p.UserData.Liked)
			assert.True(t, p.UserData.Bookmarked)
		} else {
			assert.False(t, p.UserData.Liked)
			assert.False(t, p.UserData.Bookmarked)
		}
	}
}

func TestLikeConflictAndUnlikeAbsent(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("a", "alice", "alice@example.com")
	api.signIn("a", "alice@example.com")
	post := api.createPost("a", "Post", "cooking")
	path := "/api/posts/" + post.ID.String() + "/likes"

	w := api.do("a", "POST", path, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do("a", "POST", path, nil)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)

	w = api.do("a", "DELETE", path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do("a", "DELETE", path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileFollowState(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signUp("a", "alice", "alice@example.com")
	api.signIn("a", "alice@example.com")
	api.signUp("b", "bob", "bob@example.com")
	api.signIn("b", "bob@example.com")
	api.createPost("a", "Post", "cooking")

	w := api.do("b", "POST", "/api/users/follows/"+alice.ID.String(), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Bob's view of Alice's profile shows the edge.
	w = api.do("b", "GET", "/api/users/"+alice.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile ProfileResponse
	decodeJSON(t, w, &profile)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Equal(t, 1, profile.Graph.Followers)
	require.NotNil(t, profile.Graph.IsFollowed)
	assert.True(t, *profile.Graph.IsFollowed)
	assert.Equal(t, 1, profile.Posts.Count)

	// Anonymous profile view omits the follow state entirely.
	w = api.do("anon", "GET", "/api/users/"+alice.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]json.RawMessage
	decodeJSON(t, w, &raw)
	var graph map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["graph"], &graph))
	_, present := graph["isFollowed"]
	assert.False(t, present)

	// Following twice conflicts; self-follow is rejected.
	w = api.do("b", "POST", "/api/users/follows/"+alice.ID.String(), nil)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)
	w = api.do("a", "POST", "/api/users/follows/"+alice.ID.String(), nil)
	assert.Equal(t, http.StatusNotAcceptable, w.Code)
}

func TestSignOutRevokesSession(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("a", "alice", "alice@example.com")
	api.signIn("a", "alice@example.com")

	token := ""
	for _, c := range api.cookies["a"] {
		if c.Name == "token" {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)

	w := api.do("a", "PATCH", "/api/users/auth/signout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, api.cookies["a"], "sign-out must clear cookies")

	// Even replaying the old cookies fails: the session record is gone.
	api.cookies["a"] = []*http.Cookie{
		{Name: "token", Value: token},
		{Name: "email", Value: "alice@example.com"},
	}
	w = api.do("a", "POST", "/api/posts", map[string]string{
		"title":       "t",
		"description": "d",
		"markdown":    "m",
		"topicName":   "cooking",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaginationQueryValidation(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{
		"/api/posts?page=0",
		"/api/posts?page=-2",
		"/api/posts?limit=0",
		"/api/posts?page=abc",
	} {
		w := api.do("anon", "GET", path, nil)
		assert.Equal(t, http.StatusNotAcceptable, w.Code, path)
	}

	w := api.do("anon", "GET", "/api/posts?page=99", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var page feed.Page
	decodeJSON(t, w, &page)
	assert.Empty(t, page.Posts)
}

func TestTopicSearch(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("a", "alice", "alice@example.com")
	api.signIn("a", "alice@example.com")
	api.createPost("a", "One", "Cooking")
	api.createPost("a", "Two", "code")
	api.createPost("a", "Three", "travel")

	w := api.do("anon", "GET", "/api/topics?name=co", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var topics []models.Topic
	decodeJSON(t, w, &topics)
	require.Len(t, topics, 2)
	assert.Equal(t, "code", topics[0].Name)
	assert.Equal(t, "cooking", topics[1].Name)
}

func TestBookmarkFeedEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.signUp("a", "alice", "alice@example.com")
	api.signIn("a", "alice@example.com")
	first := api.createPost("a", "First", "cooking")
	api.createPost("a", "Second", "cooking")

	w := api.do("anon", "GET", "/api/users/bookmarks", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do("a", "POST", "/api/users/bookmarks/"+first.ID.String(), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do("a", "GET", "/api/users/bookmarks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Posts []models.PostSummary `json:"posts"`
	}
	decodeJSON(t, w, &body)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, first.ID, body.Posts[0].ID)
}

func TestUpdateProfileAbout(t *testing.T) {
	api := newTestAPI(t)
	alice := api.signUp("a", "alice", "alice@example.com")
	api.signIn("a", "alice@example.com")

	w := api.do("a", "PATCH", "/api/users/profile", map[string]string{"about": "hello there"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do("anon", "GET", "/api/users/"+alice.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile ProfileResponse
	decodeJSON(t, w, &profile)
	assert.Equal(t, "hello there", profile.User.About)
}
