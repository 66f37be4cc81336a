package handlers

import "net/http"

// Routes builds the API mux. Session resolution and CORS wrap the whole
// mux in main; individual handlers enforce their own auth requirements.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.HandleHealth())

	mux.HandleFunc("POST /api/users/auth/signup", s.HandleSignUp())
	mux.HandleFunc("PATCH /api/users/auth/signin", s.HandleSignIn())
	mux.HandleFunc("PATCH /api/users/auth/signout", s.HandleSignOut())

	mux.HandleFunc("GET /api/posts", s.HandleListPosts())
	mux.HandleFunc("POST /api/posts", s.HandleCreatePost())
	mux.HandleFunc("GET /api/posts/{id}", s.HandleGetPost())
	mux.HandleFunc("PATCH /api/posts/{id}", s.HandleEditPost())
	mux.HandleFunc("DELETE /api/posts/{id}", s.HandleRemovePost())
	mux.HandleFunc("POST /api/posts/{id}/likes", s.HandleLikePost())
	mux.HandleFunc("DELETE /api/posts/{id}/likes", s.HandleUnlikePost())

	mux.HandleFunc("GET /api/topics", s.HandleSearchTopics())

	mux.HandleFunc("GET /api/users/bookmarks", s.HandleBookmarkFeed())
	mux.HandleFunc("POST /api/users/bookmarks/{postId}", s.HandleBookmark())
	mux.HandleFunc("DELETE /api/users/bookmarks/{postId}", s.HandleUnbookmark())
	mux.HandleFunc("POST /api/users/follows/{userId}", s.HandleFollow())
	mux.HandleFunc("DELETE /api/users/follows/{userId}", s.HandleUnfollow())
	mux.HandleFunc("PATCH /api/users/profile", s.HandleUpdateProfile())
	mux.HandleFunc("GET /api/users/{id}", s.HandleGetProfile())
	mux.HandleFunc("GET /api/users/{id}/follows", s.HandleListFollowing())
	mux.HandleFunc("GET /api/users/{id}/followers", s.HandleListFollowers())

	return mux
}
