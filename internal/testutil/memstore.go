// Package testutil provides an in-memory store implementing the same
// interfaces as database.MongoDB, with the same error semantics, so the
// actors, gate, composer and handlers can be tested without a database.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/google/uuid"
)

type pair struct {
	a, b uuid.UUID
}

// MemStore holds everything behind one mutex. Copies go in and out so
// callers never share memory with the store.
type MemStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	posts    map[uuid.UUID]*models.Post
	topics   map[string]*models.Topic
	likes    map[pair]bool
	follows  map[pair]bool
	sessions map[string]*models.Session
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[uuid.UUID]*models.User),
		posts:    make(map[uuid.UUID]*models.Post),
		topics:   make(map[string]*models.Topic),
		likes:    make(map[pair]bool),
		follows:  make(map[pair]bool),
		sessions: make(map[string]*models.Session),
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Bookmarks = append([]string(nil), u.Bookmarks...)
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	return &c
}

// --- users ---

func (s *MemStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return utils.NewDuplicateError("email")
		}
		if existing.Username == user.Username {
			return utils.NewDuplicateError("username")
		}
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *MemStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "user not found", nil)
	}
	return copyUser(user), nil
}

func (s *MemStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, utils.NewAppError(utils.ErrUserNotFound, "user not found", nil)
}

func (s *MemStore) UpdateAbout(ctx context.Context, userID uuid.UUID, about string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return utils.NewAppError(utils.ErrUserNotFound, "user not found", nil)
	}
	user.About = about
	return nil
}

func (s *MemStore) AddBookmark(ctx context.Context, userID uuid.UUID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return utils.NewAppError(utils.ErrUserNotFound, "user not found", nil)
	}
	for _, b := range user.Bookmarks {
		if b == postID {
			return utils.NewDuplicateError("bookmark")
		}
	}
	user.Bookmarks = append(user.Bookmarks, postID)
	return nil
}

func (s *MemStore) RemoveBookmark(ctx context.Context, userID uuid.UUID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return utils.NewAppError(utils.ErrUserNotFound, "user not found", nil)
	}
	for i, b := range user.Bookmarks {
		if b == postID {
			user.Bookmarks = append(user.Bookmarks[:i], user.Bookmarks[i+1:]...)
			return nil
		}
	}
	return utils.NewNotFoundError("bookmark")
}

func (s *MemStore) IsBookmarked(ctx context.Context, userID uuid.UUID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	for _, b := range user.Bookmarks {
		if b == postID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) ListUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			summaries = append(summaries, models.UserSummary{
				ID:             user.ID,
				Username:       user.Username,
				ProfilePicture: user.ProfilePicture,
			})
		}
	}
	return summaries, nil
}

// --- posts ---

func (s *MemStore) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = copyPost(post)
	return nil
}

func (s *MemStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok || post.Removed {
		return nil, utils.NewNotFoundError("post")
	}
	return copyPost(post), nil
}

func (s *MemStore) UpdatePost(ctx context.Context, postID, authorID uuid.UUID, title, description, markdown string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok || post.Removed || post.Author.ID != authorID {
		return utils.NewNotFoundError("post")
	}
	now := time.Now().UTC()
	post.Title = title
	post.Description = description
	post.Markdown = markdown
	post.LastEdit = &now
	return nil
}

func (s *MemStore) RemovePost(ctx context.Context, postID, authorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok || post.Removed || post.Author.ID != authorID {
		return utils.NewNotFoundError("post")
	}
	post.Removed = true
	return nil
}

func (s *MemStore) matching(filter database.PostFilter) []*models.Post {
	var matched []*models.Post
	for _, post := range s.posts {
		if post.Removed {
			continue
		}
		if filter.TopicName != "" && post.Topic.Name != filter.TopicName {
			continue
		}
		if filter.AuthorID != nil && post.Author.ID != *filter.AuthorID {
			continue
		}
		matched = append(matched, post)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})
	return matched
}

func (s *MemStore) ListPosts(ctx context.Context, filter database.PostFilter, skip, limit int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := s.matching(filter)
	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]*models.Post, len(matched))
	for i, post := range matched {
		out[i] = copyPost(post)
	}
	return out, nil
}

func (s *MemStore) CountPosts(ctx context.Context, filter database.PostFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matching(filter)), nil
}

func (s *MemStore) ListPostsByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []*models.Post
	for _, post := range s.posts {
		if post.Removed || !wanted[post.ID.String()] {
			continue
		}
		out = append(out, copyPost(post))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

// --- topics ---

func (s *MemStore) GetOrCreateTopic(ctx context.Context, name string) (*models.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topic, ok := s.topics[name]; ok {
		t := *topic
		return &t, nil
	}
	topic := &models.Topic{ID: uuid.New(), Name: name}
	s.topics[name] = topic
	t := *topic
	return &t, nil
}

func (s *MemStore) SearchTopics(ctx context.Context, prefix string) ([]models.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Topic
	lowered := strings.ToLower(prefix)
	for _, topic := range s.topics {
		if strings.HasPrefix(topic.Name, lowered) {
			out = append(out, *topic)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- likes ---

func (s *MemStore) InsertLike(ctx context.Context, userID, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok || post.Removed {
		return utils.NewNotFoundError("post")
	}
	key := pair{userID, postID}
	if s.likes[key] {
		return utils.NewDuplicateError("like")
	}
	s.likes[key] = true
	post.Likes++
	return nil
}

func (s *MemStore) DeleteLike(ctx context.Context, userID, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{userID, postID}
	if !s.likes[key] {
		return utils.NewNotFoundError("like")
	}
	delete(s.likes, key)
	if post, ok := s.posts[postID]; ok {
		post.Likes--
	}
	return nil
}

func (s *MemStore) HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[pair{userID, postID}], nil
}

func (s *MemStore) LikedSet(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	liked := make(map[uuid.UUID]bool)
	for _, postID := range postIDs {
		if s.likes[pair{userID, postID}] {
			liked[postID] = true
		}
	}
	return liked, nil
}

// --- follows ---

func (s *MemStore) InsertFollower(ctx context.Context, followerID, followedID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{followerID, followedID}
	if s.follows[key] {
		return utils.NewDuplicateError("follow")
	}
	s.follows[key] = true
	return nil
}

func (s *MemStore) DeleteFollower(ctx context.Context, followerID, followedID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{followerID, followedID}
	if !s.follows[key] {
		return utils.NewNotFoundError("follow")
	}
	delete(s.follows, key)
	return nil
}

func (s *MemStore) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.follows[pair{followerID, followedID}], nil
}

func (s *MemStore) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.follows {
		if key.b == userID {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key := range s.follows {
		if key.a == userID {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) ListFollowing(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for key := range s.follows {
		if key.a == userID {
			ids = append(ids, key.b)
		}
	}
	sortUUIDs(ids)
	return ids, nil
}

func (s *MemStore) ListFollowers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for key := range s.follows {
		if key.b == userID {
			ids = append(ids, key.a)
		}
	}
	sortUUIDs(ids)
	return ids, nil
}

func sortUUIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}

// --- sessions ---

func (s *MemStore) CreateSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.Token]; ok {
		return utils.NewDuplicateError("session token")
	}
	c := *session
	s.sessions[session.Token] = &c
	return nil
}

func (s *MemStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, utils.NewNotFoundError("session")
	}
	c := *session
	return &c, nil
}

func (s *MemStore) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
