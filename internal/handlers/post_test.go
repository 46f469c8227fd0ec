package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avoronov/devlink/internal/database"
	"github.com/avoronov/devlink/internal/handlers"
	"github.com/avoronov/devlink/internal/models"
)

// mockPostStore implements handlers.PostStore in memory. LikePost keeps the
// uniqueness check and the insert inseparable, like the real store does.
// Setting userErr makes GetUser fail with it.
type mockPostStore struct {
	users    map[string]*models.User
	posts    map[string]*models.Post
	likes    map[string][]models.Like
	comments map[string][]models.Comment
	userErr  error
}

func newMockPostStore() *mockPostStore {
	return &mockPostStore{
		users:    make(map[string]*models.User),
		posts:    make(map[string]*models.Post),
		likes:    make(map[string][]models.Like),
		comments: make(map[string][]models.Comment),
	}
}

func (m *mockPostStore) addUser(user *models.User) {
	m.users[user.ID.String()] = user
}

func (m *mockPostStore) GetUser(id string) (*models.User, error) {
	if m.userErr != nil {
		return nil, m.userErr
	}
	user, ok := m.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (m *mockPostStore) CreatePost(post *models.Post) error {
	post.ID = uuid.New()
	m.posts[post.ID.String()] = post
	return nil
}

func (m *mockPostStore) GetPost(id string) (*models.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *post
	copied.Likes = m.likes[id]
	copied.Comments = m.comments[id]
	return &copied, nil
}

func (m *mockPostStore) GetAllPosts() ([]models.Post, error) {
	posts := make([]models.Post, 0, len(m.posts))
	for id := range m.posts {
		p, _ := m.GetPost(id)
		posts = append(posts, *p)
	}
	return posts, nil
}

func (m *mockPostStore) DeletePost(id string) error {
	delete(m.posts, id)
	delete(m.likes, id)
	delete(m.comments, id)
	return nil
}

func (m *mockPostStore) LikePost(like *models.Like) error {
	postID := like.PostID.String()
	for _, l := range m.likes[postID] {
		if l.UserID == like.UserID {
			return database.ErrAlreadyLiked
		}
	}
	like.ID = uuid.New()
	m.likes[postID] = append([]models.Like{*like}, m.likes[postID]...)
	return nil
}

func (m *mockPostStore) UnlikePost(postID, userID string) error {
	for i, l := range m.likes[postID] {
		if l.UserID.String() == userID {
			m.likes[postID] = append(m.likes[postID][:i], m.likes[postID][i+1:]...)
			return nil
		}
	}
	return database.ErrNotLiked
}

func (m *mockPostStore) GetPostLikes(postID string) ([]models.Like, error) {
	return m.likes[postID], nil
}

func (m *mockPostStore) AddComment(comment *models.Comment) error {
	comment.ID = uuid.New()
	postID := comment.PostID.String()
	m.comments[postID] = append([]models.Comment{*comment}, m.comments[postID]...)
	return nil
}

func (m *mockPostStore) GetComment(postID, commentID string) (*models.Comment, error) {
	for _, c := range m.comments[postID] {
		if c.ID.String() == commentID {
			copied := c
			return &copied, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *mockPostStore) DeleteComment(postID, commentID string) error {
	for i, c := range m.comments[postID] {
		if c.ID.String() == commentID {
			m.comments[postID] = append(m.comments[postID][:i], m.comments[postID][i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (m *mockPostStore) GetPostComments(postID string) ([]models.Comment, error) {
	return m.comments[postID], nil
}

func setupPostRouter(t *testing.T, store *mockPostStore, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := handlers.NewPostHandler(store)

	r := gin.New()
	posts := r.Group("/api/posts", fakeAuth(userID))
	{
		posts.POST("", h.CreatePost)
		posts.GET("", h.GetPosts)
		posts.GET("/:id", h.GetPost)
		posts.DELETE("/:id", h.DeletePost)
		posts.PUT("/like/:id", h.LikePost)
		posts.PUT("/unlike/:id", h.UnlikePost)
		posts.POST("/comment/:id", h.AddComment)
		posts.DELETE("/comment/:id/:comment_id", h.DeleteComment)
	}
	return r
}

func seedUser(store *mockPostStore, name string) *models.User {
	user := &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     name + "@example.com",
		AvatarURL: "https://www.gravatar.com/avatar/" + name,
	}
	store.addUser(user)
	return user
}

func seedPost(store *mockPostStore, author *models.User, text string) *models.Post {
	post := &models.Post{
		UserID:    author.ID,
		Text:      text,
		Name:      author.Name,
		AvatarURL: author.AvatarURL,
	}
	store.CreatePost(post)
	return post
}

func TestCreatePostSnapshotsAuthor(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	r := setupPostRouter(t, store, user.ID)

	w := doJSON(r, http.MethodPost, "/api/posts", gin.H{"text": "hello world"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}

	var post *models.Post
	for _, p := range store.posts {
		post = p
	}
	if post == nil {
		t.Fatal("post was not stored")
	}
	if post.Name != "alice" || post.AvatarURL != user.AvatarURL {
		t.Errorf("author snapshot missing: name=%q avatar=%q", post.Name, post.AvatarURL)
	}
}

func TestCreatePostUserLookupFailure(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	r := setupPostRouter(t, store, user.ID)

	store.userErr = errors.New("connection refused")

	w := doJSON(r, http.MethodPost, "/api/posts", gin.H{"text": "hello world"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500, body %s", w.Code, w.Body.String())
	}
	if len(store.posts) != 0 {
		t.Error("post was stored despite the lookup failure")
	}
}

func TestAddCommentUserLookupFailure(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	post := seedPost(store, user, "hello")
	r := setupPostRouter(t, store, user.ID)

	store.userErr = errors.New("connection refused")

	w := doJSON(r, http.MethodPost, "/api/posts/comment/"+post.ID.String(), gin.H{"text": "hi"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500, body %s", w.Code, w.Body.String())
	}
	if len(store.comments[post.ID.String()]) != 0 {
		t.Error("comment was stored despite the lookup failure")
	}
}

func TestCreatePostValidation(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	r := setupPostRouter(t, store, user.ID)

	w := doJSON(r, http.MethodPost, "/api/posts", gin.H{"text": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(store.posts) != 0 {
		t.Error("invalid post reached the store")
	}
}

func TestLikePostTwice(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	post := seedPost(store, user, "hello")
	r := setupPostRouter(t, store, user.ID)

	first := doJSON(r, http.MethodPut, "/api/posts/like/"+post.ID.String(), nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first like: status = %d, body %s", first.Code, first.Body.String())
	}
	if got := len(store.likes[post.ID.String()]); got != 1 {
		t.Fatalf("likes = %d after first like, want 1", got)
	}

	second := doJSON(r, http.MethodPut, "/api/posts/like/"+post.ID.String(), nil)
	if second.Code != http.StatusConflict {
		t.Errorf("second like: status = %d, want 409", second.Code)
	}
	if got := len(store.likes[post.ID.String()]); got != 1 {
		t.Errorf("likes = %d after conflicting like, want 1", got)
	}
}

func TestUnlikePostNeverLiked(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	post := seedPost(store, user, "hello")
	r := setupPostRouter(t, store, user.ID)

	w := doJSON(r, http.MethodPut, "/api/posts/unlike/"+post.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUnlikeRemovesOwnLikeOnly(t *testing.T) {
	store := newMockPostStore()
	alice := seedUser(store, "alice")
	bob := seedUser(store, "bob")
	post := seedPost(store, alice, "hello")

	// bob likes first, then alice
	bobRouter := setupPostRouter(t, store, bob.ID)
	if w := doJSON(bobRouter, http.MethodPut, "/api/posts/like/"+post.ID.String(), nil); w.Code != http.StatusOK {
		t.Fatalf("bob like: status = %d", w.Code)
	}
	aliceRouter := setupPostRouter(t, store, alice.ID)
	if w := doJSON(aliceRouter, http.MethodPut, "/api/posts/like/"+post.ID.String(), nil); w.Code != http.StatusOK {
		t.Fatalf("alice like: status = %d", w.Code)
	}

	if w := doJSON(aliceRouter, http.MethodPut, "/api/posts/unlike/"+post.ID.String(), nil); w.Code != http.StatusOK {
		t.Fatalf("alice unlike: status = %d", w.Code)
	}

	likes := store.likes[post.ID.String()]
	if len(likes) != 1 || likes[0].UserID != bob.ID {
		t.Errorf("remaining likes = %+v, want only bob's", likes)
	}
}

func TestDeletePostNotAuthor(t *testing.T) {
	store := newMockPostStore()
	alice := seedUser(store, "alice")
	bob := seedUser(store, "bob")
	post := seedPost(store, alice, "hello")
	r := setupPostRouter(t, store, bob.ID)

	w := doJSON(r, http.MethodDelete, "/api/posts/"+post.ID.String(), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	if _, ok := store.posts[post.ID.String()]; !ok {
		t.Error("post was deleted by a non-author")
	}
}

func TestGetPostUnknown(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	r := setupPostRouter(t, store, user.ID)

	if w := doJSON(r, http.MethodGet, "/api/posts/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/posts/not-a-uuid", nil); w.Code != http.StatusNotFound {
		t.Errorf("malformed id: status = %d, want 404", w.Code)
	}
}

func TestAddComment(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	post := seedPost(store, user, "hello")
	r := setupPostRouter(t, store, user.ID)

	w := doJSON(r, http.MethodPost, "/api/posts/comment/"+post.ID.String(), gin.H{"text": "nice"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Comments []struct {
			Text string `json:"text"`
			Name string `json:"name"`
		} `json:"comments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Comments) != 1 || resp.Comments[0].Text != "nice" || resp.Comments[0].Name != "alice" {
		t.Errorf("unexpected comments: %+v", resp.Comments)
	}
}

func TestDeleteCommentNotAuthor(t *testing.T) {
	store := newMockPostStore()
	alice := seedUser(store, "alice")
	bob := seedUser(store, "bob")
	post := seedPost(store, alice, "hello")

	aliceRouter := setupPostRouter(t, store, alice.ID)
	if w := doJSON(aliceRouter, http.MethodPost, "/api/posts/comment/"+post.ID.String(), gin.H{"text": "mine"}); w.Code != http.StatusOK {
		t.Fatalf("add comment: status = %d", w.Code)
	}
	commentID := store.comments[post.ID.String()][0].ID.String()

	bobRouter := setupPostRouter(t, store, bob.ID)
	w := doJSON(bobRouter, http.MethodDelete, "/api/posts/comment/"+post.ID.String()+"/"+commentID, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	if len(store.comments[post.ID.String()]) != 1 {
		t.Error("comment was deleted by a non-author")
	}
}

func TestDeleteCommentUnknown(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	post := seedPost(store, user, "hello")
	r := setupPostRouter(t, store, user.ID)

	w := doJSON(r, http.MethodDelete, "/api/posts/comment/"+post.ID.String()+"/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteCommentByAuthor(t *testing.T) {
	store := newMockPostStore()
	user := seedUser(store, "alice")
	post := seedPost(store, user, "hello")
	r := setupPostRouter(t, store, user.ID)

	for _, text := range []string{"one", "two"} {
		if w := doJSON(r, http.MethodPost, "/api/posts/comment/"+post.ID.String(), gin.H{"text": text}); w.Code != http.StatusOK {
			t.Fatalf("add comment %q: status = %d", text, w.Code)
		}
	}

	target := store.comments[post.ID.String()][0] // newest, "two"
	w := doJSON(r, http.MethodDelete, "/api/posts/comment/"+post.ID.String()+"/"+target.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	remaining := store.comments[post.ID.String()]
	if len(remaining) != 1 || remaining[0].Text != "one" {
		t.Errorf("remaining comments = %+v, want only %q", remaining, "one")
	}
}
