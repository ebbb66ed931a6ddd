package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"picshare/pkg/auth/jwt"
	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/hash"
	"picshare/services/rest-api/internal/repo"
)

// memStore — in-memory реализация репозиториев с теми же ограничениями, что и схема БД:
// уникальные username/email, каскадное удаление постов и комментариев.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]domain.User
	posts    map[int64]domain.Post
	comments map[int64]domain.Comment

	// failNext заставляет следующий вызов вернуть ошибку
	failNext error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]domain.User{},
		posts:    map[int64]domain.Post{},
		comments: map[int64]domain.Comment{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memStore) CreateUser(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, repo.ErrUserExists
		}
	}
	u.ID = m.id()
	m.users[u.ID] = *u
	return u, nil
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	return &u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repo.ErrUserNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repo.ErrUserNotFound
	}
	delete(m.users, id)
	for pid, p := range m.posts {
		if p.UserID == id {
			m.deletePostLocked(pid)
		}
	}
	return nil
}

func (m *memStore) CreatePost(_ context.Context, p *domain.Post) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	if _, ok := m.users[p.UserID]; !ok {
		return nil, repo.ErrUserNotFound
	}
	p.ID = m.id()
	m.posts[p.ID] = *p
	return p, nil
}

func (m *memStore) GetPostByID(_ context.Context, id int64) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, repo.ErrPostNotFound
	}
	p.Owner = m.users[p.UserID].Username
	return &p, nil
}

func (m *memStore) ListPosts(_ context.Context) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Post{}
	for _, p := range m.posts {
		p.Owner = m.users[p.UserID].Username
		p.Comments = m.commentsLocked(p.ID)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) DeletePost(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return repo.ErrPostNotFound
	}
	m.deletePostLocked(id)
	return nil
}

func (m *memStore) deletePostLocked(id int64) {
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
}

func (m *memStore) CreateComment(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[c.PostID]; !ok {
		return nil, repo.ErrPostNotFound
	}
	c.ID = m.id()
	m.comments[c.ID] = *c
	return c, nil
}

func (m *memStore) GetCommentByID(_ context.Context, id int64) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, repo.ErrCommentNotFound
	}
	return &c, nil
}

func (m *memStore) ListCommentsByPost(_ context.Context, postID int64) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commentsLocked(postID), nil
}

func (m *memStore) commentsLocked(postID int64) []domain.Comment {
	out := []domain.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) DeleteComment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return repo.ErrCommentNotFound
	}
	delete(m.comments, id)
	return nil
}

// memImages — ImageStore в памяти
type memImages struct {
	files map[string][]byte
	err   error
}

func (s *memImages) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[name] = buf.Bytes()
	return "images/" + name, nil
}

var errStoreDown = errors.New("store is down")

// testEnv собирает все сервисы поверх одного memStore
type testEnv struct {
	store    *memStore
	auth     *AuthService
	users    *UserService
	posts    *PostService
	comments *CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	hasher := hash.NewArgon2HasherWithParams(hash.Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16,
	})
	tokens, err := jwt.NewManager(jwt.Config{Key: "test-secret", Issuer: "test", TTL: time.Hour})
	if err != nil {
		t.Fatalf("failed to create jwt manager: %v", err)
	}

	return &testEnv{
		store:    store,
		auth:     NewAuthService(store, hasher, tokens),
		users:    NewUserService(store, hasher),
		posts:    NewPostService(store, store),
		comments: NewCommentService(store, store, store),
	}
}

// register регистрирует пользователя или валит тест
func (e *testEnv) register(t *testing.T, username, password, role string) *domain.User {
	t.Helper()
	in := RegisterInput{Username: username, Email: username + "@example.com", Password: password}
	if role != "" {
		in.Role = &role
	}
	u, err := e.users.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}
