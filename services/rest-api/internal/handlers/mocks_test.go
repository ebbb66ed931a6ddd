package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"picshare/services/rest-api/internal/domain"
	"picshare/services/rest-api/internal/middleware"
	"picshare/services/rest-api/internal/response"
	"picshare/services/rest-api/internal/service"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if r := args.Get(0); r != nil {
		return r.(*service.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) ListAll(ctx context.Context, callerID int64) ([]domain.User, error) {
	args := m.Called(ctx, callerID)
	if u := args.Get(0); u != nil {
		return u.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) DeleteByID(ctx context.Context, targetID, callerID int64) error {
	return m.Called(ctx, targetID, callerID).Error(0)
}

type mockPosts struct{ mock.Mock }

func (m *mockPosts) Create(ctx context.Context, in service.CreatePostInput, ownerID int64) (*domain.Post, error) {
	args := m.Called(ctx, in, ownerID)
	if p := args.Get(0); p != nil {
		return p.(*domain.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPosts) ListAll(ctx context.Context) ([]domain.Post, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]domain.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPosts) DeleteByID(ctx context.Context, postID, callerID int64) error {
	return m.Called(ctx, postID, callerID).Error(0)
}

type mockImages struct {
	mock.Mock
	body string
}

func (m *mockImages) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	b, _ := io.ReadAll(r)
	m.body = string(b)
	args := m.Called(ctx, filename)
	return args.String(0), args.Error(1)
}

type mockComments struct{ mock.Mock }

func (m *mockComments) Create(ctx context.Context, text string, authorID, postID int64) (*domain.Comment, error) {
	args := m.Called(ctx, text, authorID, postID)
	if c := args.Get(0); c != nil {
		return c.(*domain.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockComments) ListForPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, postID)
	if c := args.Get(0); c != nil {
		return c.([]domain.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockComments) DeleteByID(ctx context.Context, commentID, callerID int64) error {
	return m.Called(ctx, commentID, callerID).Error(0)
}

// testCallers — пользователи, которых понимает тестовый RequireAuth по токену
var testCallers = map[string]*domain.Caller{
	"alice-token": {ID: 1, Username: "alice", Email: "alice@example.com"},
	"admin-token": {ID: 9, Username: "root", Email: "root@example.com"},
}

// fakeRequireAuth пускает только токены из testCallers
func fakeRequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		caller, ok := testCallers[token]
		if !ok {
			respondError(w, http.StatusUnauthorized, response.KindUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithCaller(r.Context(), caller)))
	})
}

type testServer struct {
	auth     *mockAuth
	users    *mockUsers
	posts    *mockPosts
	images   *mockImages
	comments *mockComments
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		auth:     &mockAuth{},
		users:    &mockUsers{},
		posts:    &mockPosts{},
		images:   &mockImages{},
		comments: &mockComments{},
	}
	s.handler = NewRouter(RouterConfig{
		Auth:        NewAuthHandler(s.auth),
		Users:       NewUserHandler(s.users),
		Posts:       NewPostHandler(s.posts, s.images),
		Comments:    NewCommentHandler(s.comments),
		RequireAuth: fakeRequireAuth,
		ImagesDir:   t.TempDir(),
		CORSOrigins: []string{"http://localhost:3000"},
	})
	t.Cleanup(func() {
		s.auth.AssertExpectations(t)
		s.users.AssertExpectations(t)
		s.posts.AssertExpectations(t)
		s.images.AssertExpectations(t)
		s.comments.AssertExpectations(t)
	})
	return s
}

// do выполняет запрос; token == "" означает запрос без Authorization
func (s *testServer) do(method, target, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}
