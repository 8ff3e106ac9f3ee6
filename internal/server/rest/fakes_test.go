package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeUsers struct {
	createFn  func(services.CreateUserInput) (*models.User, error)
	findAllFn func() ([]*models.User, error)
	byIDFn    func(int64) (*models.User, error)
	byEmailFn func(string) (*models.User, error)
	byNameFn  func(string) ([]*models.User, error)
	updateFn  func(services.UpdateUserInput) (*models.User, error)
	deleteFn  func(int64) error
}

func (f *fakeUsers) Create(_ context.Context, in services.CreateUserInput) (*models.User, error) {
	return f.createFn(in)
}
func (f *fakeUsers) FindAll(context.Context) ([]*models.User, error) { return f.findAllFn() }
func (f *fakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	return f.byIDFn(id)
}
func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.byEmailFn(email)
}
func (f *fakeUsers) FindByUsername(_ context.Context, s string) ([]*models.User, error) {
	return f.byNameFn(s)
}
func (f *fakeUsers) Update(_ context.Context, in services.UpdateUserInput) (*models.User, error) {
	return f.updateFn(in)
}
func (f *fakeUsers) Delete(_ context.Context, id int64) error { return f.deleteFn(id) }

type fakeAuth struct {
	loginFn func(services.LoginInput) (*services.LoginResult, error)
}

func (f *fakeAuth) Login(_ context.Context, in services.LoginInput) (*services.LoginResult, error) {
	return f.loginFn(in)
}

type fakeThemes struct {
	createFn  func(services.CreateThemeInput) (*models.Theme, error)
	findAllFn func() ([]*models.Theme, error)
	byIDFn    func(int64) (*models.Theme, error)
	byNameFn  func(string) ([]*models.Theme, error)
	byDescFn  func(string) ([]*models.Theme, error)
	updateFn  func(int64, services.UpdateThemeInput) (*models.Theme, error)
	deleteFn  func(int64) error
}

func (f *fakeThemes) Create(_ context.Context, in services.CreateThemeInput) (*models.Theme, error) {
	return f.createFn(in)
}
func (f *fakeThemes) FindAll(context.Context) ([]*models.Theme, error) { return f.findAllFn() }
func (f *fakeThemes) FindByID(_ context.Context, id int64) (*models.Theme, error) {
	return f.byIDFn(id)
}
func (f *fakeThemes) FindByName(_ context.Context, s string) ([]*models.Theme, error) {
	return f.byNameFn(s)
}
func (f *fakeThemes) FindByDescription(_ context.Context, s string) ([]*models.Theme, error) {
	return f.byDescFn(s)
}
func (f *fakeThemes) Update(_ context.Context, id int64, in services.UpdateThemeInput) (*models.Theme, error) {
	return f.updateFn(id, in)
}
func (f *fakeThemes) Delete(_ context.Context, id int64) error { return f.deleteFn(id) }

type fakePosts struct {
	createFn  func(services.CreatePostInput) (*models.Post, error)
	findAllFn func() ([]*models.Post, error)
	byIDFn    func(int64) (*models.Post, error)
	byTitleFn func(string) ([]*models.Post, error)
	updateFn  func(int64, services.UpdatePostInput) (*models.Post, error)
	deleteFn  func(int64) error
}

func (f *fakePosts) Create(_ context.Context, in services.CreatePostInput) (*models.Post, error) {
	return f.createFn(in)
}
func (f *fakePosts) FindAll(context.Context) ([]*models.Post, error) { return f.findAllFn() }
func (f *fakePosts) FindByID(_ context.Context, id int64) (*models.Post, error) {
	return f.byIDFn(id)
}
func (f *fakePosts) FindByTitle(_ context.Context, s string) ([]*models.Post, error) {
	return f.byTitleFn(s)
}
func (f *fakePosts) Update(_ context.Context, id int64, in services.UpdatePostInput) (*models.Post, error) {
	return f.updateFn(id, in)
}
func (f *fakePosts) Delete(_ context.Context, id int64) error { return f.deleteFn(id) }

type fakePhotos struct {
	uploadFn func(int64) (*services.PhotoUpload, error)
}

func (f *fakePhotos) RequestUpload(_ context.Context, id int64) (*services.PhotoUpload, error) {
	return f.uploadFn(id)
}

// ---- harness ----

const testSecret = "test-secret"

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	users  *fakeUsers
	auth   *fakeAuth
	themes *fakeThemes
	posts  *fakePosts
	photos *fakePhotos
	issuer *auth.TokenIssuer
	srv    *Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	issuer, err := auth.NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	issuer = issuer.WithClock(func() time.Time { return testNow })

	h := &harness{
		users:  &fakeUsers{},
		auth:   &fakeAuth{},
		themes: &fakeThemes{},
		posts:  &fakePosts{},
		photos: &fakePhotos{},
		issuer: issuer,
	}
	h.srv = NewServer("127.0.0.1:0", logging.Discard(), issuer, Services{
		Users:  h.users,
		Auth:   h.auth,
		Themes: h.themes,
		Posts:  h.posts,
		Photos: h.photos,
	}, nil)
	return h
}

// token returns an Authorization header value for user id.
func (h *harness) token(t *testing.T, id int64) string {
	t.Helper()
	tok, err := h.issuer.Issue(auth.Identity{ID: id, Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	return tok
}

func (h *harness) do(t *testing.T, method, path, body, authz string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)
	return rec
}
