package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAPI struct {
	signupIn  models.SignupRequest
	loginIn   models.LoginRequest
	loginResp *models.Session
	loginErr  error
	token     string
}

func (f *fakeAPI) Signup(_ context.Context, in models.SignupRequest) (*models.User, error) {
	f.signupIn = in
	return &models.User{ID: 1, Username: in.Username, Email: in.Email}, nil
}

func (f *fakeAPI) Login(_ context.Context, in models.LoginRequest) (*models.Session, error) {
	f.loginIn = in
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) SetToken(token string) { f.token = token }

type memMetadata struct {
	data   map[string][]byte
	setErr error
}

func newMemMetadata() *memMetadata { return &memMetadata{data: map[string][]byte{}} }

func (m *memMetadata) Get(_ context.Context, key string) ([]byte, error) { return m.data[key], nil }
func (m *memMetadata) Set(_ context.Context, key string, v []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = v
	return nil
}
func (m *memMetadata) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}
func (m *memMetadata) Clear(context.Context) error {
	m.data = map[string][]byte{}
	return nil
}

// ---- tests ----

func TestSignup(t *testing.T) {
	api := &fakeAPI{}
	s := NewAuthService(api, newMemMetadata())

	u, err := s.Signup(context.Background(), "alice", "alice@example.com", []byte("Str0ng!Pass"))

	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.SignupRequest{Username: "alice", Email: "alice@example.com", Password: "Str0ng!Pass"}, api.signupIn)
}

func TestLogin_PersistsSession(t *testing.T) {
	api := &fakeAPI{loginResp: &models.Session{ID: 1, Username: "alice", Email: "alice@example.com", Token: "Bearer abc"}}
	md := newMemMetadata()
	s := NewAuthService(api, md)

	sess, err := s.Login(context.Background(), "alice@example.com", []byte("Str0ng!Pass"))

	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", sess.Token)
	assert.Equal(t, "Bearer abc", api.token)
	assert.Equal(t, "Bearer abc", string(md.data["token"]))
	assert.Equal(t, "alice", string(md.data["username"]))
	assert.Equal(t, "1", string(md.data["user_id"]))
}

func TestLogin_Failure(t *testing.T) {
	boom := errors.New("invalid credentials")
	api := &fakeAPI{loginErr: boom}
	md := newMemMetadata()
	s := NewAuthService(api, md)

	_, err := s.Login(context.Background(), "alice@example.com", []byte("nope"))

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, md.data)
	assert.Empty(t, api.token)
}

func TestLogin_SaveFailure(t *testing.T) {
	api := &fakeAPI{loginResp: &models.Session{Token: "Bearer abc"}}
	md := newMemMetadata()
	md.setErr = errors.New("disk full")

	_, err := NewAuthService(api, md).Login(context.Background(), "a@b.c", []byte("x"))

	assert.ErrorContains(t, err, "save session")
	assert.Empty(t, api.token)
}

func TestRestoreAndLogout(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	md := newMemMetadata()
	s := NewAuthService(api, md)

	_, err := s.Restore(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	md.data["token"] = []byte("Bearer saved")
	md.data["username"] = []byte("alice")
	md.data["user_id"] = []byte("7")

	sess, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Session{ID: 7, Username: "alice", Token: "Bearer saved"}, sess)
	assert.Equal(t, "Bearer saved", api.token)

	require.NoError(t, s.Logout(ctx))
	assert.Empty(t, api.token)
	_, err = s.Restore(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestRestore_CorruptUserID(t *testing.T) {
	ctx := context.Background()

	for _, raw := range []string{"", "abc", "0", "-3"} {
		api := &fakeAPI{}
		md := newMemMetadata()
		md.data["token"] = []byte("Bearer saved")
		md.data["username"] = []byte("alice")
		md.data["user_id"] = []byte(raw)

		sess, err := NewAuthService(api, md).Restore(ctx)

		assert.ErrorIs(t, err, ErrNotLoggedIn, "user_id %q", raw)
		assert.Nil(t, sess)
		assert.Empty(t, api.token)
	}
}
