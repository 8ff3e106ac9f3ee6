package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	users  *UserService
	auth   *AuthService
	issuer *auth.TokenIssuer
	store  *memStore
}

func newAuthFixture(t *testing.T, hasher auth.PasswordHasher) *authFixture {
	t.Helper()
	store := newMemStore()
	rm := &fakeRepoManager{store}
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	return &authFixture{
		users:  NewUserService(nil, rm, hasher, logging.Discard()),
		auth:   NewAuthService(nil, rm, hasher, issuer, logging.Discard()),
		issuer: issuer,
		store:  store,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t, auth.NewBcryptHasher(bcrypt.MinCost))
	ctx := context.Background()

	u, err := f.users.Create(ctx, aliceInput())
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "Str0ng!Pass"})
	require.NoError(t, err)

	assert.Equal(t, u.ID, res.ID)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "alice@example.com", res.Email)
	require.True(t, strings.HasPrefix(res.Token, common.BearerPrefix))

	claims, err := f.issuer.Parse(strings.TrimPrefix(res.Token, common.BearerPrefix))
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{ID: u.ID, Username: "alice", Email: "alice@example.com"}, claims.Identity())

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":`+jsonInt(u.ID)+`,"username":"alice","email":"alice@example.com","token":"`+res.Token+`"}`, string(b))
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	f := newAuthFixture(t, auth.NewBcryptHasher(bcrypt.MinCost))
	ctx := context.Background()

	_, err := f.users.Create(ctx, aliceInput())
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "Wr0ng!Pass"})
	_, unknownEmail := f.auth.Login(ctx, LoginInput{Email: "bob@example.com", Password: "Str0ng!Pass"})

	require.ErrorIs(t, wrongPassword, common.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, common.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error(), "failures must be indistinguishable")
}

func TestAuthService_Validate_UnknownEmailStillVerifies(t *testing.T) {
	h := &plainHasher{}
	f := newAuthFixture(t, h)

	_, err := f.auth.Validate(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, 1, h.verifyCalls)
}

func TestAuthService_Validate_ClearsPassword(t *testing.T) {
	f := newAuthFixture(t, &plainHasher{})
	ctx := context.Background()

	_, err := f.users.Create(ctx, aliceInput())
	require.NoError(t, err)

	u, err := f.auth.Validate(ctx, "alice@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, "alice", u.Username)
}

func TestAuthService_Validate_RepositoryFailureIsInternal(t *testing.T) {
	f := newAuthFixture(t, &plainHasher{})
	f.store.failOn["Users.GetByEmail"] = errBoom{}

	_, err := f.auth.Validate(context.Background(), "alice@example.com", "Str0ng!Pass")
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestAuthService_Validate_MalformedHashIsInternal(t *testing.T) {
	f := newAuthFixture(t, &plainHasher{})
	ctx := context.Background()

	u, err := f.users.Create(ctx, aliceInput())
	require.NoError(t, err)
	stored := f.store.users[u.ID]
	stored.PasswordHash = "garbage"
	f.store.users[u.ID] = stored

	_, err = f.auth.Validate(ctx, "alice@example.com", "Str0ng!Pass")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestAuthService_Login_Validation(t *testing.T) {
	f := newAuthFixture(t, &plainHasher{})

	_, err := f.auth.Login(context.Background(), LoginInput{Email: "", Password: "x"})
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = f.auth.Login(context.Background(), LoginInput{Email: "alice@example.com"})
	require.ErrorIs(t, err, common.ErrorValidation)
}
