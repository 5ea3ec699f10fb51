// Copyright (c) 2026 Novira. All rights reserved.
// Author: minh.ngvn.dev@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhngvn/novira/internal/platform/apperr"
	"github.com/minhngvn/novira/internal/platform/sec"
	"github.com/minhngvn/novira/internal/users/auth"
)

// # Test Fakes

type fakeUserRepo struct {
	byID          map[string]*auth.User
	passwordFor   map[string]string // userID -> replaced hash
	createErr     error
	createdUsers  []*auth.User
	verifiedUsers []string
}

func newFakeUserRepo(users ...*auth.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		byID:        map[string]*auth.User{},
		passwordFor: map[string]string{},
	}
	for _, u := range users {
		repo.byID[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[user.ID] = user
	f.createdUsers = append(f.createdUsers, user)
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	f.passwordFor[userID] = newHash
	if u, ok := f.byID[userID]; ok {
		u.PasswordHash = newHash
	}
	return nil
}

func (f *fakeUserRepo) MarkVerified(_ context.Context, userID string) error {
	f.verifiedUsers = append(f.verifiedUsers, userID)
	return nil
}

type fakeSessionRepo struct {
	byHash        map[string]*auth.Session
	revoked       []string
	revokedOthers []string // userIDs for which RevokeOthers was called
	revokedAll    []string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byHash: map[string]*auth.Session{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *auth.Session) error {
	f.byHash[session.TokenHash] = session
	return nil
}

func (f *fakeSessionRepo) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	if s, ok := f.byHash[tokenHash]; ok && !s.IsRevoked {
		return s, nil
	}
	return nil, apperr.NotFound("Session")
}

func (f *fakeSessionRepo) Revoke(_ context.Context, sessionID string) error {
	f.revoked = append(f.revoked, sessionID)
	for _, s := range f.byHash {
		if s.ID == sessionID {
			s.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeSessionRepo) RevokeAll(_ context.Context, userID string) error {
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

func (f *fakeSessionRepo) RevokeOthers(_ context.Context, userID, _ string) error {
	f.revokedOthers = append(f.revokedOthers, userID)
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context) error { return nil }

type fakeTokenRepo struct {
	values  map[string]string
	deleted []string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{values: map[string]string{}}
}

func (f *fakeTokenRepo) Set(_ context.Context, token, userID string, _ time.Duration) error {
	f.values[token] = userID
	return nil
}

func (f *fakeTokenRepo) Get(_ context.Context, token string) (string, error) {
	if userID, ok := f.values[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Token")
}

func (f *fakeTokenRepo) Delete(_ context.Context, token string) error {
	delete(f.values, token)
	f.deleted = append(f.deleted, token)
	return nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "jwt-for-" + userID, nil
}

func newService(users *fakeUserRepo, sessions *fakeSessionRepo) (*auth.Service, *fakeTokenRepo, *fakeTokenRepo) {
	reset := newFakeTokenRepo()
	verify := newFakeTokenRepo()
	return auth.NewService(users, sessions, reset, verify, fakeTokenProvider{}), reset, verify
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	return hash
}

// # Registration

func TestRegister_RejectsNonLowercaseHandle(t *testing.T) {
	users := newFakeUserRepo()
	service, _, _ := newService(users, newFakeSessionRepo())

	for _, handle := range []string{"Alice", "ALICE", "al_ice", "al.ice"} {
		t.Run(handle, func(t *testing.T) {
			_, err := service.Register(context.Background(), auth.RegisterInput{
				Username: handle,
				Email:    "alice@novira.app",
				Password: "password123",
			})

			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
			assert.Empty(t, users.createdUsers)
		})
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	existing := &auth.User{ID: "u1", Username: "taken", Email: "taken@novira.app"}
	users := newFakeUserRepo(existing)
	service, _, _ := newService(users, newFakeSessionRepo())

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "fresh",
		Email:    "taken@novira.app",
		Password: "password123",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Empty(t, users.createdUsers)
}

func TestRegister_ConstraintRaceSurfacesAsConflict(t *testing.T) {
	// Pre-checks pass but the insert hits the unique index: the store's
	// Conflict must reach the caller unchanged.
	users := newFakeUserRepo()
	users.createErr = apperr.Conflict("Username or email is already registered")
	service, _, _ := newService(users, newFakeSessionRepo())

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "racer",
		Email:    "racer@novira.app",
		Password: "password123",
	})

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	users := newFakeUserRepo()
	service, _, verify := newService(users, newFakeSessionRepo())

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username:    "minh",
		Email:       "minh@novira.app",
		Password:    "password123",
		DisplayName: "Minh",
	})

	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("password123", user.PasswordHash))
	assert.Equal(t, sec.RoleMember, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.ID)
	// A verification token was parked for the new account.
	assert.Len(t, verify.values, 1)
}

// # Login & Sessions

func TestLogin_WrongPasswordIsGenericUnauthorized(t *testing.T) {
	user := &auth.User{ID: "u1", Username: "minh", Email: "minh@novira.app", PasswordHash: mustHash(t, "correct-horse")}
	service, _, _ := newService(newFakeUserRepo(user), newFakeSessionRepo())

	_, err := service.Login(context.Background(), auth.LoginInput{Login: "minh", Password: "wrong"})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
}

func TestLogin_UnknownUserSameErrorAsWrongPassword(t *testing.T) {
	user := &auth.User{ID: "u1", Username: "minh", Email: "minh@novira.app", PasswordHash: mustHash(t, "correct-horse")}
	service, _, _ := newService(newFakeUserRepo(user), newFakeSessionRepo())

	_, unknownErr := service.Login(context.Background(), auth.LoginInput{Login: "ghost", Password: "whatever"})
	_, wrongErr := service.Login(context.Background(), auth.LoginInput{Login: "minh", Password: "wrong"})

	// Same client-visible message for both: no account enumeration.
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLogin_IssuesTrackedSession(t *testing.T) {
	user := &auth.User{ID: "u1", Username: "minh", Email: "minh@novira.app", PasswordHash: mustHash(t, "correct-horse")}
	sessions := newFakeSessionRepo()
	service, _, _ := newService(newFakeUserRepo(user), sessions)

	login, err := service.Login(context.Background(), auth.LoginInput{Login: "minh@novira.app", Password: "correct-horse"})

	require.NoError(t, err)
	assert.Equal(t, "jwt-for-u1", login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	// The stored session holds the hash, never the raw token.
	_, rawStored := sessions.byHash[login.RefreshToken]
	assert.False(t, rawStored)
	_, hashStored := sessions.byHash[sec.HashToken(login.RefreshToken)]
	assert.True(t, hashStored)
}

func TestRefreshSession_RotatesAndRevokesOld(t *testing.T) {
	user := &auth.User{ID: "u1", Username: "minh", Email: "minh@novira.app", PasswordHash: mustHash(t, "pw")}
	sessions := newFakeSessionRepo()
	service, _, _ := newService(newFakeUserRepo(user), sessions)

	login, err := service.Login(context.Background(), auth.LoginInput{Login: "minh", Password: "pw"})
	require.NoError(t, err)

	rotated, err := service.RefreshSession(context.Background(), login.RefreshToken, "ua", "ip")
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	// Replay of the consumed token must fail.
	_, err = service.RefreshSession(context.Background(), login.RefreshToken, "ua", "ip")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
}

func TestLogout_IsIdempotent(t *testing.T) {
	service, _, _ := newService(newFakeUserRepo(), newFakeSessionRepo())

	// Logging out a token that never existed is not an error.
	assert.NoError(t, service.Logout(context.Background(), "never-issued"))
}

// # Password Change

func TestChangePassword_WrongCurrentIsInvalidCredential(t *testing.T) {
	user := &auth.User{ID: "u1", Username: "minh", PasswordHash: mustHash(t, "old-password")}
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo()
	service, _, _ := newService(users, sessions)

	err := service.ChangePassword(context.Background(), "u1", "not-the-password", "new-password", "rt")

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "INVALID_CREDENTIALS"))
	// The stored hash must be untouched.
	assert.Empty(t, users.passwordFor)
	assert.True(t, sec.CheckPasswordHash("old-password", user.PasswordHash))
}

func TestChangePassword_SuccessRevokesOtherSessions(t *testing.T) {
	user := &auth.User{ID: "u1", Username: "minh", Email: "minh@novira.app", PasswordHash: mustHash(t, "old-password")}
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo()
	service, _, _ := newService(users, sessions)

	login, err := service.Login(context.Background(), auth.LoginInput{Login: "minh", Password: "old-password"})
	require.NoError(t, err)

	err = service.ChangePassword(context.Background(), "u1", "old-password", "new-password", login.RefreshToken)

	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("new-password", users.passwordFor["u1"]))
	assert.Equal(t, []string{"u1"}, sessions.revokedOthers)
}

// # Password Reset

func TestResetPassword_ConsumesTokenAndRevokesAll(t *testing.T) {
	user := &auth.User{ID: "u1", Username: "minh", Email: "minh@novira.app", PasswordHash: mustHash(t, "old")}
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo()
	service, reset, _ := newService(users, sessions)

	token, err := service.RequestPasswordReset(context.Background(), "minh@novira.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, service.ResetPassword(context.Background(), token, "brand-new-pass"))

	assert.True(t, sec.CheckPasswordHash("brand-new-pass", users.passwordFor["u1"]))
	assert.Equal(t, []string{"u1"}, sessions.revokedAll)
	// Token is single-use.
	assert.Contains(t, reset.deleted, token)
	err = service.ResetPassword(context.Background(), token, "again")
	assert.Error(t, err)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	service, reset, _ := newService(newFakeUserRepo(), newFakeSessionRepo())

	token, err := service.RequestPasswordReset(context.Background(), "ghost@novira.app")

	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, reset.values)
}
