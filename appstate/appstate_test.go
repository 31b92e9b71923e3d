package appstate

import (
	"context"
	"errors"
	"testing"

	"farmhith/apperrors"
	"farmhith/constants"
	"farmhith/services/auth"
	authTypes "farmhith/types/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	sessions   map[string]*auth.Session
	revoked    []string
	signOutErr error
}

func (f *fakeSource) GetSession(_ context.Context, token string) (*auth.Session, error) {
	if token == "broken" {
		return nil, errors.New("db down")
	}
	return f.sessions[token], nil
}

func (f *fakeSource) SignOut(_ context.Context, id string) error {
	f.revoked = append(f.revoked, id)
	return f.signOutErr
}

func newSource() *fakeSource {
	return &fakeSource{sessions: map[string]*auth.Session{
		"good": {ID: "s1", User: authTypes.SessionUser{ID: "u1", Phone: "+919876543210", Role: constants.RoleFarmer}},
	}}
}

func TestNew_StartsHomeSignedOut(t *testing.T) {
	s := New()
	assert.Equal(t, constants.PageHome, s.CurrentPage)
	assert.False(t, s.Authenticated)
	assert.Nil(t, s.User)
}

func TestInit_LoadsExistingSession(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(context.Background(), newSource(), "good"))
	assert.True(t, s.Authenticated)
	require.NotNil(t, s.User)
	assert.Equal(t, "u1", s.User.ID)
}

func TestInit_UnknownTokenStaysSignedOut(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(context.Background(), newSource(), "stale"))
	assert.False(t, s.Authenticated)

	assert.Error(t, s.Init(context.Background(), newSource(), "broken"))
	assert.False(t, s.Authenticated)
}

func TestNavigateTo(t *testing.T) {
	s := New()
	require.NoError(t, s.NavigateTo(constants.PageServices))
	assert.Equal(t, constants.PageServices, s.CurrentPage)
	assert.True(t, s.TakeScroll())
	assert.False(t, s.TakeScroll())

	err := s.NavigateTo("admin-secret")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, constants.PageServices, s.CurrentPage)
}

func TestNavigateTo_ProfileNeedsLogin(t *testing.T) {
	s := New()
	require.NoError(t, s.NavigateTo(constants.PageProfile))
	assert.Equal(t, constants.PageLogin, s.CurrentPage)

	require.NoError(t, s.Init(context.Background(), newSource(), "good"))
	require.NoError(t, s.NavigateTo(constants.PageProfile))
	assert.Equal(t, constants.PageProfile, s.CurrentPage)
}

func TestLogout_RevokesAndGoesHome(t *testing.T) {
	src := newSource()
	s := New()
	require.NoError(t, s.Init(context.Background(), src, "good"))
	require.NoError(t, s.NavigateTo(constants.PageProfile))

	require.NoError(t, s.Logout(context.Background(), src))
	assert.Equal(t, []string{"s1"}, src.revoked)
	assert.False(t, s.Authenticated)
	assert.Nil(t, s.User)
	assert.Equal(t, constants.PageHome, s.CurrentPage)
	assert.False(t, s.Authenticated)
}

func TestLogout_ClearsEvenWhenRevokeFails(t *testing.T) {
	src := newSource()
	src.signOutErr = errors.New("db down")
	s := New()
	require.NoError(t, s.Init(context.Background(), src, "good"))

	assert.Error(t, s.Logout(context.Background(), src))
	assert.False(t, s.Authenticated)
}

func TestLogout_SignedOutIsNoop(t *testing.T) {
	src := newSource()
	s := New()
	require.NoError(t, s.Logout(context.Background(), src))
	assert.Empty(t, src.revoked)
}

func TestLoad_FallsBackToHome(t *testing.T) {
	s, err := Load([]byte(`{"current_page":"nowhere","authenticated":true}`))
	require.NoError(t, err)
	assert.Equal(t, constants.PageHome, s.CurrentPage)
	assert.False(t, s.Authenticated)
}
