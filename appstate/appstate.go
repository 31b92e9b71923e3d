// Package appstate holds the per-browser navigation and authentication state of the site.
package appstate

import (
	"context"
	"encoding/json"
	"fmt"

	"farmhith/apperrors"
	"farmhith/constants"
	"farmhith/logger"
	"farmhith/services/auth"
	authTypes "farmhith/types/auth"
)

// SessionSource resolves and revokes auth sessions. The auth service satisfies it.
type SessionSource interface {
	GetSession(ctx context.Context, accessToken string) (*auth.Session, error)
	SignOut(ctx context.Context, sessionID string) error
}

type State struct {
	CurrentPage   string                 `json:"current_page"`
	Authenticated bool                   `json:"authenticated"`
	User          *authTypes.SessionUser `json:"user,omitempty"`
	// ScrollToTop is set by every navigation and cleared once reported to the client.
	ScrollToTop bool `json:"scroll_to_top"`

	sessionID string
}

// New is the state of a fresh visit: home page, signed out.
func New() *State {
	return &State{CurrentPage: constants.PageHome}
}

// Load restores state saved with Marshal. Authentication is not restored; call Init.
func Load(raw []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode app state: %w", err)
	}
	if _, ok := constants.FindPage(s.CurrentPage); !ok {
		s.CurrentPage = constants.PageHome
	}
	s.clearAuth()
	return &s, nil
}

func (s *State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Init loads any existing session for accessToken. A missing or rejected token leaves the
// state signed out.
func (s *State) Init(ctx context.Context, src SessionSource, accessToken string) error {
	sess, err := src.GetSession(ctx, accessToken)
	if err != nil {
		s.clearAuth()
		return err
	}
	if sess == nil {
		s.clearAuth()
		return nil
	}

	user := sess.User
	s.User = &user
	s.Authenticated = true
	s.sessionID = sess.ID
	return nil
}

// NavigateTo switches to a registered page. Pages that need a signed-in user send a signed
// out visitor to the login page instead.
func (s *State) NavigateTo(page string) error {
	p, ok := constants.FindPage(page)
	if !ok {
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: "page", Message: "Unknown page"}}}
	}

	if p.RequiresAuth && !s.Authenticated {
		s.CurrentPage = constants.PageLogin
	} else {
		s.CurrentPage = p.ID
	}
	s.ScrollToTop = true
	return nil
}

// Logout revokes the loaded session, clears the user and goes home. The local state is
// cleared even when revoking fails.
func (s *State) Logout(ctx context.Context, src SessionSource) error {
	sessionID := s.sessionID
	s.clearAuth()
	s.CurrentPage = constants.PageHome
	s.ScrollToTop = true

	if sessionID == "" {
		return nil
	}
	if err := src.SignOut(ctx, sessionID); err != nil {
		logger.Errorw("Error revoking session on logout", "sessionId", sessionID, "error", err.Error())
		return err
	}
	return nil
}

// TakeScroll reports and clears the scroll flag.
func (s *State) TakeScroll() bool {
	v := s.ScrollToTop
	s.ScrollToTop = false
	return v
}

func (s *State) clearAuth() {
	s.Authenticated = false
	s.User = nil
	s.sessionID = ""
}
