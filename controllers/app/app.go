package app

import (
	"time"

	"farmhith/apperrors"
	"farmhith/appstate"
	"farmhith/logger"
	"farmhith/types"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const sessionKey = "app_state"

// AppController holds the navigation state of each browser session.
type AppController struct {
	Store         *session.Store
	Sessions      appstate.SessionSource
	SecureCookies bool
}

func NewAppController(store *session.Store, sessions appstate.SessionSource, secureCookies bool) *AppController {
	return &AppController{
		Store:         store,
		Sessions:      sessions,
		SecureCookies: secureCookies,
	}
}

type NavigateRequest struct {
	Page string `json:"page"`
}

// State loads the session for the caller's token and returns the current state.
func (ac *AppController) State(c *fiber.Ctx) error {
	return ac.with(c, "App state fetched successfully", func(s *appstate.State) error {
		return nil
	})
}

func (ac *AppController) Navigate(c *fiber.Ctx) error {
	var req NavigateRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	return ac.with(c, "Navigated", func(s *appstate.State) error {
		return s.NavigateTo(req.Page)
	})
}

// Logout revokes the session, clears the access cookie and returns home.
func (ac *AppController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     utils.AccessCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   ac.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ac.with(c, "Logged out successfully", func(s *appstate.State) error {
		return s.Logout(c.UserContext(), ac.Sessions)
	})
}

func (ac *AppController) with(c *fiber.Ctx, message string, fn func(s *appstate.State) error) error {
	sess, err := ac.Store.Get(c)
	if err != nil {
		logger.Error("Failed to load session", err)
		return utils.RespondError(c, apperrors.OperationFailed("load session", err))
	}

	state := appstate.New()
	if raw, ok := sess.Get(sessionKey).(string); ok {
		if loaded, err := appstate.Load([]byte(raw)); err == nil {
			state = loaded
		}
	}
	if err := state.Init(c.UserContext(), ac.Sessions, utils.ExtractBearerToken(c)); err != nil {
		return utils.RespondError(c, err)
	}

	fnErr := fn(state)
	scroll := state.TakeScroll()

	raw, err := state.Marshal()
	if err != nil {
		return utils.RespondError(c, apperrors.OperationFailed("save app state", err))
	}
	sess.Set(sessionKey, string(raw))
	if err := sess.Save(); err != nil {
		logger.Error("Failed to save session", err)
		return utils.RespondError(c, apperrors.OperationFailed("save app state", err))
	}
	if fnErr != nil {
		return utils.RespondError(c, fnErr)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data: fiber.Map{
			"current_page":  state.CurrentPage,
			"authenticated": state.Authenticated,
			"user":          state.User,
			"scroll_to_top": scroll,
		},
	})
}
