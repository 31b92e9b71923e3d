package wizard

import (
	"strings"
	"sync"
	"time"

	"farmhith/apperrors"
	"farmhith/logger"
	"farmhith/middleware"
	"farmhith/types"
	wizardTypes "farmhith/types/wizard"
	"farmhith/utils"
	"farmhith/validation"
	"farmhith/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const sessionKey = "booking_wizard"

// WizardController keeps one booking wizard per browser session. Requests for the same
// session are handled one at a time.
type WizardController struct {
	Store      *session.Store
	Submitter  wizard.BookingSubmitter
	Now        func() time.Time
	cookieName string
	locks      *sessionLocks
}

func NewWizardController(store *session.Store, submitter wizard.BookingSubmitter, cookieName string) *WizardController {
	return &WizardController{
		Store:      store,
		Submitter:  submitter,
		Now:        time.Now,
		cookieName: cookieName,
		locks:      newSessionLocks(),
	}
}

// View is the wizard as returned to the client.
type View struct {
	*wizard.Wizard
	Summary    *wizard.Summary        `json:"summary,omitempty"`
	CanProceed bool                   `json:"can_proceed"`
	Missing    []apperrors.FieldError `json:"missing,omitempty"`
}

func (wc *WizardController) Show(c *fiber.Ctx) error {
	return wc.with(c, "Wizard fetched successfully", func(w *wizard.Wizard) error {
		return nil
	})
}

func (wc *WizardController) SetFields(c *fiber.Ctx) error {
	var req wizardTypes.FieldsRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}
	if err := validation.Struct(req).Err(); err != nil {
		return utils.RespondError(c, err)
	}
	return wc.with(c, "Wizard updated", func(w *wizard.Wizard) error {
		return w.SetFields(req.Fields)
	})
}

func (wc *WizardController) Next(c *fiber.Ctx) error {
	return wc.with(c, "Wizard updated", func(w *wizard.Wizard) error {
		return w.Next()
	})
}

func (wc *WizardController) Back(c *fiber.Ctx) error {
	return wc.with(c, "Wizard updated", func(w *wizard.Wizard) error {
		w.Back()
		return nil
	})
}

// Submit confirms the booking. Repeating it after success returns the same booking.
func (wc *WizardController) Submit(c *fiber.Ctx) error {
	var userID *string
	if sess := middleware.CurrentSession(c); sess != nil {
		userID = &sess.User.ID
	}
	return wc.with(c, "Booking confirmed", func(w *wizard.Wizard) error {
		_, err := w.Submit(c.UserContext(), wc.Submitter, userID)
		return err
	})
}

// Reset starts a fresh wizard with a new tracking ID.
func (wc *WizardController) Reset(c *fiber.Ctx) error {
	defer wc.locks.lock(c.Cookies(wc.cookieName))()

	sess, err := wc.Store.Get(c)
	if err != nil {
		logger.Error("Failed to load session", err)
		return utils.RespondError(c, apperrors.OperationFailed("load session", err))
	}
	w := wizard.New(wc.Now())
	if err := save(sess, w); err != nil {
		return utils.RespondError(c, err)
	}
	return respond(c, "Wizard reset", w)
}

// with loads the wizard, applies fn and saves the result even when fn fails, so a failed
// step keeps the fields already entered.
func (wc *WizardController) with(c *fiber.Ctx, message string, fn func(w *wizard.Wizard) error) error {
	defer wc.locks.lock(c.Cookies(wc.cookieName))()

	sess, err := wc.Store.Get(c)
	if err != nil {
		logger.Error("Failed to load session", err)
		return utils.RespondError(c, apperrors.OperationFailed("load session", err))
	}

	w := wc.load(sess)
	fnErr := fn(w)
	if err := save(sess, w); err != nil {
		return utils.RespondError(c, err)
	}
	if fnErr != nil {
		return utils.RespondError(c, fnErr)
	}
	return respond(c, message, w)
}

func (wc *WizardController) load(sess *session.Session) *wizard.Wizard {
	if raw, ok := sess.Get(sessionKey).(string); ok {
		w, err := wizard.Load([]byte(raw))
		if err == nil {
			return w
		}
		logger.Warning("Discarding unreadable wizard state: " + err.Error())
	}
	return wizard.New(wc.Now())
}

func save(sess *session.Session, w *wizard.Wizard) error {
	raw, err := w.Marshal()
	if err != nil {
		return apperrors.OperationFailed("save wizard", err)
	}
	sess.Set(sessionKey, string(raw))
	if err := sess.Save(); err != nil {
		logger.Error("Failed to save session", err)
		return apperrors.OperationFailed("save wizard", err)
	}
	return nil
}

func respond(c *fiber.Ctx, message string, w *wizard.Wizard) error {
	view := View{Wizard: w, CanProceed: w.CanProceed(), Missing: w.Missing()}
	if s, ok := w.Summary(); ok {
		view.Summary = &s
	}
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data:    view,
	})
}

// sessionLocks hands out one mutex per session id and forgets it once nobody holds it.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// lock blocks until id is free and returns the matching unlock. A request without a session
// cookie gets a brand new session, so there is nothing to serialize.
func (l *sessionLocks) lock(id string) func() {
	if id == "" {
		return func() {}
	}

	// the cookie value points into the request buffer
	id = strings.Clone(id)

	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
