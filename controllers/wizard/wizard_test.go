package wizard_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"farmhith/apperrors"
	wizardController "farmhith/controllers/wizard"
	bookingModel "farmhith/models/booking"
	bookingTypes "farmhith/types/booking"
	"farmhith/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "wizard_test_session"

// slowSubmitter accepts the first booking after a pause and rejects any later one as a
// duplicate tracking ID, like the real service does.
type slowSubmitter struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
}

func (s *slowSubmitter) SubmitBooking(_ context.Context, data bookingTypes.BookingSubmissionRequest, _ *string) (*bookingModel.Booking, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if !first {
		return nil, apperrors.OperationFailed("submit booking", errors.New("tracking ID "+data.TrackingID+" is already in use"))
	}
	time.Sleep(s.delay)
	return &bookingModel.Booking{ID: "b-1", TrackingID: data.TrackingID, Status: bookingModel.BookingStatusPending}, nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type wizardState struct {
	Step       wizard.Step `json:"step"`
	TrackingID string      `json:"tracking_id"`
}

func (e envelope) state(t *testing.T) wizardState {
	t.Helper()
	var st wizardState
	require.NoError(t, json.Unmarshal(e.Data, &st), e.Message)
	return st
}

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func newClient(t *testing.T, submitter wizard.BookingSubmitter) *client {
	store := session.New(session.Config{KeyLookup: "cookie:" + cookieName})
	ctrl := wizardController.NewWizardController(store, submitter, cookieName)

	app := fiber.New()
	g := app.Group("/wizard")
	g.Get("/", ctrl.Show)
	g.Put("/fields", ctrl.SetFields)
	g.Post("/next", ctrl.Next)
	g.Post("/submit", ctrl.Submit)
	g.Delete("/", ctrl.Reset)
	return &client{t: t, app: app}
}

func (cl *client) do(method, path string, body interface{}) envelope {
	cl.t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(cl.t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}

	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && cl.cookie == nil {
			cl.cookie = c
		}
	}

	var env envelope
	require.NoError(cl.t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func (cl *client) fillToPayment() {
	cl.t.Helper()
	fields := []map[string]string{
		{"package_id": "basic"},
		{"farmer_name": "Ramesh", "mobile": "9876543210", "village": "Rampur", "district": "Karnal", "state": "Haryana", "crop_type": "Wheat"},
		{"pickup_type": "drop"},
	}
	for _, f := range fields {
		env := cl.do(fiber.MethodPut, "/wizard/fields", map[string]interface{}{"fields": f})
		require.Equal(cl.t, fiber.StatusOK, env.Status, env.Message)
		env = cl.do(fiber.MethodPost, "/wizard/next", nil)
		require.Equal(cl.t, fiber.StatusOK, env.Status, env.Message)
	}
	env := cl.do(fiber.MethodGet, "/wizard", nil)
	require.Equal(cl.t, wizard.StepPayment, env.state(cl.t).Step)
}

func TestWizard_StatePersistsAcrossRequests(t *testing.T) {
	cl := newClient(t, &slowSubmitter{})

	first := cl.do(fiber.MethodGet, "/wizard", nil)
	require.Equal(t, fiber.StatusOK, first.Status)
	require.NotNil(t, cl.cookie)

	cl.fillToPayment()
	again := cl.do(fiber.MethodGet, "/wizard", nil)
	assert.Equal(t, first.state(t).TrackingID, again.state(t).TrackingID)
}

func TestWizard_ConcurrentSubmitsCompleteOnce(t *testing.T) {
	submitter := &slowSubmitter{delay: 50 * time.Millisecond}
	cl := newClient(t, submitter)
	cl.fillToPayment()

	const n = 3
	results := make([]envelope, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cl.do(fiber.MethodPost, "/wizard/submit", nil)
		}(i)
	}
	wg.Wait()

	for _, env := range results {
		require.Equal(t, fiber.StatusOK, env.Status, env.Message)
		assert.Equal(t, wizard.StepComplete, env.state(t).Step)
	}
	assert.Equal(t, 1, submitter.calls)

	final := cl.do(fiber.MethodGet, "/wizard", nil)
	assert.Equal(t, wizard.StepComplete, final.state(t).Step)
}

func TestWizard_ResetStartsOver(t *testing.T) {
	cl := newClient(t, &slowSubmitter{})
	cl.fillToPayment()

	env := cl.do(fiber.MethodDelete, "/wizard", nil)
	require.Equal(t, fiber.StatusOK, env.Status)
	assert.Equal(t, wizard.StepPackage, env.state(t).Step)

	env = cl.do(fiber.MethodGet, "/wizard", nil)
	assert.Equal(t, wizard.StepPackage, env.state(t).Step)
}
