package wizard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend-trailmeet/internal/auth"
	"backend-trailmeet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type wizardApp struct {
	app      *fiber.App
	token    string
	creator  *fakeCreator
	sessions *Sessions
}

func newWizardApp(t *testing.T) *wizardApp {
	t.Helper()
	authSvc := auth.NewService("secret", nil)
	creator := &fakeCreator{}
	deps := testDeps(NewMemoryStore(), creator)
	deps.Auth = authSvc

	sessions := NewSessions(deps)
	app := fiber.New()
	RegisterRoutes(app.Group("/wizard"), sessions, auth.JWTMiddleware(authSvc))

	token, err := authSvc.IssueAccessToken("user-1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return &wizardApp{app: app, token: token, creator: creator, sessions: sessions}
}

func (w *wizardApp) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+w.token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := w.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestWizardHandlersFlow(t *testing.T) {
	w := newWizardApp(t)

	resp, state := w.do(t, http.MethodPost, "/wizard/open", "")
	if resp.StatusCode != http.StatusOK || state["open"] != true || state["total_steps"] != float64(5) {
		t.Fatalf("unexpected open state %v", state)
	}

	resp, _ = w.do(t, http.MethodPost, "/wizard/advance", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for incomplete step, got %d", resp.StatusCode)
	}

	resp, state = w.do(t, http.MethodPut, "/wizard/activity", `{"activity":"social"}`)
	if resp.StatusCode != http.StatusOK || state["total_steps"] != float64(4) || state["step"] != float64(1) {
		t.Fatalf("unexpected activity state %v", state)
	}

	_, body := w.do(t, http.MethodPost, "/wizard/advance", "")
	if st := body["state"].(map[string]any); st["step_name"] != "date_time" || st["display_step"] != float64(2) {
		t.Fatalf("expected date step, got %v", st)
	}

	resp, state = w.do(t, http.MethodPatch, "/wizard/draft",
		`{"date":"2026-11-14","time":"10:30","event_name":"Park picnic","max_participants":80,"add_disclaimer":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status %d", resp.StatusCode)
	}
	draft := state["draft"].(map[string]any)
	if draft["time"] != "10:30" || draft["maxParticipants"] != float64(50) || draft["date"] != "2026-11-14T00:00:00.000Z" {
		t.Fatalf("unexpected draft %v", draft)
	}

	w.do(t, http.MethodPost, "/wizard/advance", "")
	w.do(t, http.MethodPost, "/wizard/advance", "")
	resp, body = w.do(t, http.MethodPost, "/wizard/advance", "")
	if resp.StatusCode != http.StatusCreated || body["event"] == nil {
		t.Fatalf("expected created event, got %d %v", resp.StatusCode, body)
	}
	in := w.creator.inputs[0]
	if in.Description == nil || *in.Description != Disclaimer || in.OrganizerName != "user-1" {
		t.Fatalf("unexpected payload %+v", in)
	}

	_, state = w.do(t, http.MethodGet, "/wizard", "")
	if state["open"] != false {
		t.Fatalf("expected closed wizard after submit")
	}
}

func TestWizardHandlersCloseAndDiscard(t *testing.T) {
	w := newWizardApp(t)
	w.do(t, http.MethodPost, "/wizard/open", "")
	w.do(t, http.MethodPut, "/wizard/activity", `{"activity":"hiking"}`)

	_, body := w.do(t, http.MethodPost, "/wizard/close", "")
	if body["result"] != "confirm_required" {
		t.Fatalf("expected confirmation, got %v", body)
	}

	if w.sessions.Len() != 1 {
		t.Fatalf("expected one live session, got %d", w.sessions.Len())
	}
	_, state := w.do(t, http.MethodPost, "/wizard/discard", "")
	if state["open"] != false || state["unsaved"] != false {
		t.Fatalf("unexpected state after discard %v", state)
	}
	if w.sessions.Len() != 0 {
		t.Fatalf("expected session evicted after discard, got %d", w.sessions.Len())
	}

	resp, _ := w.do(t, http.MethodPost, "/wizard/retreat", "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict on closed wizard, got %d", resp.StatusCode)
	}
}

func TestWizardHandlersBadInput(t *testing.T) {
	w := newWizardApp(t)
	w.do(t, http.MethodPost, "/wizard/open", "")

	resp, _ := w.do(t, http.MethodPut, "/wizard/activity", `{"activity":"kayaking"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown activity, got %d", resp.StatusCode)
	}
	resp, _ = w.do(t, http.MethodPatch, "/wizard/draft", `{"time":"25:00"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad time, got %d", resp.StatusCode)
	}
	resp, _ = w.do(t, http.MethodPatch, "/wizard/draft", `{"colour":"red"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.StatusCode)
	}
	resp, _ = w.do(t, http.MethodPost, "/wizard/submit", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing fields, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/wizard", nil)
	resp, _ = w.app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token")
	}
}

func TestWizardHandlersRouteSelection(t *testing.T) {
	w := newWizardApp(t)
	w.do(t, http.MethodPost, "/wizard/open", "")
	w.do(t, http.MethodPut, "/wizard/activity", `{"activity":"hiking"}`)

	resp, _ := w.do(t, http.MethodPatch, "/wizard/draft", `{"route_id":"no-such-route"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown route, got %d", resp.StatusCode)
	}

	resp, state := w.do(t, http.MethodPatch, "/wizard/draft", `{"route_id":"r-9"}`)
	if resp.StatusCode != http.StatusOK || state["draft"].(map[string]any)["routeId"] != "r-9" {
		t.Fatalf("expected route selected, got %d %v", resp.StatusCode, state)
	}
}

func TestWizardHandlersPatchIsAtomic(t *testing.T) {
	w := newWizardApp(t)
	w.do(t, http.MethodPost, "/wizard/open", "")
	w.do(t, http.MethodPut, "/wizard/activity", `{"activity":"social"}`)

	resp, _ := w.do(t, http.MethodPatch, "/wizard/draft", `{"date":"2026-11-01","event_name":"Lake swim","time":"25:99"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad time, got %d", resp.StatusCode)
	}

	_, state := w.do(t, http.MethodGet, "/wizard", "")
	draft := state["draft"].(map[string]any)
	if draft["date"] != "2026-10-17T00:00:00.000Z" || draft["eventName"] != "" || draft["time"] != DefaultTime {
		t.Fatalf("rejected patch must leave the draft untouched, got %v", draft)
	}

	resp, _ = w.do(t, http.MethodPatch, "/wizard/draft", `{"date":"soon","event_name":"Lake swim"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad date, got %d", resp.StatusCode)
	}
	_, state = w.do(t, http.MethodGet, "/wizard", "")
	if state["draft"].(map[string]any)["eventName"] != "" {
		t.Fatalf("event name must not be applied from a rejected patch")
	}
}

func TestToHTTPError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{ErrNotAuthenticated, fiber.StatusUnauthorized},
		{ErrMissingFields, fiber.StatusUnprocessableEntity},
		{ErrSubmitInFlight, fiber.StatusConflict},
		{&SubmitError{Err: errors.New("down")}, fiber.StatusBadGateway},
		{&SubmitError{Err: &validation.Error{Message: validation.ErrInvalidFormat, Field: "NewEvent.EventTime"}}, fiber.StatusUnprocessableEntity},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		var fe *fiber.Error
		if !errors.As(toHTTPError(tc.err), &fe) || fe.Code != tc.code {
			t.Fatalf("%v: expected %d", tc.err, tc.code)
		}
	}
}
