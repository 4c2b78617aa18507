package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"backend-trailmeet/internal/activity"
	"backend-trailmeet/internal/auth"
	"backend-trailmeet/internal/event"
	"backend-trailmeet/internal/route"
	"backend-trailmeet/internal/validation"

	"github.com/rs/zerolog"
)

// EventCreator is the backend that stores submitted events. *event.Service
// satisfies it.
type EventCreator interface {
	CreateEvent(ctx context.Context, input event.NewEvent) (event.Event, error)
}

// Identifier resolves the organizer behind a user id. *auth.Service
// satisfies it.
type Identifier interface {
	Identify(ctx context.Context, userID string) (auth.Identity, error)
}

// RouteLookup resolves route ids offered by the route step. *route.Catalog
// satisfies it.
type RouteLookup interface {
	ByID(id string) (route.Route, bool)
}

type Deps struct {
	Store             DraftStore
	Creator           EventCreator
	Auth              Identifier
	Routes            RouteLookup
	Logger            zerolog.Logger
	Now               func() time.Time
	DepartureLocation string
}

type CloseResult int

const (
	Closed CloseResult = iota
	ConfirmRequired
)

func (r CloseResult) String() string {
	if r == ConfirmRequired {
		return "confirm_required"
	}
	return "closed"
}

// State is a snapshot of a wizard for rendering.
type State struct {
	Open        bool          `json:"open"`
	Step        activity.Step `json:"step"`
	StepName    string        `json:"step_name"`
	DisplayStep int           `json:"display_step"`
	TotalSteps  int           `json:"total_steps"`
	CanAdvance  bool          `json:"can_advance"`
	Submitting  bool          `json:"submitting"`
	Unsaved     bool          `json:"unsaved"`
	Draft       Draft         `json:"draft"`
}

// Edit is one already validated change to a draft.
type Edit func(*Draft)

// Controller drives one user's event creation wizard. All methods are safe
// for concurrent use; calls are serialized.
type Controller struct {
	owner string
	deps  Deps
	log   zerolog.Logger

	mu         sync.Mutex
	open       bool
	step       activity.Step
	draft      Draft
	submitting bool

	// release is called after the wizard is closed with nothing left to
	// resume.
	release func(*Controller)
}

func NewController(owner string, deps Deps) *Controller {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Store == nil {
		deps.Store = NewMemoryStore()
	}
	return &Controller{
		owner: owner,
		deps:  deps,
		log:   deps.Logger.With().Str("owner", owner).Logger(),
		step:  activity.FirstStep,
		draft: DefaultDraft(deps.Now()),
	}
}

// Open shows the wizard, restoring a saved draft merged over the defaults.
// A corrupt or unreadable draft is ignored.
func (c *Controller) Open(ctx context.Context) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.deps.Now()
	c.open = true

	raw, err := c.deps.Store.Load(ctx, c.owner)
	switch {
	case err != nil:
		c.log.Warn().Err(err).Msg("load draft")
	case raw != nil:
		d, err := DecodeDraft(raw, now)
		if err != nil {
			c.log.Debug().Err(err).Msg("ignoring unparseable draft")
		}
		c.draft = d
		return c.stateLocked()
	}
	if !c.draft.Unsaved() {
		c.draft = DefaultDraft(now)
	}
	return c.stateLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// SelectActivity sets the activity type. The step does not change.
func (c *Controller) SelectActivity(ctx context.Context, t activity.Type) (State, error) {
	if !t.Valid() {
		return State{}, fmt.Errorf("%w: activity %q", ErrInvalidValue, t)
	}
	return c.mutate(ctx, func(d *Draft) { d.Activity = &t })
}

// SelectRoute sets or, with "", clears the chosen route. Ids unknown to the
// route catalog are rejected.
func (c *Controller) SelectRoute(ctx context.Context, routeID string) (State, error) {
	edit, err := c.RouteEdit(routeID)
	if err != nil {
		return State{}, err
	}
	return c.mutate(ctx, edit)
}

// SetDate sets the event day, or clears it when date is nil.
func (c *Controller) SetDate(ctx context.Context, date *time.Time) (State, error) {
	return c.mutate(ctx, DateEdit(date))
}

// SetTime sets the start time as HH:MM, or clears it with "".
func (c *Controller) SetTime(ctx context.Context, hhmm string) (State, error) {
	edit, err := TimeEdit(hhmm)
	if err != nil {
		return State{}, err
	}
	return c.mutate(ctx, edit)
}

func (c *Controller) SetEventName(ctx context.Context, name string) (State, error) {
	return c.mutate(ctx, NameEdit(name))
}

// SetMaxParticipants stores n clamped to 2..50.
func (c *Controller) SetMaxParticipants(ctx context.Context, n int) (State, error) {
	return c.mutate(ctx, ParticipantsEdit(n))
}

func (c *Controller) SetDescription(ctx context.Context, description string) (State, error) {
	return c.mutate(ctx, DescriptionEdit(description))
}

func (c *Controller) SetDisclaimer(ctx context.Context, add bool) (State, error) {
	return c.mutate(ctx, DisclaimerEdit(add))
}

// SetCoverPhoto sets or, with "", removes the cover photo URL.
func (c *Controller) SetCoverPhoto(ctx context.Context, url string) (State, error) {
	return c.mutate(ctx, CoverPhotoEdit(url))
}

// Apply runs edits in order as a single change, saving the draft once.
// Edits are built up front so a bad value rejects the whole batch.
func (c *Controller) Apply(ctx context.Context, edits ...Edit) (State, error) {
	return c.mutate(ctx, func(d *Draft) {
		for _, e := range edits {
			e(d)
		}
	})
}

// RouteEdit checks routeID against the configured route catalog.
func (c *Controller) RouteEdit(routeID string) (Edit, error) {
	if routeID != "" && c.deps.Routes != nil {
		if _, ok := c.deps.Routes.ByID(routeID); !ok {
			return nil, fmt.Errorf("%w: route %q", ErrInvalidValue, routeID)
		}
	}
	return func(d *Draft) { d.RouteID = optional(routeID) }, nil
}

// DateEdit truncates date to midnight in its own location.
func DateEdit(date *time.Time) Edit {
	return func(d *Draft) {
		if date == nil {
			d.Date = nil
			return
		}
		y, m, day := date.Date()
		t := time.Date(y, m, day, 0, 0, 0, 0, date.Location())
		d.Date = &t
	}
}

func TimeEdit(hhmm string) (Edit, error) {
	if hhmm != "" {
		if err := validation.Validator().Var(hhmm, "hhmm"); err != nil {
			return nil, fmt.Errorf("%w: time %q", ErrInvalidValue, hhmm)
		}
	}
	return func(d *Draft) { d.Time = optional(hhmm) }, nil
}

func NameEdit(name string) Edit {
	return func(d *Draft) { d.EventName = name }
}

func ParticipantsEdit(n int) Edit {
	return func(d *Draft) { d.MaxParticipants = ClampParticipants(n) }
}

func DescriptionEdit(description string) Edit {
	return func(d *Draft) { d.Description = description }
}

func DisclaimerEdit(add bool) Edit {
	return func(d *Draft) { d.AddDisclaimer = add }
}

func CoverPhotoEdit(url string) Edit {
	return func(d *Draft) { d.CoverPhotoURL = optional(url) }
}

// CanAdvance reports whether the current step is complete.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canAdvanceLocked()
}

// Advance moves to the next step of the activity's sequence. On the last
// step it submits the draft and returns the created event.
func (c *Controller) Advance(ctx context.Context) (State, *event.Event, error) {
	c.mu.Lock()
	if err := c.guardLocked(); err != nil {
		c.mu.Unlock()
		return State{}, nil, err
	}
	if !c.canAdvanceLocked() {
		c.mu.Unlock()
		return State{}, nil, fmt.Errorf("%w: %s", ErrStepIncomplete, c.step)
	}
	if c.step == activity.LastStep {
		c.mu.Unlock()
		ev, err := c.Submit(ctx)
		if err != nil {
			return c.State(), nil, err
		}
		return c.State(), &ev, nil
	}

	if next, ok := activity.Next(c.draft.activityType(), c.step); ok {
		c.step = next
	} else {
		c.step++
	}
	state := c.stateLocked()
	c.mu.Unlock()
	return state, nil, nil
}

// Retreat moves to the previous step, undoing the route skip when the
// activity has no route. It is a no-op on the first step.
func (c *Controller) Retreat() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardLocked(); err != nil {
		return State{}, err
	}
	if c.step > activity.FirstStep {
		if prev, ok := activity.Prev(c.draft.activityType(), c.step); ok {
			c.step = prev
		} else {
			c.step--
		}
	}
	return c.stateLocked(), nil
}

// Close hides the wizard unless the user has started the flow, in which case
// the caller must confirm with Discard or keep editing.
func (c *Controller) Close() CloseResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.Unsaved() {
		return ConfirmRequired
	}
	c.open = false
	c.releaseLocked()
	return Closed
}

// Discard drops the saved draft and resets and closes the wizard.
func (c *Controller) Discard(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrSubmitInFlight
	}
	c.resetLocked(ctx)
	return nil
}

// Submit re-validates the draft and creates the event as the authenticated
// owner. On success the draft is cleared and the wizard closed; on failure
// the draft is kept and the wizard stays open.
func (c *Controller) Submit(ctx context.Context) (event.Event, error) {
	c.mu.Lock()
	if err := c.guardLocked(); err != nil {
		c.mu.Unlock()
		return event.Event{}, err
	}
	if missing := c.draft.Missing(); len(missing) > 0 {
		c.mu.Unlock()
		return event.Event{}, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	c.submitting = true
	draft := c.draft
	c.mu.Unlock()

	ev, err := c.create(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Warn().Err(err).Msg("event submission failed")
		return event.Event{}, err
	}
	c.resetLocked(ctx)
	return ev, nil
}

func (c *Controller) create(ctx context.Context, d Draft) (event.Event, error) {
	if c.deps.Auth == nil {
		return event.Event{}, ErrNotAuthenticated
	}
	id, err := c.deps.Auth.Identify(ctx, c.owner)
	if err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}

	input := event.NewEvent{
		Title:             strings.TrimSpace(d.EventName),
		EventDate:         d.Date.Format(time.DateOnly),
		EventTime:         *d.Time,
		Activity:          d.Activity.Backend(),
		MaxParticipants:   d.MaxParticipants,
		Description:       optional(ComposeDescription(d.Description, d.AddDisclaimer)),
		ImageURL:          d.CoverPhotoURL,
		OrganizerName:     id.DisplayName(),
		DepartureLocation: c.deps.DepartureLocation,
		UserID:            id.UserID,
	}
	ev, err := c.deps.Creator.CreateEvent(ctx, input)
	if err != nil {
		return event.Event{}, &SubmitError{Err: err}
	}
	return ev, nil
}

func (c *Controller) mutate(ctx context.Context, edit Edit) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardLocked(); err != nil {
		return State{}, err
	}
	edit(&c.draft)
	c.persistLocked(ctx)
	return c.stateLocked(), nil
}

func (c *Controller) guardLocked() error {
	if !c.open {
		return ErrClosed
	}
	if c.submitting {
		return ErrSubmitInFlight
	}
	return nil
}

// persistLocked saves the draft once an activity is chosen. Storage
// failures only cost the ability to resume later and are logged.
func (c *Controller) persistLocked(ctx context.Context) {
	if !c.draft.Unsaved() {
		return
	}
	payload, err := json.Marshal(c.draft)
	if err == nil {
		err = c.deps.Store.Save(ctx, c.owner, payload)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("save draft")
	}
}

func (c *Controller) resetLocked(ctx context.Context) {
	if err := c.deps.Store.Clear(ctx, c.owner); err != nil {
		c.log.Warn().Err(err).Msg("clear draft")
	}
	c.draft = DefaultDraft(c.deps.Now())
	c.step = activity.FirstStep
	c.open = false
	c.releaseLocked()
}

func (c *Controller) releaseLocked() {
	if c.release != nil {
		c.release(c)
	}
}

func (c *Controller) canAdvanceLocked() bool {
	d := c.draft
	switch c.step {
	case activity.StepActivityType:
		return d.Activity != nil
	case activity.StepRouteSelection:
		return true
	case activity.StepDateTime:
		return d.Date != nil && d.Time != nil && *d.Time != ""
	case activity.StepDetails:
		return strings.TrimSpace(d.EventName) != ""
	case activity.StepDescription:
		return true
	default:
		return false
	}
}

func (c *Controller) stateLocked() State {
	t := c.draft.activityType()
	return State{
		Open:        c.open,
		Step:        c.step,
		StepName:    c.step.String(),
		DisplayStep: activity.DisplayIndex(t, c.step),
		TotalSteps:  len(activity.Steps(t)),
		CanAdvance:  c.canAdvanceLocked(),
		Submitting:  c.submitting,
		Unsaved:     c.draft.Unsaved(),
		Draft:       c.draft,
	}
}

func (c *Controller) location() *time.Location {
	return c.deps.Now().Location()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
