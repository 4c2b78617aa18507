package event

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
)

var errQuery = errors.New("query error")

var eventRowColumns = []string{"id", "title", "event_date", "event_time", "activity", "max_participants",
	"current_participants", "description", "image_url", "organizer_name", "organizer_avatar",
	"departure_location", "user_id", "created_at"}

type recordingFeed struct {
	topic    string
	payloads [][]byte
}

func (f *recordingFeed) Broadcast(topic string, payload []byte) {
	f.topic = topic
	f.payloads = append(f.payloads, payload)
}

func strPtr(s string) *string { return &s }

func validNewEvent() NewEvent {
	return NewEvent{
		Title:             "Trail Day",
		EventDate:         "2026-10-17",
		EventTime:         "09:00",
		Activity:          "hiking",
		MaxParticipants:   10,
		Description:       strPtr("Bring water"),
		OrganizerName:     "Anna Berg",
		DepartureLocation: "To be announced",
		UserID:            "user-1",
	}
}

func TestCreateEvent(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(pgxmock.AnyArg(), "Trail Day", "2026-10-17", "09:00", "hiking", 10,
			pgxmock.AnyArg(), pgxmock.AnyArg(), "Anna Berg", "To be announced", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"current_participants", "created_at"}).AddRow(1, createdAt))

	feed := &recordingFeed{}
	svc := NewService(mock, feed, "events", zerolog.Nop())
	ev, err := svc.CreateEvent(context.Background(), validNewEvent())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if ev.ID == "" || ev.CurrentParticipants != 1 || ev.UserID == nil || *ev.UserID != "user-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if feed.topic != "events" || len(feed.payloads) != 1 || !strings.Contains(string(feed.payloads[0]), ev.ID) {
		t.Fatalf("expected event on feed")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateEventValidation(t *testing.T) {
	svc := NewService(nil, nil, "events", zerolog.Nop())

	bad := validNewEvent()
	bad.Activity = "skiing"
	if _, err := svc.CreateEvent(context.Background(), bad); err == nil {
		t.Fatalf("expected unsupported activity to be rejected")
	}

	bad = validNewEvent()
	bad.EventTime = "9:00"
	if _, err := svc.CreateEvent(context.Background(), bad); err == nil {
		t.Fatalf("expected bad time to be rejected")
	}

	bad = validNewEvent()
	bad.MaxParticipants = 51
	if _, err := svc.CreateEvent(context.Background(), bad); err == nil {
		t.Fatalf("expected participant bound to be enforced")
	}
}

func TestCreateEventInsertError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO events`).WillReturnError(errQuery)

	feed := &recordingFeed{}
	svc := NewService(mock, feed, "events", zerolog.Nop())
	if _, err := svc.CreateEvent(context.Background(), validNewEvent()); !errors.Is(err, errQuery) {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
	if len(feed.payloads) != 0 {
		t.Fatalf("failed insert must not be published")
	}
}

func TestListAndUpcoming(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, title, event_date::text`).
		WillReturnRows(pgxmock.NewRows(eventRowColumns).
			AddRow("ev-1", "Dawn hike", "2026-10-17", "06:45:00", "hiking", 10, 3, nil, nil, "Anna", nil, "Station", nil, now).
			AddRow("ev-2", "Gravel loop", "2026-10-18", "09:00:00", "cycling", 8, 1, strPtr("Fast"), nil, "Jon", nil, "Square", strPtr("user-2"), now))

	svc := NewService(mock, nil, "events", zerolog.Nop())
	events, err := svc.List(context.Background())
	if err != nil || len(events) != 2 {
		t.Fatalf("list: %v", err)
	}
	if events[0].EventTime != "06:45" {
		t.Fatalf("expected trimmed time, got %q", events[0].EventTime)
	}

	today := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE event_date >= \$1`).
		WithArgs("2026-10-16").
		WillReturnRows(pgxmock.NewRows(eventRowColumns))
	upcoming, err := svc.Upcoming(context.Background(), today)
	if err != nil || len(upcoming) != 0 {
		t.Fatalf("upcoming: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGroupByDate(t *testing.T) {
	events := []Event{
		{ID: "a", EventDate: "2026-10-17"},
		{ID: "b", EventDate: "2026-10-18"},
		{ID: "c", EventDate: "2026-10-17"},
	}
	groups := GroupByDate(events)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Date != "2026-10-17" || len(groups[0].Events) != 2 || groups[0].Events[1].ID != "c" {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
}

func TestFormatEventTime(t *testing.T) {
	if FormatEventTime("06:45:00") != "06:45" || FormatEventTime("09:00") != "09:00" {
		t.Fatalf("unexpected formatting")
	}
}

func TestServiceWithoutDatabase(t *testing.T) {
	svc := NewService(nil, nil, "events", zerolog.Nop())
	if _, err := svc.CreateEvent(context.Background(), validNewEvent()); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("expected no database error, got %v", err)
	}
	if _, err := svc.List(context.Background()); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("expected no database error, got %v", err)
	}
}
