package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend-trailmeet/internal/db"
	"backend-trailmeet/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const eventColumns = `id, title, event_date::text, event_time::text, activity::text, max_participants,
		       current_participants, description, image_url, organizer_name, organizer_avatar,
		       departure_location, user_id, created_at`

var ErrNoDatabase = errors.New("event store not configured")

// Publisher receives every created event. *stream.Hub satisfies it.
type Publisher interface {
	Broadcast(topic string, payload []byte)
}

type Service struct {
	db    db.Querier
	feed  Publisher
	topic string
	log   zerolog.Logger
}

func NewService(db db.Querier, feed Publisher, topic string, log zerolog.Logger) *Service {
	return &Service{db: db, feed: feed, topic: topic, log: log}
}

func (s *Service) CreateEvent(ctx context.Context, input NewEvent) (Event, error) {
	if err := validation.Validate(ctx, input); err != nil {
		return Event{}, err
	}
	if s.db == nil {
		return Event{}, ErrNoDatabase
	}

	ev := Event{
		ID:                uuid.NewString(),
		Title:             input.Title,
		EventDate:         input.EventDate,
		EventTime:         input.EventTime,
		Activity:          input.Activity,
		MaxParticipants:   input.MaxParticipants,
		Description:       input.Description,
		ImageURL:          input.ImageURL,
		OrganizerName:     input.OrganizerName,
		DepartureLocation: input.DepartureLocation,
	}
	if input.UserID != "" {
		ev.UserID = &input.UserID
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO events (id, title, event_date, event_time, activity, max_participants,
		                    description, image_url, organizer_name, departure_location, user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING current_participants, created_at
	`, ev.ID, ev.Title, ev.EventDate, ev.EventTime, ev.Activity, ev.MaxParticipants,
		ev.Description, ev.ImageURL, ev.OrganizerName, ev.DepartureLocation, ev.UserID)
	if err := row.Scan(&ev.CurrentParticipants, &ev.CreatedAt); err != nil {
		return Event{}, fmt.Errorf("insert event: %w", err)
	}

	s.log.Info().Str("event_id", ev.ID).Str("activity", ev.Activity).Msg("event created")
	s.publish(ev)
	return ev, nil
}

// List returns all events ordered by date then time.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		ORDER BY event_date ASC, event_time ASC
	`)
}

// Upcoming returns events on or after the given day.
func (s *Service) Upcoming(ctx context.Context, today time.Time) ([]Event, error) {
	return s.query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE event_date >= $1
		ORDER BY event_date ASC, event_time ASC
	`, today.Format(time.DateOnly))
}

func (s *Service) query(ctx context.Context, sql string, args ...any) ([]Event, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.EventDate, &e.EventTime, &e.Activity, &e.MaxParticipants,
			&e.CurrentParticipants, &e.Description, &e.ImageURL, &e.OrganizerName, &e.OrganizerAvatar,
			&e.DepartureLocation, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.EventTime = FormatEventTime(e.EventTime)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Service) publish(ev Event) {
	if s.feed == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.Error().Err(err).Str("event_id", ev.ID).Msg("encode event for feed")
		return
	}
	s.feed.Broadcast(s.topic, payload)
}

// DateGroup holds the events of one calendar day.
type DateGroup struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

// GroupByDate buckets events by event_date, keeping the first-seen order of
// days and the input order within a day.
func GroupByDate(events []Event) []DateGroup {
	var groups []DateGroup
	index := map[string]int{}
	for _, e := range events {
		i, ok := index[e.EventDate]
		if !ok {
			i = len(groups)
			index[e.EventDate] = i
			groups = append(groups, DateGroup{Date: e.EventDate})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups
}

// FormatEventTime trims a database time such as "06:45:00" to "06:45".
func FormatEventTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
