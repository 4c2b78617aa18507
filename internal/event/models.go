package event

import "time"

// Event is a row of the events table.
type Event struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	EventDate           string    `json:"event_date"`
	EventTime           string    `json:"event_time"`
	Activity            string    `json:"activity"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	Description         *string   `json:"description"`
	ImageURL            *string   `json:"image_url"`
	OrganizerName       string    `json:"organizer_name"`
	OrganizerAvatar     *string   `json:"organizer_avatar"`
	DepartureLocation   string    `json:"departure_location"`
	UserID              *string   `json:"user_id"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewEvent is the insert payload composed by the creation wizard.
type NewEvent struct {
	Title             string  `json:"title" validate:"notblank,max=120"`
	EventDate         string  `json:"event_date" validate:"isodate"`
	EventTime         string  `json:"event_time" validate:"hhmm"`
	Activity          string  `json:"activity" validate:"oneof=hiking cycling"`
	MaxParticipants   int     `json:"max_participants" validate:"min=2,max=50"`
	Description       *string `json:"description"`
	ImageURL          *string `json:"image_url" validate:"omitempty,url"`
	OrganizerName     string  `json:"organizer_name" validate:"required"`
	DepartureLocation string  `json:"departure_location" validate:"required"`
	UserID            string  `json:"user_id"`
}
