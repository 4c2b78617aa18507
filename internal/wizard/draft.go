package wizard

import (
	"encoding/json"
	"strings"
	"time"

	"backend-trailmeet/internal/activity"

	"github.com/itlightning/dateparse"
)

const (
	DefaultTime            = "09:00"
	DefaultMaxParticipants = 10
	MinParticipants        = 2
	MaxParticipants        = 50
)

// Disclaimer is appended to the event description when the organizer opts in.
const Disclaimer = "Safety notice: outdoor activities carry inherent risks. " +
	"Participants join at their own risk and are responsible for their own equipment, " +
	"fitness and insurance. The organizer is a volunteer, not a professional guide."

// draftDateLayout matches the ISO-8601 form browsers produce for dates.
const draftDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Draft is the in-progress form state of the event creation wizard.
type Draft struct {
	Activity        *activity.Type
	RouteID         *string
	Date            *time.Time
	Time            *string
	EventName       string
	MaxParticipants int
	Description     string
	AddDisclaimer   bool
	CoverPhotoURL   *string
}

// DefaultDraft is the state a fresh wizard starts from: next Saturday at
// 09:00 for ten participants.
func DefaultDraft(now time.Time) Draft {
	date := NextSaturday(now)
	t := DefaultTime
	return Draft{
		Date:            &date,
		Time:            &t,
		MaxParticipants: DefaultMaxParticipants,
	}
}

// NextSaturday returns midnight of the first Saturday strictly after now's day.
func NextSaturday(now time.Time) time.Time {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	y, m, d := now.Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, now.Location())
}

// Unsaved reports whether the user has started the flow.
func (d Draft) Unsaved() bool {
	return d.Activity != nil
}

// Missing lists the required fields that are not filled in.
func (d Draft) Missing() []string {
	var missing []string
	if d.Activity == nil {
		missing = append(missing, "activity_type")
	}
	if d.Date == nil {
		missing = append(missing, "date")
	}
	if d.Time == nil || *d.Time == "" {
		missing = append(missing, "time")
	}
	if strings.TrimSpace(d.EventName) == "" {
		missing = append(missing, "event_name")
	}
	return missing
}

func (d Draft) activityType() activity.Type {
	if d.Activity == nil {
		return ""
	}
	return *d.Activity
}

// ComposeDescription returns the description stored with the event.
func ComposeDescription(description string, addDisclaimer bool) string {
	description = strings.TrimSpace(description)
	if !addDisclaimer {
		return description
	}
	if description == "" {
		return Disclaimer
	}
	return description + "\n\n" + Disclaimer
}

// ClampParticipants bounds n to the allowed group size.
func ClampParticipants(n int) int {
	return min(max(n, MinParticipants), MaxParticipants)
}

type draftJSON struct {
	ActivityType    *activity.Type `json:"activityType"`
	RouteID         *string        `json:"routeId"`
	Date            *string        `json:"date"`
	Time            *string        `json:"time"`
	EventName       string         `json:"eventName"`
	MaxParticipants int            `json:"maxParticipants"`
	Description     string         `json:"description"`
	AddDisclaimer   bool           `json:"addDisclaimer"`
	CoverPhotoURL   *string        `json:"coverPhotoUrl"`
}

// MarshalJSON writes the persisted draft record. The date is an ISO-8601 UTC
// timestamp or null.
func (d Draft) MarshalJSON() ([]byte, error) {
	out := draftJSON{
		ActivityType:    d.Activity,
		RouteID:         d.RouteID,
		Time:            d.Time,
		EventName:       d.EventName,
		MaxParticipants: d.MaxParticipants,
		Description:     d.Description,
		AddDisclaimer:   d.AddDisclaimer,
		CoverPhotoURL:   d.CoverPhotoURL,
	}
	if d.Date != nil {
		s := d.Date.UTC().Format(draftDateLayout)
		out.Date = &s
	}
	return json.Marshal(out)
}

// DecodeDraft merges a persisted draft record over DefaultDraft(now). Fields
// missing from the record, or holding values of the wrong shape, keep their
// defaults. An error is returned only when the record is not a JSON object;
// the returned draft is then the default one.
func DecodeDraft(raw []byte, now time.Time) (Draft, error) {
	d := DefaultDraft(now)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return d, err
	}

	if v, ok := fields["activityType"]; ok {
		var s *string
		if json.Unmarshal(v, &s) == nil {
			d.Activity = nil
			if s != nil {
				if t, err := activity.Parse(*s); err == nil {
					d.Activity = &t
				}
			}
		}
	}
	if v, ok := fields["routeId"]; ok {
		decodeNullable(v, &d.RouteID)
	}
	if v, ok := fields["date"]; ok {
		var s *string
		if json.Unmarshal(v, &s) == nil {
			if s == nil {
				d.Date = nil
			} else if t, err := parseDate(*s, now.Location()); err == nil {
				d.Date = &t
			}
		}
	}
	if v, ok := fields["time"]; ok {
		decodeNullable(v, &d.Time)
	}
	if v, ok := fields["coverPhotoUrl"]; ok {
		decodeNullable(v, &d.CoverPhotoURL)
	}
	if v, ok := fields["eventName"]; ok {
		decodeValue(v, &d.EventName)
	}
	if v, ok := fields["maxParticipants"]; ok {
		if decodeValue(v, &d.MaxParticipants) {
			d.MaxParticipants = ClampParticipants(d.MaxParticipants)
		}
	}
	if v, ok := fields["description"]; ok {
		decodeValue(v, &d.Description)
	}
	if v, ok := fields["addDisclaimer"]; ok {
		decodeValue(v, &d.AddDisclaimer)
	}
	return d, nil
}

// decodeNullable assigns v to dst, where null clears it.
func decodeNullable[T any](v json.RawMessage, dst **T) {
	var val *T
	if json.Unmarshal(v, &val) == nil {
		*dst = val
	}
}

// decodeValue assigns v to dst unless it is null or malformed.
func decodeValue[T any](v json.RawMessage, dst *T) bool {
	var val *T
	if json.Unmarshal(v, &val) != nil || val == nil {
		return false
	}
	*dst = *val
	return true
}

// parseDate accepts a plain calendar date in loc or any timestamp dateparse
// understands, converted to loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
