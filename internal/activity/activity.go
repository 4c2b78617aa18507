// Package activity describes the kinds of outdoor meetups an event can be
// organized around and the wizard steps each of them walks through.
package activity

import "fmt"

type Type string

const (
	Hiking     Type = "hiking"
	Cycling    Type = "cycling"
	Climbing   Type = "climbing"
	Skiing     Type = "skiing"
	Bouldering Type = "bouldering"
	Social     Type = "social"
)

// All lists the selectable activities in display order.
var All = []Type{Hiking, Cycling, Climbing, Skiing, Bouldering, Social}

var withRoutes = map[Type]bool{
	Hiking:   true,
	Cycling:  true,
	Climbing: true,
}

// Parse validates a raw activity name.
func Parse(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown activity %q", s)
	}
	return t, nil
}

func (t Type) Valid() bool {
	for _, a := range All {
		if a == t {
			return true
		}
	}
	return false
}

// NeedsRoute reports whether events of this activity pick a catalog route.
func (t Type) NeedsRoute() bool {
	return withRoutes[t]
}

// Backend maps an activity onto the subset stored by the events table.
// Activities the table cannot represent fall back to hiking.
func (t Type) Backend() string {
	switch t {
	case Hiking, Cycling:
		return string(t)
	default:
		return string(Hiking)
	}
}

// Step identifies one screen of the event creation wizard. The numeric value
// is the internal step index.
type Step int

const (
	StepActivityType Step = iota + 1
	StepRouteSelection
	StepDateTime
	StepDetails
	StepDescription
)

func (s Step) String() string {
	switch s {
	case StepActivityType:
		return "activity_type"
	case StepRouteSelection:
		return "route_selection"
	case StepDateTime:
		return "date_time"
	case StepDetails:
		return "details"
	case StepDescription:
		return "description"
	default:
		return "unknown"
	}
}

// FirstStep and LastStep bound the internal step index.
const (
	FirstStep = StepActivityType
	LastStep  = StepDescription
)

// Steps returns the ordered steps walked for an activity. Before an activity
// is chosen the full sequence is assumed.
func Steps(t Type) []Step {
	if t != "" && !t.NeedsRoute() {
		return []Step{StepActivityType, StepDateTime, StepDetails, StepDescription}
	}
	return []Step{StepActivityType, StepRouteSelection, StepDateTime, StepDetails, StepDescription}
}

// Next returns the step following current, or false at the end of the sequence.
func Next(t Type, current Step) (Step, bool) {
	steps := Steps(t)
	i := indexOf(steps, current)
	if i < 0 || i+1 >= len(steps) {
		return current, false
	}
	return steps[i+1], true
}

// Prev returns the step before current, or false at the start.
func Prev(t Type, current Step) (Step, bool) {
	steps := Steps(t)
	i := indexOf(steps, current)
	if i <= 0 {
		return current, false
	}
	return steps[i-1], true
}

// DisplayIndex is the 1-based position of current within the activity's
// sequence, as shown on the progress indicator.
func DisplayIndex(t Type, current Step) int {
	i := indexOf(Steps(t), current)
	if i < 0 {
		return 1
	}
	return i + 1
}

func indexOf(steps []Step, s Step) int {
	for i, step := range steps {
		if step == s {
			return i
		}
	}
	return -1
}
