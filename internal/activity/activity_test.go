package activity

import "testing"

func TestStepsForRouteActivities(t *testing.T) {
	for _, a := range []Type{Hiking, Cycling, Climbing} {
		steps := Steps(a)
		if len(steps) != 5 || steps[1] != StepRouteSelection {
			t.Fatalf("%s: expected full sequence, got %v", a, steps)
		}
	}
}

func TestStepsSkipRouteSelection(t *testing.T) {
	for _, a := range []Type{Skiing, Bouldering, Social} {
		steps := Steps(a)
		if len(steps) != 4 {
			t.Fatalf("%s: expected 4 steps, got %v", a, steps)
		}
		for _, s := range steps {
			if s == StepRouteSelection {
				t.Fatalf("%s: route selection should be skipped", a)
			}
		}
	}
}

func TestStepsBeforeSelection(t *testing.T) {
	if len(Steps("")) != 5 {
		t.Fatalf("expected conservative default of 5 steps")
	}
}

func TestNextPrevSymmetric(t *testing.T) {
	next, ok := Next(Social, StepActivityType)
	if !ok || next != StepDateTime {
		t.Fatalf("expected skip to date/time, got %v", next)
	}
	prev, ok := Prev(Social, StepDateTime)
	if !ok || prev != StepActivityType {
		t.Fatalf("expected back to activity type, got %v", prev)
	}
	if _, ok := Next(Hiking, StepDescription); ok {
		t.Fatalf("expected no step after description")
	}
	if _, ok := Prev(Hiking, StepActivityType); ok {
		t.Fatalf("expected no step before activity type")
	}
}

func TestDisplayIndex(t *testing.T) {
	cases := []struct {
		activity Type
		step     Step
		want     int
	}{
		{Hiking, StepDateTime, 3},
		{Social, StepActivityType, 1},
		{Social, StepDateTime, 2},
		{Social, StepDetails, 3},
		{Social, StepDescription, 4},
		{"", StepRouteSelection, 2},
	}
	for _, c := range cases {
		if got := DisplayIndex(c.activity, c.step); got != c.want {
			t.Fatalf("%s/%s: expected %d, got %d", c.activity, c.step, c.want, got)
		}
	}
}

func TestBackendMapping(t *testing.T) {
	if Cycling.Backend() != "cycling" || Hiking.Backend() != "hiking" {
		t.Fatalf("supported activities should map to themselves")
	}
	for _, a := range []Type{Climbing, Skiing, Bouldering, Social} {
		if a.Backend() != "hiking" {
			t.Fatalf("%s: expected hiking fallback", a)
		}
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("kayaking"); err == nil {
		t.Fatalf("expected error for unknown activity")
	}
	a, err := Parse("bouldering")
	if err != nil || a != Bouldering {
		t.Fatalf("parse bouldering: %v", err)
	}
}
