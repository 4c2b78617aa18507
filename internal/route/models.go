package route

import "time"

type Difficulty string

const (
	T1 Difficulty = "T1"
	T2 Difficulty = "T2"
	T3 Difficulty = "T3"
	T4 Difficulty = "T4"
	T5 Difficulty = "T5"
	T6 Difficulty = "T6"
)

// Difficulties is the grade scale from easiest to hardest.
var Difficulties = []Difficulty{T1, T2, T3, T4, T5, T6}

var difficultyLabels = map[Difficulty]string{
	T1: "T1 - Hiking",
	T2: "T2 - Mountain hiking",
	T3: "T3 - Demanding",
	T4: "T4 - Alpine hiking",
	T5: "T5 - Demanding alpine",
	T6: "T6 - Difficult alpine",
}

func (d Difficulty) Label() string {
	if l, ok := difficultyLabels[d]; ok {
		return l
	}
	return string(d)
}

// Rank orders grades, 1 for T1 up to 6 for T6; unknown grades rank 0.
func (d Difficulty) Rank() int {
	for i, g := range Difficulties {
		if g == d {
			return i + 1
		}
	}
	return 0
}

type Type string

const (
	Loop         Type = "loop"
	OutAndBack   Type = "out_and_back"
	PointToPoint Type = "point_to_point"
)

var Types = []Type{Loop, OutAndBack, PointToPoint}

// Tag vocabularies offered by the filter drawer.
var (
	Facilities = []string{"Mountain huts", "Restaurants", "Toilets", "Parking on the way"}
	Highlights = []string{"Coastline", "Mountain ridge", "Lakes", "Waterfalls"}
	Features   = []string{"Via ferrata", "Climbing", "Mountain bike park"}
)

type Route struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	Country        string     `json:"country"`
	Region         string     `json:"region"`
	DistanceKm     float64    `json:"distance_km"`
	DurationMin    int        `json:"duration_min"`
	ElevationGainM int        `json:"elevation_gain_m"`
	Difficulty     Difficulty `json:"difficulty"`
	RouteType      Type       `json:"route_type"`
	Facilities     []string   `json:"facilities"`
	Highlights     []string   `json:"highlights"`
	Features       []string   `json:"features"`
	Images         []string   `json:"images,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// Filters is a sparse set of predicates; nil or empty fields impose nothing.
type Filters struct {
	Country      string       `json:"country,omitempty"`
	Region       string       `json:"region,omitempty"`
	Difficulty   []Difficulty `json:"difficulty,omitempty"`
	DistanceMin  *float64     `json:"distance_min,omitempty"`
	DistanceMax  *float64     `json:"distance_max,omitempty"`
	DurationMin  *float64     `json:"duration_min,omitempty"`
	DurationMax  *float64     `json:"duration_max,omitempty"`
	ElevationMin *float64     `json:"elevation_min,omitempty"`
	ElevationMax *float64     `json:"elevation_max,omitempty"`
	Facilities   []string     `json:"facilities,omitempty"`
	Highlights   []string     `json:"highlights,omitempty"`
	Features     []string     `json:"features,omitempty"`
	RouteType    Type         `json:"route_type,omitempty"`
}

type SortOption string

const (
	SortRelevance     SortOption = "relevance"
	SortDistanceAsc   SortOption = "distance_asc"
	SortDistanceDesc  SortOption = "distance_desc"
	SortDurationAsc   SortOption = "duration_asc"
	SortDurationDesc  SortOption = "duration_desc"
	SortElevationAsc  SortOption = "elevation_asc"
	SortElevationDesc SortOption = "elevation_desc"
	SortRecent        SortOption = "recent"
)

var SortOptions = []SortOption{
	SortRelevance, SortDistanceAsc, SortDistanceDesc, SortDurationAsc,
	SortDurationDesc, SortElevationAsc, SortElevationDesc, SortRecent,
}

// ParseSort falls back to relevance for empty or unknown values.
func ParseSort(s string) SortOption {
	for _, o := range SortOptions {
		if string(o) == s {
			return o
		}
	}
	return SortRelevance
}

// Page is one slice of a result list.
type Page struct {
	Routes     []Route `json:"routes"`
	TotalPages int     `json:"total_pages"`
	TotalCount int     `json:"total_count"`
}
