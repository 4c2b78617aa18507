package route

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter keys. Range bounds and the route type use short keys.
const (
	ParamCountry      = "country"
	ParamRegion       = "region"
	ParamDifficulty   = "difficulty"
	ParamDistanceMin  = "dist_min"
	ParamDistanceMax  = "dist_max"
	ParamDurationMin  = "dur_min"
	ParamDurationMax  = "dur_max"
	ParamElevationMin = "elev_min"
	ParamElevationMax = "elev_max"
	ParamFacilities   = "facilities"
	ParamHighlights   = "highlights"
	ParamFeatures     = "features"
	ParamType         = "type"
	ParamSort         = "sort"
	ParamPage         = "page"
)

var filterKeys = map[string]string{
	"country":       ParamCountry,
	"region":        ParamRegion,
	"difficulty":    ParamDifficulty,
	"distance_min":  ParamDistanceMin,
	"distance_max":  ParamDistanceMax,
	"duration_min":  ParamDurationMin,
	"duration_max":  ParamDurationMax,
	"elevation_min": ParamElevationMin,
	"elevation_max": ParamElevationMax,
	"facilities":    ParamFacilities,
	"highlights":    ParamHighlights,
	"features":      ParamFeatures,
	"route_type":    ParamType,
}

// ParamKey maps a filter field name to its query parameter key. Unknown names
// are returned unchanged.
func ParamKey(field string) string {
	if k, ok := filterKeys[field]; ok {
		return k
	}
	return field
}

// State is the filter, sort and page selection carried in a URL.
type State struct {
	Filters Filters
	Sort    SortOption
	Page    int
}

// ParseState reads filter state from query values. Missing or malformed
// numbers leave the bound open; a missing page means page 1.
func ParseState(v url.Values) State {
	f := Filters{
		Country:      v.Get(ParamCountry),
		Region:       v.Get(ParamRegion),
		DistanceMin:  parseFloat(v.Get(ParamDistanceMin)),
		DistanceMax:  parseFloat(v.Get(ParamDistanceMax)),
		DurationMin:  parseFloat(v.Get(ParamDurationMin)),
		DurationMax:  parseFloat(v.Get(ParamDurationMax)),
		ElevationMin: parseFloat(v.Get(ParamElevationMin)),
		ElevationMax: parseFloat(v.Get(ParamElevationMax)),
		Facilities:   splitList(v.Get(ParamFacilities)),
		Highlights:   splitList(v.Get(ParamHighlights)),
		Features:     splitList(v.Get(ParamFeatures)),
		RouteType:    Type(v.Get(ParamType)),
	}
	for _, d := range splitList(v.Get(ParamDifficulty)) {
		f.Difficulty = append(f.Difficulty, Difficulty(d))
	}

	page, err := strconv.Atoi(v.Get(ParamPage))
	if err != nil || page < 1 {
		page = 1
	}
	return State{Filters: f, Sort: ParseSort(v.Get(ParamSort)), Page: page}
}

// Values encodes the state. Relevance sorting and page 1 are left implicit.
func (s State) Values() url.Values {
	v := url.Values{}
	f := s.Filters
	setString(v, ParamCountry, f.Country)
	setString(v, ParamRegion, f.Region)
	if len(f.Difficulty) > 0 {
		grades := make([]string, len(f.Difficulty))
		for i, d := range f.Difficulty {
			grades[i] = string(d)
		}
		v.Set(ParamDifficulty, strings.Join(grades, ","))
	}
	setFloat(v, ParamDistanceMin, f.DistanceMin)
	setFloat(v, ParamDistanceMax, f.DistanceMax)
	setFloat(v, ParamDurationMin, f.DurationMin)
	setFloat(v, ParamDurationMax, f.DurationMax)
	setFloat(v, ParamElevationMin, f.ElevationMin)
	setFloat(v, ParamElevationMax, f.ElevationMax)
	setString(v, ParamFacilities, strings.Join(f.Facilities, ","))
	setString(v, ParamHighlights, strings.Join(f.Highlights, ","))
	setString(v, ParamFeatures, strings.Join(f.Features, ","))
	setString(v, ParamType, string(f.RouteType))
	if s.Sort != "" && s.Sort != SortRelevance {
		v.Set(ParamSort, string(s.Sort))
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return v
}

// WithFilters replaces the filters and goes back to the first page.
func (s State) WithFilters(f Filters) State {
	s.Filters = f
	s.Page = 1
	return s
}

// WithSort changes the ordering and goes back to the first page.
func (s State) WithSort(opt SortOption) State {
	s.Sort = opt
	s.Page = 1
	return s
}

func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// ClearFilter drops one filter field, named as in Filters' JSON tags.
func (s State) ClearFilter(field string) State {
	f := s.Filters
	switch field {
	case "country":
		f.Country = ""
	case "region":
		f.Region = ""
	case "difficulty":
		f.Difficulty = nil
	case "distance_min":
		f.DistanceMin = nil
	case "distance_max":
		f.DistanceMax = nil
	case "duration_min":
		f.DurationMin = nil
	case "duration_max":
		f.DurationMax = nil
	case "elevation_min":
		f.ElevationMin = nil
	case "elevation_max":
		f.ElevationMax = nil
	case "facilities":
		f.Facilities = nil
	case "highlights":
		f.Highlights = nil
	case "features":
		f.Features = nil
	case "route_type":
		f.RouteType = ""
	}
	return s.WithFilters(f)
}

// ClearAll resets filters, sort and page.
func (s State) ClearAll() State {
	return State{Sort: SortRelevance, Page: 1}
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setString(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func setFloat(v url.Values, key string, f *float64) {
	if f != nil {
		v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
	}
}
