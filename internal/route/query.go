package route

import (
	"cmp"
	"slices"
)

// DefaultPageSize is used when callers pass a non-positive page size.
const DefaultPageSize = 12

// Filter keeps the routes matching every present predicate. The input is not
// modified and the relative order is preserved.
func Filter(routes []Route, f Filters) []Route {
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Route, f Filters) bool {
	if f.Country != "" && r.Country != f.Country {
		return false
	}
	if f.Region != "" && r.Region != f.Region {
		return false
	}
	if len(f.Difficulty) > 0 && !slices.Contains(f.Difficulty, r.Difficulty) {
		return false
	}
	if !inRange(r.DistanceKm, f.DistanceMin, f.DistanceMax) {
		return false
	}
	if !inRange(float64(r.DurationMin), f.DurationMin, f.DurationMax) {
		return false
	}
	if !inRange(float64(r.ElevationGainM), f.ElevationMin, f.ElevationMax) {
		return false
	}
	if !intersects(r.Facilities, f.Facilities) ||
		!intersects(r.Highlights, f.Highlights) ||
		!intersects(r.Features, f.Features) {
		return false
	}
	if f.RouteType != "" && r.RouteType != f.RouteType {
		return false
	}
	return true
}

func inRange(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

// intersects is true when wanted is empty or shares at least one tag with have.
func intersects(have, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

// Sort returns a reordered copy. Relevance keeps the input order; every other
// option is a stable sort on its key.
func Sort(routes []Route, opt SortOption) []Route {
	sorted := slices.Clone(routes)
	if sorted == nil {
		sorted = []Route{}
	}

	var less func(a, b Route) int
	switch opt {
	case SortDistanceAsc:
		less = func(a, b Route) int { return cmp.Compare(a.DistanceKm, b.DistanceKm) }
	case SortDistanceDesc:
		less = func(a, b Route) int { return cmp.Compare(b.DistanceKm, a.DistanceKm) }
	case SortDurationAsc:
		less = func(a, b Route) int { return cmp.Compare(a.DurationMin, b.DurationMin) }
	case SortDurationDesc:
		less = func(a, b Route) int { return cmp.Compare(b.DurationMin, a.DurationMin) }
	case SortElevationAsc:
		less = func(a, b Route) int { return cmp.Compare(a.ElevationGainM, b.ElevationGainM) }
	case SortElevationDesc:
		less = func(a, b Route) int { return cmp.Compare(b.ElevationGainM, a.ElevationGainM) }
	case SortRecent:
		less = func(a, b Route) int { return cmp.Compare(createdMillis(b), createdMillis(a)) }
	default:
		return sorted
	}
	slices.SortStableFunc(sorted, less)
	return sorted
}

// createdMillis treats a missing timestamp as the epoch.
func createdMillis(r Route) int64 {
	if r.CreatedAt == nil {
		return 0
	}
	return r.CreatedAt.UnixMilli()
}

// Paginate slices out a 1-based page. Pages outside the list come back empty.
func Paginate(routes []Route, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(routes)
	p := Page{
		Routes:     []Route{},
		TotalPages: (total + pageSize - 1) / pageSize,
		TotalCount: total,
	}
	if page < 1 {
		return p
	}
	start := (page - 1) * pageSize
	if start >= total {
		return p
	}
	end := min(start+pageSize, total)
	p.Routes = slices.Clone(routes[start:end])
	return p
}

// ActiveFilterCount counts the independently toggleable filter groups in use.
func ActiveFilterCount(f Filters) int {
	count := 0
	for _, active := range []bool{
		f.Country != "",
		f.Region != "",
		len(f.Difficulty) > 0,
		f.DistanceMin != nil || f.DistanceMax != nil,
		f.DurationMin != nil || f.DurationMax != nil,
		f.ElevationMin != nil || f.ElevationMax != nil,
		len(f.Facilities) > 0,
		len(f.Highlights) > 0,
		len(f.Features) > 0,
		f.RouteType != "",
	} {
		if active {
			count++
		}
	}
	return count
}

// Query runs filter, sort and pagination in one pass over the catalog.
func Query(routes []Route, f Filters, opt SortOption, page, pageSize int) Page {
	return Paginate(Sort(Filter(routes, f), opt), page, pageSize)
}
