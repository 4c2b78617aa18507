package route

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"backend-trailmeet/internal/db"
)

// Catalog is the read-only route collection. It is never mutated after
// construction and is safe for concurrent readers.
type Catalog struct {
	routes []Route
	bySlug map[string]int
}

func NewCatalog(routes []Route) *Catalog {
	c := &Catalog{
		routes: slices.Clone(routes),
		bySlug: make(map[string]int, len(routes)),
	}
	for i, r := range c.routes {
		c.bySlug[r.Slug] = i
	}
	return c
}

// LoadFile reads a JSON array of routes.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}
	var routes []Route
	if err := json.Unmarshal(raw, &routes); err != nil {
		return nil, fmt.Errorf("decode routes file: %w", err)
	}
	return NewCatalog(routes), nil
}

// LoadPostgres reads the routes table once.
func LoadPostgres(ctx context.Context, q db.Querier) (*Catalog, error) {
	rows, err := q.Query(ctx, `
		SELECT id, slug, title, summary, country, region, distance_km, duration_min, elevation_gain_m,
		       difficulty, route_type, facilities, highlights, features, images, created_at
		FROM routes
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var (
			r          Route
			difficulty string
			routeType  string
			createdAt  *time.Time
		)
		if err := rows.Scan(&r.ID, &r.Slug, &r.Title, &r.Summary, &r.Country, &r.Region, &r.DistanceKm,
			&r.DurationMin, &r.ElevationGainM, &difficulty, &routeType, &r.Facilities, &r.Highlights,
			&r.Features, &r.Images, &createdAt); err != nil {
			return nil, err
		}
		r.Difficulty = Difficulty(difficulty)
		r.RouteType = Type(routeType)
		r.CreatedAt = createdAt
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewCatalog(routes), nil
}

// All returns a copy of the catalog in its stored order.
func (c *Catalog) All() []Route {
	return slices.Clone(c.routes)
}

func (c *Catalog) Len() int {
	return len(c.routes)
}

func (c *Catalog) BySlug(slug string) (Route, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Route{}, false
	}
	return c.routes[i], true
}

func (c *Catalog) ByID(id string) (Route, bool) {
	for _, r := range c.routes {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}

// Countries lists distinct countries in sorted order.
func (c *Catalog) Countries() []string {
	return distinctSorted(c.routes, func(r Route) (string, bool) { return r.Country, true })
}

// RegionsByCountry lists distinct regions of one country in sorted order.
func (c *Catalog) RegionsByCountry(country string) []string {
	return distinctSorted(c.routes, func(r Route) (string, bool) { return r.Region, r.Country == country })
}

func distinctSorted(routes []Route, pick func(Route) (string, bool)) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range routes {
		v, ok := pick(r)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
