package route

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp() *fiber.App {
	routes := sampleRoutes()
	for i := range routes {
		routes[i].Slug = routes[i].ID
	}
	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewCatalog(routes))
	return app
}

func TestRouteHandlersList(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/routes?dist_min=6&sort=distance_asc&per_page=2", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}
	var body struct {
		Routes            []Route `json:"routes"`
		TotalPages        int     `json:"total_pages"`
		TotalCount        int     `json:"total_count"`
		Page              int     `json:"page"`
		ActiveFilterCount int     `json:"active_filter_count"`
		Query             string  `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalCount != 3 || body.TotalPages != 2 || len(body.Routes) != 2 || body.Page != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Routes[0].ID != "r1" || body.Routes[1].ID != "r4" {
		t.Fatalf("unexpected order %v", ids(body.Routes))
	}
	if body.ActiveFilterCount != 1 || body.Query != "dist_min=6&sort=distance_asc" {
		t.Fatalf("unexpected filter echo %d %q", body.ActiveFilterCount, body.Query)
	}
}

func TestRouteHandlersCountriesRegionsDetail(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/routes/countries", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("countries status: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/routes/countries/Italy/regions", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("regions status: %v", err)
	}
	var regions []string
	_ = json.NewDecoder(resp.Body).Decode(&regions)
	if len(regions) != 1 || regions[0] != "Dolomites" {
		t.Fatalf("unexpected regions %v", regions)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/routes/r1", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("detail status: %v", err)
	}
	var detail map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&detail)
	if detail["duration_text"] != "4h" || detail["difficulty_label"] != "T3 - Demanding" {
		t.Fatalf("unexpected detail %v", detail)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/routes/missing", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found")
	}
}
