package route

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type listResponse struct {
	Page
	Current           int     `json:"page"`
	ActiveFilterCount int     `json:"active_filter_count"`
	Filters           Filters `json:"filters"`
	Sort              string  `json:"sort"`
	Query             string  `json:"query"`
}

type detailResponse struct {
	Route
	DifficultyLabel string `json:"difficulty_label"`
	DistanceText    string `json:"distance_text"`
	DurationText    string `json:"duration_text"`
	ElevationText   string `json:"elevation_text"`
}

func RegisterRoutes(r fiber.Router, catalog *Catalog) {
	r.Get("/", func(c *fiber.Ctx) error {
		values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		state := ParseState(values)
		pageSize, _ := strconv.Atoi(c.Query("per_page"))

		page := Query(catalog.All(), state.Filters, state.Sort, state.Page, pageSize)
		return c.JSON(listResponse{
			Page:              page,
			Current:           state.Page,
			ActiveFilterCount: ActiveFilterCount(state.Filters),
			Filters:           state.Filters,
			Sort:              string(state.Sort),
			Query:             state.Values().Encode(),
		})
	})

	r.Get("/countries", func(c *fiber.Ctx) error {
		return c.JSON(catalog.Countries())
	})

	r.Get("/countries/:country/regions", func(c *fiber.Ctx) error {
		country, err := url.PathUnescape(c.Params("country"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(catalog.RegionsByCountry(country))
	})

	r.Get("/:slug", func(c *fiber.Ctx) error {
		rt, ok := catalog.BySlug(c.Params("slug"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.JSON(detailResponse{
			Route:           rt,
			DifficultyLabel: rt.Difficulty.Label(),
			DistanceText:    FormatDistance(rt.DistanceKm),
			DurationText:    FormatDuration(rt.DurationMin),
			ElevationText:   FormatElevation(rt.ElevationGainM),
		})
	})
}
