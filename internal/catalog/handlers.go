package catalog

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/cities", func(c *fiber.Ctx) error {
		cities, err := svc.Cities(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(cities)
	})

	r.Get("/cities/nearest", func(c *fiber.Ctx) error {
		lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
		lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
		if err1 != nil || err2 != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}
		city, km, err := svc.NearestCity(c.Context(), lat, lng)
		if err != nil {
			if errors.Is(err, ErrNoCities) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"city": city, "distance_km": km})
	})

	r.Get("/categories", func(c *fiber.Ctx) error {
		categories, err := svc.Categories(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(categories)
	})
}
