package session

import (
	"errors"
	"io"
	"time"

	"backend-experiencehub/internal/form"
	"backend-experiencehub/internal/images"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r fiber.Router, mgr *Manager) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			Experience *form.Experience `json:"experience"`
			City       *form.CityHint   `json:"city"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		s := mgr.Open(req.Experience, req.City)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":   s.ID,
			"form": s.Form.Snapshot(),
		})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return c.JSON(s.Form.Snapshot())
	})

	r.Put("/:id/fields", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}

		var req struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			Hashtags    *string `json:"hashtags"`
			Category    *string `json:"category"`
			StartDate   *string `json:"start_date"`
			StartTime   *string `json:"start_time"`
			EndDate     *string `json:"end_date"`
			EndTime     *string `json:"end_time"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if req.Name != nil {
			s.Form.SetName(*req.Name)
		}
		if req.Description != nil {
			s.Form.SetDescription(*req.Description)
		}
		if req.Hashtags != nil {
			s.Form.SetHashtags(*req.Hashtags)
		}
		if req.Category != nil {
			s.Form.SetCategory(*req.Category)
		}
		if req.StartDate != nil {
			date, err := parseDate(*req.StartDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid start_date")
			}
			s.Form.SetStartDate(date)
		}
		if req.StartTime != nil {
			s.Form.SetStartTime(*req.StartTime)
		}
		if req.EndDate != nil {
			date, err := parseDate(*req.EndDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
			}
			s.Form.SetEndDate(date)
		}
		if req.EndTime != nil {
			s.Form.SetEndTime(*req.EndTime)
		}
		return c.JSON(s.Form.Snapshot())
	})

	r.Put("/:id/address", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		var req struct {
			Value string `json:"value"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		s.Form.EditAddress(req.Value)
		return c.SendStatus(fiber.StatusAccepted)
	})

	r.Post("/:id/map-click", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		var req struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := c.BodyParser(&req); err != nil || req.Lat == nil || req.Lng == nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}
		s.Form.ClickMap(*req.Lat, *req.Lng)
		return c.SendStatus(fiber.StatusAccepted)
	})

	r.Post("/:id/images", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		mpForm, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		headers := mpForm.File["images"]
		if len(headers) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "images required")
		}

		batch := make([]images.File, 0, len(headers))
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			batch = append(batch, images.File{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}

		if err := s.Form.StageImages(batch); err != nil {
			if errors.Is(err, images.ErrTooManyImages) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(s.Form.Snapshot())
	})

	r.Post("/:id/submit", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}

		sub, err := s.Form.Submit()
		if err != nil {
			var vErr *form.ValidationError
			if errors.As(err, &vErr) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"error": vErr.Message,
					"form":  s.Form.Snapshot(),
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		files := make([]fiber.Map, len(sub.Files))
		for i, f := range sub.Files {
			files[i] = fiber.Map{
				"name":         f.Name,
				"size":         f.Size(),
				"content_type": f.ContentType,
			}
		}
		return c.JSON(fiber.Map{
			"experience": sub.Experience,
			"files":      files,
		})
	})

	r.Post("/:id/reset", func(c *fiber.Ctx) error {
		s, ok := mgr.Get(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		s.Form.Reset()
		return c.JSON(s.Form.Snapshot())
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if !mgr.Close(c.Params("id")) {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
