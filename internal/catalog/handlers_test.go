package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func TestCatalogHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT name, lat, lng`).WillReturnRows(cityRows())
	mock.ExpectQuery(`SELECT name, lat, lng`).WillReturnRows(cityRows())

	app := fiber.New()
	RegisterRoutes(app.Group("/catalog"), NewService(mock))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/catalog/cities", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("cities status: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	var cities []City
	if err := json.Unmarshal(body, &cities); err != nil || len(cities) != 3 {
		t.Fatalf("unexpected cities body %s", body)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/catalog/cities/nearest?lat=48.85&lng=2.35", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("nearest status: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	var nearest struct {
		City City `json:"city"`
	}
	if err := json.Unmarshal(body, &nearest); err != nil || nearest.City.Name != "Paris" {
		t.Fatalf("unexpected nearest body %s", body)
	}
}

func TestNearestHandlerBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/catalog"), NewService(nil))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/catalog/cities/nearest?lat=abc", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}
