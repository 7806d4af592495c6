package catalog

import (
	"context"
	"errors"

	"backend-experiencehub/internal/db"
	"backend-experiencehub/internal/shared/geo"
)

var ErrNoCities = errors.New("no cities configured")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Cities(ctx context.Context) ([]City, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, lat, lng
		FROM cities
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.Name, &c.Lat, &c.Lng); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, label
		FROM experience_categories
		ORDER BY label
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.Label); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// NearestCity returns the configured city closest to the given point and
// its distance in kilometers.
func (s *Service) NearestCity(ctx context.Context, lat, lng float64) (City, float64, error) {
	cities, err := s.Cities(ctx)
	if err != nil {
		return City{}, 0, err
	}
	if len(cities) == 0 {
		return City{}, 0, ErrNoCities
	}

	best := cities[0]
	bestKm := geo.HaversineKm(lat, lng, best.Lat, best.Lng)
	for _, c := range cities[1:] {
		if km := geo.HaversineKm(lat, lng, c.Lat, c.Lng); km < bestKm {
			best = c
			bestKm = km
		}
	}
	return best, bestKm, nil
}
