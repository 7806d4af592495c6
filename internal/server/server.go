package server

import (
	"backend-experiencehub/internal/catalog"
	"backend-experiencehub/internal/config"
	"backend-experiencehub/internal/geocode"
	"backend-experiencehub/internal/session"
	"backend-experiencehub/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	Sessions *session.Manager
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	geocoder := geocode.NewCached(
		geocode.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeUserAgent, cfg.GeocodeTimeout()),
		redisClient,
		cfg.GeocodeCacheTTL(),
	)
	hub := stream.NewHub(redisClient)

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Stream:   hub,
		Sessions: session.NewManager(geocoder, cfg.AddressDebounce(), hub),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	session.RegisterRoutes(s.App.Group("/sessions"), s.Sessions)
	catalog.RegisterRoutes(s.App.Group("/catalog"), catalog.NewService(s.DB))
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
