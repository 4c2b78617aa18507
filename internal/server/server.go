package server

import (
	"context"
	"fmt"
	"time"

	"backend-trailmeet/internal/auth"
	"backend-trailmeet/internal/config"
	"backend-trailmeet/internal/db"
	"backend-trailmeet/internal/event"
	"backend-trailmeet/internal/route"
	"backend-trailmeet/internal/storage"
	"backend-trailmeet/internal/stream"
	"backend-trailmeet/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	Catalog  *route.Catalog
	Sessions *wizard.Sessions
	Log      zerolog.Logger
}

func NewServer(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client, log zerolog.Logger) (*Server, error) {
	catalog, err := loadCatalog(ctx, cfg, db.AsQuerier(pool))
	if err != nil {
		return nil, err
	}
	log.Info().Int("routes", catalog.Len()).Msg("route catalog loaded")

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      pool,
		Redis:   redisClient,
		Stream:  stream.NewHub(redisClient, log),
		Catalog: catalog,
		Log:     log,
	}

	registerRoutes(s)
	return s, nil
}

func loadCatalog(ctx context.Context, cfg config.Config, q db.Querier) (*route.Catalog, error) {
	switch {
	case cfg.RoutesFile != "":
		return route.LoadFile(cfg.RoutesFile)
	case q != nil:
		c, err := route.LoadPostgres(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("load routes: %w", err)
		}
		return c, nil
	default:
		return route.NewCatalog(nil), nil
	}
}

func draftStore(s *Server) wizard.DraftStore {
	if s.Redis == nil {
		return wizard.NewMemoryStore()
	}
	return wizard.NewRedisStore(s.Redis, s.Cfg.DraftTTL)
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	querier := db.AsQuerier(s.DB)
	authSvc := auth.NewService(s.Cfg.JWTSecret, querier)
	jwtMiddleware := auth.JWTMiddleware(authSvc)
	events := event.NewService(querier, s.Stream, stream.TopicEvents, s.Log)

	s.Sessions = wizard.NewSessions(wizard.Deps{
		Store:             draftStore(s),
		Creator:           events,
		Auth:              authSvc,
		Routes:            s.Catalog,
		Logger:            s.Log,
		Now:               time.Now,
		DepartureLocation: s.Cfg.DepartureDefault,
	})

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc, jwtMiddleware)
	event.RegisterRoutes(s.App.Group("/events"), events, time.Now)
	route.RegisterRoutes(s.App.Group("/routes"), s.Catalog)
	wizard.RegisterRoutes(s.App.Group("/wizard"), s.Sessions, jwtMiddleware)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(querier, s.Cfg.CoverBaseURL), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
