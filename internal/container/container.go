package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"trolley/navigator/internal/client"
	"trolley/navigator/internal/config"
	"trolley/navigator/internal/domain"
	"trolley/navigator/internal/events"
	"trolley/navigator/internal/layout"
	"trolley/navigator/internal/queue"
	"trolley/navigator/internal/repository"
	"trolley/navigator/internal/server"
	"trolley/navigator/internal/service"
	"trolley/navigator/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.ProviderClient
	Repository   repository.CatalogRepository
	Queue        queue.Queue
	StateManager state.StateManager

	Importer   *service.ImportService
	Navigation *service.NavigationService
	Server     *server.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db

	catalogRepo := repository.NewCatalogRepository(db)
	container.Repository = catalogRepo

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	container.redis = rdb

	log.Info("Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = redisQueue

	stateManager := state.NewRedisStateManager(rdb)
	container.StateManager = stateManager

	providerClient := client.NewProviderClient(cfg.Provider)
	container.Client = providerClient

	container.Importer = service.NewImportService(
		catalogRepo,
		providerClient,
		redisQueue,
		stateManager,
		cfg.Provider.BatchSize,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)

	// A configured layout file pins the section registry for single-store
	// deployments; otherwise layouts come from the catalog.
	var fileRegistry *layout.Registry
	if cfg.Store.LayoutFile != "" {
		fileRegistry, err = layout.LoadFile(cfg.Store.LayoutFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load layout file: %w", err)
		}
		log.Infof("Loaded layout file %s with %d sections", cfg.Store.LayoutFile, len(fileRegistry.Sections()))
	}

	highlights := events.NewRedisHighlightPublisher(rdb, cfg.Redis.HighlightChannel)

	container.Navigation = service.NewNavigationService(
		catalogRepo,
		highlights,
		fileRegistry,
		domain.Coordinate{X: cfg.Store.EntranceX, Y: cfg.Store.EntranceY},
		time.Duration(cfg.Store.SessionTTLMinutes)*time.Minute,
	)

	container.Server = server.New(cfg.Server, catalogRepo, container.Navigation)

	return container, nil
}

// Run serves the API and, when a provider is configured, runs the catalog
// import pipeline alongside it.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Run(ctx)
	})

	g.Go(func() error {
		return c.Navigation.RunJanitor(ctx, time.Minute)
	})

	if c.Config.Provider.BaseURL != "" {
		g.Go(func() error {
			return c.Importer.ImportAll(ctx, c.Config.Provider.StoreIDs)
		})

		g.Go(func() error {
			return c.Importer.RunWorkers(ctx, c.Config.Provider.MaxWorkers)
		})
	}

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	if err := c.redis.Close(); err != nil {
		return err
	}

	log.Info("Container shut down successfully")
	return nil
}
