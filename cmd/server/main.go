package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"alcyxob/fitprogram/internal/api"
	"alcyxob/fitprogram/internal/catalog"
	"alcyxob/fitprogram/internal/config"
	"alcyxob/fitprogram/internal/converter"
	"alcyxob/fitprogram/internal/gifurl"
	"alcyxob/fitprogram/internal/logging"
	"alcyxob/fitprogram/internal/metrics"
	"alcyxob/fitprogram/internal/repository"
	filestore "alcyxob/fitprogram/internal/repository/file"
	"alcyxob/fitprogram/internal/repository/memory"
	"alcyxob/fitprogram/internal/repository/mongo"
	redisstore "alcyxob/fitprogram/internal/repository/redis"
	"alcyxob/fitprogram/internal/resolver"
	"alcyxob/fitprogram/internal/service"
	"alcyxob/fitprogram/internal/storage"
	"alcyxob/fitprogram/internal/thumbnail"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Logging.File,
		LogToStdout:   cfg.Logging.Stdout,
		LogLevel:      cfg.Logging.Level,
		LogFormatJSON: cfg.Logging.JSON,
	})
	log.Info("starting fitprogram server")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, registry)

	// --- Storage ---
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("could not open %s store: %s", cfg.Storage.Backend, err)
	}
	defer closeStore()
	log.Infof("using %s storage backend", cfg.Storage.Backend)

	// --- Reference data ---
	exercises, err := catalog.LoadEmbedded()
	if err != nil {
		log.Fatalf("could not load exercise catalog: %s", err)
	}
	programs, err := catalog.LoadEmbeddedPrograms()
	if err != nil {
		log.Fatalf("could not load program catalog: %s", err)
	}
	names := resolver.New(exercises, nil)
	for _, u := range names.CheckAliases() {
		log.Warnf("alias %q cannot be satisfied by the catalog", u.Label)
	}
	conv := converter.New(exercises, names, programs, metricsManager)
	gifs := gifurl.NewBuilder(cfg.Thumbnails.AssetBaseURL, exercises)
	log.Infof("loaded %d exercises and %d programs", exercises.Len(), programs.Len())

	// --- Thumbnails ---
	thumbs, err := thumbnail.NewCache(thumbnail.Options{
		Dir:        cfg.Thumbnails.Dir,
		Size:       cfg.Thumbnails.Size,
		Quality:    cfg.Thumbnails.Quality,
		MaxAge:     cfg.Thumbnails.MaxAge,
		BatchSize:  cfg.Thumbnails.BatchSize,
		BatchDelay: cfg.Thumbnails.BatchDelay,
	}, store, gifs, thumbnail.NewHTTPFetcher(cfg.Thumbnails.FetchTimeout), metricsManager)
	if err != nil {
		log.Fatalf("could not create thumbnail cache: %s", err)
	}
	defer thumbs.Close()

	if cfg.S3.Enabled {
		fileStorage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %s", err)
		}
		thumbs.SetUploader(fileStorage, cfg.S3.ThumbnailPrefix)
	}
	warmer := thumbnail.NewInitializer(thumbs, exercises)

	// --- Services ---
	routineService := service.NewRoutineService(store)
	programService := service.NewProgramService(store, conv, exercises, routineService, metricsManager)
	if err := programService.Load(ctx); err != nil {
		log.Errorf("could not load programs, continuing with defaults: %s", err)
	}
	authSecret := cfg.Auth.JWTSecret
	if authSecret == "" {
		authSecret = randomSecret()
		log.Warn("auth.jwt_secret not set, tokens will not survive a restart")
	}
	authService := service.NewAuthService(cfg.Auth.AdminUser, cfg.Auth.AdminPassHash, authSecret, cfg.Auth.JWTExpiration)

	// --- HTTP ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	api.SetupRoutes(router, api.Dependencies{
		AuthService:     authService,
		ExerciseService: service.NewExerciseService(exercises, gifs),
		ProgramService:  programService,
		RoutineService:  routineService,
		Thumbnails:      thumbs,
		Warmer:          warmer,
		Metrics:         metricsManager,
		Gatherer:        registry,
		BackgroundCtx:   ctx,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := warmer.Initialize(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("thumbnail initialization: %s", err)
		}
	}()

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("listen and serve: %s", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}
	log.Info("server exiting")
}

// openStore builds the configured KV backend and a func releasing it.
func openStore(ctx context.Context, cfg config.Config) (repository.KVStore, func(), error) {
	noop := func() {}
	switch cfg.Storage.Backend {
	case config.BackendFile:
		s, err := filestore.NewStore(cfg.Storage.Path)
		return s, noop, err
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, noop, fmt.Errorf("redis ping: %w", err)
		}
		return redisstore.NewStore(rdb, cfg.Redis.Prefix), func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("failed to close redis client: %s", err)
			}
		}, nil
	case config.BackendMongo:
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, noop, err
		}
		return mongo.NewMongoKVStore(client.Database(cfg.Database.Name)), func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("failed to disconnect mongo: %s", err)
			}
		}, nil
	default:
		return memory.NewStore(), noop, nil
	}
}
