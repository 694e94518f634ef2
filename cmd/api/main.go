package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/beanpass/beanpass-backend/api/routes"
	"github.com/beanpass/beanpass-backend/internal/checkins"
	"github.com/beanpass/beanpass-backend/internal/discovery"
	"github.com/beanpass/beanpass-backend/internal/follows"
	"github.com/beanpass/beanpass-backend/internal/identity"
	"github.com/beanpass/beanpass-backend/internal/notifications"
	"github.com/beanpass/beanpass-backend/internal/rankings"
	"github.com/beanpass/beanpass-backend/internal/reviews"
	"github.com/beanpass/beanpass-backend/internal/shops"
	"github.com/beanpass/beanpass-backend/internal/users"
	"github.com/beanpass/beanpass-backend/pkg/config"
	"github.com/beanpass/beanpass-backend/pkg/db"
	"github.com/beanpass/beanpass-backend/pkg/logger"
	"github.com/beanpass/beanpass-backend/pkg/metrics"
	"github.com/beanpass/beanpass-backend/pkg/migrate"
	"github.com/beanpass/beanpass-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()

	identitySvc, err := identity.NewService(identity.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	notifRepo := notifications.NewRepository(gormDB)
	notifSvc, err := notifications.NewService(notifRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	dispatcher := notifications.NewDispatcher(notifRepo, logg)

	followRepo := follows.NewRepository(gormDB)

	usersSvc, err := users.NewService(users.ServiceParams{
		UserRepo:     users.NewRepository(gormDB),
		Visits:       checkins.NewRepository(gormDB),
		Reviews:      reviews.NewRepository(gormDB),
		Edges:        followRepo,
		Cache:        redisClient,
		UserStatsTTL: cfg.Cache.UserStatsTTL,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	followsSvc, err := follows.NewService(follows.ServiceParams{
		FollowRepo: followRepo,
		Notifier:   dispatcher,
		Stats:      usersSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create follows service", err)
		os.Exit(1)
	}

	checkinsSvc, err := checkins.NewService(checkins.ServiceParams{
		VisitRepo:    checkins.NewRepository(gormDB),
		IdentityRepo: identitySvc,
		Stats:        usersSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkins service", err)
		os.Exit(1)
	}

	reviewsSvc, err := reviews.NewService(reviews.ServiceParams{
		ReviewRepo: reviews.NewRepository(gormDB),
		Stats:      usersSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	rankingsSvc, err := rankings.NewService(rankings.ServiceParams{
		RankingRepo:    rankings.NewRepository(gormDB),
		Cache:          redisClient,
		LeaderboardTTL: cfg.Cache.LeaderboardTTL,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create rankings service", err)
		os.Exit(1)
	}

	discoverySvc, err := discovery.NewService(discovery.ServiceParams{
		DiscoveryRepo: discovery.NewRepository(gormDB),
		Ratings:       reviewsSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create discovery service", err)
		os.Exit(1)
	}

	shopsSvc, err := shops.NewService(shops.ServiceParams{
		ShopRepo:  shops.NewRepository(gormDB),
		Ratings:   reviewsSvc,
		Followers: followRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shops service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			Metrics:       metrics.NewHTTPMetrics(),
			DBPinger:      dbClient,
			CachePinger:   redisClient,
			Identity:      identitySvc,
			Checkins:      checkinsSvc,
			Reviews:       reviewsSvc,
			Follows:       followsSvc,
			Rankings:      rankingsSvc,
			Discovery:     discoverySvc,
			Shops:         shopsSvc,
			Users:         usersSvc,
			Notifications: notifSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

