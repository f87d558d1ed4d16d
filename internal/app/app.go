package app

import (
	"fmt"
	"net/http"

	"naat/internal/config"
	"naat/internal/db"
	contributionsdomain "naat/internal/domain/contributions"
	groupsdomain "naat/internal/domain/groups"
	payoutsdomain "naat/internal/domain/payouts"
	userdomain "naat/internal/domain/user"
	"naat/internal/querycache"
	contributionsrepo "naat/internal/repository/postgres/contributions"
	groupsrepo "naat/internal/repository/postgres/groups"
	payoutsrepo "naat/internal/repository/postgres/payouts"
	userrepo "naat/internal/repository/postgres/user"
	"naat/internal/transport/httpserver"
	"naat/internal/transport/httpserver/handler"
	"naat/migrations"
	"naat/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	cache      *querycache.Cache
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	dbConn, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(dbConn, migrations.FS, log); err != nil {
			closeDB(dbConn)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	var cache *querycache.Cache
	var groupsCache groupsdomain.Cache
	if cfg.QueryCache.Enabled {
		cache = querycache.New(
			querycache.WithTTL(cfg.QueryCache.TTL),
			querycache.WithLogger(log.With("component", "querycache")),
		)
		groupsCache = cache
		log.Info("app: query cache enabled", "ttl", cfg.QueryCache.TTL)
	}

	groups := groupsdomain.NewService(groupsrepo.NewPostgres(dbConn), groupsCache)
	contributions := contributionsdomain.NewService(contributionsrepo.NewPostgres(dbConn))
	payouts := payoutsdomain.NewService(payoutsrepo.NewPostgres(dbConn))
	profiles := userdomain.NewService(userrepo.NewPostgres(dbConn))

	log.Info("app: initializing router")
	handlers := handler.New(groups, contributions, payouts, cfg.Pagination, log)
	router := httpserver.NewRouter(cfg, handlers, profiles, log)

	return &App{
		cfg:        cfg,
		httpServer: httpserver.New(cfg, router),
		db:         dbConn,
		cache:      cache,
	}, nil
}

// Connect opens the database described by cfg.
func Connect(cfg config.Config, log logger.Logger) (*gorm.DB, error) {
	log.Info("app: initializing database")
	return db.NewPostgres(cfg.DB, log)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
