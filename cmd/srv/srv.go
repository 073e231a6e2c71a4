package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/questx-lab/spinwin/config"
	"github.com/questx-lab/spinwin/internal/domain"
	"github.com/questx-lab/spinwin/internal/domain/gamesession"
	"github.com/questx-lab/spinwin/internal/domain/ledger"
	"github.com/questx-lab/spinwin/internal/model"
	"github.com/questx-lab/spinwin/internal/repository"
	"github.com/questx-lab/spinwin/migration"
	"github.com/questx-lab/spinwin/pkg/authenticator"
	"github.com/questx-lab/spinwin/pkg/idutil"
	"github.com/questx-lab/spinwin/pkg/kafka"
	"github.com/questx-lab/spinwin/pkg/logger"
	"github.com/questx-lab/spinwin/pkg/prometheus"
	"github.com/questx-lab/spinwin/pkg/pubsub"
	"github.com/questx-lab/spinwin/pkg/router"
	"github.com/questx-lab/spinwin/pkg/storage"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"github.com/questx-lab/spinwin/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient xredis.Client
	publisher   pubsub.Publisher
	storage     storage.Storage
	tokenEngine authenticator.TokenEngine[model.AdminToken]

	gameResultRepo     repository.GameResultRepository
	ledgerSettingsRepo repository.LedgerSettingsRepository
	adminConfigRepo    repository.AdminConfigRepository

	ledger         *ledger.Ledger
	sessionStore   gamesession.Store
	sessionManager *gamesession.Manager

	gameDomain  domain.GameDomain
	adminDomain domain.AdminDomain

	router *router.Router
	closes []func() error
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	log := logger.NewLogger(logger.ParseLevel(cfg.LogLevel))
	idutil.SetNode(cfg.NodeID)

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, log)
	s.ctx = xcontext.WithSessionStore(s.ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx)

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.Database.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.ConnectionString())
	default:
		panic(fmt.Sprintf("unsupported database driver %s", cfg.Database.Driver))
	}

	logLevel := gormlogger.Silent
	if cfg.LogLevel == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	if cfg.Database.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}

		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		xcontext.Logger(s.ctx).Infof("Redis is not configured, sessions are kept in memory")
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
	s.closes = append(s.closes, client.Close)
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if len(cfg.Addrs) == 0 {
		xcontext.Logger(s.ctx).Infof("Kafka is not configured, game events are not published")
		return
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, cfg.Addrs)
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
	s.closes = append(s.closes, func() error { return publisher.Stop(s.ctx) })
}

func (s *srv) loadStorage() {
	cfg := xcontext.Configs(s.ctx).Storage
	if !cfg.Enabled() {
		xcontext.Logger(s.ctx).Infof("Object storage is not configured")
		return
	}

	st, err := storage.NewS3Storage(cfg)
	if err != nil {
		panic(err)
	}

	s.storage = st
}

func (s *srv) loadRepos() {
	s.gameResultRepo = repository.NewGameResultRepository()
	s.ledgerSettingsRepo = repository.NewLedgerSettingsRepository()
	s.adminConfigRepo = repository.NewAdminConfigRepository()
}

func (s *srv) loadLedger() {
	s.ledger = ledger.New(s.gameResultRepo, s.ledgerSettingsRepo, s.adminConfigRepo, s.redisClient)
	if err := s.ledger.Initialize(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadSessionManager() {
	if s.redisClient != nil {
		s.sessionStore = gamesession.NewRedisStore(s.redisClient)
	} else {
		s.sessionStore = gamesession.NewMemoryStore()
	}

	s.sessionManager = gamesession.NewManager(s.sessionStore, s.ledger, s.publisher)
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx).Auth
	s.tokenEngine = authenticator.NewTokenEngine[model.AdminToken](cfg.TokenSecret, cfg.AccessToken.Expiration)

	s.gameDomain = domain.NewGameDomain(s.ledger, s.sessionManager)
	s.adminDomain = domain.NewAdminDomain(s.ledger, s.storage, s.tokenEngine)
}

func (s *srv) close() {
	for i := len(s.closes) - 1; i >= 0; i-- {
		if err := s.closes[i](); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot close resource: %v", err)
		}
	}
}

func shutdown(ctx context.Context, servers ...*http.Server) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot shutdown server %s: %v", server.Addr, err)
		}
	}
}

func (s *srv) metricServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", prometheus.NewHandler())

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", xcontext.Configs(s.ctx).Metric.Port),
		Handler: mux,
	}
}
