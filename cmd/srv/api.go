package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/questx-lab/spinwin/internal/domain/cron"
	"github.com/questx-lab/spinwin/internal/middleware"
	"github.com/questx-lab/spinwin/pkg/router"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadStorage()
	s.loadRepos()
	s.loadLedger()
	s.loadSessionManager()
	s.loadDomains()
	s.loadRouter()
	defer s.close()

	cfg := xcontext.Configs(s.ctx)
	apiServer := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: middleware.AllowCors(cfg.ApiServer.AllowedOrigins)(s.router.Handler()),
	}
	metricServer := s.metricServer()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The in-memory store lives in this process, so does its cleanup.
	cronJobManager := cron.NewCronJobManager()
	if cleaner, ok := s.sessionStore.(cron.SessionCleaner); ok {
		cronJobManager.Register(cron.NewSessionCleanupCronJob(cleaner))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting api server on %s", apiServer.Addr)
		return listen(apiServer)
	})
	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting metric server on %s", metricServer.Addr)
		return listen(metricServer)
	})
	g.Go(func() error {
		cronJobManager.Start(s.ctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		cronJobManager.Cancel(s.ctx)
		shutdown(s.ctx, apiServer, metricServer)
		return nil
	})

	err := g.Wait()
	xcontext.Logger(s.ctx).Infof("Api server stopped")
	return err
}

func listen(server *http.Server) error {
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server %s: %w", server.Addr, err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	s.router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = router.WriteJson(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	// Public API.
	router.GET(s.router, "/getGames", s.gameDomain.GetGames)

	// Player API, the session id comes from the cookie or the session header.
	playerRouter := s.router.Branch()
	playerRouter.Before(middleware.PlayerSession())
	{
		router.POST(playerRouter, "/startGame", s.gameDomain.StartGame)
		router.POST(playerRouter, "/revealGame", s.gameDomain.RevealGame)
		router.POST(playerRouter, "/claimReward", s.gameDomain.ClaimReward)
		router.POST(playerRouter, "/resetGame", s.gameDomain.ResetGame)
		router.GET(playerRouter, "/getSession", s.gameDomain.GetSession)
		router.GET(playerRouter, "/shareLink", s.gameDomain.GetShareLink)
	}

	adminRouter := s.router.Group("/admin")
	adminRouter.Before(middleware.NoStore())
	adminRouter.Before(middleware.Authenticate(s.tokenEngine))

	loginRouter := adminRouter.Branch()
	loginRouter.After(middleware.HandleSetAccessToken())
	router.POST(loginRouter, "/login", s.adminDomain.Login)

	// These following APIs need an admin access token.
	adminRouter.Before(middleware.OnlyAdmin())
	{
		router.GET(adminRouter, "/getResults", s.adminDomain.GetResults)
		router.POST(adminRouter, "/setClaimed", s.adminDomain.SetClaimed)
		router.GET(adminRouter, "/getStatistics", s.adminDomain.GetStatistics)
		router.GET(adminRouter, "/exportCSV", s.adminDomain.ExportCSV)
		router.GET(adminRouter, "/backup", s.adminDomain.Backup)
		router.POST(adminRouter, "/uploadBackup", s.adminDomain.UploadBackup)
		router.GET(adminRouter, "/getGameSettings", s.adminDomain.GetGameSettings)
		router.POST(adminRouter, "/updateGameSettings", s.adminDomain.UpdateGameSettings)
		router.POST(adminRouter, "/updateCredentials", s.adminDomain.UpdateCredentials)
		router.POST(adminRouter, "/clearAllData", s.adminDomain.ClearAllData)
	}
}

