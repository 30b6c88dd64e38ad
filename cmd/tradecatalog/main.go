package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/talkincode/tradecatalog/config"
	"github.com/talkincode/tradecatalog/internal/adminapi"
	"github.com/talkincode/tradecatalog/internal/app"
	"github.com/talkincode/tradecatalog/internal/pkg/clock"
	"github.com/talkincode/tradecatalog/internal/repository"
	"github.com/talkincode/tradecatalog/internal/service"
	"github.com/talkincode/tradecatalog/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	conffile = flag.String("c", "", "config yaml file")
	seed     = flag.Bool("seed", false, "insert demo products on startup")
	profile  = flag.String("profile", "", "catalog profile override: symbol or status")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// a local .env supplies TRADECATALOG_* variables without overriding the real environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		return err
	}
	if *seed {
		cfg.Catalog.SeedDemo = true
	}
	if *profile != "" {
		cfg.Catalog.Profile = *profile
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		return err
	}
	defer application.Release()

	srv, err := newCatalogServer(application)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("starting trade catalog",
		zap.String("profile", cfg.Catalog.Profile),
		zap.String("database", cfg.Database.Type),
		zap.String("addr", cfg.Web.Addr()),
		zap.Int("jobs", len(application.Scheduler().Entries())))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		return application.StartBackgroundJobs(gctx)
	})
	return g.Wait()
}

// newCatalogServer wires repository, service and routes onto a web server
func newCatalogServer(ac app.AppContext) (*webserver.WebServer, error) {
	cfg := ac.Config()
	repo := repository.NewGormProductRepository(ac.DB())
	svc := service.NewProductService(repo, clock.NewRealClock(), cfg.Catalog.Profile)

	srv, err := webserver.NewWebServer(cfg.Web)
	if err != nil {
		return nil, fmt.Errorf("init web server: %w", err)
	}
	adminapi.RegisterProductRoutes(srv.API(), adminapi.NewProductHandler(svc))
	return srv, nil
}
