package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagebase/internal/auth"
	"pagebase/internal/config"
	"pagebase/internal/db"
	httpx "pagebase/internal/http"
	"pagebase/internal/ident"
	"pagebase/internal/logging"
	"pagebase/internal/property"
	"pagebase/internal/workspace"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "serve")
	}

	root := &cli.Command{
		Name:  "pagebase",
		Usage: "Page and database workspace server",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run migrations and the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address (overrides HTTP_ADDR)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if addr := c.String("addr"); addr != "" {
				cfg.HTTPAddr = addr
			}
			return runServer(ctx, cfg, logger)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations and exit",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			gdb, err := open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			return closeDB(gdb)
		},
	}
}

func setup() (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.LogDev, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// open connects and brings the schema up to date.
func open(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*gorm.DB, error) {
	gdb, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, gdb, cfg.DBDriver, logger); err != nil {
		_ = closeDB(gdb)
		return nil, err
	}
	return gdb, nil
}

func closeDB(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func runServer(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) error {
	gdb, err := open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB(gdb) }()

	var lock *auth.Lock
	if cfg.AuthEnabled() {
		if lock, err = auth.NewLock(cfg.WorkspacePassword); err != nil {
			return err
		}
	}
	jwtSvc := auth.NewJWT(cfg.JWTSecret)

	svc := workspace.NewService(gdb, ident.New(), property.NewCoercer(logger, cfg.DateLocation), logger)
	r := httpx.NewRouter(cfg, svc, jwtSvc, lock, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("listening", "addr", cfg.HTTPAddr, "driver", cfg.DBDriver, "auth", lock != nil)
		errCh <- srv.ListenAndServe()
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-ch:
		logger.Infow("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
