// Package server wires the NoteVault server: it opens the database, applies
// migrations, builds the services and runs the gRPC endpoint until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/auth"
	"github.com/dmitrijs2005/notevault/internal/server/config"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notevault/internal/server/services"

	gs "github.com/dmitrijs2005/notevault/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	tokens   *auth.TokenIssuer
	services gs.Services
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), c.SessionValidityDuration, c.PendingLoginValidityDuration)

	activity := services.NewActivityService(db, rm, logger)
	twoFactor := services.NewTwoFactorService(db, rm, c, activity)
	passkeys := services.NewPasskeyService(db, rm, c, tokens, activity, logger)
	users := services.NewUserService(db, rm, c, tokens, twoFactor, passkeys, activity)
	items := services.NewItemService(db, rm, c, activity)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		tokens: tokens,
		services: gs.Services{
			Users:     users,
			TwoFactor: twoFactor,
			Passkeys:  passkeys,
			Items:     items,
			Activity:  activity,
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.tokens, app.services)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddrGRPC)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close failed", "error", err)
	}
	app.logger.Info(ctx, "Stopped")

}
