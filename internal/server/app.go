// Package server initializes and runs the telefeed application server.
// It wires storage, the Telegram client, and the domain services, starts
// the HTTP API and the optional background poller, and handles graceful
// shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"telefeed/internal/logging"
	"telefeed/internal/server/config"
	"telefeed/internal/server/httpapi"
	"telefeed/internal/server/messages"
	"telefeed/internal/server/shared/db"
	"telefeed/internal/server/telegram"
	"telefeed/internal/server/users"
	"telefeed/internal/snowflake"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	userService    *users.Service
	messageService *messages.Service
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tgClient := telegram.NewClient(c.TelegramAPIBaseURL, c.TelegramBotToken, c.TelegramRequestTimeout)

	idgen, err := snowflake.NewNode(0)
	if err != nil {
		return nil, fmt.Errorf("id generator init error: %w", err)
	}

	us := users.NewService(m.Users(), c)
	ms := messages.NewService(m.Messages(), tgClient, idgen, c.TelegramChannel, logger)

	return &App{config: c, logger: logger, userService: us, messageService: ms}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config, app.logger, app.userService, app.messageService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startPoller runs FetchAndSave on the configured interval until ctx is
// cancelled. A zero interval disables polling; ingestion can still be
// triggered through the API.
func (app *App) startPoller(ctx context.Context) {

	if app.config.FetchInterval <= 0 {
		app.logger.Info(ctx, "background poller disabled")
		return
	}

	ticker := time.NewTicker(app.config.FetchInterval)
	defer ticker.Stop()

	app.logger.Info(ctx, "background poller started", "interval", app.config.FetchInterval.String())

	for {
		select {
		case <-ctx.Done():
			app.logger.Info(ctx, "background poller stopped")
			return
		case <-ticker.C:
			app.messageService.FetchAndSave(ctx)
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startPoller(ctx)
	}()

	wg.Wait()
}
