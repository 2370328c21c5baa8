package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	deleteSelectedSlotHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/delete_selected_slot"
	getBusyTimesHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_busy_times"
	isTeamEventHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/is_team_event"
	reserveSlotHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/reserve_slot"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/internal/config"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
)

func main() {
	// .env необязателен
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "slot-service",
		Usage: "Temporary slot holds and busy-time aggregation.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.toml", Usage: "Path to the TOML config file."},
		},
		Commands: []*cli.Command{
			serveCommand(),
			busyCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Printf("Application failed: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, *logger.Logger, error) {
	path := c.String("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Configuration loaded from %s", path)
	return cfg, log, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Action: func(c *cli.Context) error {
			cfg, log, err := loadConfig(c)
			if err != nil {
				return err
			}
			defer log.Close()

			log.Info("Starting SMC-SlotService...")

			a, err := newApp(cfg, log, true)
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(a)
		},
	}
}

func busyCommand() *cli.Command {
	return &cli.Command{
		Name:  "busy",
		Usage: "Print busy intervals of a user as JSON.",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user", Required: true, Usage: "User ID."},
			&cli.StringFlag{Name: "from", Usage: "Period start, RFC3339 or YYYY-MM-DD."},
			&cli.StringFlag{Name: "to", Usage: "Period end, RFC3339 or YYYY-MM-DD."},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := loadConfig(c)
			if err != nil {
				return err
			}
			defer log.Close()

			a, err := newApp(cfg, log, false)
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := getBusyTimesHandler.ToUseCaseRequest(c.Int64("user"), c.String("from"), c.String("to"))
			if err != nil {
				return fmt.Errorf("invalid period: %w", err)
			}

			result, err := a.busyTime.Execute(c.Context, req)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(getBusyTimesHandler.FromUseCaseResponse(result))
		},
	}
}

func serve(a *app) error {
	cfg, log := a.cfg, a.log

	// Инициализируем handlers
	reserveSlot := reserveSlotHandler.NewHandler(a.slots, log)
	deleteSelectedSlot := deleteSelectedSlotHandler.NewHandler(a.slots, log)
	isTeamEvent := isTeamEventHandler.NewHandler(a.slots, log)
	getBusyTimes := getBusyTimesHandler.NewHandler(a.busyTime, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Удержание слотов ---
	api.HandleFunc("/slots/reserve", reserveSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/slots/selected-slot", deleteSelectedSlot.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/slots/is-team-event", isTeamEvent.Handle).Methods(http.MethodGet)

	// --- Занятость пользователя ---
	api.HandleFunc("/users/{userId}/busy-times", getBusyTimes.Handle).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
