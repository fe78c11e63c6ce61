// Command schemagated serves JSON Schema validation over JSON-RPC 2.0.
//
// Every request is an HTTP POST to /api/validation carrying a JSON-RPC
// envelope; the response is always HTTP 200 with the outcome inside the
// envelope. Set DB_URL (or db_url in the config file) to back the registry
// with PostgreSQL; without it the registry runs cache-only.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	schemagate "github.com/schemagate/schemagate"
	"github.com/schemagate/schemagate/internal/config"
	"github.com/schemagate/schemagate/internal/pgstore"
	"github.com/schemagate/schemagate/rpc"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	var store schemagate.Store
	if cfg.DBURL != "" {
		pg, err := pgstore.Open(ctx, cfg.DBURL)
		if err != nil {
			logger.Error("durable store unavailable, continuing cache-only", "error", err)
		} else {
			defer pg.Close()
			store = pg
		}
	}

	reg := schemagate.NewRegistry(store, logger)
	if store != nil {
		if err := reg.LoadFromStore(ctx); err != nil {
			logger.Error("loading schemas from durable store failed, continuing cache-only", "error", err)
		}
	}
	gw := rpc.NewGateway(reg, schemagate.NewValidator(), logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.POST("/api/validation", func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, gw.Handle(c.Request().Context(), body))
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	logger.Info("listening", "addr", cfg.Addr, "durableStore", store != nil)
	if err := e.Start(cfg.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
