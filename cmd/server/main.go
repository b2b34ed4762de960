package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/focusbuddy/backend/internal/config"
	"github.com/focusbuddy/backend/internal/es"
	"github.com/focusbuddy/backend/internal/handlers"
	"github.com/focusbuddy/backend/internal/logging"
	mwauth "github.com/focusbuddy/backend/internal/middleware/auth"
	"github.com/focusbuddy/backend/internal/mykafka"
	authsvc "github.com/focusbuddy/backend/internal/service/auth"
	habitsvc "github.com/focusbuddy/backend/internal/service/habit"
	"github.com/focusbuddy/backend/internal/service/refresh"
	tasksvc "github.com/focusbuddy/backend/internal/service/task"
	"github.com/focusbuddy/backend/internal/service/token"
	usersvc "github.com/focusbuddy/backend/internal/service/user"
	"github.com/focusbuddy/backend/internal/tokens"
	httpserver "github.com/focusbuddy/backend/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmptyBytes(cfg.TokenSecret, "TOKEN_SECRET")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KafkaAddress != "" {
		producer = mykafka.NewProducer([]string{cfg.KafkaAddress}, "user_events")
		defer producer.Close()
	}

	codec := &tokens.Codec{Secret: cfg.TokenSecret}
	tokenSvc := &token.Service{Codec: codec}
	refreshSvc := &refresh.Service{DB: db, Tokens: tokenSvc, TTL: cfg.RefreshTTL}
	authSvc := &authsvc.Service{DB: db, Tokens: tokenSvc, Refresh: refreshSvc}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Gate:         &mwauth.Gate{DB: db, Tokens: tokenSvc},
		AuthHandler:  &handlers.AuthHandler{Auth: authSvc, Refresh: refreshSvc, Producer: producer},
		TaskHandler:  &handlers.TaskHandler{Tasks: &tasksvc.Service{DB: db}},
		HabitHandler: &handlers.HabitHandler{Habits: &habitsvc.Service{DB: db}},
		UserHandler:  &handlers.UserHandler{Users: &usersvc.Service{DB: db}},
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: "tasks"}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
