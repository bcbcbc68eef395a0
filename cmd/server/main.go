package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aferreira/habitloop/internal/auth"
	"github.com/aferreira/habitloop/internal/config"
	"github.com/aferreira/habitloop/internal/database"
	"github.com/aferreira/habitloop/internal/handler"
	"github.com/aferreira/habitloop/internal/middleware"
	"github.com/aferreira/habitloop/internal/queue"
	"github.com/aferreira/habitloop/internal/repository"
	"github.com/aferreira/habitloop/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Auth core. A missing signing secret is already fatal in config.Load;
	// NewTokenService guards against an empty value all the same.
	tokens, err := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	// Sessions live in Redis; when Redis is unreachable the server still
	// starts with an in-process store (sessions then die with the process).
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	var sessions auth.SessionStore
	if rc := config.NewRedisClient(); rc != nil {
		sessions = auth.NewRedisSessionStore(rc, sessionTTL)
	} else {
		log.Printf("redis unavailable, using in-memory session store")
		sessions = auth.NewMemorySessionStore(sessionTTL)
	}

	users := repository.NewUserRepo(db)
	habits := repository.NewHabitRepo(db)
	goals := repository.NewGoalRepo(db)
	records := repository.NewRecordRepo(db)
	stats := repository.NewStatsRepo(db)

	resolver := auth.NewResolver(tokens, sessions, users)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	webHandler := handler.NewWebAuthHandler(cfg, users, sessions)
	habitHandler := handler.NewHabitHandler(habits)
	goalHandler := handler.NewGoalHandler(goals, habits)
	recordHandler := handler.NewRecordHandler(habits, records)
	statsHandler := handler.NewStatsHandler(stats)
	viewHandler := handler.NewViewHandler(habits, stats)

	e := echo.New()
	e.Renderer = handler.NewRenderer()

	// The access filter must run before routing and before any other
	// middleware; e.Pre guarantees that ordering.
	e.Pre(middleware.NewAccessFilter(resolver).Middleware())

	router.RegisterPublic(e, authHandler, webHandler, viewHandler)
	router.RegisterAPI(e, authHandler, habitHandler, goalHandler, recordHandler, statsHandler)
	router.RegisterViews(e, viewHandler, webHandler)

	// Background consumer for completion events; it reconnects forever
	// and never stops the server.
	go func() {
		if err := queue.StartRecordConsumer(); err != nil {
			log.Printf("record consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
