package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rmarchan/cine-gestion/internal/config"
	"github.com/rmarchan/cine-gestion/internal/database"
	"github.com/rmarchan/cine-gestion/internal/handler"
	"github.com/rmarchan/cine-gestion/internal/middleware"
	"github.com/rmarchan/cine-gestion/internal/queue"
	"github.com/rmarchan/cine-gestion/internal/repository"
	"github.com/rmarchan/cine-gestion/internal/router"
	"github.com/rmarchan/cine-gestion/internal/session"
	"github.com/rmarchan/cine-gestion/internal/view"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	sessions := session.NewStore(rdb, cfg.SessionTTLHours)

	v := handler.NewValidator()
	rs := handler.NewResources(
		v,
		repository.NewMovieRepo(db),
		repository.NewRoomRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewPaymentMethodRepo(db),
		repository.NewProductRepo(db),
		repository.NewOrderRepo(db),
	)
	auth := handler.NewAuthHandler(cfg, repository.NewUserRepo(db), sessions, v)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	renderer, err := view.New("web/templates/*.html")
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	e.Renderer = renderer

	router.Register(e, router.Deps{
		Resolver: &middleware.Resolver{Secret: cfg.JWTSecret, Sessions: sessions},
		Limiter:  middleware.NewTokenBucket(config.LoadRateLimit(), rdb),
		API:      rs,
		Web:      handler.NewWebResources(rs),
		Auth:     auth,
	})

	// Order events are consumed into logs/orders.log in the background;
	// the HTTP server does not depend on the broker being up.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
