// Package main lending API.
//
// @title           Lending API
// @version         1.0
// @description     Peer-to-peer lending service (users, items, borrow transactions).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/kawinmuthukumar/BackendLending/app/echoServer"
	authctrl "github.com/kawinmuthukumar/BackendLending/app/echoServer/controller/auth"
	itemctrl "github.com/kawinmuthukumar/BackendLending/app/echoServer/controller/item"
	txctrl "github.com/kawinmuthukumar/BackendLending/app/echoServer/controller/transaction"
	"github.com/kawinmuthukumar/BackendLending/app/echoServer/validation"
	"github.com/kawinmuthukumar/BackendLending/config"
	itemrepo "github.com/kawinmuthukumar/BackendLending/repository/item"
	txrepo "github.com/kawinmuthukumar/BackendLending/repository/transaction"
	userrepo "github.com/kawinmuthukumar/BackendLending/repository/user"
	authsvc "github.com/kawinmuthukumar/BackendLending/service/auth"
	borrowsvc "github.com/kawinmuthukumar/BackendLending/service/borrow"
	itemsvc "github.com/kawinmuthukumar/BackendLending/service/item"
	"github.com/kawinmuthukumar/BackendLending/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB over pgx
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	ir := itemrepo.New(db)
	tr := txrepo.New(db)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	is := itemsvc.New(ir)
	brs := borrowsvc.New(db, ir, tr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	itemC := &itemctrl.Controller{Svc: is, V: v, Log: log}
	txC := &txctrl.Controller{Svc: brs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Item:        itemC,
		Transaction: txC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
