package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/kawinmuthukumar/BackendLending/app/echoServer/controller/auth"
	"github.com/kawinmuthukumar/BackendLending/app/echoServer/controller/item"
	"github.com/kawinmuthukumar/BackendLending/app/echoServer/controller/transaction"
)

type C struct {
	Auth        *auth.Controller
	Item        *item.Controller
	Transaction *transaction.Controller
	JWTSecret   string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	pub.GET("/items", c.Item.List)
	pub.GET("/items/:id", c.Item.Detail)

	// Transaction bodies carry the acting user id; the routes sit on the
	// public group to keep the upstream wire contract intact.
	pub.POST("/transactions", c.Transaction.Create)
	pub.PUT("/transactions/:id", c.Transaction.Decide)
	pub.POST("/transactions/cancel", c.Transaction.Cancel)
	pub.GET("/transactions", c.Transaction.List)
	pub.GET("/transactions/user/:userId", c.Transaction.ForUser)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))

	authed.POST("/items", c.Item.Create)
	authed.PUT("/items/:id", c.Item.Update)
}
