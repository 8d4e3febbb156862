package echoServer

import (
	"bookrental/app/echoServer/controller/auth"
	"bookrental/app/echoServer/controller/book"
	"bookrental/app/echoServer/controller/payment"
	"bookrental/app/echoServer/controller/rental"
	"bookrental/app/echoServer/controller/user"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth    *auth.Controller
	Book    *book.Controller
	Rental  *rental.Controller
	Payment *payment.Controller
	User    *user.Controller

	JWTSecret string
	UploadDir string
}

func Register(e *echo.Echo, c C) {
	// Slip and cover images
	e.Static("/uploads", c.UploadDir)

	// Public
	e.POST("/auth/login", c.Auth.Login)
	e.POST("/users/register", c.Auth.Register)
	e.GET("/books", c.Book.List)
	e.GET("/books/:id", c.Book.Detail)

	// Authenticated
	authed := e.Group("")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}))
	authed.Use(ExtractIdentity())

	authed.GET("/users/me", c.User.Me)
	authed.PATCH("/users/:id", c.User.Update)

	authed.POST("/rentals/rent", c.Rental.Rent)
	authed.GET("/rentals/my-history", c.Rental.MyHistory)
	authed.PATCH("/rentals/:id/cancel", c.Rental.Cancel)

	authed.POST("/payment/upload", c.Payment.Upload)

	// Admin back-office
	admin := authed.Group("", RequireAdmin())
	admin.POST("/books", c.Book.Create)
	admin.PATCH("/books/:id", c.Book.Update)
	admin.DELETE("/books/:id", c.Book.Delete)
	admin.POST("/books/upload-cover", c.Book.UploadCover)

	admin.GET("/rentals/dashboard", c.Rental.Dashboard)
	admin.GET("/rentals/history/:userId", c.Rental.UserHistory)
	admin.PATCH("/rentals/:id/pickup", c.Rental.Pickup)
	admin.PATCH("/rentals/:id/return", c.Rental.Return)

	admin.GET("/payment/pending", c.Payment.Pending)
	admin.PATCH("/payment/verify/:id", c.Payment.Verify)

	admin.GET("/users", c.User.List)
	admin.GET("/users/:id", c.User.Get)
}
