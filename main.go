// Package main book rental API.
//
// @title           Book Rental Storefront API
// @version         1.0
// @description     book rental storefront (catalog, checkout, slip payments, back-office).
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
	"time"

	"bookrental/app/echoServer"
	authctrl "bookrental/app/echoServer/controller/auth"
	bookctrl "bookrental/app/echoServer/controller/book"
	paymentctrl "bookrental/app/echoServer/controller/payment"
	rentalctrl "bookrental/app/echoServer/controller/rental"
	userctrl "bookrental/app/echoServer/controller/user"
	"bookrental/app/echoServer/validation"
	"bookrental/config"
	"bookrental/db"
	bookrepo "bookrental/repository/book"
	paymentrepo "bookrental/repository/payment"
	rentalrepo "bookrental/repository/rental"
	userrepo "bookrental/repository/user"
	authsvc "bookrental/service/auth"
	booksvc "bookrental/service/book"
	paymentsvc "bookrental/service/payment"
	rentalsvc "bookrental/service/rental"
	uploadsvc "bookrental/service/upload"
	usersvc "bookrental/service/user"
	"bookrental/util/database"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB
	dbh, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer dbh.Close()

	if err := db.Migrate(ctx, dbh.Pool); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// repos
	br := bookrepo.New(dbh)
	rr := rentalrepo.New(dbh)
	pr := paymentrepo.New(dbh)
	ur := userrepo.New(dbh)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	bs := booksvc.New(br)
	rs := rentalsvc.New(dbh.Pool, rr)
	ps := paymentsvc.New(dbh.Pool, pr, rr)
	us := usersvc.New(ur)
	up, err := uploadsvc.New(cfg.UploadDir)
	if err != nil {
		log.Error("upload dir", "err", err)
		os.Exit(1)
	}

	// Bookings that stay unpaid past the hold window give their copy
	// back to stock.
	cleaner := rentalsvc.NewCleaner(rr, rentalsvc.BookingHold)
	go func() {
		t := time.NewTicker(time.Hour)
		defer t.Stop()
		for range t.C {
			n, err := cleaner.ReleaseExpired(ctx)
			if err != nil {
				log.Error("release expired bookings", "err", err)
				continue
			}
			if n > 0 {
				log.Info("released expired bookings", "count", n)
			}
		}
	}()

	// controllers
	v := validation.Rules()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, Upload: up, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, UploadSvc: up, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}

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
		Auth:    authC,
		Book:    bookC,
		Rental:  rentalC,
		Payment: paymentC,
		User:    userC,

		JWTSecret: cfg.JWTSecret,
		UploadDir: cfg.UploadDir,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
