package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mess-booking/internal/config"
	"mess-booking/internal/db"
	"mess-booking/internal/httpserver"
	bookingrepo "mess-booking/internal/repository/booking"
	menurepo "mess-booking/internal/repository/menu"
	tokenrepo "mess-booking/internal/repository/token"
	userrepo "mess-booking/internal/repository/user"
	authsvc "mess-booking/internal/service/auth"
	bookingsvc "mess-booking/internal/service/booking"
	cartsvc "mess-booking/internal/service/cart"
	menusvc "mess-booking/internal/service/menu"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	menuRepo := menurepo.NewPostgres(dbpool)
	bookingRepo := bookingrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, tokenRepo)
	menuService := menusvc.New(menuRepo)
	cartService := cartsvc.New(menuRepo, logger)
	bookingService := bookingsvc.New(bookingRepo, logger, cfg.ConfirmTimeout)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:    authService,
		MenuSvc:    menuService,
		CartSvc:    cartService,
		BookingSvc: bookingService,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
