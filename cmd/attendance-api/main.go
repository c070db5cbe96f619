package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecapbot/handlers"
	"ecapbot/scraper"
	"ecapbot/utils"

	"github.com/gorilla/mux"
)

func main() {
	utils.LoadEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	portal := scraper.NewPortal(os.Getenv("PORTAL_BASE_URL"), 30*time.Second, time.Now)

	r := mux.NewRouter()
	r.HandleFunc("/attendance", handlers.AttendanceHandler(portal)).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server started at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
