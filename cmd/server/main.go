package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/launchbase/launchbase/internal/billing"
	"github.com/launchbase/launchbase/internal/catalog"
	"github.com/launchbase/launchbase/internal/config"
	"github.com/launchbase/launchbase/internal/db"
	"github.com/launchbase/launchbase/internal/subscription"
	"github.com/launchbase/launchbase/internal/team"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	bunDB := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer bunDB.Close()

	gateway := billing.NewStripeGateway(cfg.StripeSecretKey)

	ctx := context.Background()
	cat, err := catalog.SyncFromStripe(ctx, gateway.Client(), cfg.BillingCurrency)
	if err != nil {
		log.Fatalf("Failed to sync billing catalog: %v", err)
	}

	subsRepo := subscription.NewSubscriptionRepository(bunDB)
	teamRepo := team.NewTeamRepository(bunDB)
	svc := subscription.NewService(cat, gateway, subsRepo, teamRepo, cfg)
	_ = svc // handed to the boilerplate's controllers, which live outside this module

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"currency": cat.Currency,
			"products": len(cat.Products),
		})
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
