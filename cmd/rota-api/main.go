// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rota/internal/config"
	httptransport "rota/internal/http"
	"rota/internal/infra"
	"rota/internal/maps"
	"rota/internal/modules/delivery"
	"rota/internal/modules/navigation"
	"rota/internal/modules/rebalance"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	routeService, err := maps.NewRouteService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	deliveryStore := delivery.NewStore(dbPool)
	deliverySvc := delivery.NewService(deliveryStore)

	navSvc := navigation.NewService(cfg.Navigation, routeService, deliverySvc, deliverySvc)

	rebalanceStore := rebalance.NewStore(redisClient)
	rebalanceSvc := rebalance.NewService(rebalanceStore, cfg.Rebalance)

	router := httptransport.NewRouter(navSvc, rebalanceSvc)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		navSvc.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("rota-api listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
