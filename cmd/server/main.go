package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starbook/internal/app/server/api"
	"starbook/internal/app/server/config"
	"starbook/internal/utils/logger"
)

func main() {
	conf := config.NewConfig()
	log := logger.New(conf.Env)

	mux := api.New(log)

	srv := &http.Server{
		Addr:    conf.RunAddress,
		Handler: mux,
	}

	go func() {
		log.Info("starting server", "address", conf.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
