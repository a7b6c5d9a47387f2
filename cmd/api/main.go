package main

import (
	"Recipe-Generator/cmd/config"
	"Recipe-Generator/internal/utils"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	recordStore, err := config.ConnectStore()
	if err != nil {
		log.Fatalf("record store setup failed: %v", err)
	}

	app, logFile, err := config.NewApp(recordStore)
	if err != nil {
		log.Fatalf("app setup failed: %v", err)
	}
	defer logFile.Close()

	addr := ":" + utils.GetConfig("APP_PORT")
	go func() {
		log.Infow("starting http server", "addr", addr, "store", utils.GetConfig("STORE_DRIVER"))
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server encountered an error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	log.Info("shutting down http server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}
