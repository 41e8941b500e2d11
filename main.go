package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sigantara/file-api/api"
	"sigantara/file-api/config"
	"sigantara/file-api/db"
	"sigantara/file-api/internal"
	"sigantara/file-api/internal/service"
	"sigantara/file-api/pkg/security"
	"sigantara/file-api/queue"
	"sigantara/file-api/storage"
	"sigantara/file-api/transform"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	conn, err := db.New()
	if err != nil {
		panic(err)
	}

	store, err := storage.NewS3()
	if err != nil {
		panic(err)
	}

	deps := &internal.Deps{
		DB:    conn,
		Store: store,
		Queue: queue.NewClient(),
		Argon: security.New(),
		Transforms: transform.NewRegistry(
			viper.GetInt("processing.image_max_dimension"),
			viper.GetInt("processing.image_quality"),
		),
	}

	a, err := api.NewRouter(deps)
	if err != nil {
		panic(err)
	}

	worker := queue.NewServer(service.NewProcessor(deps.DB, deps.Store, deps.Transforms))
	if err := worker.Start(); err != nil {
		panic(err)
	}

	runner := cron.New()
	rec := service.NewReconciler(deps.DB, deps.Queue, viper.GetDuration("reconcile.min_age"))

	err = rec.Attach(runner, viper.GetDuration("reconcile.interval"))
	if err != nil {
		panic(err)
	}

	runner.Start()

	if config.WorkerOnly() {
		zap.L().Info("Worker starting")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		worker.Shutdown()
		return
	}

	zap.L().Info("Server starting")

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
