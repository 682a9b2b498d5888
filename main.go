package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classifieds_backend/internals/configs"
	database "classifieds_backend/internals/databases"
	authScheduler "classifieds_backend/internals/features/users/auth/scheduler"
	statsScheduler "classifieds_backend/internals/features/users/user/scheduler"
	helper "classifieds_backend/internals/helpers"
	routes "classifieds_backend/internals/route"
	"classifieds_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	// 🔌 DB connect + migrate + pool + warm-up
	database.ConnectDB()
	if err := database.Migrate(database.DB); err != nil {
		configs.Log.WithError(err).Fatal("migration failed")
	}
	database.TunePool()
	database.WarmUpQueries()

	if configs.GetEnvBool("RUN_SEEDS", false) {
		seeds.RunAll(database.DB, configs.GetEnv("SEED_FILE", seeds.DefaultSeedFile))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// ⏱ schedulers after the DB is ready
	authScheduler.StartBlacklistCleanupScheduler(ctx, database.DB, configs.BlacklistCleanupEvery)
	statsScheduler.StartStatisticsReconcileScheduler(ctx, database.DB, configs.StatsReconcileInterval)

	media := helper.NewMediaStore(configs.MediaRoot, configs.MediaURL, helper.ImageOptions{
		MaxW:    configs.ImageMaxW,
		MaxH:    configs.ImageMaxH,
		Quality: configs.ImageWebPQuality,
	})
	app := routes.NewApp(database.DB, media)

	// 🔒 keep-alive & connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		configs.Log.Infof("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			configs.Log.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown + close the DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	configs.Log.Info("👋 bye")
}
