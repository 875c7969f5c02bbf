package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"parking-reservation/internal/infra/db"
	"parking-reservation/internal/pkg/config"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the versioned SQL migrations and atlas.sum")
	atlasBin := flag.String("atlas", "atlas", "path to the atlas binary")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadDBConfig()
	if err != nil {
		logger.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger.Info("マイグレーションを開始します", "dir", *dir, "host", cfg.Host, "database", cfg.DBName)
	res, err := db.ApplyMigrations(ctx, cfg.BuildDSN(), os.DirFS(*dir), *atlasBin)
	if err != nil {
		logger.Error("マイグレーションに失敗しました", "error", err)
		os.Exit(1)
	}

	logger.Info("マイグレーションが完了しました",
		"applied", res.Applied,
		"current", res.Current,
		"target", res.Target,
	)
}
