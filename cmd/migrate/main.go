package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/kelseyhightower/envconfig"
)

// migrate applies migrations/ with the atlas CLI. Only DB_* and LOG_* are read from the environment.
func main() {
	dir := flag.String("dir", "file://migrations", "migration directory URL")
	dryRun := flag.Bool("dry-run", false, "print pending migrations without applying them")
	flag.Parse()

	var dbCfg config.DBConfig
	var logCfg config.LogConfig
	if err := envconfig.Process("", &dbCfg); err != nil {
		slog.Error("DB設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	if err := envconfig.Process("", &logCfg); err != nil {
		slog.Error("ログ設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(logCfg)

	client, err := atlasexec.NewClient(".", "atlas")
	if err != nil {
		logger.Error("atlasクライアントの初期化に失敗しました", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    dbCfg.BuildDSN(),
		DirURL: *dir,
		DryRun: *dryRun,
	})
	if err != nil {
		logger.Error("マイグレーションに失敗しました", "error", err)
		os.Exit(1)
	}

	logger.Info("マイグレーションが完了しました",
		"applied", len(res.Applied),
		"current", res.Current,
		"target", res.Target,
		"dry_run", *dryRun)
}
