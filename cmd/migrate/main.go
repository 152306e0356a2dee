package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Skotchmaster/shop_backend/internal/config"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/migrate"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [up|down|status]")
	}
	flag.Parse()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), log)

	switch cmd {
	case "up":
		err = migrate.Up(ctx, cfg.Database.DSN)
	case "down":
		err = migrate.Down(ctx, cfg.Database.DSN)
	case "status":
		err = migrate.Status(ctx, cfg.Database.DSN)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("migrate_error", "cmd", cmd, "error", err)
		os.Exit(1)
	}
	log.Info("migrate_success", "cmd", cmd)
}
