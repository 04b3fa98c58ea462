package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/snbtku/backend/conf"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/user"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("worker", pflag.ExitOnError)
	flags.String("results-queue-url", "", "SQS queue carrying result events")
	flags.String("log-level", "info", "debug, info, warn or error")
	_ = flags.Parse(os.Args[1:])

	cfg, err := conf.Load(flags)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat).With("env", cfg.Env, "process", "worker")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}

func run(ctx context.Context, cfg *conf.Config, log *slog.Logger) error {
	if cfg.ResultsQueueURL == "" {
		return errors.New("results-queue-url is not set")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	awsCfg, err := conf.LoadAwsConfig(ctx, cfg)
	if err != nil {
		return err
	}

	db := ddbutil.NewDB(conf.NewDynamoDbClient(awsCfg, cfg))
	userSrvc := user.NewUserSrvc(user.NewDynamoDbUserRepo(db, cfg.Tables.Users))
	board := leaderboard.NewLeaderboardSrvc(leaderboard.NewDynamoDbProgressRepo(db, cfg.Tables.Progress), loc).
		WithNames(userSrvc)

	log.Info("consuming result events", "queue", cfg.ResultsQueueURL)
	return resultevent.Receive(ctx, conf.NewSqsClient(awsCfg, cfg), cfg.ResultsQueueURL,
		func(ctx context.Context, ev resultevent.ResultCompleted) error {
			ctx = logger.WithLogger(ctx, log.With("result_id", ev.ResultID))
			return board.Apply(ctx, ev)
		}, log)
}
