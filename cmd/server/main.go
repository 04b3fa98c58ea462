package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/snbtku/backend/conf"
	"github.com/snbtku/backend/dashboard"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/http"
	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/leaderboard/leaderboardhttp"
	"github.com/snbtku/backend/logger"
	"github.com/snbtku/backend/material/materialddb"
	"github.com/snbtku/backend/material/materialhttp"
	"github.com/snbtku/backend/material/materialsrvc"
	"github.com/snbtku/backend/practice/practiceddb"
	"github.com/snbtku/backend/practice/practicehttp"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/resultevent"
	"github.com/snbtku/backend/s3bucket"
	"github.com/snbtku/backend/tryout/tryoutddb"
	"github.com/snbtku/backend/tryout/tryouthttp"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
	"github.com/snbtku/backend/user"
	"github.com/snbtku/backend/user/userhttp"
	"github.com/spf13/pflag"
)

var version = "dev"

func main() {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	flags.String("http-addr", ":8080", "address to listen on")
	flags.String("log-level", "info", "debug, info, warn or error")
	_ = flags.Parse(os.Args[1:])

	cfg, err := conf.Load(flags)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat).With("env", cfg.Env, "version", version)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *conf.Config, log *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	awsCfg, err := conf.LoadAwsConfig(ctx, cfg)
	if err != nil {
		return err
	}
	jwtKey, err := conf.ResolveJwtKey(ctx, awsCfg, cfg)
	if err != nil {
		return err
	}

	ddbClient := conf.NewDynamoDbClient(awsCfg, cfg)
	db := ddbutil.NewDB(ddbClient)

	userSrvc := user.NewUserSrvc(user.NewDynamoDbUserRepo(db, cfg.Tables.Users))
	board := leaderboard.NewLeaderboardSrvc(leaderboard.NewDynamoDbProgressRepo(db, cfg.Tables.Progress), loc).
		WithNames(userSrvc)

	var publisher resultevent.Publisher
	if cfg.ResultsQueueURL != "" {
		publisher = resultevent.NewSqsPublisher(conf.NewSqsClient(awsCfg, cfg), cfg.ResultsQueueURL)
	} else {
		log.Warn("no results queue configured, applying result events in process")
		publisher = resultevent.Direct{Handle: board.Apply}
	}

	practiceRepo := practiceddb.NewDynamoDbPracticeRepo(db, cfg.Tables)
	practiceSrvc := practicesrvc.NewPracticeSrvc(practiceRepo, publisher, loc)
	tryoutSrvc := tryoutsrvc.NewTryoutSrvc(tryoutddb.NewDynamoDbTryoutRepo(db, cfg.Tables), practiceRepo, publisher)

	bucket := s3bucket.NewS3Bucket(conf.NewS3Client(awsCfg, cfg), cfg.S3Bucket, cfg.S3PublicURL)
	materialSrvc := materialsrvc.NewMaterialSrvc(materialddb.NewDynamoDbMaterialRepo(db, ddbClient, cfg.Tables), bucket)

	dashboardSrvc := dashboard.NewDashboardSrvc(practiceSrvc, tryoutSrvc, board)

	server := http.NewHttpServer(http.Options{
		Env:         cfg.Env,
		Version:     version,
		CorsOrigins: cfg.CorsOrigins,
		JwtKey:      jwtKey,
		Logger:      log,
	},
		userhttp.NewUserHttpHandler(userSrvc, jwtKey),
		practicehttp.NewPracticeHttpHandler(practiceSrvc),
		tryouthttp.NewTryoutHttpHandler(tryoutSrvc),
		materialhttp.NewMaterialHttpHandler(materialSrvc),
		leaderboardhttp.NewLeaderboardHttpHandler(board),
		dashboard.NewDashboardHttpHandler(dashboardSrvc),
	)

	log.Info("starting server", "address", cfg.HttpAddr)
	return server.Start(ctx, cfg.HttpAddr)
}
