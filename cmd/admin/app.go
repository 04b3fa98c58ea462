package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/snbtku/backend/conf"
	"github.com/snbtku/backend/ddbutil"
	"github.com/snbtku/backend/leaderboard"
	"github.com/snbtku/backend/material/materialddb"
	"github.com/snbtku/backend/material/materialsrvc"
	"github.com/snbtku/backend/practice/practiceddb"
	"github.com/snbtku/backend/practice/practicesrvc"
	"github.com/snbtku/backend/s3bucket"
	"github.com/snbtku/backend/tryout/tryoutddb"
	"github.com/snbtku/backend/tryout/tryoutsrvc"
	"github.com/snbtku/backend/user"
)

// app holds the services the admin commands work with. Results written by
// the CLI publish no events; imports only touch the catalog.
type app struct {
	cfg       *conf.Config
	practice  *practicesrvc.PracticeSrvc
	tryouts   *tryoutsrvc.TryoutSrvc
	users     *user.UserSrvc
	board     *leaderboard.LeaderboardSrvc
	materials *materialsrvc.MaterialSrvc
}

func newApp(ctx context.Context, cfg *conf.Config) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	awsCfg, err := conf.LoadAwsConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ddbClient := conf.NewDynamoDbClient(awsCfg, cfg)
	db := ddbutil.NewDB(ddbClient)
	log.Debug().Str("region", cfg.AwsRegion).Str("endpoint", cfg.AwsEndpoint).Msg("connected to dynamodb")

	practiceRepo := practiceddb.NewDynamoDbPracticeRepo(db, cfg.Tables)
	users := user.NewUserSrvc(user.NewDynamoDbUserRepo(db, cfg.Tables.Users))
	bucket := s3bucket.NewS3Bucket(conf.NewS3Client(awsCfg, cfg), cfg.S3Bucket, cfg.S3PublicURL)
	return &app{
		cfg:       cfg,
		practice:  practicesrvc.NewPracticeSrvc(practiceRepo, nil, loc),
		tryouts:   tryoutsrvc.NewTryoutSrvc(tryoutddb.NewDynamoDbTryoutRepo(db, cfg.Tables), practiceRepo, nil),
		users:     users,
		board:     leaderboard.NewLeaderboardSrvc(leaderboard.NewDynamoDbProgressRepo(db, cfg.Tables.Progress), loc).WithNames(users),
		materials: materialsrvc.NewMaterialSrvc(materialddb.NewDynamoDbMaterialRepo(db, ddbClient, cfg.Tables), bucket),
	}, nil
}
