package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/snbtku/backend/conf"
	"github.com/snbtku/backend/practice/practicedomain"
	"github.com/snbtku/backend/user"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string
	var logFile string
	var author string

	rootCmd := &cobra.Command{
		Use:           "snbtku-admin",
		Short:         "Admin CLI tool for snbtku",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return InitializeLogger(logLevel, logFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "zerolog level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to this file instead of the console")
	rootCmd.PersistentFlags().String("aws-region", "", "AWS region")
	rootCmd.PersistentFlags().String("aws-profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().String("aws-endpoint", "", "endpoint override for local stacks")
	rootCmd.PersistentFlags().StringVar(&author, "author", "", "user id recorded as creator of imported content")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import questions and tryouts from TOML files",
	}
	importCmd.AddCommand(
		&cobra.Command{
			Use:   "questions <file.toml>",
			Short: "Import a question set together with its questions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					data, err := os.ReadFile(args[0])
					if err != nil {
						return err
					}
					set, questions, err := parseQuestionSetFile(data, author)
					if err != nil {
						return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
					}
					created, err := a.practice.CreateQuestionSetWithQuestions(ctx, set, questions)
					if err != nil {
						return err
					}
					log.Info().Str("id", created.ID).Str("title", created.Title).
						Int("questions", created.QuestionCount).Msg("imported question set")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "tryout <file.toml>",
			Short: "Import a tryout referencing existing questions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					data, err := os.ReadFile(args[0])
					if err != nil {
						return err
					}
					t, questions, err := parseTryoutFile(data, author)
					if err != nil {
						return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
					}
					created, err := a.tryouts.CreateTryoutWithQuestions(ctx, t, questions)
					if err != nil {
						return err
					}
					log.Info().Str("id", created.ID).Str("title", created.Title).
						Int("subtests", len(created.Subtests)).Msg("imported tryout")
					return nil
				})
			},
		},
	)

	var username, email, password string
	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a user with the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				u, err := a.users.CreateUser(ctx, user.CreateUserParams{
					Username: username,
					Email:    email,
					Password: password,
					Role:     user.RoleAdmin,
				})
				if err != nil {
					return err
				}
				log.Info().Str("uuid", u.UUID.String()).Str("username", u.Username).Msg("created admin")
				return nil
			})
		},
	}
	createAdminCmd.Flags().StringVar(&username, "username", "", "username (required)")
	createAdminCmd.Flags().StringVar(&email, "email", "", "email (required)")
	createAdminCmd.Flags().StringVar(&password, "password", "", "password (required)")
	createAdminCmd.MarkFlagRequired("username")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("password")

	userCmd := &cobra.Command{Use: "user", Short: "Manage users"}
	userCmd.AddCommand(createAdminCmd)

	var exportUser, exportOut string
	exportResultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Export a user's results as zstd-compressed JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				f, err := os.Create(exportOut)
				if err != nil {
					return err
				}
				defer f.Close()

				counts, err := exportResults(ctx, f, a.practice, a.tryouts, exportUser)
				if err != nil {
					return err
				}
				info, err := f.Stat()
				if err != nil {
					return err
				}
				log.Info().Str("file", exportOut).Int("practice", counts.Practice).Int("tryouts", counts.Tryouts).
					Str("size", humanize.Bytes(uint64(info.Size()))).Msg("exported results")
				return nil
			})
		},
	}
	exportResultsCmd.Flags().StringVar(&exportUser, "user", "", "user id (required)")
	exportResultsCmd.Flags().StringVar(&exportOut, "out", "results.jsonl.zst", "output file")
	exportResultsCmd.MarkFlagRequired("user")

	exportCmd := &cobra.Command{Use: "export", Short: "Export data"}
	exportCmd.AddCommand(exportResultsCmd)

	var statsUser string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a user's practice, tryout and leaderboard stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				s, err := collectUserStats(ctx, a, statsUser, time.Now())
				if err != nil {
					return err
				}
				fmt.Println(renderUserStats(s, time.Now()))
				return nil
			})
		},
	}
	statsCmd.Flags().StringVar(&statsUser, "user", "", "user id (required)")
	statsCmd.MarkFlagRequired("user")

	var dryRun bool
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete stored material files no material refers to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				orphans, err := a.materials.SweepOrphanFiles(ctx, dryRun)
				if err != nil {
					return err
				}
				for _, key := range orphans {
					fmt.Println(key)
				}
				log.Info().Int("orphans", len(orphans)).Bool("dry_run", dryRun).Msg("swept material files")
				return nil
			})
		},
	}
	sweepCmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list orphaned files")

	materialsCmd := &cobra.Command{Use: "materials", Short: "Maintain learning materials"}
	materialsCmd.AddCommand(sweepCmd)

	rootCmd.AddCommand(importCmd, userCmd, exportCmd, statsCmd, materialsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := conf.Load(cmd.Flags())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	return fn(ctx, a)
}

func collectUserStats(ctx context.Context, a *app, userID string, now time.Time) (userStats, error) {
	s := userStats{Name: userID}
	if name, err := a.users.DisplayName(ctx, userID); err == nil {
		s.Name = name
	} else {
		log.Warn().Err(err).Str("user", userID).Msg("could not resolve user name")
	}

	practice, err := a.practice.GetUserPracticeStats(ctx, userID, now)
	if err != nil {
		return s, err
	}
	s.Practice = *practice

	tryouts, err := a.tryouts.GetUserTryoutStats(ctx, userID)
	if err != nil {
		return s, err
	}
	s.Tryouts = *tryouts

	progress, err := a.board.GetUserProgress(ctx, userID)
	if err != nil {
		return s, err
	}
	s.Progress = *progress

	latest, err := a.practice.ListUserPracticeResults(ctx, userID, 1)
	if err != nil {
		return s, err
	}
	s.LastActivity = lastCompleted(latest)
	return s, nil
}

func lastCompleted(results []practicedomain.PracticeResult) time.Time {
	if len(results) == 0 {
		return time.Time{}
	}
	return results[0].CompletedAt
}
