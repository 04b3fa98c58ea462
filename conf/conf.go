package conf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Tables holds DynamoDB table names.
type Tables struct {
	Questions        string
	QuestionSets     string
	PracticeResults  string
	Tryouts          string
	TryoutResults    string
	ScheduledTryouts string
	Registrations    string
	Materials        string
	Bookmarks        string
	Users            string
	Progress         string
}

type Config struct {
	Env      string
	HttpAddr string

	LogLevel  string
	LogFormat string

	JwtKey       string
	JwtSecretArn string

	AwsRegion      string
	AwsProfile     string
	AwsEndpoint    string
	AwsMaxAttempts int

	Tables Tables

	S3Bucket        string
	S3PublicURL     string
	ResultsQueueURL string

	TimeZone    string
	CorsOrigins []string
}

// Location resolves the configured time zone used for calendar-day logic.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("http-addr", ":8080")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")
	v.SetDefault("aws-region", "ap-southeast-3")
	v.SetDefault("aws-max-attempts", 5)
	v.SetDefault("time-zone", "Asia/Jakarta")
	v.SetDefault("cors-origins", []string{"http://localhost:5173", "https://snbtku.id", "https://www.snbtku.id"})

	v.SetDefault("table-questions", "SnbtkuQuestions")
	v.SetDefault("table-question-sets", "SnbtkuQuestionSets")
	v.SetDefault("table-practice-results", "SnbtkuPracticeResults")
	v.SetDefault("table-tryouts", "SnbtkuTryouts")
	v.SetDefault("table-tryout-results", "SnbtkuTryoutResults")
	v.SetDefault("table-scheduled-tryouts", "SnbtkuScheduledTryouts")
	v.SetDefault("table-registrations", "SnbtkuTryoutRegistrations")
	v.SetDefault("table-materials", "SnbtkuMaterials")
	v.SetDefault("table-bookmarks", "SnbtkuBookmarks")
	v.SetDefault("table-users", "SnbtkuUsers")
	v.SetDefault("table-progress", "SnbtkuProgress")

	v.SetDefault("s3-bucket", "snbtku-public")
}

// Load reads .env (if present), SNBTKU_* environment variables, an optional
// snbtku.toml and the given flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SNBTKU")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("snbtku")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/snbtku")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := &Config{
		Env:            v.GetString("env"),
		HttpAddr:       v.GetString("http-addr"),
		LogLevel:       v.GetString("log-level"),
		LogFormat:      v.GetString("log-format"),
		JwtKey:         v.GetString("jwt-key"),
		JwtSecretArn:   v.GetString("jwt-secret-arn"),
		AwsRegion:      v.GetString("aws-region"),
		AwsProfile:     v.GetString("aws-profile"),
		AwsEndpoint:    v.GetString("aws-endpoint"),
		AwsMaxAttempts: v.GetInt("aws-max-attempts"),
		Tables: Tables{
			Questions:        v.GetString("table-questions"),
			QuestionSets:     v.GetString("table-question-sets"),
			PracticeResults:  v.GetString("table-practice-results"),
			Tryouts:          v.GetString("table-tryouts"),
			TryoutResults:    v.GetString("table-tryout-results"),
			ScheduledTryouts: v.GetString("table-scheduled-tryouts"),
			Registrations:    v.GetString("table-registrations"),
			Materials:        v.GetString("table-materials"),
			Bookmarks:        v.GetString("table-bookmarks"),
			Users:            v.GetString("table-users"),
			Progress:         v.GetString("table-progress"),
		},
		S3Bucket:        v.GetString("s3-bucket"),
		S3PublicURL:     v.GetString("s3-public-url"),
		ResultsQueueURL: v.GetString("results-queue-url"),
		TimeZone:        v.GetString("time-zone"),
		CorsOrigins:     v.GetStringSlice("cors-origins"),
	}

	if cfg.S3PublicURL == "" {
		cfg.S3PublicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.S3Bucket, cfg.AwsRegion)
	}

	return cfg, nil
}
