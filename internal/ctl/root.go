// Package ctl implements the operator CLI. It talks straight to the database
// through the same services the server uses, so operator actions follow the
// exact same reconciliation and analysis paths.
package ctl

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/truthlens/truthlens/internal/logging"
	"github.com/truthlens/truthlens/internal/server/config"
	"github.com/truthlens/truthlens/internal/server/repositories/repomanager"
	"github.com/truthlens/truthlens/internal/server/services"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "truthlensctl",
	Short: "TruthLens operator CLI",
	Long: `truthlensctl manages a TruthLens instance directly through its database:
create users, import documents from text files and trigger analysis runs
without going through the HTTP API.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.truthlens/config.yaml)")
	rootCmd.PersistentFlags().String("dsn", "", "PostgreSQL DSN (overrides config)")
	_ = viper.BindPFlag("database_dsn", rootCmd.PersistentFlags().Lookup("dsn"))

	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(documentCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.truthlens")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TRUTHLENS")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// env bundles everything a subcommand needs against one open database.
type env struct {
	cfg    *config.Config
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

func openEnv() (*env, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	if dsn := viper.GetString("database_dsn"); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if provider := viper.GetString("analysis_provider"); provider != "" {
		cfg.AnalysisProvider = provider
	}
	if model := viper.GetString("analysis_model"); model != "" {
		cfg.AnalysisModel = model
	}
	if url := viper.GetString("analysis_base_url"); url != "" {
		cfg.AnalysisBaseURL = url
	}
	if key := viper.GetString("analysis_api_key"); key != "" {
		cfg.AnalysisAPIKey = key
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	return &env{cfg: cfg, db: db, rm: rm, logger: logger}, nil
}

func (e *env) close() {
	_ = e.db.Close()
}

func (e *env) sentences() *services.SentenceService {
	return services.NewSentenceService(e.db, e.rm, e.logger)
}
