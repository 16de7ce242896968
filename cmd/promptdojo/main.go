package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/promptdojo/promptdojo/internal/api"
	appI18n "github.com/promptdojo/promptdojo/internal/i18n"
	"github.com/promptdojo/promptdojo/internal/session"
	"github.com/promptdojo/promptdojo/internal/store"
)

func main() {
	// A .env in the working directory is the easiest place for PROMPTDOJO_*
	// settings during development. Missing file is fine.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "promptdojo",
		Short:         "Terminal client for the prompt engineering practice platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		loginCmd(), registerCmd(), logoutCmd(), whoamiCmd(),
		levelsCmd(), challengesCmd(), challengeCmd(), hintCmd(), nextCmd(),
		attemptCmd(),
		submissionsCmd(), submissionCmd(), progressCmd(),
		practiceCmd(),
	)
	return root
}

// addCommonFlags registers the flags every subcommand shares.
func addCommonFlags(f *pflag.FlagSet) {
	f.String("api-url", "http://localhost:8000", "Backend API base URL")
	f.String("db", defaultDBPath(), "Local cache database path")
	f.StringP("lang", "l", "en", "UI language")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "promptdojo.db"
	}
	return filepath.Join(home, ".config", "promptdojo", "promptdojo.db")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("PROMPTDOJO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("promptdojo")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/promptdojo")
	v.AddConfigPath("/etc/promptdojo")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// app bundles the per-invocation dependencies built from a command's config.
type app struct {
	v       *viper.Viper
	client  *api.Client
	cache   *store.Store
	session *session.Session
}

func (a *app) close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

// newApp wires logging, i18n, the API client, the token cache, and the
// session for one command invocation.
func newApp(cmd *cobra.Command) (*app, error) {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}

	dbPath := v.GetString("db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	cache, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	client := api.New(v.GetString("api-url"))
	sess, err := session.New(client, cache)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return &app{v: v, client: client, cache: cache, session: sess}, nil
}
