package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/pdubbbbbs/fastmail-tui/internal/app"
	"github.com/pdubbbbbs/fastmail-tui/internal/cache"
	"github.com/pdubbbbbs/fastmail-tui/internal/credential"
	"github.com/pdubbbbbs/fastmail-tui/internal/model"
	"github.com/pdubbbbbs/fastmail-tui/internal/secret"
)

const version = "0.1.0"

func main() {
	var (
		configPath string
		debug      bool
	)

	rootCmd := &cobra.Command{
		Use:   "fastmail-tui",
		Short: "A terminal client for Fastmail with masked email and AI assistance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath, debug, false)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging to the log file")

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Run the credential setup wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath, debug, true)
		},
	}

	configPathCmd := &cobra.Command{
		Use:   "config-path",
		Short: "Print the location of the config file",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(configPath)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear-credentials",
		Short: "Remove stored API tokens from the system keyring",
		Run: func(cmd *cobra.Command, args []string) {
			credential.DeleteAll()
			fmt.Println("Credentials removed.")
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fastmail-tui v%s\n", version)
		},
	}

	rootCmd.AddCommand(setupCmd, configPathCmd, clearCmd, versionCmd,
		newConfigureCmd(&configPath), newGeneratePasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newConfigureCmd updates individual config values without opening the
// TUI, for scripted or headless use.
func newConfigureCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Update config values from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Fastmail.Host, _ = flags.GetString("host")
			}
			if flags.Changed("ai") {
				cfg.Claude.Enabled, _ = flags.GetBool("ai")
			}
			if flags.Changed("ai-model") {
				cfg.Claude.Model, _ = flags.GetString("ai-model")
			}
			if flags.Changed("cache") {
				cfg.Cache.Enabled, _ = flags.GetBool("cache")
			}
			if flags.Changed("max-messages") {
				cfg.Cache.MaxMessages, _ = flags.GetInt("max-messages")
			}
			if flags.Changed("refresh-interval") {
				cfg.UI.RefreshIntervalSec, _ = flags.GetInt("refresh-interval")
			}
			if flags.Changed("page-size") {
				cfg.UI.PageSize, _ = flags.GetInt("page-size")
			}

			if err := model.SaveConfig(*configPath, cfg); err != nil {
				return err
			}
			fmt.Printf("Config written to %s\n", *configPath)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("host", "", "JMAP server hostname")
	flags.Bool("ai", true, "Enable the Claude assistant")
	flags.String("ai-model", "", "Claude model name")
	flags.Bool("cache", true, "Enable the local email cache")
	flags.Int("max-messages", 0, "Maximum emails kept in the cache")
	flags.Int("refresh-interval", 0, "Background refresh interval in seconds")
	flags.Int("page-size", 0, "Emails fetched per mailbox page")

	return cmd
}

// newGeneratePasswordCmd generates a standalone password, handy when
// creating a login for a new masked email alias.
func newGeneratePasswordCmd() *cobra.Command {
	var (
		length    int
		memorable bool
		words     int
	)

	cmd := &cobra.Command{
		Use:   "generate-password",
		Short: "Generate a secure password",
		Run: func(cmd *cobra.Command, args []string) {
			var password string
			if memorable {
				password = secret.GenerateMemorable(words, "-")
			} else {
				opts := secret.DefaultPasswordOptions()
				opts.Length = length
				password = secret.Generate(opts)
			}

			report := secret.Strength(password)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nPassword: %s\n", password)
			fmt.Fprintf(out, "Length: %d\n", report.Length)
			fmt.Fprintf(out, "Strength: %s (%d/%d)\n",
				strings.ToUpper(report.Label), report.Score, report.MaxScore)
		},
	}

	cmd.Flags().IntVarP(&length, "length", "l", 24, "Password length")
	cmd.Flags().BoolVarP(&memorable, "memorable", "m", false, "Generate a memorable passphrase")
	cmd.Flags().IntVarP(&words, "words", "w", 4, "Number of words for a memorable passphrase")

	return cmd
}

func runTUI(configPath string, debug, forceSetup bool) error {
	// A .env file is a convenient place for ANTHROPIC_API_KEY during
	// development.
	_ = godotenv.Load()

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	cleanup, err := setupLogger(cfg, debug)
	if err != nil {
		return err
	}
	defer cleanup()

	var emailCache *cache.EmailCache
	if cfg.Cache.Enabled {
		emailCache, err = cache.New(filepath.Join(cfg.Cache.Path, "emails.db"))
		if err != nil {
			slog.Warn("email cache unavailable, continuing without it", "error", err)
			emailCache = nil
		} else {
			defer emailCache.Close()
		}
	}

	m := app.New(cfg, configPath, emailCache)
	if forceSetup {
		m = m.ForceSetup()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// setupLogger routes slog output to a file under the cache directory so
// log lines never corrupt the terminal UI.
func setupLogger(cfg *model.AppConfig, debug bool) (func(), error) {
	logDir := cfg.Cache.Path
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return func() {}, err
	}

	file, err := os.OpenFile(
		filepath.Join(logDir, "fastmail-tui.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
	if err != nil {
		return func() {}, err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(file, &tint.Options{
		Level:   level,
		NoColor: true,
	})
	slog.SetDefault(slog.New(handler))

	return func() { _ = file.Close() }, nil
}
