// Package main provides the CLI entrypoint for mlplay.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mdjaved24/mlplay/internal/api"
	"github.com/mdjaved24/mlplay/internal/config"
	"github.com/mdjaved24/mlplay/internal/history"
	"github.com/mdjaved24/mlplay/internal/logging"
	"github.com/mdjaved24/mlplay/internal/session"
	"github.com/mdjaved24/mlplay/internal/tui"
)

const (
	defaultAPIURL      = "http://localhost:8000/api"
	defaultTimeoutSecs = 60
	defaultPreviewRows = 5
	defaultTestSize    = 0.2
	defaultRandomState = 42
)

var (
	flagAPIURL      string
	flagTimeoutSecs int
	flagPreviewRows int
	flagTestSize    float64
	flagRandomState int
	flagDownloadDir string

	historyDataset string
	historyType    string
	historyLast    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mlplay",
		Short:         "TUI client for the ML Playground",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAppCmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", defaultAPIURL, "backend base URL")
	rootCmd.PersistentFlags().IntVar(&flagTimeoutSecs, "timeout", defaultTimeoutSecs, "request timeout in seconds")
	rootCmd.Flags().IntVar(&flagPreviewRows, "preview-rows", defaultPreviewRows, "dataset preview row count")
	rootCmd.Flags().Float64Var(&flagTestSize, "test-size", defaultTestSize, "default train/test split fraction (0-1)")
	rootCmd.Flags().IntVar(&flagRandomState, "random-state", defaultRandomState, "default random seed for training")
	rootCmd.Flags().StringVar(&flagDownloadDir, "download-dir", config.DefaultDownloadDir(), "directory for downloaded models")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// appSettings is the merged flag/env/config view the commands run with.
type appSettings struct {
	apiURL      string
	timeout     time.Duration
	previewRows int
	testSize    float64
	randomState int
	downloadDir string
}

// resolveSettings merges, in override order, built-in defaults, the TOML
// config file, the environment and explicit flags.
func resolveSettings(cmd *cobra.Command) (appSettings, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return appSettings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "api-url", &flagAPIURL, fileCfg.API.BaseURL)
	applyIntConfig(cmd, "timeout", &flagTimeoutSecs, fileCfg.API.TimeoutSeconds)
	applyIntConfig(cmd, "preview-rows", &flagPreviewRows, fileCfg.Playground.PreviewRows)
	applyFloatConfig(cmd, "test-size", &flagTestSize, fileCfg.Playground.TestSize)
	applyIntConfig(cmd, "random-state", &flagRandomState, fileCfg.Playground.RandomState)

	if !cmd.Flags().Changed("api-url") {
		if env := strings.TrimSpace(os.Getenv("MLPLAY_API_URL")); env != "" {
			flagAPIURL = env
		}
	}

	settings := appSettings{
		apiURL:      strings.TrimRight(flagAPIURL, "/"),
		timeout:     time.Duration(flagTimeoutSecs) * time.Second,
		previewRows: flagPreviewRows,
		testSize:    flagTestSize,
		randomState: flagRandomState,
		downloadDir: flagDownloadDir,
	}
	return settings, validateSettings(settings)
}

func validateSettings(settings appSettings) error {
	if settings.apiURL == "" {
		return fmt.Errorf("--api-url must not be empty")
	}
	if settings.timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if settings.previewRows <= 0 {
		return fmt.Errorf("--preview-rows must be > 0")
	}
	if settings.testSize <= 0 || settings.testSize >= 1 {
		return fmt.Errorf("--test-size must be between 0 and 1")
	}
	return nil
}

// openClient builds the session store and API client shared by every
// command that talks to the backend.
func openClient(settings appSettings, log zerolog.Logger) (*api.Client, *session.Store, error) {
	sess, err := session.Open(config.DefaultTokenPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}
	client := api.New(settings.apiURL, settings.timeout, sess, log)
	return client, sess, nil
}

func runAppCmd(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Open(config.DefaultLogPath())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeLog()

	client, sess, err := openClient(settings, log)
	if err != nil {
		return err
	}

	hist, err := history.Open(config.DefaultHistoryDBPath())
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() {
		if cerr := hist.Close(); cerr != nil {
			logErrf("failed to close run history: %v\n", cerr)
		}
	}()

	deps := tui.Deps{
		API:         client,
		History:     hist,
		Log:         log,
		PreviewRows: settings.previewRows,
		TestSize:    settings.testSize,
		RandomState: settings.randomState,
		DownloadDir: settings.downloadDir,
	}
	app := tui.NewApp(deps, sess)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and store tokens",
		Args:  cobra.NoArgs,
		RunE:  runLoginCmd,
	}
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	client, _, err := openClient(settings, zerolog.Nop())
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Fprint(os.Stderr, "Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if _, err := client.Login(context.Background(), username, string(passwordBytes)); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", username)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate and discard stored tokens",
		Args:  cobra.NoArgs,
		RunE:  runLogoutCmd,
	}
}

func runLogoutCmd(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	client, sess, err := openClient(settings, zerolog.Nop())
	if err != nil {
		return err
	}
	if !sess.IsAuthenticated() {
		fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
		return nil
	}
	if err := client.Logout(context.Background()); err != nil {
		// tokens are discarded locally either way
		logErrf("server logout failed: %v\n", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "signed out")
	return nil
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List saved models",
		Args:  cobra.NoArgs,
		RunE:  runModelsCmd,
	}
}

func runModelsCmd(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	client, _, err := openClient(settings, zerolog.Nop())
	if err != nil {
		return err
	}
	models, err := client.SavedModels(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	if len(models) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved models")
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-6s %-24s %-24s %-14s %-9s %s\n", "ID", "NAME", "ALGORITHM", "TYPE", "ACCURACY", "TARGET")
	for _, m := range models {
		fmt.Fprintf(out, "%-6d %-24s %-24s %-14s %-9s %s\n",
			m.ID, m.Name, m.Algorithm, m.ProblemType, fmt.Sprintf("%.1f%%", m.Accuracy*100), m.TargetColumn)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show local training runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyDataset, "dataset", "", "filter by dataset name")
	cmd.Flags().StringVar(&historyType, "type", "", "filter by problem type")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	hist, err := history.Open(config.DefaultHistoryDBPath())
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() {
		if cerr := hist.Close(); cerr != nil {
			logErrf("failed to close run history: %v\n", cerr)
		}
	}()

	runs, err := hist.ListRuns(context.Background(), history.Filter{
		Dataset:     historyDataset,
		ProblemType: historyType,
		Limit:       historyLast,
	})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no local runs yet")
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-20s %-24s %-14s %-8s %s\n", "WHEN", "DATASET", "MODEL", "TYPE", "SCORE", "DURATION")
	for _, run := range runs {
		fmt.Fprintf(out, "%-20s %-20s %-24s %-14s %-8.3f %s\n",
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Dataset, run.Model, run.ProblemType, run.Metric,
			(time.Duration(run.DurationMs) * time.Millisecond).String())
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mlplay configuration
# Uncomment a value to enable it. CLI flags override config values.

[api]
# base-url = %q    # Backend base URL (MLPLAY_API_URL overrides too)
# timeout-seconds = %d              # Request timeout

[playground]
# preview-rows = %d                 # Dataset preview row count
# test-size = %.2f                  # Default train/test split fraction
# random-state = %d                 # Default random seed
`,
		defaultAPIURL,
		defaultTimeoutSecs,
		defaultPreviewRows,
		defaultTestSize,
		defaultRandomState,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
