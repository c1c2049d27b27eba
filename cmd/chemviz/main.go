// Package main provides the CLI entrypoint for chemviz.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/chemviz/chemviz-tui/internal/api"
	"github.com/chemviz/chemviz-tui/internal/bus"
	"github.com/chemviz/chemviz-tui/internal/charts"
	"github.com/chemviz/chemviz-tui/internal/config"
	"github.com/chemviz/chemviz-tui/internal/logging"
	"github.com/chemviz/chemviz-tui/internal/session"
	"github.com/chemviz/chemviz-tui/internal/ui"
	"github.com/chemviz/chemviz-tui/internal/validate"
)

// CHEMVIZ_API_URL overrides the config file; the --api-url flag overrides both.
const apiURLEnv = "CHEMVIZ_API_URL"

const (
	defaultTimeoutSeconds = 15
	defaultLogLevel       = "info"
)

var (
	flagAPIURL   string
	flagTimeout  int
	flagLogLevel string

	uploadName string
	reportOut  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chemviz",
		Short:         "TUI client for the ChemViz equipment analytics server",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUICmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", api.DefaultBaseURL, "backend base URL")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", defaultTimeoutSeconds, "request timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newWhoamiCmd())

	return rootCmd
}

// clientEnv holds everything a command needs to talk to the backend.
type clientEnv struct {
	client *api.Client
	log    *zap.Logger
	sess   *session.Store
}

func (e *clientEnv) close() {
	if err := e.sess.Close(); err != nil {
		logErrf("failed to close session store: %v\n", err)
	}
	// Best-effort flush of the file logger.
	_ = e.log.Sync()
}

// newClientEnv resolves settings (flag, then environment, then config
// file, then built-in default) and wires the shared collaborators.
func newClientEnv(cmd *cobra.Command) (*clientEnv, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	baseURL := flagAPIURL
	if !cmd.Flags().Changed("api-url") {
		if env := strings.TrimSpace(os.Getenv(apiURLEnv)); env != "" {
			baseURL = env
		} else if fileCfg.API.BaseURL != nil {
			baseURL = *fileCfg.API.BaseURL
		}
	}
	applyIntConfig(cmd, "timeout", &flagTimeout, fileCfg.API.TimeoutSeconds)
	applyStringConfig(cmd, "log-level", &flagLogLevel, fileCfg.Log.Level)

	logger, err := logging.New(config.DefaultLogPath(), flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	sess, err := session.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	client := api.New(baseURL, time.Duration(flagTimeout)*time.Second, sess, logger)
	return &clientEnv{client: client, log: logger, sess: sess}, nil
}

// requireLogin rejects protected headless commands before any network call.
func requireLogin(env *clientEnv) error {
	if !env.client.HasToken(context.Background()) {
		return fmt.Errorf("not logged in (run: chemviz login)")
	}
	return nil
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	env, err := newClientEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	app := ui.NewApp(env.client, bus.New(), env.log, config.DefaultDownloadDir())
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
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

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in and store the session token",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLoginCmd,
	}
}

func runLoginCmd(cmd *cobra.Command, args []string) error {
	env, err := newClientEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	identifier := ""
	if len(args) == 1 {
		identifier = strings.TrimSpace(args[0])
	}
	if identifier == "" {
		identifier, err = promptLine("Username or email: ")
		if err != nil {
			return err
		}
	}
	if err := validate.Identifier(identifier); err != nil {
		return err
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if err := validate.Password(password, validate.LoginPasswordRules); err != nil {
		return err
	}

	if _, err := env.client.Login(context.Background(), identifier, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Printf("Logged in as %s\n", identifier)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored token",
		Args:  cobra.NoArgs,
		RunE:  runLogoutCmd,
	}
}

func runLogoutCmd(cmd *cobra.Command, _ []string) error {
	env, err := newClientEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.client.Logout(context.Background()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload an equipment CSV dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runUploadCmd,
	}
	cmd.Flags().StringVar(&uploadName, "name", "", "dataset name (default: file name)")
	return cmd
}

func runUploadCmd(cmd *cobra.Command, args []string) error {
	env, err := newClientEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := requireLogin(env); err != nil {
		return err
	}

	path := args[0]
	if err := validate.CSVFile(path); err != nil {
		return err
	}
	record, err := env.client.Upload(context.Background(), path, uploadName)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("Uploaded %q (id %d)\n", record.Name, record.ID)
	validation := record.ValidationSummary
	if validation == nil {
		validation = record.Summary.Validation
	}
	if validation != nil {
		fmt.Printf("Rows: %d total, %d accepted, %d rejected\n",
			validation.TotalRows, validation.AcceptedRows, validation.RejectedRows)
		for _, rowErr := range validation.RowErrors {
			logErrf("row %d, %s: %s\n", rowErr.Row, rowErr.Column, rowErr.Message)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past uploads",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	env, err := newClientEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := requireLogin(env); err != nil {
		return err
	}

	records, err := env.client.Summaries(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No uploads yet.")
		return nil
	}

	headers := []string{"ID", "Name", "Uploaded", "By", "Rows", "Accepted", "Rejected", "Size"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		accepted, rejected := record.AcceptedRows, record.RejectedRows
		if record.ValidationSummary != nil && accepted == 0 && rejected == 0 {
			accepted = record.ValidationSummary.AcceptedRows
			rejected = record.ValidationSummary.RejectedRows
		}
		size := record.FileSizeBytes
		if size == 0 {
			size = record.Summary.FileSizeBytes
		}
		rowCount := record.RowCount
		if rowCount == 0 {
			rowCount = record.Summary.RowCount
		}
		rows = append(rows, []string{
			strconv.FormatInt(record.ID, 10),
			record.Name,
			record.UploadedAt.Local().Format("2006-01-02 15:04"),
			record.UploadedBy,
			strconv.Itoa(rowCount),
			strconv.Itoa(accepted),
			strconv.Itoa(rejected),
			charts.FormatBytes(size),
		})
	}
	rightAlign := map[int]bool{0: true, 4: true, 5: true, 6: true, 7: true}
	for _, line := range charts.FormatTable(headers, rows, rightAlign) {
		fmt.Println(line)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <upload-id>",
		Short: "Download the PDF report for an upload",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportOut, "out", "", "output directory (default: XDG data dir)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	env, err := newClientEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := requireLogin(env); err != nil {
		return err
	}

	uploadID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid upload id %q", args[0])
	}
	data, err := env.client.Report(context.Background(), uploadID)
	if err != nil {
		return fmt.Errorf("failed to download report: %w", err)
	}
	outDir := reportOut
	if outDir == "" {
		outDir = config.DefaultDownloadDir()
	}
	path, err := ui.SaveReport(outDir, uploadID, data)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE:  runWhoamiCmd,
	}
}

func runWhoamiCmd(cmd *cobra.Command, _ []string) error {
	env, err := newClientEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := requireLogin(env); err != nil {
		return err
	}

	profile, err := env.client.Profile(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	fmt.Printf("Username: %s\nEmail: %s\nRole: %s\n", profile.Username, profile.Email, profile.Role)
	if profile.LastLogin != nil {
		fmt.Printf("Last login: %s\n", profile.LastLogin.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# chemviz configuration
# Uncomment a value to enable it. CLI flags override config values.

[api]
# base-url = %q       # Backend address (env %s overrides)
# timeout-seconds = %d                  # Request timeout

[log]
# level = %q                        # debug, info, warn, error
`, api.DefaultBaseURL, apiURLEnv, defaultTimeoutSeconds, defaultLogLevel)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
