package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/config"
	"github.com/shubhamsharma-10/CloudDrive/internal/cli/output"
	"github.com/spf13/cobra"
)

var (
	flagJSON      bool
	flagServerURL string

	cfg       *config.Config
	apiClient *api.Client
)

var rootCmd = &cobra.Command{
	Use:   "clouddrive",
	Short: "CloudDrive CLI: manage your files from the terminal",
	Long: `CloudDrive CLI lets you upload, download, share, and manage files
on your CloudDrive server without leaving the terminal.

Get started:
  clouddrive register --email me@example.com --name Me
  clouddrive login --email me@example.com
  clouddrive ls
  clouddrive upload report.pdf`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			cfg.ServerURL = flagServerURL
		}
		apiClient = api.NewClient(cfg.ServerURL, cfg.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config or http://localhost:8080)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func requireAuth() error {
	if cfg == nil || !cfg.HasToken() {
		return errors.New(`not authenticated, run "clouddrive login" first`)
	}
	return nil
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(output.Stdout, format, args...)
}

// prompt reads one line from in, printing label first. Used for passwords and
// confirmations when the value was not passed as a flag.
func prompt(in io.Reader, label string) (string, error) {
	printf("%s", label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// saveSession stores a token returned by register or login.
func saveSession(auth api.AuthResponse) error {
	cfg.Token = auth.Token
	cfg.Email = auth.User.Email
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
