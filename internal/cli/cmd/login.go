package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shubhamsharma-10/CloudDrive/internal/cli/api"
	"github.com/spf13/cobra"
)

var (
	flagToken string
	flagSSO   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with your CloudDrive server",
	Long: `Authenticate with email and password, or store a token obtained elsewhere.

Password:
  clouddrive login --email me@example.com

Token (e.g. copied after a browser single sign-on):
  clouddrive login --token eyJhbGciOi...

Single sign-on:
  clouddrive login --sso google
  Prints the provider URL. Finish in the browser, then run login --token.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case flagToken != "":
			return loginWithToken(flagToken)
		case flagSSO != "":
			return printSSOURL(flagSSO)
		default:
			return loginWithPassword(cmd)
		}
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted)")
	loginCmd.Flags().StringVar(&flagToken, "token", "", "Bearer token to store after validating it")
	loginCmd.Flags().StringVar(&flagSSO, "sso", "", "Print the sign-in URL for a federated provider")
	rootCmd.AddCommand(loginCmd)
}

func loginWithPassword(cmd *cobra.Command) error {
	if flagEmail == "" {
		return fmt.Errorf("--email is required")
	}
	password := flagPassword
	if password == "" {
		var err error
		if password, err = prompt(cmd.InOrStdin(), "Password: "); err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
	}

	body := map[string]string{"email": flagEmail, "password": password}
	var resp api.Response[api.AuthResponse]
	if err := apiClient.Post("/auth/login", body, &resp); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	if err := saveSession(resp.Data); err != nil {
		return err
	}
	printf("Logged in as %s (%s)\n", resp.Data.User.Name, resp.Data.User.Email)
	return nil
}

func loginWithToken(token string) error {
	client := api.NewClient(cfg.ServerURL, token)
	var resp api.Response[api.User]
	if err := client.Get("/auth/me", nil, &resp); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return fmt.Errorf("invalid token: server returned 401")
		}
		return fmt.Errorf("validating token: %w", err)
	}

	if err := saveSession(api.AuthResponse{Token: token, User: resp.Data}); err != nil {
		return err
	}
	printf("Logged in as %s (%s)\n", resp.Data.Name, resp.Data.Email)
	return nil
}

func printSSOURL(provider string) error {
	var resp api.Response[struct {
		URL string `json:"url"`
	}]
	params := url.Values{"mode": {"json"}}
	if err := apiClient.Get("/auth/sso/"+url.PathEscape(provider), params, &resp); err != nil {
		return fmt.Errorf("starting %s sign-in: %w", provider, err)
	}

	printf("Open this URL in your browser to sign in:\n  %s\n\n", resp.Data.URL)
	printf("Then run: clouddrive login --token <token>\n")
	return nil
}
