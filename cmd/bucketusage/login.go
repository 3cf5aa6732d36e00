package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/bucketusage/internal/adminapi"
	"github.com/janekbaraniewski/bucketusage/internal/config"
	"github.com/janekbaraniewski/bucketusage/internal/session"
)

func newLoginCommand(configPath *string) *cobra.Command {
	var (
		endpoint    string
		accessKey   string
		secretStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a MinIO console and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
			if endpoint == "" {
				endpoint = cfg.Endpoint
			}

			in := bufio.NewReader(cmd.InOrStdin())
			if strings.TrimSpace(accessKey) == "" {
				accessKey, err = promptLine(cmd.ErrOrStderr(), in, "Access key: ")
				if err != nil {
					return err
				}
			}
			secretKey, err := readSecret(cmd, in, secretStdin)
			if err != nil {
				return err
			}

			invoker := adminapi.NewHTTPInvoker(adminapi.Options{
				BaseURL:            endpoint,
				Timeout:            cfg.RequestTimeout(),
				InsecureSkipVerify: cfg.InsecureSkipVerify,
				UserAgent:          userAgent(),
			})
			token, err := invoker.Login(cmd.Context(), accessKey, secretKey)
			if err != nil {
				return fmt.Errorf("login to %s: %w", endpoint, err)
			}

			store := session.NewStore(config.ConfigDir())
			if err := store.Save(endpoint, token); err != nil {
				return err
			}
			if endpoint != cfg.Endpoint {
				if err := config.SaveEndpointTo(*configPath, endpoint); err != nil {
					return err
				}
			}

			where := "system keyring"
			if !store.UsingKeyring() {
				where = store.Path()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s (session stored in %s)\n", endpoint, where)
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "console URL (defaults to the configured endpoint)")
	cmd.Flags().StringVar(&accessKey, "access-key", "", "access key (prompted when empty)")
	cmd.Flags().BoolVar(&secretStdin, "secret-stdin", false, "read the secret key from stdin instead of prompting")
	return cmd
}

func newLogoutCommand(configPath *string) *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored console session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(endpoint) == "" {
				endpoint = cfg.Endpoint
			}
			if err := session.NewStore(config.ConfigDir()).Delete(endpoint); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", endpoint)
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "console URL (defaults to the configured endpoint)")
	return cmd
}

func promptLine(w io.Writer, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("empty input")
	}
	return line, nil
}

// readSecret reads the secret key without echo when stdin is a terminal.
func readSecret(cmd *cobra.Command, in *bufio.Reader, fromStdin bool) (string, error) {
	f, isFile := cmd.InOrStdin().(*os.File)
	if fromStdin || !isFile || !term.IsTerminal(f.Fd()) {
		return promptLine(io.Discard, in, "")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Secret key: ")
	secret, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading secret key: %w", err)
	}
	if len(secret) == 0 {
		return "", errors.New("empty secret key")
	}
	return string(secret), nil
}
