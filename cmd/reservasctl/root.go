package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"reservas-edge/client/api"
	"reservas-edge/client/token"
	"reservas-edge/internal/config"
	"reservas-edge/internal/logging"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type rootOptions struct {
	baseURL string
	verbose bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "reservasctl",
		Short:         "Call the reservations API through the resilient client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newGetCmd(opts), newRequestCmd(opts))
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "GET a path and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, opts, api.NewRequest(http.MethodGet, args[0], nil))
		},
	}
}

func newRequestCmd(opts *rootOptions) *cobra.Command {
	var data string
	c := &cobra.Command{
		Use:   "request <method> <path>",
		Short: "Send a request with an optional JSON body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body []byte
			if data != "" {
				body = []byte(data)
			}
			return call(cmd, opts, api.NewRequest(strings.ToUpper(args[0]), args[1], body))
		},
	}
	c.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return c
}

func call(cmd *cobra.Command, opts *rootOptions, req *api.Request) error {
	client, cleanup, err := buildClient(opts, newTerminalSession(cmd.ErrOrStderr(), req.Path))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "config error: %v\n", err)
		return err
	}
	defer cleanup()

	resp, err := client.Do(cmd.Context(), req)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "request failed: %v\n", err)
		return err
	}
	_, err = cmd.OutOrStdout().Write(resp.Body)
	return err
}

func buildClient(opts *rootOptions, session api.Session) (*api.Client, func(), error) {
	config.LoadDotEnv()
	if opts.baseURL != "" {
		// a flag vence o ambiente e o .env
		_ = os.Setenv("API_BASE_URL", opts.baseURL)
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { _ = log.Sync() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	tokOpts := token.Options{Logger: log.With(zap.String("component", "token"))}
	if cfg.FirebaseRefreshToken != "" {
		tokOpts.Identity = token.NewSecureTokenIdentity(token.SecureTokenOptions{
			APIKey:       cfg.FirebaseAPIKey,
			RefreshToken: cfg.FirebaseRefreshToken,
		})
	}
	if cfg.TokenCacheRedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.TokenCacheRedisAddr})
		closers = append(closers, func() { _ = rdb.Close() })
		tokOpts.Persistent = token.NewRedisCache(rdb,
			token.WithCacheKey(cfg.TokenCachePrefix),
			token.WithCacheTTL(cfg.TokenCacheTTL),
		)
	}

	var pace *rate.Limiter
	if cfg.PaceRPS > 0 {
		pace = rate.NewLimiter(rate.Limit(cfg.PaceRPS), cfg.PaceBurst)
	}

	client := api.New(api.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Tokens:  token.NewProvider(tokOpts),
		Session: session,
		Retry:   api.RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBase},
		Pace:    pace,
		Logger:  log.With(zap.String("component", "api")),
	})
	return client, cleanup, nil
}
