package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/revchat/pkg/gateway"
	"github.com/go-go-golems/revchat/pkg/provider"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("revchat exited with error")
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revchat",
		Short: "Real-time support chat gateway streaming LLM replies over websockets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "HTTP listen address")
	flags.String("api-key", "", "provider API key")
	flags.String("base-url", "", "provider base URL (OpenAI-compatible)")
	flags.String("model", "", "provider model name")
	flags.String("persona-file", "", "file overriding the built-in persona prompt")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")

	viper.SetEnvPrefix("REVCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)

	return cmd
}

func run(ctx context.Context) error {
	setupLogging(viper.GetString("log-level"))

	apiKey := viper.GetString("api-key")
	if apiKey == "" {
		return errors.New("provider API key is required (--api-key or REVCHAT_API_KEY)")
	}

	persona := ""
	if path := viper.GetString("persona-file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "read persona file")
		}
		persona = string(b)
	}

	prov := provider.NewOpenAI(provider.Config{
		APIKey:  apiKey,
		BaseURL: viper.GetString("base-url"),
		Model:   viper.GetString("model"),
	})

	srv := gateway.NewServer(gateway.Config{
		Addr:    viper.GetString("addr"),
		Persona: persona,
	}, prov)

	return srv.Run(ctx)
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
