// Command veriscribed runs the analysis backend: the HTTP API serving AI
// checks, tutor chat, scored uploads and structured analysis. Configuration
// comes from VERISCRIBE_-prefixed environment variables; see the config
// package for the full list.
package main

import (
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/veriscribe/veriscribe/config"
	"github.com/veriscribe/veriscribe/logging"
	"github.com/veriscribe/veriscribe/model"
	"github.com/veriscribe/veriscribe/model/anthropic"
	"github.com/veriscribe/veriscribe/model/openai"
	"github.com/veriscribe/veriscribe/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "veriscribed:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewJSONLogger(logging.ParseLevel(cfg.LogLevel))

	m, err := buildModel(cfg)
	if err != nil {
		return err
	}

	srv := server.New(m,
		server.WithLogger(logger),
		server.WithUploadDir(cfg.UploadDir),
		server.WithPublicBaseURL(cfg.PublicBaseURL),
	)
	return srv.ListenAndServe(cfg.Addr)
}

func buildModel(cfg config.Config) (model.Model, error) {
	switch cfg.ModelProvider {
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.ModelID != "" {
				o.Model = cfg.ModelID
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.ModelID != "" {
				o.Model = anthropicsdk.Model(cfg.ModelID)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}
