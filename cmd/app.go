package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fortressguard/fortress/client"
	"github.com/fortressguard/fortress/config"
	"github.com/fortressguard/fortress/console"
	"github.com/fortressguard/fortress/fortress"
	"github.com/fortressguard/fortress/internal/logging"
)

// Next.js convention, lowest precedence first.
var defaultEnvFiles = []string{".env", ".env.local"}

// app is everything a command needs to reach the API.
type app struct {
	project *config.ProjectConfig
	apiCfg  config.APIConfig
	logger  *slog.Logger
	service *fortress.Service
}

// load reads the project config, resolves the API config (flags beat the
// environment, which beats the file) and wires client and service.
func (o *rootOptions) load(logOut io.Writer) (*app, error) {
	project, err := config.LoadConfigQuiet(o.configPath)
	if err != nil {
		return nil, err
	}

	files := project.EnvFiles
	if len(files) == 0 {
		files = defaultEnvFiles
	}
	files = append(append([]string{}, files...), o.envFiles...)

	apiCfg, err := config.ResolveAPIConfig(project, config.EnvSource{Files: files})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve API configuration: %w", err)
	}
	if o.apiURL != "" || o.apiVersion != "" {
		apiCfg = config.NewAPIConfig(orElse(o.apiURL, apiCfg.BaseURL), orElse(o.apiVersion, apiCfg.APIVersion), apiCfg.Timeout)
	}

	logCfg := project.Logging
	if o.debug {
		logCfg.Level = "debug"
	}
	logger := logging.New(logCfg, logOut)

	return &app{
		project: project,
		apiCfg:  apiCfg,
		logger:  logger,
		service: fortress.NewService(client.New(apiCfg, client.WithLogger(logger))),
	}, nil
}

func (a *app) console(opts ...console.Option) *console.Console {
	return console.New(a.service, append([]console.Option{console.WithLogger(a.logger)}, opts...)...)
}

func orElse(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
