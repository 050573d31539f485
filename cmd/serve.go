package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fortressguard/fortress/config"
	"github.com/fortressguard/fortress/internal/banner"
	"github.com/fortressguard/fortress/internal/server"
)

func serveCmd(opts *rootOptions, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web console",
		Long:  "Serve the landing page, the test terminal and the console API on top of the configured router.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("host") {
				a.project.Host, _ = cmd.Flags().GetString("host")
			}
			if cmd.Flags().Changed("port") {
				a.project.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("router") {
				a.project.Router, _ = cmd.Flags().GetString("router")
			}
			if !contains(config.ValidRouters, a.project.Router) {
				return errUnsupportedRouter(a.project.Router)
			}

			srv, err := server.New(server.Options{
				Project: a.project,
				API:     a.service,
				APIURL:  a.apiCfg.BuildAPIURL(""),
				Version: version,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}

			opts := banner.GreetOptions{
				ServiceName: server.Title,
				Version:     version,
				Host:        a.project.Host,
				Port:        a.project.Port,
				Router:      a.project.Router,
				APIBaseURL:  a.apiCfg.BuildAPIURL(""),
				OpenAPIPath: server.OpenAPIPath,
			}
			if a.project.Console.DocsEnabled() {
				opts.DocsPath = server.DocsPath
			}
			banner.Greet(cmd.OutOrStdout(), opts)

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("host", "", "Host to listen on (default from config)")
	cmd.Flags().Int("port", 0, "Port to listen on (default from config)")
	cmd.Flags().String("router", "", "Router: chi, gin, echo, fiber or stdlib (default from config)")

	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
