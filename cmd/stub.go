package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortressguard/fortress/config"
	"github.com/fortressguard/fortress/fortresstest"
	"github.com/fortressguard/fortress/internal/logging"
)

func stubCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stub FortressGuard API",
		Long:  "Serve the five FortressGuard endpoints locally for development. The stub's encryption is a reversible encoding, not cryptography.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")

			logCfg := config.DefaultProjectConfig().Logging
			if opts.debug {
				logCfg.Level = "debug"
			}
			stub := fortresstest.New(fortresstest.WithLogger(logging.New(logCfg, cmd.ErrOrStderr())))

			addr := net.JoinHostPort(host, strconv.Itoa(port))
			srv := &http.Server{
				Addr:              addr,
				Handler:           stub,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
					return
				}
				errCh <- nil
			}()

			out := cmd.OutOrStdout()
			log(out, fmt.Sprintf("🧪 Stub FortressGuard API on http://%s/api/v1", addr), colorGreen)
			log(out, fmt.Sprintf("   export %s=http://%s", config.EnvAPIURL, addr), colorCyan)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log(out, "🛑 Shutting down stub", colorYellow)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("host", "localhost", "Host to listen on")
	cmd.Flags().Int("port", 3000, "Port to listen on")

	return cmd
}
