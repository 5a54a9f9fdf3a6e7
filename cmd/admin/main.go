// Command admin is the terminal side of the dashboard: it signs in against
// the backend, runs the creation wizards as interactive forms and prints the
// admin tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/config"
	"silicon.com/app/internal/logging"
	"silicon.com/app/internal/shared/apperr"
)

type app struct {
	cfg         config.Config
	log         *zap.Logger
	flush       func()
	sessionPath string
	client      *backend.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{log: zap.NewNop(), flush: func() {}}
	err := rootCmd(a).ExecuteContext(ctx)
	a.flush()
	if err != nil {
		if !errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(os.Stderr, describeErr(err))
		}
		os.Exit(1)
	}
}

func rootCmd(a *app) *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Silicon catalog administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			a.cfg = cfg

			// Logs go to a file only; stdout belongs to the forms.
			logFile := cfg.LogFile
			if logFile == "" {
				logFile = filepath.Join(configDir(), "admin.log")
			}
			a.log, a.flush = logging.New(logging.Options{Level: cfg.LogLevel, File: logFile})
			if a.sessionPath == "" {
				a.sessionPath = filepath.Join(configDir(), "session.json")
			}
			// Unset BACKEND_API_URL surfaces as "API not configured" on the first call.
			a.client = backend.New(backend.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", "", "extra .env file to load")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (default in the user config dir)")

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		productCmd(a),
		accessoryCmd(a),
		productsCmd(a),
		contactsCmd(a),
		schemesCmd(a),
	)
	return root
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "silicon-admin")
}

// describeErr prints what an admin can act on: the public message and any
// field errors.
func describeErr(err error) string {
	ae, ok := apperr.As(backend.AsAppError(err))
	if !ok || ae.Kind == apperr.Internal {
		return "error: " + err.Error()
	}
	msg := "error: " + apperr.PublicMessage(ae)
	for k, v := range ae.Fields {
		msg += fmt.Sprintf("\n  %s: %s", k, v)
	}
	return msg
}
