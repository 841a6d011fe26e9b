package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wekeepgrowing/semo-accounting/internal/domain/entity"
)

type syncer interface {
	SyncAll(ctx context.Context) (*entity.SyncResult, error)
}

type connection interface {
	Status(ctx context.Context) (*entity.ConnectionStatus, error)
	Disconnect(ctx context.Context) error
}

// runtime is what the commands operate on
type runtime struct {
	syncer     syncer
	connection connection
	migrate    func(ctx context.Context) error
	close      func()
}

type loader func() (*runtime, error)

var errAllFailed = errors.New("every attempted invoice failed to sync")

func newRootCmd(load loader) *cobra.Command {
	var configDir, output string

	root := &cobra.Command{
		Use:          "accountingctl",
		Short:        "Operate the accounting synchronization service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output format %q", output)
			}
			if configDir != "" {
				return os.Setenv("CONFIG_PATH", configDir)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory containing accounting.yaml (overrides CONFIG_PATH)")
	root.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")

	// with runs fn against a freshly loaded runtime
	with := func(fn func(cmd *cobra.Command, rt *runtime) error) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			rt, err := load()
			if err != nil {
				return err
			}
			if rt.close != nil {
				defer rt.close()
			}
			return fn(cmd, rt)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "sync",
			Short: "Pull every invoice from the accounting system and reconcile it locally",
			Args:  cobra.NoArgs,
			RunE: with(func(cmd *cobra.Command, rt *runtime) error {
				result, err := rt.syncer.SyncAll(cmd.Context())
				if err != nil {
					return err
				}
				if err := render(cmd.OutOrStdout(), output, result); err != nil {
					return err
				}
				if result.AllFailed() {
					return errAllFailed
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the connection status, probing the accounting system",
			Args:  cobra.NoArgs,
			RunE: with(func(cmd *cobra.Command, rt *runtime) error {
				status, err := rt.connection.Status(cmd.Context())
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), output, status)
			}),
		},
		&cobra.Command{
			Use:   "disconnect",
			Short: "Delete the stored credential",
			Args:  cobra.NoArgs,
			RunE: with(func(cmd *cobra.Command, rt *runtime) error {
				if err := rt.connection.Disconnect(cmd.Context()); err != nil {
					return err
				}
				cmd.Println("Disconnected.")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			Args:  cobra.NoArgs,
			RunE: with(func(cmd *cobra.Command, rt *runtime) error {
				if err := rt.migrate(cmd.Context()); err != nil {
					return err
				}
				cmd.Println("Migrations applied.")
				return nil
			}),
		},
	)

	return root
}

// render writes v as indented JSON, or as YAML keyed by the same JSON field names
func render(w io.Writer, format string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if format == "yaml" {
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		if data, err = yaml.Marshal(generic); err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
