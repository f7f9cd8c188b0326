// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"sidepad/internal/commands"
	"sidepad/internal/config"
	"sidepad/internal/exitcode"
	"sidepad/internal/logging"
	"sidepad/internal/store"
	"sidepad/internal/upload"
)

// StoreOpener opens the list store for a config. The returned close
// function is called once the command finishes.
type StoreOpener func(cfg *config.Config) (kv store.KV, closeFn func() error, err error)

// Backends are the resources injected into commands during dispatch.
type Backends struct {
	OpenStore    StoreOpener
	OpenIdentity commands.IdentityOpener
	OpenDrive    upload.DriveOpener
	In           io.Reader
}

// BoltStore opens the bbolt database at cfg.StorePath().
func BoltStore(cfg *config.Config) (store.KV, func() error, error) {
	s, err := store.Open(cfg.StorePath())
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	backends Backends
}

// NewDispatcher creates a new dispatcher with the given registry and backends.
// A nil OpenStore defaults to BoltStore.
func NewDispatcher(registry *commands.Registry, backends Backends) *Dispatcher {
	if backends.OpenStore == nil {
		backends.OpenStore = BoltStore
	}
	return &Dispatcher{
		registry: registry,
		backends: backends,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list todos
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // errors are reported below

	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", describeFlagError(err))
		return exitcode.UserError
	}

	// A leading "-" left over means an unparsed flag after "--"
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet

	log, err := logging.New(cfg.Settings.Log, debug, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("command", cmd.Name()))
	log.Debug("dispatch", zap.String("config_dir", cfg.Dir), zap.Strings("args", positionalArgs))

	env := &commands.Env{
		Config:       cfg,
		Log:          log,
		In:           d.backends.In,
		OpenIdentity: d.backends.OpenIdentity,
		OpenDrive:    d.backends.OpenDrive,
	}

	if cmd.NeedsStore() {
		kv, closeFn, err := d.backends.OpenStore(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: storage error: %s\n", err)
			return exitcode.StorageError
		}
		defer func() {
			if err := closeFn(); err != nil {
				log.Warn("failed to close store", zap.Error(err))
			}
		}()
		env.Store = kv
	}

	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// describeFlagError rewrites flag package errors into the CLI's wording.
func describeFlagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + name
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
		return "unknown flag: " + name
	}
	return errStr
}
