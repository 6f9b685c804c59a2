package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/AvengeMedia/danktk/internal/config"
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/server"
	"github.com/AvengeMedia/danktk/internal/wayland"
	"github.com/AvengeMedia/danktk/internal/wayland/backend"
)

type app struct {
	settings config.Settings
	mgr      *wayland.Manager
	srv      *server.Server
}

// handler returns true once the command is finished.
type handler func(ev wayland.Event) (bool, error)

func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		return config.Settings{}, exitWith(exitInit, "failed to load config: %w", err)
	}

	level := settings.LogLevel
	if override, _ := cmd.Flags().GetString("log-level"); override != "" {
		level = override
	}
	if level != "" && !log.SetLevel(level) {
		log.Warnf("Unknown log level %q", level)
	}
	return settings, nil
}

func startApp(cmd *cobra.Command, withSocket bool) (*app, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	mgr, err := wayland.NewManager(wayland.Config{}, backend.Dial)
	if err != nil {
		return nil, &exitError{code: startupCode(err), err: err}
	}

	a := &app{settings: settings, mgr: mgr}
	if withSocket {
		a.srv = server.New(mgr)
		if err := a.srv.Start(); err != nil {
			log.Warnf("Control socket disabled: %v", err)
			a.srv = nil
		}
	}

	if err := mgr.Send(wayland.Ready{}); err != nil {
		a.close()
		return nil, &exitError{code: exitConnection, err: err}
	}
	return a, nil
}

func (a *app) close() {
	if a.srv != nil {
		a.srv.Close()
	}
	a.mgr.Close()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (a *app) serve(ctx context.Context) {
	if a.srv == nil {
		return
	}
	go func() {
		if err := a.srv.Serve(ctx); err != nil {
			log.Errorf("Control socket stopped: %v", err)
		}
	}()
}

// loop pumps the dispatcher event stream into h until h reports completion,
// ctx ends or the dispatcher stops. Functions posted on extra run on the same
// goroutine between events.
func (a *app) loop(ctx context.Context, extra <-chan func() error, h handler) error {
	events := a.mgr.Events()
	for {
		for {
			ev, ok := events.TryNext()
			if !ok {
				break
			}
			if fatal, ok := ev.(wayland.Fatal); ok {
				return &exitError{code: fatalCode(fatal.Err), err: fatal.Err}
			}
			done, err := h(ev)
			if err != nil || done {
				return err
			}
		}

		select {
		case <-events.Ready():
		case <-events.Done():
			if events.Len() > 0 {
				continue
			}
			if err := a.mgr.Err(); err != nil {
				return &exitError{code: fatalCode(err), err: err}
			}
			return nil
		case f := <-extra:
			if err := f(); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}
