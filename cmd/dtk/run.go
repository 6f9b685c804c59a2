package main

import (
	"github.com/spf13/cobra"

	"github.com/AvengeMedia/danktk/internal/ids"
	"github.com/AvengeMedia/danktk/internal/log"
	"github.com/AvengeMedia/danktk/internal/wayland"
)

func runWindow(cmd *cobra.Command, args []string) error {
	noSocket, _ := cmd.Flags().GetBool("no-socket")
	a, err := startApp(cmd, !noSocket)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()
	a.serve(ctx)

	id := ids.NewSurface()
	if _, err := a.mgr.CreateWindow(ctx, id, a.settings.WindowSettings()); err != nil {
		return &exitError{code: exitWindow, err: err}
	}
	log.Infof("Window %v created", id)

	return a.loop(ctx, nil, windowHandler(a, id))
}

func windowHandler(a *app, id ids.SurfaceID) handler {
	return func(ev wayland.Event) (bool, error) {
		switch e := ev.(type) {
		case wayland.WindowConfigure:
			if e.ID == id && e.First {
				log.Infof("Window %v configured at %v", id, e.Size)
			}
		case wayland.ScaleFactorChanged:
			log.Debugf("Scale of %v is now %.2f", e.ID, e.Scale)
		case wayland.WindowCloseRequested:
			if e.ID != id {
				break
			}
			if !a.settings.ExitOnCloseRequest {
				log.Info("Close requested, keeping window open (exit_on_close_request = false)")
				break
			}
			return false, a.mgr.Send(wayland.Destroy{ID: id})
		case wayland.WindowClosed:
			return e.ID == id, nil
		}
		return false, nil
	}
}

func runLayer(cmd *cobra.Command, args []string) error {
	noSocket, _ := cmd.Flags().GetBool("no-socket")
	a, err := startApp(cmd, !noSocket)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()
	a.serve(ctx)

	id := ids.NewSurface()
	if _, err := a.mgr.CreateLayerSurface(ctx, id, a.settings.LayerSettings()); err != nil {
		return &exitError{code: exitWindow, err: err}
	}
	log.Infof("Layer surface %v created", id)

	return a.loop(ctx, nil, func(ev wayland.Event) (bool, error) {
		switch e := ev.(type) {
		case wayland.LayerConfigure:
			if e.ID == id && e.First {
				log.Infof("Layer surface %v configured at %v", id, e.Size)
			}
		case wayland.LayerDone:
			return e.ID == id, nil
		}
		return false, nil
	})
}
