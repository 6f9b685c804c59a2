package main

import (
	"fmt"

	"github.com/AvengeMedia/danktk/internal/errdefs"
)

const (
	exitInit       = 2
	exitConnection = 3
	exitWindow     = 4
	exitOOM        = 5
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, format string, args ...interface{}) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

// startupCode classifies a failure to bring up the dispatcher.
func startupCode(err error) int {
	switch errdefs.TypeOf(err) {
	case errdefs.ErrTypeNoWaylandDisplay, errdefs.ErrTypeFatalInit:
		return exitConnection
	default:
		return exitInit
	}
}

// fatalCode classifies the error a running dispatcher stopped with.
func fatalCode(err error) int {
	if errdefs.TypeOf(err) == errdefs.ErrTypeOutOfMemory {
		return exitOOM
	}
	return exitConnection
}
