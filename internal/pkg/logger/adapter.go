package logger

import "portfolio_viewer/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level functions.
type slogAdapter struct{}

func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) Info(msg string, args ...any)  { Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, args...) }

type nopAdapter struct{}

// NewNopAdapter returns a port.Logger that discards everything.
func NewNopAdapter() port.Logger {
	return nopAdapter{}
}

func (nopAdapter) Info(string, ...any)  {}
func (nopAdapter) Debug(string, ...any) {}
func (nopAdapter) Warn(string, ...any)  {}
func (nopAdapter) Error(string, ...any) {}
