package main

import (
	"fmt"

	"github.com/ptyline/ptyline/pkg/config"
	"github.com/ptyline/ptyline/pkg/session"
)

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config     *config.Config
	Transcript *transcriptWriter
	Session    *session.Session
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
	}

	// Create the transcript writer when configured
	if cfg.Transcript != "" {
		tw, err := newTranscriptWriter(cfg.Transcript)
		if err != nil {
			return nil, fmt.Errorf("failed to open transcript: %w", err)
		}
		deps.Transcript = tw
	}

	// Create the session; the transcript observes child output when set
	if deps.Transcript != nil {
		deps.Session = session.NewSession(cfg, deps.Transcript)
	} else {
		deps.Session = session.NewSession(cfg, nil)
	}

	return deps, nil
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.Transcript != nil {
		_ = d.Transcript.Close() // Best effort
		d.Transcript = nil
	}
}

// Application represents the main application
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Run starts the session with the given command and arguments and blocks
// until it finishes
func (a *Application) Run(command string, args []string) error {
	if err := a.deps.Session.Start(command, args); err != nil {
		return err
	}

	return a.deps.Session.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop() error {
	return a.deps.Session.Stop()
}

// ExitCode returns the exit code of the wrapped process
func (a *Application) ExitCode() int {
	return a.deps.Session.ExitStatus().ExitCode()
}
