// package launcher resolves and spawns the notation editor.
//
// The editor is an opaque external program (MuseScore by default). It is
// launched detached with the score path as its only argument and never
// waited on; a missing editor is a warning upstream, not a pipeline failure.
package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scorefinder/internal/shared"
)

// Test seams, mirrored from how the browser opener injects the platform.
var (
	getRuntime   = func() string { return runtime.GOOS }
	lookPath     = exec.LookPath
	startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }
	statPath     = os.Stat
)

// Launcher opens score files in the configured notation editor.
type Launcher struct {
	// Override is an explicit executable path from configuration; it wins
	// over platform defaults and PATH lookup.
	Override string

	logger *log.Logger
}

// New creates a Launcher with an optional configured editor path.
func New(override string, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Launcher{Override: override, logger: logger}
}

// defaultPaths lists known editor install locations for the platform.
func defaultPaths(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\Program Files\MuseScore 4\bin\MuseScore4.exe`,
			`C:\Program Files (x86)\MuseScore 4\bin\MuseScore4.exe`,
			`C:\Program Files\MuseScore 3\bin\MuseScore3.exe`,
		}
	case "darwin":
		return []string{
			"/Applications/MuseScore 4.app/Contents/MacOS/mscore",
			"/Applications/MuseScore 3.app/Contents/MacOS/mscore",
		}
	default:
		return []string{
			"/usr/bin/mscore",
			"/usr/local/bin/mscore",
			"/usr/bin/musescore",
		}
	}
}

// pathNames are executable names tried on the command search path.
var pathNames = []string{"mscore", "musescore"}

// Resolve locates the editor executable: configured override, then the
// platform default table, then a PATH lookup.
func (l *Launcher) Resolve() (string, error) {
	if l.Override != "" {
		if _, err := statPath(l.Override); err == nil {
			return l.Override, nil
		}
		if found, err := lookPath(l.Override); err == nil {
			return found, nil
		}
		return "", fmt.Errorf("%w: configured path %s", shared.ErrEditorNotFound, l.Override)
	}

	for _, candidate := range defaultPaths(getRuntime()) {
		if _, err := statPath(candidate); err == nil {
			return candidate, nil
		}
	}

	for _, name := range pathNames {
		if found, err := lookPath(name); err == nil {
			return found, nil
		}
	}

	return "", shared.ErrEditorNotFound
}

// Open spawns the editor with the score path as its sole argument and
// returns without waiting for it to exit.
func (l *Launcher) Open(scorePath string) error {
	executable, err := l.Resolve()
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	if getRuntime() == "darwin" {
		cmd = exec.Command("open", "-a", executable, scorePath)
	} else {
		cmd = exec.Command(executable, scorePath)
	}
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := startCommand(cmd); err != nil {
		return fmt.Errorf("failed to launch editor: %w", err)
	}

	l.logger.Info("launched notation editor", "editor", executable, "file", scorePath)
	return nil
}
