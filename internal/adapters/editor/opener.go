// Package editor opens resolver files (config.yaml, catalog files) in the
// user's editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
)

// fallbacks are tried in order when neither $EDITOR nor $VISUAL is set
var fallbacks = []string{"nvim", "vim", "vi", "nano"}

// Opener launches an external editor
type Opener struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewOpener creates an opener that reads the environment
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath, getenv: os.Getenv}
}

// OpenFile runs the editor on path and waits for it to exit
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("edit %s: %w", path, err)
	}
	return nil
}

// Command returns the editor invocation for path wired to the terminal
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	editor := o.Editor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR")
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Editor returns $EDITOR, then $VISUAL, then the first fallback on PATH
func (o *Opener) Editor() string {
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if v := o.getenv(key); v != "" {
			return v
		}
	}
	for _, name := range fallbacks {
		if path, err := o.lookPath(name); err == nil {
			return path
		}
	}
	return ""
}
