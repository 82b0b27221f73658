package workspace

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener hands a file to an external application
type Opener interface {
	Open(ctx context.Context, path string) error
}

// SystemOpener opens files with the OS default application
type SystemOpener struct{}

// Open starts the platform opener without waiting for the application to exit
func (SystemOpener) Open(ctx context.Context, path string) error {
	name, args, err := openCommand(runtime.GOOS, path)
	if err != nil {
		return err
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return "xdg-open", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("opening files is not supported on %s", goos)
	}
}
