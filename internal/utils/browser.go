package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// startCommand is replaced in tests
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenURL opens url with the system's default handler. It does not wait for
// the browser to exit.
func OpenURL(url string) error {
	name, args, err := openCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

func openCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin": // macOS
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}
