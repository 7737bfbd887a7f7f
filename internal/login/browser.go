package login

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const noBrowserEnv = "CHAINVUE_NO_BROWSER"

var errUnsupportedPlatform = errors.New("unsupported platform")

// BrowserDisabled reports whether CHAINVUE_NO_BROWSER asks to skip opening
// the verification URL.
func BrowserDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(noBrowserEnv))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// OpenBrowser starts the platform URL handler without waiting for it.
func OpenBrowser(targetURL string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", targetURL) //nolint:noctx // fire-and-forget browser open
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", targetURL) //nolint:noctx // fire-and-forget browser open
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", targetURL) //nolint:noctx // fire-and-forget browser open
	default:
		return fmt.Errorf("%w: %s", errUnsupportedPlatform, runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}

	return nil
}
