package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

const LatestVersionHeader = "X-CLI-Latest-Version"

// updateNotice prints a one-line upgrade hint the first time the server
// advertises a newer CLI release.
type updateNotice struct {
	mu      sync.Mutex
	out     io.Writer
	current string
	shown   bool
}

func (n *updateNotice) observe(h http.Header) {
	latest := strings.TrimSpace(h.Get(LatestVersionHeader))
	if latest == "" || n.out == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.shown || !IsNewerVersion(n.current, latest) {
		return
	}

	n.shown = true

	_, _ = fmt.Fprintf(n.out, "\nUpdate available: %s -> %s\nDownload it from https://chainvue.io/cli\n\n",
		strings.TrimPrefix(n.current, "v"), strings.TrimPrefix(latest, "v"))
}

// IsNewerVersion reports whether latest is a higher semantic version than
// current. Unparseable versions, including development builds, never qualify.
func IsNewerVersion(current, latest string) bool {
	cv, err := semver.NewVersion(current)
	if err != nil {
		return false
	}

	lv, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}

	return lv.GreaterThan(cv)
}
