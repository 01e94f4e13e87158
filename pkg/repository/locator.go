package repository

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/localbrain/localbrain/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// defaultDBFile is used when neither the caller nor the environment names a
// database.
const defaultDBFile = "memory.db"

// locatorEnvVars are checked in order when no locator argument is given.
var locatorEnvVars = []string{"dbUrl", "DB_URL", "MEMORY_DB_URL"}

// ResolveLocator turns a caller-supplied database locator (filesystem path or
// file: URL) into a canonical absolute path. Priority when locator is empty:
// dbUrl > DB_URL > MEMORY_DB_URL > "memory.db". This is a pure string
// transformation; it fails only on malformed file: URLs and never touches the
// filesystem beyond reading the working directory.
func ResolveLocator(locator string) (string, error) {
	raw := locator
	if raw == "" {
		for _, key := range locatorEnvVars {
			if v := os.Getenv(key); v != "" {
				raw = v
				break
			}
		}
	}
	if raw == "" {
		raw = defaultDBFile
	}

	if strings.HasPrefix(raw, "file:") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", goerr.Wrap(model.ErrInvalidLocator, err.Error(), goerr.V("locator", raw))
		}
		if u.Path != "" {
			raw = u.Path
		} else {
			// file:relative/path.db has no leading slash and parses as opaque
			raw = u.Opaque
		}
		if raw == "" {
			return "", goerr.Wrap(model.ErrInvalidLocator, "file URL has no path", goerr.V("locator", locator))
		}
	}

	if !filepath.IsAbs(raw) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", goerr.Wrap(err, "failed to get working directory")
		}
		raw = filepath.Join(cwd, raw)
	}

	return filepath.Clean(raw), nil
}
