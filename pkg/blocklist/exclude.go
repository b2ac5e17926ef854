package blocklist

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Sentinels are hosts that never appear in the generated hosts file, whatever
// the sources contain.
var Sentinels = []string{
	"localhost",
	"local",
	"localdomain",
	"broadcasthost",
	"localhost.localdomain",
}

// NewExcludedSet returns the sentinel hosts plus any extra hosts.
func NewExcludedSet(extra ...string) *HostSet {
	set := NewHostSet(Sentinels...)
	for _, host := range extra {
		set.Add(strings.TrimSpace(host))
	}
	return set
}

// LoadAllowlist reads the allowlist file at path into set.
func LoadAllowlist(path string, set *HostSet, log *slog.Logger) error {
	if path == "" {
		return nil
	}

	file, err := os.Open(path) // #nosec G304 -- path is provided via config.
	if err != nil {
		return fmt.Errorf("open allowlist: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			if log == nil {
				slog.Default().Warn("failed to close allowlist file", "error", err)
			} else {
				log.Warn("failed to close allowlist file", "error", err)
			}
		}
	}()

	return loadAllowlist(file, set)
}

// loadAllowlist accepts bare hostnames as well as hosts file entries.
func loadAllowlist(r io.Reader, set *HostSet) error {
	scanner := newLineScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(stripBOM(scanner.Text()))
		if line == "" || isCommentLine(line) {
			continue
		}
		if host, ok := ExtractHost(line); ok {
			set.Add(host)
			continue
		}
		if idx := strings.IndexByte(line, '#'); idx != -1 {
			line = strings.TrimSpace(line[:idx])
		}
		set.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan allowlist: %w", err)
	}
	return nil
}
