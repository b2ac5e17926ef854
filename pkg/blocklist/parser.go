package blocklist

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// ExtractHost returns the hostname of a hosts file entry such as
// "127.0.0.1 example.com # comment". The second result is false when the
// line carries no hostname.
func ExtractHost(line string) (string, bool) {
	space := strings.IndexFunc(line, unicode.IsSpace)
	if space == -1 {
		return "", false
	}

	comment := strings.IndexByte(line, '#')
	// A comment that starts before the address field ends leaves no room
	// for a host.
	if comment != -1 && comment <= space {
		return "", false
	}

	candidate := line[space:]
	if comment != -1 {
		candidate = line[space:comment]
	}

	host := strings.TrimSpace(candidate)
	if host == "" {
		return "", false
	}
	return host, true
}

type parseOptions struct {
	ListID string
	Logger *slog.Logger
}

// parseList adds every hostname found in r to set.
func parseList(r io.Reader, set *HostSet, opts parseOptions) (ParseStats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stats := ParseStats{}
	scanner := newLineScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if lineNum == 1 {
			line = stripBOM(line)
		}
		stats.TotalLines++

		host, ok := ExtractHost(line)
		if !ok {
			stats.Skipped++
			continue
		}
		set.Add(host)
		stats.Hosts++
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan list: %w", err)
	}

	logger.Debug("parsed hosts list", "list", opts.ListID, "lines", stats.TotalLines, "hosts", stats.Hosts, "skipped", stats.Skipped)
	return stats, nil
}

func stripBOM(line string) string {
	return strings.TrimPrefix(line, "\ufeff")
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "#")
}
