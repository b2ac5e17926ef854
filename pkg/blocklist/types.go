package blocklist

import "fmt"

// Source describes a configured hosts list provider.
type Source struct {
	ID       string
	Location string
	Category string
	Enabled  bool
	Auth     AuthConfig
}

// AuthConfig defines optional authentication for a source.
type AuthConfig struct {
	Username string
	Password string
	Token    string
	Header   string
	Scheme   string
}

// ListConfig defines a source entry as it appears in the configuration file.
type ListConfig struct {
	ID       string `mapstructure:"id"`
	Enabled  *bool  `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
	Header   string `mapstructure:"header"`
	Scheme   string `mapstructure:"scheme"`
}

// ParseStats summarises list parsing results.
type ParseStats struct {
	TotalLines int
	Hosts      int
	Skipped    int
}

// SourceReport records what a single source contributed to a run.
type SourceReport struct {
	ID    string
	Stats ParseStats
	Err   error
}

// Report summarises an aggregation run.
type Report struct {
	Sources  []SourceReport
	Unique   int
	Excluded int
}

// Failed returns the number of sources that could not be fetched.
func (r Report) Failed() int {
	failed := 0
	for _, s := range r.Sources {
		if s.Err != nil {
			failed++
		}
	}
	return failed
}

// FetchError reports a source that was unreachable or answered with a
// non-success status.
type FetchError struct {
	SourceID string
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.SourceID, e.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
