package blocklist

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestExtractHost(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"127.0.0.1 example.com", "example.com", true},
		{"127.0.0.1 example.com # comment", "example.com", true},
		{"127.0.0.1 example.com#comment", "example.com", true},
		{"127.0.0.1   example.com", "example.com", true},
		{"0.0.0.0\tads.example.com", "ads.example.com", true},
		{"0.0.0.0 ads.example.com\r", "ads.example.com", true},
		{"0.0.0.0 Mixed.Case.COM", "Mixed.Case.COM", true},
		{"0.0.0.0 a.com b.com", "a.com b.com", true},
		{"127.0.0.1", "", false},
		{"localhost", "", false},
		{"127.0.0.1 #nohost", "", false},
		{"127.0.0.1 #comment", "", false},
		{"127.0.0.1#comment example.com", "", false},
		{"# a comment line", "", false},
		{"#127.0.0.1 example.com", "", false},
		{"   ", "", false},
		{"", "", false},
		{" example.com", "example.com", true},
	}

	for _, tt := range tests {
		got, ok := ExtractHost(tt.line)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractHost(%q) = (%q, %t), want (%q, %t)", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractHostNoWhitespace(t *testing.T) {
	for _, line := range []string{"example.com", "0.0.0.0", "a#b", "#", "x"} {
		if host, ok := ExtractHost(line); ok {
			t.Errorf("ExtractHost(%q) = %q, want no value", line, host)
		}
	}
}

func TestExtractHostCommentBeforeWhitespace(t *testing.T) {
	for _, line := range []string{"#0.0.0.0 a.com", "0.0.0.0# a.com", "##  a.com #"} {
		if host, ok := ExtractHost(line); ok {
			t.Errorf("ExtractHost(%q) = %q, want no value", line, host)
		}
	}
}

func TestParseListCollectsHosts(t *testing.T) {
	input := strings.Join([]string{
		"\ufeff# Comment line",
		"127.0.0.1 bad.example.com",
		"0.0.0.0 also.bad.example.com # trailing comment",
		"bare.example.net",
		"127.0.0.1 bad.example.com",
		"",
	}, "\r\n")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	set := NewHostSet()
	stats, err := parseList(strings.NewReader(input), set, parseOptions{ListID: "test", Logger: logger})
	if err != nil {
		t.Fatalf("parseList returned error: %v", err)
	}

	if stats.TotalLines != 5 {
		t.Errorf("TotalLines = %d, want 5", stats.TotalLines)
	}
	if stats.Hosts != 3 {
		t.Errorf("Hosts = %d, want 3", stats.Hosts)
	}
	if stats.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", stats.Skipped)
	}
	if set.Len() != 2 {
		t.Errorf("set.Len() = %d, want 2", set.Len())
	}
	for _, host := range []string{"bad.example.com", "also.bad.example.com"} {
		if !set.Contains(host) {
			t.Errorf("expected %s in set", host)
		}
	}
	if set.Contains("bare.example.net") {
		t.Error("bare hostnames have no address field and must be skipped")
	}
}

func TestParseListLongLine(t *testing.T) {
	long := "0.0.0.0 " + strings.Repeat("a", 100*1024) + ".com"
	set := NewHostSet()
	if _, err := parseList(strings.NewReader(long), set, parseOptions{ListID: "long"}); err != nil {
		t.Fatalf("parseList returned error: %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("set.Len() = %d, want 1", set.Len())
	}
}

func TestParseListLoneCarriageReturns(t *testing.T) {
	set := NewHostSet()
	stats, err := parseList(strings.NewReader("0.0.0.0 a.com\r0.0.0.0 b.com\r"), set, parseOptions{ListID: "mac"})
	if err != nil {
		t.Fatalf("parseList returned error: %v", err)
	}
	if stats.TotalLines != 2 || stats.Hosts != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if got := set.Sorted(); !slices.Equal(got, []string{"a.com", "b.com"}) {
		t.Errorf("hosts = %q, want [a.com b.com]", got)
	}
}

func TestParseListSkipsOversizedLine(t *testing.T) {
	input := "0.0.0.0 " + strings.Repeat("a", 2*maxLineSize) + ".com\n0.0.0.0 small.example.com\n"
	set := NewHostSet()
	stats, err := parseList(strings.NewReader(input), set, parseOptions{ListID: "huge"})
	if err != nil {
		t.Fatalf("parseList returned error: %v", err)
	}
	if stats.Skipped != 1 || stats.Hosts != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if got := set.Sorted(); !slices.Equal(got, []string{"small.example.com"}) {
		t.Errorf("hosts = %v, want [small.example.com]", got)
	}
}
