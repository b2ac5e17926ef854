// Package hostsfile renders and writes the merged hosts file.
package hostsfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// BlockAddress is the address every blocked host is mapped to.
const BlockAddress = "0.0.0.0"

// DefaultName is the file name used next to the executable.
const DefaultName = "hosts"

// Header is the attribution banner written above the entries.
const Header = `
#===DO NOT ADD HOSTS BELOW THIS LINE===

# This file comes from the combination of several different hosts files
# Thank you to:
#
## Kicelo, Dominik Schuermann from AdAway
### https://github.com/AdAway/adaway.github.io/blob/master/hosts.txt
#
## Peter Lowe from yoyo.org
### https://pgl.yoyo.org/adservers/
#
## Dan Pollock from someonewhocares.org
### http://someonewhocares.org/hosts/zero/
#
## Everyone from malwaredomainlist.com
### http://www.malwaredomainlist.com/forums/index.php?topic=3270.0
#
# Without them, this file would not be possible

`

// Footer closes the generated section.
const Footer = "#===DO NOT ADD HOSTS ABOVE THIS LINE===\n"

// Document is a complete generated hosts file.
type Document struct {
	Header  string
	Entries []string
	Footer  string
}

// New returns a Document with the standard banner around hosts. hosts must
// already be sorted and unique.
func New(hosts []string) Document {
	return Document{Header: Header, Entries: hosts, Footer: Footer}
}

// Render writes the document to w.
func (d Document) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(d.Header); err != nil {
		return err
	}
	for _, host := range d.Entries {
		if _, err := fmt.Fprintf(bw, "%s %s\n", BlockAddress, host); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString(d.Footer); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile replaces path with the rendered document. The content goes to a
// temporary file in the same directory first, so a failed run leaves the
// previous file untouched.
func WriteFile(fs afero.Fs, path string, doc Document) (err error) {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fs.Remove(tmpName)
		}
	}()

	if err := doc.Render(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := fs.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}

// DefaultPath returns the hosts file path next to the running executable.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultName), nil
}
