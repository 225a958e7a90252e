package properties

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	javaprops "github.com/magiconair/properties"
	"golang.org/x/text/encoding/charmap"
)

const tempFilePrefix = "corenlp_server-"

// ReadFile loads an ISO-8859-1 encoded Java property file.
func ReadFile(path string) (Layer, error) {
	p, err := javaprops.LoadFile(path, javaprops.ISO_8859_1)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file %s: %w", path, err)
	}
	return FromStrings(p.Map()), nil
}

// WriteFile writes l as "key = value" pairs separated by blank lines,
// ISO-8859-1 encoded. Keys are written in sorted order.
func WriteFile(path string, l Layer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create properties file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(charmap.ISO8859_1.NewEncoder().Writer(f))
	for _, k := range l.Keys() {
		line := escapeKey(k) + " = " + escapeValue(l[k].String()) + "\n\n"
		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("failed to write properties file %s: %w", path, err)
		}
	}
	return w.Flush()
}

// TempFilePath returns a fresh path of the form
// <dir>/corenlp_server-<16 hex chars>.props. An empty dir means os.TempDir.
func TempFilePath(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return filepath.Join(dir, tempFilePrefix+id+".props")
}

// WriteTempFile writes l to a new TempFilePath and returns the path.
func WriteTempFile(dir string, l Layer) (string, error) {
	path := TempFilePath(dir)
	if err := WriteFile(path, l); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func escapeKey(k string) string {
	var b strings.Builder
	for _, r := range k {
		switch r {
		case ' ', '=', ':', '#', '!':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			writeEscapedRune(&b, r)
		}
	}
	return b.String()
}

func escapeValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		writeEscapedRune(&b, r)
	}
	return b.String()
}

func writeEscapedRune(b *strings.Builder, r rune) {
	switch {
	case r == '\\':
		b.WriteString(`\\`)
	case r == '\n':
		b.WriteString(`\n`)
	case r == '\r':
		b.WriteString(`\r`)
	case r == '\t':
		b.WriteString(`\t`)
	case r > 0xff:
		// outside Latin-1; surrogate pairs for runes beyond the BMP
		if r > 0xffff {
			r -= 0x10000
			fmt.Fprintf(b, `\u%04x\u%04x`, 0xd800+(r>>10), 0xdc00+(r&0x3ff))
			return
		}
		fmt.Fprintf(b, `\u%04x`, r)
	default:
		b.WriteRune(r)
	}
}
