package atascii

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/danieljhkim/atr2git/internal/fsops"
	"golang.org/x/text/transform"
)

// Direction selects which way a conversion goes.
type Direction int

const (
	// ToUTF8 converts ATASCII input to UTF-8.
	ToUTF8 Direction = iota
	// ToATASCII converts UTF-8 input to ATASCII.
	ToATASCII
)

func (d Direction) String() string {
	if d == ToATASCII {
		return "utf8->atascii"
	}
	return "atascii->utf8"
}

func (d Direction) transformer() transform.Transformer {
	if d == ToATASCII {
		return Encoding.NewEncoder()
	}
	return Encoding.NewDecoder()
}

// Bytes converts a whole buffer.
func Bytes(data []byte, d Direction) ([]byte, error) {
	out, _, err := transform.Bytes(d.transformer(), data)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stream copies r to w, converting on the way.
func Stream(w io.Writer, r io.Reader, d Direction) error {
	if _, err := io.Copy(w, transform.NewReader(r, d.transformer())); err != nil {
		return fmt.Errorf("failed to convert %s: %w", d, err)
	}
	return nil
}

// Converter converts files and directories through an FS.
type Converter struct {
	fs fsops.FS
}

// NewConverter creates a Converter.
func NewConverter(fs fsops.FS) *Converter {
	return &Converter{fs: fs}
}

// ConvertFile converts the file in into out. out is replaced atomically.
func (c *Converter) ConvertFile(in, out string, d Direction) error {
	data, err := c.fs.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}
	converted, err := Bytes(data, d)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", in, err)
	}
	if err := c.fs.AtomicWrite(out, converted, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

// ConvertDirectory converts every non-hidden regular file of inDir into a
// file of the same name in outDir. Subdirectories are not visited. It
// returns the names written, in order.
func (c *Converter) ConvertDirectory(inDir, outDir string, d Direction) ([]string, error) {
	entries, err := c.fs.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", inDir, err)
	}
	if err := c.fs.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", outDir, err)
	}

	var written []string
	for _, entry := range entries {
		if fsops.IsHidden(entry.Name()) || !entry.Type().IsRegular() {
			continue
		}
		in := filepath.Join(inDir, entry.Name())
		out := filepath.Join(outDir, entry.Name())
		if err := c.ConvertFile(in, out, d); err != nil {
			return written, err
		}
		written = append(written, entry.Name())
	}
	return written, nil
}
