package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/atr2git/internal/atascii"
)

const (
	atasciiListing = "10 PRINT \"HI\"\x9b20 GOTO 10\x9b"
	utf8Listing    = "10 PRINT \"HI\"\n20 GOTO 10\n"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func TestConvert_Stdio(t *testing.T) {
	var out bytes.Buffer
	if err := runConvert(strings.NewReader(atasciiListing), &out, stdio, stdio, atascii.ToUTF8); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if out.String() != utf8Listing {
		t.Errorf("stdout = %q, want %q", out.String(), utf8Listing)
	}

	out.Reset()
	if err := runConvert(strings.NewReader(utf8Listing), &out, stdio, stdio, atascii.ToATASCII); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if out.String() != atasciiListing {
		t.Errorf("stdout = %q, want %q", out.String(), atasciiListing)
	}
}

func TestConvert_Files(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "HELLO.BAS")
	writeFile(t, in, atasciiListing)

	t.Run("file to file", func(t *testing.T) {
		out := filepath.Join(dir, "hello.txt")
		if err := runConvert(nil, nil, in, out, atascii.ToUTF8); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if got := readFile(t, out); got != utf8Listing {
			t.Errorf("output = %q, want %q", got, utf8Listing)
		}
	})

	t.Run("file into directory keeps name", func(t *testing.T) {
		outDir := filepath.Join(dir, "utf8")
		if err := os.Mkdir(outDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := runConvert(nil, nil, in, outDir, atascii.ToUTF8); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if got := readFile(t, filepath.Join(outDir, "HELLO.BAS")); got != utf8Listing {
			t.Errorf("output = %q, want %q", got, utf8Listing)
		}
	})

	t.Run("file to stdout", func(t *testing.T) {
		var out bytes.Buffer
		if err := runConvert(nil, &out, in, stdio, atascii.ToUTF8); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if out.String() != utf8Listing {
			t.Errorf("stdout = %q, want %q", out.String(), utf8Listing)
		}
	})

	t.Run("stdin to file", func(t *testing.T) {
		out := filepath.Join(dir, "BACK.BAS")
		if err := runConvert(strings.NewReader(utf8Listing), nil, stdio, out, atascii.ToATASCII); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if got := readFile(t, out); got != atasciiListing {
			t.Errorf("output = %q, want %q", got, atasciiListing)
		}
	})
}

func TestConvert_Directory(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "atascii")
	if err := os.Mkdir(inDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(inDir, "A.BAS"), atasciiListing)
	writeFile(t, filepath.Join(inDir, "B.LST"), "\x9b")
	writeFile(t, filepath.Join(inDir, ".hidden"), "skip")

	outDir := filepath.Join(dir, "utf8")
	var report bytes.Buffer
	if err := runConvert(nil, &report, inDir, outDir, atascii.ToUTF8); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if !strings.Contains(report.String(), "Converted 2 files") {
		t.Errorf("report = %q, want the converted file count", report.String())
	}

	if got := readFile(t, filepath.Join(outDir, "A.BAS")); got != utf8Listing {
		t.Errorf("A.BAS = %q, want %q", got, utf8Listing)
	}
	if got := readFile(t, filepath.Join(outDir, "B.LST")); got != "\n" {
		t.Errorf("B.LST = %q, want %q", got, "\n")
	}
	if _, err := os.Stat(filepath.Join(outDir, ".hidden")); !os.IsNotExist(err) {
		t.Errorf("hidden file should not be converted, stat err = %v", err)
	}
}

func TestConvert_InvalidCombinations(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "A.BAS")
	writeFile(t, file, atasciiListing)

	tests := []struct {
		name    string
		in, out string
	}{
		{"missing input", filepath.Join(dir, "nope"), stdio},
		{"stdin into directory", stdio, dir},
		{"directory to stdout", dir, stdio},
		{"directory to file", dir, file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runConvert(strings.NewReader(""), &bytes.Buffer{}, tt.in, tt.out, atascii.ToUTF8)
			if err == nil {
				t.Errorf("runConvert(%q, %q) expected error", tt.in, tt.out)
			}
		})
	}
}

func TestConvert_Unmappable(t *testing.T) {
	var out bytes.Buffer
	err := runConvert(strings.NewReader("bell\a"), &out, stdio, stdio, atascii.ToATASCII)
	if err == nil {
		t.Error("expected error for a rune with no ATASCII code")
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "HELLO.BAS")
	out := filepath.Join(dir, "hello.txt")
	writeFile(t, in, atasciiListing)

	if _, _, err := execute(t, "ata2utf", in, out); err != nil {
		t.Fatalf("ata2utf error = %v", err)
	}
	if got := readFile(t, out); got != utf8Listing {
		t.Errorf("output = %q, want %q", got, utf8Listing)
	}

	back := filepath.Join(dir, "BACK.BAS")
	if _, _, err := execute(t, "utf2ata", out, back); err != nil {
		t.Fatalf("utf2ata error = %v", err)
	}
	if got := readFile(t, back); got != atasciiListing {
		t.Errorf("round trip = %q, want %q", got, atasciiListing)
	}

	if _, _, err := execute(t, "ata2utf", "a", "b", "c"); err == nil {
		t.Error("expected error for too many arguments")
	}
}
