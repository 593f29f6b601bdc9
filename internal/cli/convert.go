package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/atr2git/internal/atascii"
	"github.com/danieljhkim/atr2git/internal/fsops"
)

// stdio is the path argument meaning stdin or stdout.
const stdio = "-"

var ata2utfCmd = newConvertCmd("ata2utf", "Convert ATASCII to UTF-8", atascii.ToUTF8)

var utf2ataCmd = newConvertCmd("utf2ata", "Convert UTF-8 to ATASCII", atascii.ToATASCII)

func newConvertCmd(name, short string, d atascii.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [in] [out]",
		Short: short,
		Long: short + `.

in and out default to "-", meaning stdin and stdout. in may be a file or a
directory; a directory is converted file by file into the out directory.
A file converted into an existing directory keeps its name.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := stdio, stdio
			if len(args) > 0 {
				in = args[0]
			}
			if len(args) > 1 {
				out = args[1]
			}
			return runConvert(cmd.InOrStdin(), cmd.OutOrStdout(), in, out, d)
		},
	}
}

type pathKind int

const (
	kindStdio pathKind = iota
	kindMissing
	kindFile
	kindDir
)

func kindOf(path string) (pathKind, error) {
	if path == stdio {
		return kindStdio, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return kindMissing, nil
	}
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return kindDir, nil
	}
	return kindFile, nil
}

func runConvert(stdin io.Reader, stdout io.Writer, in, out string, d atascii.Direction) error {
	inKind, err := kindOf(in)
	if err != nil {
		return err
	}
	outKind, err := kindOf(out)
	if err != nil {
		return err
	}

	fs := fsops.NewRealFS()
	conv := atascii.NewConverter(fs)

	switch inKind {
	case kindMissing:
		return fmt.Errorf("input %s: %w", in, os.ErrNotExist)

	case kindStdio:
		switch outKind {
		case kindStdio:
			return atascii.Stream(stdout, stdin, d)
		case kindDir:
			return fmt.Errorf("cannot convert stdin into directory %s", out)
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		converted, err := atascii.Bytes(data, d)
		if err != nil {
			return fmt.Errorf("failed to convert %s: %w", d, err)
		}
		return fs.AtomicWrite(out, converted, 0644)

	case kindFile:
		switch outKind {
		case kindStdio:
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			return atascii.Stream(stdout, f, d)
		case kindDir:
			out = filepath.Join(out, filepath.Base(in))
		}
		return conv.ConvertFile(in, out, d)

	case kindDir:
		if outKind == kindStdio || outKind == kindFile {
			return fmt.Errorf("directory %s must be converted into a directory", in)
		}
		written, err := conv.ConvertDirectory(in, out, d)
		if err != nil {
			return err
		}
		newPrinter(stdout).Success(fmt.Sprintf("Converted %s (%s)", countOf(len(written), "file", "files"), d))
		return nil
	}

	return nil
}
