package patch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	lzip "github.com/sorairolake/lzip-go"
	"github.com/ulikunitz/xz"
)

// Format is the compression container a patch artifact ships in.
type Format int

const (
	FormatUnknown Format = iota
	FormatGzip
	FormatXZ
	FormatLzip
	FormatZip
)

func (f Format) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatXZ:
		return "xz"
	case FormatLzip:
		return "lzip"
	case FormatZip:
		return "zip"
	default:
		return "unknown"
	}
}

// Container magic numbers.
var (
	magicGzip = []byte{0x1f, 0x8b}
	magicXZ   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicLzip = []byte{'L', 'Z', 'I', 'P'}
	magicZip  = []byte{'P', 'K', 0x03, 0x04}
)

// DetectFormat sniffs the container format from the artifact's
// leading bytes.
func DetectFormat(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, magicXZ):
		return FormatXZ
	case bytes.HasPrefix(header, magicGzip):
		return FormatGzip
	case bytes.HasPrefix(header, magicLzip):
		return FormatLzip
	case bytes.HasPrefix(header, magicZip):
		return FormatZip
	default:
		return FormatUnknown
	}
}

// ValidateContainer sniffs the artifact's format and decompresses the
// whole stream to confirm the container is intact before the patch is
// handed to the installer. Returns the detected format.
func ValidateContainer(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("opening patch artifact: %w", err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("reading patch header: %w", err)
	}
	format := DetectFormat(header[:n])

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return format, err
	}

	switch format {
	case FormatGzip:
		r, err := gzip.NewReader(f)
		if err != nil {
			return format, fmt.Errorf("corrupt gzip container: %w", err)
		}
		defer r.Close()
		if _, err := io.Copy(io.Discard, r); err != nil {
			return format, fmt.Errorf("corrupt gzip container: %w", err)
		}
	case FormatXZ:
		r, err := xz.NewReader(f)
		if err != nil {
			return format, fmt.Errorf("corrupt xz container: %w", err)
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			return format, fmt.Errorf("corrupt xz container: %w", err)
		}
	case FormatLzip:
		r, err := lzip.NewReader(f)
		if err != nil {
			return format, fmt.Errorf("corrupt lzip container: %w", err)
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			return format, fmt.Errorf("corrupt lzip container: %w", err)
		}
	case FormatZip:
		info, err := f.Stat()
		if err != nil {
			return format, err
		}
		zr, err := zip.NewReader(f, info.Size())
		if err != nil {
			return format, fmt.Errorf("corrupt zip container: %w", err)
		}
		for _, entry := range zr.File {
			rc, err := entry.Open()
			if err != nil {
				return format, fmt.Errorf("corrupt zip entry %s: %w", entry.Name, err)
			}
			_, err = io.Copy(io.Discard, rc)
			rc.Close()
			if err != nil {
				return format, fmt.Errorf("corrupt zip entry %s: %w", entry.Name, err)
			}
		}
	default:
		return format, fmt.Errorf("unrecognized patch container format")
	}

	return format, nil
}
