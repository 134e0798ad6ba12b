// Package archive unpacks release archives into a destination directory.
//
// Supported formats are detected from the file name suffix: tar.gz, tar.xz,
// tar.bz2, tar.zst, tar.lz, plain tar, and zip. Extraction defends against
// path traversal and symlink escape attacks; entries that would land outside
// the destination directory abort the whole extraction.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	lzip "github.com/sorairolake/lzip-go"
	"github.com/ulikunitz/xz"
)

// Options adjusts how an archive is unpacked.
type Options struct {
	// StripComponents drops this many leading path elements from every
	// entry, like tar --strip-components. Source tarballs from GitHub wrap
	// everything in a "<repo>-<tag>/" directory; stripping one component
	// unpacks the tree directly into the destination.
	StripComponents int
}

// Extract unpacks archivePath into destDir, creating destDir if needed.
// The format is inferred from the archive file name.
func Extract(archivePath, destDir string, opts Options) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	switch format := detectFormat(archivePath); format {
	case "zip":
		return extractZip(archivePath, destDir, opts.StripComponents)
	case "unknown":
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	default:
		return extractTar(archivePath, destDir, format, opts.StripComponents)
	}
}

// detectFormat maps a file name to an archive format by its suffix.
func detectFormat(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return "tar.gz"
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return "tar.xz"
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"), strings.HasSuffix(lower, ".tbz"):
		return "tar.bz2"
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		return "tar.zst"
	case strings.HasSuffix(lower, ".tar.lz"), strings.HasSuffix(lower, ".tlz"):
		return "tar.lz"
	case strings.HasSuffix(lower, ".tar"):
		return "tar"
	case strings.HasSuffix(lower, ".zip"):
		return "zip"
	}
	return "unknown"
}

func extractTar(archivePath, destDir, format string, strip int) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader, cleanup, err := newDecompressor(file, format)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	return extractTarEntries(tar.NewReader(reader), destDir, strip)
}

// newDecompressor wraps the raw archive stream in the decoder matching
// format. The returned cleanup func, when non-nil, releases decoder state.
func newDecompressor(file *os.File, format string) (io.Reader, func(), error) {
	switch format {
	case "tar":
		return file, nil, nil
	case "tar.gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	case "tar.xz":
		xzr, err := xz.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzr, nil, nil
	case "tar.bz2":
		return bzip2.NewReader(file), nil, nil
	case "tar.zst":
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	case "tar.lz":
		lz, err := lzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create lzip reader: %w", err)
		}
		return lz, nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported archive format: %s", format)
}

func extractTarEntries(tr *tar.Reader, destDir string, strip int) error {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %w", err)
		}

		relPath, ok := stripPath(header.Name, strip)
		if !ok {
			continue
		}

		targetPath := filepath.Join(destDir, relPath)
		if !isPathWithinDirectory(targetPath, destDir) {
			return fmt.Errorf("archive entry escapes destination directory: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", relPath, err)
			}
		case tar.TypeReg:
			if err := writeFileEntry(targetPath, tr, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to extract %s: %w", relPath, err)
			}
		case tar.TypeSymlink:
			if err := validateSymlinkTarget(header.Linkname, targetPath, destDir); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fmt.Errorf("failed to create directory for %s: %w", relPath, err)
			}
			if err := atomicSymlink(header.Linkname, targetPath); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", relPath, err)
			}
		}
	}
	return nil
}

func extractZip(archivePath, destDir string, strip int) error {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer func() { _ = zipReader.Close() }()

	for _, f := range zipReader.File {
		relPath, ok := stripPath(f.Name, strip)
		if !ok {
			continue
		}

		targetPath := filepath.Join(destDir, relPath)
		if !isPathWithinDirectory(targetPath, destDir) {
			return fmt.Errorf("archive entry escapes destination directory: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", relPath, err)
			}
			continue
		}

		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open zip entry %s: %w", f.Name, err)
		}
		err = writeFileEntry(targetPath, src, f.Mode())
		_ = src.Close()
		if err != nil {
			return fmt.Errorf("failed to extract %s: %w", relPath, err)
		}
	}
	return nil
}

// stripPath removes the leading "./" and the first strip path elements
// from an entry name. It reports false when nothing remains.
func stripPath(name string, strip int) (string, bool) {
	cleanPath := strings.TrimPrefix(name, "./")
	parts := strings.Split(cleanPath, "/")
	if len(parts) <= strip {
		return "", false
	}
	return filepath.Join(parts[strip:]...), true
}

func writeFileEntry(targetPath string, src io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return err
	}
	dst, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// isPathWithinDirectory reports whether targetPath stays inside basePath
// after resolving to absolute form.
func isPathWithinDirectory(targetPath, basePath string) bool {
	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return false
	}
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return false
	}
	if absTarget == absBase {
		return true
	}
	return strings.HasPrefix(absTarget, absBase+string(filepath.Separator))
}

// validateSymlinkTarget rejects absolute link targets and relative targets
// that resolve outside the destination directory.
func validateSymlinkTarget(linkTarget, linkLocation, destPath string) error {
	if filepath.IsAbs(linkTarget) {
		return fmt.Errorf("absolute symlink target not allowed: %s -> %s", linkLocation, linkTarget)
	}
	resolvedTarget := filepath.Join(filepath.Dir(linkLocation), linkTarget)
	if !isPathWithinDirectory(resolvedTarget, destPath) {
		return fmt.Errorf("symlink target escapes destination directory: %s -> %s (resolves to %s)",
			linkLocation, linkTarget, resolvedTarget)
	}
	return nil
}

// atomicSymlink creates or replaces a symlink via a temporary name and
// rename, so a concurrent reader never observes a missing link.
func atomicSymlink(target, linkPath string) error {
	tmpLink := linkPath + ".tmp"
	_ = os.Remove(tmpLink)
	if err := os.Symlink(target, tmpLink); err != nil {
		return err
	}
	if err := os.Rename(tmpLink, linkPath); err != nil {
		_ = os.Remove(tmpLink)
		return err
	}
	return nil
}
