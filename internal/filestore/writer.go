package filestore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/rpzsync/internal/common"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// WriteOptions holds options for atomic file writes
type WriteOptions struct {
	CreateDirs  bool
	Permissions os.FileMode
	Timeout     time.Duration
}

// DefaultWriteOptions returns sensible write options
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		CreateDirs:  false,
		Permissions: 0644,
		Timeout:     30 * time.Second,
	}
}

// Writer persists fetched zone content to local paths. Writes are atomic: the
// destination either keeps its previous content or holds the complete new
// content, never a partial mix.
type Writer struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewWriter creates a Writer backed by the OS filesystem.
func NewWriter(logger zerolog.Logger) *Writer {
	return NewWriterWithFs(afero.NewOsFs(), logger)
}

// NewWriterWithFs creates a Writer backed by the given filesystem.
func NewWriterWithFs(fs afero.Fs, logger zerolog.Logger) *Writer {
	return &Writer{
		fs:     fs,
		logger: logger.With().Str("component", "FileWriter").Logger(),
	}
}

// WriteFileAtomic writes data to path by writing a temporary file in the same
// directory and renaming it over the destination. On failure the previous
// content of path, if any, remains intact.
func (w *Writer) WriteFileAtomic(ctx context.Context, path string, data []byte, opts WriteOptions) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- w.performAtomicWrite(path, data, opts)
	}()

	select {
	case <-ctx.Done():
		w.logger.Warn().Str("path", path).Msg("File write cancelled due to context timeout")
		return common.NewWriteError(path, "write", ctx.Err())
	case err := <-done:
		if err != nil {
			return err
		}
	}

	w.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}

// performAtomicWrite performs the actual temp-write-then-rename sequence.
func (w *Writer) performAtomicWrite(path string, data []byte, opts WriteOptions) error {
	dir := filepath.Dir(path)

	if opts.CreateDirs {
		if err := w.fs.MkdirAll(dir, 0755); err != nil {
			return common.NewWriteError(path, "create parent directory", err)
		}
	} else {
		info, err := w.fs.Stat(dir)
		if err != nil {
			return common.NewWriteError(path, "stat parent directory", err)
		}
		if !info.IsDir() {
			return common.NewWriteError(path, "stat parent directory", common.NewError("%s is not a directory", dir))
		}
	}

	tmpFile, err := afero.TempFile(w.fs, dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return common.NewWriteError(path, "create temporary file", err)
	}
	tmpName := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = w.fs.Remove(tmpName)
		return common.NewWriteError(path, "write temporary file", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = w.fs.Remove(tmpName)
		return common.NewWriteError(path, "close temporary file", err)
	}

	if err := w.fs.Chmod(tmpName, opts.Permissions); err != nil {
		w.logger.Warn().Err(err).Str("path", tmpName).Msg("Failed to set permissions on temporary file")
	}

	if err := w.fs.Rename(tmpName, path); err != nil {
		_ = w.fs.Remove(tmpName)
		return common.NewWriteError(path, "rename temporary file", err)
	}

	return nil
}

// ReadFileIfExists returns the content of path, or (nil, nil) when the file
// does not exist.
func (w *Writer) ReadFileIfExists(path string) ([]byte, error) {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, common.WrapErrorf(err, "reading %s", path)
	}
	return data, nil
}

// FileExists reports whether path exists on the backing filesystem.
func (w *Writer) FileExists(path string) bool {
	exists, err := afero.Exists(w.fs, path)
	return err == nil && exists
}
