package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/shandysiswandi/godataset/internal/dataset/entity"
	"github.com/shandysiswandi/godataset/internal/pkg/pkgerror"
	"github.com/spf13/afero"
)

// ErrUnsafeFilename is wrapped by the validation error returned for names that
// could escape the store directory.
var ErrUnsafeFilename = errors.New("unsafe filename")

const (
	maxFilenameLen = 255
	tempPrefix     = ".upload-"
)

// FileStore keeps uploaded datasets as flat files in one directory.
//
// There is no locking: two concurrent Saves of the same filename race and the
// last writer wins.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore returns a store rooted at dir on the OS filesystem, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}

	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// NewStore wraps an existing filesystem whose root is the dataset directory.
func NewStore(fsys afero.Fs) *FileStore {
	return &FileStore{fs: fsys}
}

// ValidateFilename rejects names that are empty, too long, equal to "." or "..",
// contain a path separator or NUL byte, or collide with in-flight temp files.
func ValidateFilename(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: filename is required", ErrUnsafeFilename)
	case len(name) > maxFilenameLen:
		return fmt.Errorf("%w: filename longer than %d bytes", ErrUnsafeFilename, maxFilenameLen)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrUnsafeFilename, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrUnsafeFilename, name)
	case strings.HasPrefix(name, tempPrefix):
		return fmt.Errorf("%w: %q uses a reserved prefix", ErrUnsafeFilename, name)
	}
	return nil
}

// Save writes r to a temporary file and renames it over filename, so a failed
// or oversized upload never leaves a truncated dataset behind.
func (s *FileStore) Save(ctx context.Context, filename string, r io.Reader) (entity.StoredFile, error) {
	if err := ValidateFilename(filename); err != nil {
		return entity.StoredFile{}, pkgerror.NewInvalidInput(err)
	}

	tmp, err := afero.TempFile(s.fs, "/", tempPrefix+"*")
	if err != nil {
		return entity.StoredFile{}, pkgerror.NewServer(fmt.Errorf("create temp file: %w", err))
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(tmpName)
		return entity.StoredFile{}, pkgerror.NewServer(fmt.Errorf("write %s: %w", filename, err))
	}

	if err := s.fs.Chmod(tmpName, 0o644); err != nil {
		_ = s.fs.Remove(tmpName)
		return entity.StoredFile{}, pkgerror.NewServer(fmt.Errorf("chmod %s: %w", filename, err))
	}

	if err := s.fs.Rename(tmpName, filename); err != nil {
		_ = s.fs.Remove(tmpName)
		return entity.StoredFile{}, pkgerror.NewServer(fmt.Errorf("rename %s: %w", filename, err))
	}

	return entity.StoredFile{Filename: filename, Size: n}, nil
}

// Load returns the bytes stored under filename, or pkgerror.ErrNotFound.
func (s *FileStore) Load(ctx context.Context, filename string) ([]byte, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, pkgerror.NewInvalidInput(err)
	}

	info, err := s.fs.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerror.ErrNotFound
		}
		return nil, pkgerror.NewServer(fmt.Errorf("stat %s: %w", filename, err))
	}
	if info.IsDir() {
		return nil, pkgerror.ErrNotFound
	}

	data, err := afero.ReadFile(s.fs, filename)
	if err != nil {
		return nil, pkgerror.NewServer(fmt.Errorf("read %s: %w", filename, err))
	}

	return data, nil
}

// List returns stored filenames in directory order (sorted by name).
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		return nil, pkgerror.NewServer(fmt.Errorf("list datasets: %w", err))
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || strings.HasPrefix(info.Name(), tempPrefix) {
			continue
		}
		names = append(names, info.Name())
	}

	return names, nil
}
