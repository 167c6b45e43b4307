package io

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files and
// directories. The dump writer emits its section files through it, so tests
// and embedders can capture dumps without touching the real file system.
type CreateFS interface {
	// Sub returns a filesystem for a subdirectory.
	Sub(name string) (sub CreateFS, err error)
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
	// Mkdir creates a new directory with the specified permissions.
	Mkdir(name string, filemode fs.FileMode) (err error)
}

type dirFS string

// DirFS returns a CreateFS rooted at an existing directory.
func DirFS(path string) CreateFS {
	return dirFS(path)
}

func (d dirFS) Sub(name string) (sub CreateFS, err error) {
	path := filepath.Join(string(d), name)
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = fs.ErrInvalid
		return
	}
	sub = dirFS(path)

	return
}

func (d dirFS) Create(name string) (file io.WriteCloser, err error) {
	return os.Create(filepath.Join(string(d), name))
}

func (d dirFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	return os.Mkdir(filepath.Join(string(d), name), filemode)
}
