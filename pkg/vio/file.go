package vio

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// File represents a regular file from the filesystem: a name, a length
// known up front, and sequential access to the contents.
type File interface {

	// Name returns the base name of the file, not a
	// full path (see filepath.Base).
	Name() string

	// Size returns the size of the file in bytes.
	Size() int64

	// Read implements io.Reader to retrieve file
	// contents.
	Read(p []byte) (n int, err error)

	// Close implements io.Closer.
	Close() error
}

// CustomFileArgs takes all elements that need to be provided
// to the CustomFile function.
type CustomFileArgs struct {
	Name       string
	Size       int64
	ReadCloser io.ReadCloser
}

// CustomFile makes it possible to construct a custom file
// that implements the File interface without necessarily
// being backed by an actual file on the filesystem.
func CustomFile(args CustomFileArgs) File {
	return &customFile{
		name: args.Name,
		size: args.Size,
		rc:   args.ReadCloser,
	}
}

type customFile struct {
	name string
	size int64
	rc   io.ReadCloser
}

func (f *customFile) Name() string {
	return f.name
}

func (f *customFile) Size() int64 {
	return f.size
}

func (f *customFile) Read(p []byte) (n int, err error) {
	return f.rc.Read(p)
}

func (f *customFile) Close() error {
	return f.rc.Close()
}

type lazyFile struct {
	path string
	size int64
	f    *os.File
}

func (f *lazyFile) Name() string {
	return filepath.Base(f.path)
}

func (f *lazyFile) Size() int64 {
	return f.size
}

func (f *lazyFile) Read(p []byte) (n int, err error) {
	if f.f == nil {
		f.f, err = os.Open(f.path)
		if err != nil {
			return 0, err
		}
	}
	return f.f.Read(p)
}

func (f *lazyFile) Close() error {
	if f.f == nil {
		return nil
	}
	return f.f.Close()
}

// LazyOpen stats path immediately but defers opening the file until the
// first read, so callers can inspect the size of many files without
// holding descriptors for all of them.
func LazyOpen(path string) (File, error) {

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if fi.IsDir() {
		return nil, errors.Errorf("'%s' is a directory", path)
	}

	return &lazyFile{
		path: path,
		size: fi.Size(),
	}, nil
}
