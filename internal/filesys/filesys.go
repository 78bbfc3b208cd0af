// Package filesys abstracts the small slice of file-system access the
// resolvq config loader needs, so tests can swap in fakes instead of
// touching the real disk.
package filesys

import (
	"io/fs"
	"os"
)

// ReadWriteFS is the tiny surface the config loader needs. It is
// intentionally smaller than the os package because callers never need
// random-access writes or directory iteration.
type ReadWriteFS interface {
	Stat(string) (fs.FileInfo, error)
	MkdirAll(string, os.FileMode) error
	Open(string) (*os.File, error)
	WriteFile(string, []byte, os.FileMode) error
}

// OS returns a file system implementation that delegates to the
// standard library.
func OS() OsFS {
	return OsFS{}
}

// OsFS implements ReadWriteFS against the local disk.
type OsFS struct{}

func (OsFS) Stat(p string) (fs.FileInfo, error)                { return os.Stat(p) }
func (OsFS) MkdirAll(p string, m os.FileMode) error            { return os.MkdirAll(p, m) }
func (OsFS) Open(p string) (*os.File, error)                   { return os.Open(p) }
func (OsFS) WriteFile(p string, b []byte, m os.FileMode) error { return os.WriteFile(p, b, m) }

var _ ReadWriteFS = OsFS{}
