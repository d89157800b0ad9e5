// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package memfs

import (
	"fmt"
	"sort"

	"github.com/jacobsa/syncutil"
)

// Kind identifies which variant of the File tagged union a value holds,
// so a caller can distinguish a zero-value File from a DataFile in
// addition to testing IsDir.
type Kind int

const (
	// KindEmpty is the zero value of Kind: a File carrying no payload.
	KindEmpty Kind = iota
	// KindDataFile identifies a File wrapping a shared *Inode.
	KindDataFile
	// KindDirectory identifies a File wrapping a shared *DirectoryContent.
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindDataFile:
		return "data-file"
	case KindDirectory:
		return "directory"
	default:
		return "empty"
	}
}

// DirectoryContent is the name→File entry map owned by a Directory-kind
// File. Multiple File values may share one DirectoryContent; mutation
// through any of them is visible through all of them.
type DirectoryContent struct {
	mu      syncutil.InvariantMutex
	entries map[string]File
}

func newDirectoryContent() *DirectoryContent {
	d := &DirectoryContent{entries: make(map[string]File)}
	d.mu = syncutil.NewInvariantMutex(d.checkInvariants)
	return d
}

// LOCKS_REQUIRED(d.mu)
func (d *DirectoryContent) checkInvariants() {
	if d.entries == nil {
		panic("memfs: directory content has nil entries map")
	}
}

// Len returns the number of entries currently in the directory.
func (d *DirectoryContent) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.entries)
}

// Names returns a sorted snapshot of the directory's entry names. It does
// not expose the live map, so callers cannot bypass Insert/Remove to
// mutate entries directly.
func (d *DirectoryContent) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// File is a tagged handle identifying either an Inode (DataFile), a
// DirectoryContent (Directory), or nothing (Empty). Copying a File value
// is cheap: it duplicates the tag and the pointer, not the underlying
// Inode or DirectoryContent, so aliasing is just ordinary Go pointer
// sharing.
type File struct {
	kind  Kind
	inode *Inode
	dir   *DirectoryContent
}

// NewDataFile returns a DataFile-kind File wrapping the given inode.
func NewDataFile(inode *Inode) File {
	return File{kind: KindDataFile, inode: inode}
}

// NewDirectory returns a Directory-kind File with an empty entries map.
//
// parent is reserved for a future "." / ".." auto-entry feature and is
// always ignored: wiring a parent reference here creates a reference
// cycle through the shared-ownership mechanism. Go's garbage collector
// tolerates such cycles, but the feature is still undecided at the
// semantic level (should "." resolve through Get? should it show up in
// Names?), so it stays unimplemented and the argument stays unused on
// purpose.
func NewDirectory(parent *File) File {
	_ = parent
	return File{kind: KindDirectory, dir: newDirectoryContent()}
}

// Kind reports which variant of the tagged union f holds.
func (f File) Kind() Kind {
	return f.kind
}

// IsDir reports whether f is a Directory-kind File.
func (f File) IsDir() bool {
	return f.kind == KindDirectory
}

// Inode returns the *Inode backing f, which must be DataFile-kind.
func (f File) Inode() (*Inode, error) {
	if f.kind != KindDataFile {
		return nil, fmt.Errorf("memfs: inode of %s file: %w", f.kind, ErrNotAFile)
	}

	return f.inode, nil
}
