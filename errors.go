// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package memfs

import "errors"

// Sentinel error kinds. Callers should use errors.Is against these rather
// than comparing strings; each is returned wrapped with call-site context
// via fmt.Errorf's %w verb.
var (
	// ErrFileTooLarge is returned by Inode.Write when offset+len would
	// address a page number beyond the inode's direct+indirect capacity.
	ErrFileTooLarge = errors.New("memfs: file too large")

	// ErrPageOutOfRange is returned by Inode.Read when offset+len
	// addresses a page number beyond the inode's capacity.
	ErrPageOutOfRange = errors.New("memfs: page out of range")

	// ErrUnallocatedRead is returned by Inode.Read when the read touches
	// a page that was never written, within the inode's capacity.
	ErrUnallocatedRead = errors.New("memfs: read touches unallocated page")

	// ErrNotADirectory is returned by File.Insert, File.Remove and
	// File.Get when the receiver is not a Directory-flavored File.
	ErrNotADirectory = errors.New("memfs: not a directory")

	// ErrNotAFile is returned by FileHandle.Read and FileHandle.Write
	// when the underlying File is not a DataFile-flavored File.
	ErrNotAFile = errors.New("memfs: not a data file")

	// ErrInvalidSeek is returned by FileHandle.Seek when the computed
	// cursor would be negative.
	ErrInvalidSeek = errors.New("memfs: invalid seek")
)
