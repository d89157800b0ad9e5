// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

// Package memfs implements an in-memory, user-space filesystem core: a
// paged inode store plus a shared, aliasable File/Directory object graph.
//
// This package provides POSIX-like file and directory semantics backed
// entirely by process memory. It is meant to be driven by a higher layer
// (a shell, a FUSE adapter, a test harness) that resolves paths into the
// Inode/File/FileHandle operations exposed here; this package itself does
// no path parsing, mounting, or persistence.
//
// # Structure
//
// An Inode holds the paged byte contents and timestamps for one data
// file. A File is a small tagged handle: it names either a DataFile (a
// shared reference to an Inode), a Directory (a shared reference to a
// DirectoryContent name→File map), or Empty. Copying a File is cheap and
// aliases the same underlying Inode or DirectoryContent, so two File
// values can observe each other's mutations.
//
// A FileHandle wraps a File with a per-opener seek cursor and exposes
// Read/Write/Seek. Directory mutation (Insert/Remove/Get) happens
// directly on a directory-flavored File.
//
// # Concurrency
//
// The core is single-threaded: no operation blocks, and none is safe to
// re-enter against the same Inode or DirectoryContent from within itself
// (the package never does that). Inode and DirectoryContent still guard
// their state with a syncutil.InvariantMutex, not for cross-goroutine
// safety but so that a corrupted invariant panics at the point of misuse
// rather than silently producing bad data.
package memfs
