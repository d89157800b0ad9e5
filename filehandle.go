// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package memfs

import "fmt"

// Whence is the anchor for a FileHandle.Seek call.
type Whence int

const (
	// SeekSet anchors the new cursor at an absolute offset.
	SeekSet Whence = iota
	// SeekCur anchors the new cursor relative to the current one.
	SeekCur
	// SeekEnd anchors the new cursor relative to the underlying inode's
	// current size.
	SeekEnd
)

// FileHandle couples a File to a per-opener seek cursor and forwards byte
// operations to the underlying Inode. Two FileHandles wrapping the same
// DataFile share the inode and therefore see each other's writes, but
// each has an independent cursor.
type FileHandle struct {
	file File
	seek int64
}

// NewFileHandle wraps file in a FileHandle with its seek cursor at 0.
func NewFileHandle(file File) *FileHandle {
	return &FileHandle{file: file}
}

// Read delegates to the underlying Inode's Read at the current cursor,
// then advances the cursor by the number of bytes read. h's File must be
// DataFile-kind, otherwise Read fails with ErrNotAFile.
func (h *FileHandle) Read(buf []byte) (int, error) {
	in, err := h.file.Inode()
	if err != nil {
		return 0, fmt.Errorf("memfs: filehandle read: %w", err)
	}

	n, err := in.Read(int(h.seek), buf)
	h.seek += int64(n)
	return n, err
}

// Write delegates to the underlying Inode's Write at the current cursor,
// then advances the cursor by the number of bytes written. h's File must
// be DataFile-kind, otherwise Write fails with ErrNotAFile.
func (h *FileHandle) Write(buf []byte) (int, error) {
	in, err := h.file.Inode()
	if err != nil {
		return 0, fmt.Errorf("memfs: filehandle write: %w", err)
	}

	n, err := in.Write(int(h.seek), buf)
	h.seek += int64(n)
	return n, err
}

// Seek computes a new cursor from delta and whence, sets it, and returns
// it. Seeking past the inode's current size is allowed: it does not
// allocate or extend the file by itself, but a subsequent Write at that
// position will. A computed cursor below zero fails with ErrInvalidSeek
// and leaves the cursor unchanged.
func (h *FileHandle) Seek(delta int64, whence Whence) (int64, error) {
	var next int64

	switch whence {
	case SeekSet:
		next = delta

	case SeekCur:
		next = h.seek + delta

	case SeekEnd:
		in, err := h.file.Inode()
		if err != nil {
			return 0, fmt.Errorf("memfs: filehandle seek: %w", err)
		}
		next = int64(in.Size()) + delta

	default:
		return 0, fmt.Errorf("memfs: filehandle seek: unknown whence %d", whence)
	}

	if next < 0 {
		return 0, fmt.Errorf("memfs: filehandle seek to %d: %w", next, ErrInvalidSeek)
	}

	h.seek = next
	return h.seek, nil
}
