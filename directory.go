// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package memfs

import "fmt"

// Insert adds or replaces the entry name→child in the directory f. f must
// be Directory-kind, otherwise Insert fails with ErrNotADirectory.
func (f File) Insert(name string, child File) error {
	if f.kind != KindDirectory {
		return fmt.Errorf("memfs: insert %q: %w", name, ErrNotADirectory)
	}

	f.dir.mu.Lock()
	defer f.dir.mu.Unlock()

	f.dir.entries[name] = child
	return nil
}

// Remove deletes the entry named name from the directory f, if present.
// Removing an absent name is a silent no-op. f must be Directory-kind,
// otherwise Remove fails with ErrNotADirectory.
func (f File) Remove(name string) error {
	if f.kind != KindDirectory {
		return fmt.Errorf("memfs: remove %q: %w", name, ErrNotADirectory)
	}

	f.dir.mu.Lock()
	defer f.dir.mu.Unlock()

	delete(f.dir.entries, name)
	return nil
}

// Get returns a cheap handle-clone of the child named name in directory
// f, and whether it was present. The returned File shares the underlying
// Inode or DirectoryContent with the stored entry. f must be
// Directory-kind, otherwise Get fails with ErrNotADirectory.
func (f File) Get(name string) (File, bool, error) {
	if f.kind != KindDirectory {
		return File{}, false, fmt.Errorf("memfs: get %q: %w", name, ErrNotADirectory)
	}

	f.dir.mu.RLock()
	defer f.dir.mu.RUnlock()

	child, ok := f.dir.entries[name]
	return child, ok, nil
}
