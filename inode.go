// Copyright 2015 Google Inc. All Rights Reserved.
// Author: jacobsa@google.com (Aaron Jacobs)

package memfs

import (
	"fmt"
	"time"

	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"
)

const (
	// pageSize is the fixed size, in bytes, of one page of inode storage.
	pageSize = 4096

	// directSlots is the number of direct page pointers (the single
	// array) an inode holds.
	directSlots = 256

	// indirectSlots is the number of indirect blocks an inode holds, each
	// addressing indirectBlockSize pages.
	indirectSlots = 256

	// indirectBlockSize is the number of page pointers in one indirect
	// block.
	indirectBlockSize = 256

	// maxPages is the total number of pages a single inode can address.
	maxPages = directSlots + indirectSlots*indirectBlockSize

	// MaxFileSize is the largest logical size, in bytes, a single Inode
	// can hold. Part of the package's contract: callers may depend on
	// this constant.
	MaxFileSize = maxPages * pageSize
)

// page is one fixed-size block of inode storage. The zero value is
// 4096 zero bytes, which is exactly the zero-fill semantics newly
// allocated pages must have.
type page [pageSize]byte

// indirectBlock is one singly-indirect block: indirectBlockSize page
// pointers, any of which may be absent.
type indirectBlock [indirectBlockSize]*page

// Stat is the timestamp triple reported by Inode.Stat.
type Stat struct {
	CreateTime time.Time
	AccessTime time.Time
	ModTime    time.Time
}

// Inode is the byte storage and metadata object for one data file: a
// paged, two-level (direct + single-indirect) sparse address space with
// on-demand, zero-filled page allocation. Reading a page that was never
// allocated fails with ErrUnallocatedRead rather than returning zeros.
//
// An Inode is not safe for concurrent use from multiple goroutines; see
// the package doc comment for why it is guarded by an InvariantMutex
// anyway.
type Inode struct {
	clock timeutil.Clock

	mu syncutil.InvariantMutex

	// single holds the direct page pointers (slot n for n < directSlots).
	// GUARDED_BY(mu)
	single [directSlots]*page

	// double holds the indirect blocks. Slot n >= directSlots lives in
	// double[(n-directSlots)/indirectBlockSize] at index
	// (n-directSlots)%indirectBlockSize.
	// GUARDED_BY(mu)
	double [indirectSlots]*indirectBlock

	// size is the logical byte length: the maximum of all offset+written
	// values ever observed by Write.
	// GUARDED_BY(mu)
	size int

	// GUARDED_BY(mu)
	createTime, accessTime, modTime time.Time
}

// NewInode returns a zero-length inode with all timestamps set to
// clock.Now(). The clock is retained and consulted on every subsequent
// non-empty Write.
func NewInode(clock timeutil.Clock) *Inode {
	now := clock.Now()

	in := &Inode{
		clock:      clock,
		createTime: now,
		accessTime: now,
		modTime:    now,
	}

	in.mu = syncutil.NewInvariantMutex(in.checkInvariants)
	return in
}

// LOCKS_REQUIRED(in.mu)
func (in *Inode) checkInvariants() {
	if in.size < 0 {
		panic(fmt.Sprintf("memfs: negative inode size: %d", in.size))
	}

	if in.modTime.Before(in.createTime) {
		panic(fmt.Sprintf(
			"memfs: mod_time %v precedes create_time %v", in.modTime, in.createTime))
	}

	if in.accessTime.Before(in.createTime) {
		panic(fmt.Sprintf(
			"memfs: access_time %v precedes create_time %v", in.accessTime, in.createTime))
	}
}

// ceilDiv returns ceil(x/y) for non-negative x and positive y.
func ceilDiv(x, y int) int {
	return (x + y - 1) / y
}

// pageSlot locates the *page pointer for page number n, allocating the
// containing indirect block first if it is absent and alloc is true. It
// does not allocate the page itself.
//
// LOCKS_REQUIRED(in.mu)
func (in *Inode) pageSlot(n int, alloc bool) (**page, bool) {
	if n < directSlots {
		return &in.single[n], true
	}

	k := n - directSlots
	blockIdx := k / indirectBlockSize
	slot := k % indirectBlockSize

	if in.double[blockIdx] == nil {
		if !alloc {
			return nil, false
		}
		in.double[blockIdx] = &indirectBlock{}
	}

	return &in.double[blockIdx][slot], true
}

// getOrAllocPage locates page n, allocating its indirect block and/or the
// page itself (zero-initialized) as necessary. Idempotent for pages that
// are already present.
//
// LOCKS_REQUIRED(in.mu)
func (in *Inode) getOrAllocPage(n int) (*page, error) {
	if n < 0 || n >= maxPages {
		return nil, fmt.Errorf("memfs: page %d: %w", n, ErrFileTooLarge)
	}

	slot, _ := in.pageSlot(n, true)
	if *slot == nil {
		*slot = &page{}
	}

	return *slot, nil
}

// getPage locates page n without allocating anything. It fails with
// ErrPageOutOfRange if n is beyond the inode's capacity, or
// ErrUnallocatedRead if the indirect block or the page itself has never
// been written.
//
// LOCKS_REQUIRED(in.mu)
func (in *Inode) getPage(n int) (*page, error) {
	if n < 0 || n >= maxPages {
		return nil, fmt.Errorf("memfs: page %d: %w", n, ErrPageOutOfRange)
	}

	slot, ok := in.pageSlot(n, false)
	if !ok || slot == nil || *slot == nil {
		return nil, fmt.Errorf("memfs: page %d: %w", n, ErrUnallocatedRead)
	}

	return *slot, nil
}

// Write copies data into the inode's page storage starting at offset,
// allocating pages and indirect blocks on demand, and returns the number
// of bytes written (always len(data) on success). It updates size,
// mod_time and access_time; a zero-length write is a no-op that touches
// neither (decided Open Question, see DESIGN.md).
//
// On ErrFileTooLarge, no state is mutated: the full required page range
// is checked before any page is allocated.
func (in *Inode) Write(offset int, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	blockOffset := offset % pageSize
	startPage := offset / pageSize
	numBlocks := ceilDiv(blockOffset+len(data), pageSize)

	if lastPage := startPage + numBlocks - 1; lastPage >= maxPages {
		return 0, fmt.Errorf(
			"memfs: write at offset %d len %d: page %d: %w",
			offset, len(data), lastPage, ErrFileTooLarge)
	}

	written := 0
	for i := 0; i < numBlocks; i++ {
		effOffset := 0
		if i == 0 {
			effOffset = blockOffset
		}

		numBytes := pageSize - effOffset
		if i == numBlocks-1 {
			numBytes = len(data) - written
		}

		pg, err := in.getOrAllocPage(startPage + i)
		if err != nil {
			return written, err
		}

		copy(pg[effOffset:effOffset+numBytes], data[written:written+numBytes])
		written += numBytes
	}

	if last := offset + written; last > in.size {
		in.size = last
	}

	now := in.clock.Now()
	in.modTime = now
	in.accessTime = now

	return written, nil
}

// Read copies len(buf) bytes starting at offset out of the inode's page
// storage into buf and returns the number of bytes read. Reads do not
// mutate size or any timestamp. A read of zero bytes returns (0, nil)
// immediately.
//
// Read fails with ErrPageOutOfRange if the requested range addresses a
// page beyond the inode's capacity, or ErrUnallocatedRead if it touches a
// page that was never written (the sparse-read policy decided in
// DESIGN.md).
func (in *Inode) Read(offset int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	in.mu.RLock()
	defer in.mu.RUnlock()

	blockOffset := offset % pageSize
	startPage := offset / pageSize
	numBlocks := ceilDiv(blockOffset+len(buf), pageSize)

	if lastPage := startPage + numBlocks - 1; lastPage >= maxPages {
		return 0, fmt.Errorf(
			"memfs: read at offset %d len %d: page %d: %w",
			offset, len(buf), lastPage, ErrPageOutOfRange)
	}

	read := 0
	for i := 0; i < numBlocks; i++ {
		effOffset := 0
		if i == 0 {
			effOffset = blockOffset
		}

		numBytes := pageSize - effOffset
		if i == numBlocks-1 {
			numBytes = len(buf) - read
		}

		pg, err := in.getPage(startPage + i)
		if err != nil {
			return read, err
		}

		copy(buf[read:read+numBytes], pg[effOffset:effOffset+numBytes])
		read += numBytes
	}

	return read, nil
}

// Size returns the inode's logical byte length.
func (in *Inode) Size() int {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return in.size
}

// Stat returns the inode's create/access/mod timestamp triple.
func (in *Inode) Stat() Stat {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return Stat{
		CreateTime: in.createTime,
		AccessTime: in.accessTime,
		ModTime:    in.modTime,
	}
}
