package memfs

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/jacobsa/timeutil"
	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func simClock(t time.Time) *timeutil.SimulatedClock {
	c := &timeutil.SimulatedClock{}
	c.SetTime(t)
	return c
}

func newTestInode() *Inode {
	return NewInode(simClock(epoch))
}

func TestInode_SmallWrite(t *testing.T) {
	in := newTestInode()

	n, err := in.Write(0, []byte{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, in.Size())

	buf := make([]byte, 5)
	n, err = in.Read(0, buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	if diff := pretty.Compare([]byte{1, 2, 3, 4, 5}, buf); diff != "" {
		t.Errorf("unexpected read contents (-want +got):\n%s", diff)
	}
}

// A write straddling the page-0/page-1 boundary.
func TestInode_CrossPageWrite(t *testing.T) {
	in := newTestInode()

	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i + 1)
	}

	n, err := in.Write(4090, data)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
	assert.Equal(t, 4110, in.Size())

	buf := make([]byte, 20)
	_, err = in.Read(4090, buf)
	require.NoError(t, err)
	assert.Equal(t, data, buf)

	// Both pages involved must now be allocated: page 0 at byte 4090 and
	// page 1 at byte 0 should read back without UnallocatedRead.
	_, err = in.Read(0, make([]byte, 1))
	assert.NoError(t, err)
	_, err = in.Read(4096, make([]byte, 1))
	assert.NoError(t, err)
}

// A write that lands in the first indirect block.
func TestInode_WriteIntoIndirectBlock(t *testing.T) {
	in := newTestInode()

	data := make([]byte, pageSize)
	for i := range data {
		data[i] = byte(i)
	}

	offset := directSlots * pageSize
	n, err := in.Write(offset, data)
	require.NoError(t, err)
	assert.Equal(t, pageSize, n)
	assert.Equal(t, offset+pageSize, in.Size())

	buf := make([]byte, pageSize)
	_, err = in.Read(offset, buf)
	require.NoError(t, err)
	assert.Equal(t, data, buf)

	// Direct blocks remain untouched.
	_, err = in.Read(0, make([]byte, 1))
	assert.ErrorIs(t, err, ErrUnallocatedRead)
}

// An 8-page-plus-remainder random round trip.
func TestInode_LargeRandomRoundTrip(t *testing.T) {
	const size = pageSize*8 + 3434

	r := rand.New(rand.NewSource(1))
	data := make([]byte, size)
	r.Read(data)

	in := newTestInode()

	n, err := in.Write(0, data)
	require.NoError(t, err)
	assert.Equal(t, size, n)
	assert.Equal(t, size, in.Size())

	buf := make([]byte, size)
	n, err = in.Read(0, buf)
	require.NoError(t, err)
	assert.Equal(t, size, n)
	assert.Equal(t, data, buf)

	stat := in.Stat()
	assert.Equal(t, epoch, stat.CreateTime)
}

func TestInode_SizeMonotonicity(t *testing.T) {
	in := newTestInode()

	assert.Equal(t, 0, in.Size())

	_, err := in.Write(100, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 105, in.Size())

	// Writing earlier in the file does not shrink size.
	_, err = in.Write(0, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 105, in.Size())

	// Writing further extends it.
	_, err = in.Write(200, []byte("y"))
	require.NoError(t, err)
	assert.Equal(t, 201, in.Size())
}

func TestInode_TimestampDiscipline(t *testing.T) {
	clock := simClock(epoch)
	in := NewInode(clock)

	stat := in.Stat()
	assert.Equal(t, stat.CreateTime, stat.ModTime)
	assert.Equal(t, stat.CreateTime, stat.AccessTime)

	clock.AdvanceTime(time.Second)
	_, err := in.Write(0, []byte("a"))
	require.NoError(t, err)

	stat = in.Stat()
	assert.Equal(t, stat.ModTime, stat.AccessTime)
	assert.True(t, !stat.ModTime.Before(stat.CreateTime))
	assert.Equal(t, epoch, stat.CreateTime)

	// A zero-length write touches no timestamp (decided Open Question,
	// see DESIGN.md).
	before := in.Stat()
	clock.AdvanceTime(time.Second)
	n, err := in.Write(0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, before, in.Stat())

	// Reads never mutate timestamps.
	beforeRead := in.Stat()
	_, err = in.Read(0, make([]byte, 1))
	require.NoError(t, err)
	assert.Equal(t, beforeRead, in.Stat())
}

// Disjoint writes commute.
func TestInode_PageIndependence(t *testing.T) {
	a := make([]byte, pageSize)
	for i := range a {
		a[i] = 0xAA
	}
	b := make([]byte, pageSize)
	for i := range b {
		b[i] = 0xBB
	}

	in1 := newTestInode()
	_, err := in1.Write(0, a)
	require.NoError(t, err)
	_, err = in1.Write(pageSize, b)
	require.NoError(t, err)

	in2 := newTestInode()
	_, err = in2.Write(pageSize, b)
	require.NoError(t, err)
	_, err = in2.Write(0, a)
	require.NoError(t, err)

	buf1 := make([]byte, 2*pageSize)
	_, err = in1.Read(0, buf1)
	require.NoError(t, err)

	buf2 := make([]byte, 2*pageSize)
	_, err = in2.Read(0, buf2)
	require.NoError(t, err)

	assert.Equal(t, buf1, buf2)
}

func TestInode_WriteFileTooLarge(t *testing.T) {
	in := newTestInode()

	_, err := in.Write(MaxFileSize-1, []byte{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	// No state change on error.
	assert.Equal(t, 0, in.Size())
}

func TestInode_ReadPageOutOfRange(t *testing.T) {
	in := newTestInode()

	_, err := in.Read(MaxFileSize, make([]byte, 1))
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestInode_ReadUnallocatedHole(t *testing.T) {
	in := newTestInode()

	_, err := in.Write(2*pageSize, []byte{1})
	require.NoError(t, err)

	// Size is now 2*pageSize+1, so pages 0 and 1 lie within the file's
	// extent, but they were never written and remain unallocated holes.
	_, err = in.Read(0, make([]byte, 1))
	assert.ErrorIs(t, err, ErrUnallocatedRead)
}

func TestInode_ZeroLengthWriteAndRead(t *testing.T) {
	in := newTestInode()

	n, err := in.Write(0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, in.Size())

	n, err = in.Read(0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
