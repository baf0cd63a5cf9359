package storage

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Word is the element type stored in a MappedArray transition table: a
// 32-bit state id, sufficient for the tested workloads.
type Word = uint32

// MappedArray is a typed, file-backed, resizable contiguous array. It
// survives process restarts in the same on-disk layout: the file holds
// exactly len(data)*4 bytes, one Word per element, native byte order.
//
// Not safe for concurrent use; callers confine a MappedArray to its owning
// builder goroutine.
type MappedArray struct {
	path string
	file *os.File
	data []Word // mmap'd view, length = byte-capacity/4
	size int    // logical element count, size <= len(data)
}

// CreateMappedArray creates (or truncates) a file at path and maps it with
// the given initial element capacity.
func CreateMappedArray(path string, capacity int) (*MappedArray, error) {
	if capacity < 1 {
		capacity = 1
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, &Error{Kind: IOFailure, Message: "create mapped array", Cause: err}
	}
	m := &MappedArray{path: path, file: f}
	if err := m.remap(capacity); err != nil {
		f.Close()
		return nil, err
	}
	return m, nil
}

// OpenMappedArray maps an existing file at path, with size elements already
// present (as written by a prior process).
func OpenMappedArray(path string, size int) (*MappedArray, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return nil, &Error{Kind: IOFailure, Message: "open mapped array", Cause: err}
	}
	m := &MappedArray{path: path, file: f}
	if err := m.remap(size); err != nil {
		f.Close()
		return nil, err
	}
	m.size = size
	return m, nil
}

// remap grows (or shrinks) the backing file to capacity words and refreshes
// the mmap view. It preserves existing content up to min(old, new) words.
func (m *MappedArray) remap(capacity int) error {
	if m.data != nil {
		if err := unix.Munmap(wordsToBytes(m.data)); err != nil {
			return &Error{Kind: IOFailure, Message: "munmap", Cause: err}
		}
		m.data = nil
	}

	byteSize := int64(capacity) * 4
	if err := m.file.Truncate(byteSize); err != nil {
		return &Error{Kind: IOFailure, Message: "ftruncate", Cause: err}
	}

	mapped, err := unix.Mmap(int(m.file.Fd()), 0, int(byteSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return &Error{Kind: IOFailure, Message: "mmap", Cause: err}
	}
	m.data = bytesToWords(mapped, capacity)
	return nil
}

// Cap returns the current word capacity of the backing mapping.
func (m *MappedArray) Cap() int {
	return len(m.data)
}

// Size returns the logical number of elements written so far.
func (m *MappedArray) Size() int {
	return m.size
}

// Get returns the element at index i.
func (m *MappedArray) Get(i int) Word {
	return m.data[i]
}

// Set writes value at index i, growing the logical size if i extends it.
func (m *MappedArray) Set(i int, value Word) {
	m.data[i] = value
	if i >= m.size {
		m.size = i + 1
	}
}

// Append adds value past the current logical size, doubling the backing
// capacity on overflow.
func (m *MappedArray) Append(value Word) error {
	if m.size >= len(m.data) {
		next := len(m.data) * 2
		if next == 0 {
			next = 1
		}
		if err := m.remap(next); err != nil {
			return err
		}
	}
	m.data[m.size] = value
	m.size++
	return nil
}

// Truncate shrinks the mapping to exactly newSize elements, discarding any
// doubled-but-unused capacity. Builder.Finalize does not call it, so a
// finalized layer's backing file keeps its spare capacity.
func (m *MappedArray) Truncate(newSize int) error {
	if newSize < 0 || newSize > m.size {
		return &Error{Kind: OutOfRange, Message: fmt.Sprintf("truncate %d out of [0,%d]", newSize, m.size)}
	}
	if err := m.remap(newSize); err != nil {
		return err
	}
	m.size = newSize
	return nil
}

// Slice returns the logical contents as a []Word view; valid until the next
// mutating call (Append/Truncate/Rename may remap).
func (m *MappedArray) Slice() []Word {
	return m.data[:m.size]
}

// Rename moves the backing file to newPath, keeping the mapping intact.
func (m *MappedArray) Rename(newPath string) error {
	if err := os.Rename(m.path, newPath); err != nil {
		return &Error{Kind: IOFailure, Message: "rename mapped array", Cause: err}
	}
	m.path = newPath
	return nil
}

// Path returns the current backing file path.
func (m *MappedArray) Path() string {
	return m.path
}

// Close unmaps and closes the backing file without deleting it.
func (m *MappedArray) Close() error {
	if m.data != nil {
		if err := unix.Munmap(wordsToBytes(m.data)); err != nil {
			return &Error{Kind: IOFailure, Message: "munmap", Cause: err}
		}
		m.data = nil
	}
	return m.file.Close()
}

// Unlink closes the mapping and removes the backing file, for temporary
// arrays that never get renamed into a content-addressed store.
func (m *MappedArray) Unlink() error {
	if err := m.Close(); err != nil {
		return err
	}
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return &Error{Kind: IOFailure, Message: "unlink mapped array", Cause: err}
	}
	return nil
}

func wordsToBytes(w []Word) []byte {
	if len(w) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&w[0])), len(w)*4)
}

func bytesToWords(b []byte, capacity int) []Word {
	if capacity == 0 {
		return nil
	}
	return unsafe.Slice((*Word)(unsafe.Pointer(&b[0])), capacity)
}
