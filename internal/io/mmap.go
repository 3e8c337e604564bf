package io

import (
	"golang.org/x/exp/mmap"
)

// MappedFile provides memory-mapped read access to a document file
type MappedFile struct {
	reader *mmap.ReaderAt
	size   int64
}

// OpenMapped opens a file with memory mapping
func OpenMapped(path string) (*MappedFile, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	return &MappedFile{
		reader: reader,
		size:   int64(reader.Len()),
	}, nil
}

// Bytes copies the whole mapping into a fresh buffer.
// The mapping is released on Close, so callers must not keep a view into it.
func (m *MappedFile) Bytes() ([]byte, error) {
	if m.size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, m.size)
	if _, err := m.reader.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// Size returns the file size
func (m *MappedFile) Size() int64 {
	return m.size
}

// Close closes the memory mapping
func (m *MappedFile) Close() error {
	return m.reader.Close()
}
