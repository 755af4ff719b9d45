/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package flow

import "sync"

const DefaultStoreSize = 4096

// Store is a bounded ring of recent flow records. Once full, the oldest
// record is overwritten. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	buf  []Record
	next int
	full bool
}

func NewStore(size int) *Store {
	if size <= 0 {
		size = DefaultStoreSize
	}
	return &Store{buf: make([]Record, size)}
}

func (s *Store) Add(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf[s.next] = r
	s.next++
	if s.next == len(s.buf) {
		s.next = 0
		s.full = true
	}
}

// Recent returns the stored records in arrival order, oldest first.
func (s *Store) Recent() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.full {
		return append([]Record(nil), s.buf[:s.next]...)
	}

	records := make([]Record, 0, len(s.buf))
	records = append(records, s.buf[s.next:]...)
	return append(records, s.buf[:s.next]...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.full {
		return len(s.buf)
	}
	return s.next
}
