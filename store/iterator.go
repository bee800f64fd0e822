package store

// SliceIterator iterates over pairs loaded in advance.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator iterates over data in the given order.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

// Valid implements Iterator
func (s *SliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

// Next implements Iterator
func (s *SliceIterator) Next() error {
	s.current()
	s.idx++
	return nil
}

// Key implements Iterator
func (s *SliceIterator) Key() []byte {
	return s.current().Key
}

// Value implements Iterator
func (s *SliceIterator) Value() []byte {
	return s.current().Value
}

// Close implements Iterator
func (s *SliceIterator) Close() {
	s.data = nil
}

func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("iterator moved past the last pair")
	}
	return s.data[s.idx]
}
