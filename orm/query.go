package orm

import "github.com/iov-one/versioned"

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr versioned.Iterator) ([]versioned.Model, error) {
	defer itr.Close()

	var res []versioned.Model
	for itr.Valid() {
		res = append(res, versioned.Model{
			Key:   itr.Key(),
			Value: itr.Value(),
		})
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func queryPrefix(db versioned.ReadOnlyKVStore, prefix []byte) ([]versioned.Model, error) {
	itr, err := db.Iterator(prefix, PrefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// PrefixEnd returns the smallest key larger than all keys starting with
// prefix, or nil if there is none.
func PrefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for {
		last := len(end) - 1
		if end[last] != 0xFF {
			end[last]++
			return end
		}
		end = end[:last]
		if len(end) == 0 {
			return nil
		}
	}
}
