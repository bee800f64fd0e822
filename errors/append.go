package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error is provided, nil is returned. If only one non nil error is
// provided, it is returned as it is.
func Append(errs ...error) error {
	var multi multiErr
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			multi = append(multi, m...)
		} else {
			multi = append(multi, e)
		}
	}
	switch len(multi) {
	case 0:
		return nil
	case 1:
		return multi[0]
	default:
		return multi
	}
}

// multiErr is a flat list of errors. It never contains nested multiErr
// values.
type multiErr []error

func (m multiErr) Error() string {
	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first contained error. All errors are
// expected to share the same root when they are clubbed together.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

// Contains returns true if any of the clubbed errors is of given kind.
func Contains(err error, kind *Error) bool {
	if m, ok := err.(multiErr); ok {
		for _, e := range m {
			if kind.Is(e) {
				return true
			}
		}
		return false
	}
	return kind.Is(err)
}
