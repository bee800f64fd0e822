package errors

import "fmt"

const (
	// SuccessABCICode is the code of a successful response.
	SuccessABCICode = 0

	// Errors that do not wrap a root error are reported with this code and
	// a generic message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response reporting err.
// The message of an internal error is only revealed in debug mode, which
// also adds stack traces.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the chain that has one.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	code := internalABCICode
	walk(err, func(e error) bool {
		if c, ok := e.(coder); ok {
			code = c.ABCICode()
			return true
		}
		return false
	})
	return code
}

// ABCIError rebuilds an error from the code and log of a response. A
// registered code gives back its root error.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if e, ok := usedCodes[code]; ok && e != nil {
		return Wrap(e, log)
	}
	return Wrap(Error{code: code, desc: "unknown error"}, log)
}
