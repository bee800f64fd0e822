package versioned

import (
	"github.com/iov-one/versioned/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DeliverResult is what a successful delivery returns. Failures are
// reported with an error instead.
type DeliverResult struct {
	// Data is the machine readable outcome, like an encoded record
	Data []byte
	Log  string
}

// CheckResult is what a successful check returns.
type CheckResult struct {
	Data []byte
	Log  string
}

// DeliverTxResponse turns the outcome of a delivery into its abci form.
// Errors are reported by code, their message is redacted unless debug is
// set or the error is registered.
func DeliverTxResponse(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		code, log := failure("deliver", err, debug)
		return abci.ResponseDeliverTx{Code: code, Log: log}
	}
	return abci.ResponseDeliverTx{Data: res.Data, Log: res.Log}
}

// CheckTxResponse turns the outcome of a check into its abci form.
func CheckTxResponse(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		code, log := failure("check", err, debug)
		return abci.ResponseCheckTx{Code: code, Log: log}
	}
	return abci.ResponseCheckTx{Data: res.Data, Log: res.Log}
}

func failure(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	return code, "cannot " + phase + " tx: " + log
}

// ParseDeliverTx reads a delivery result back. A failed delivery is
// returned as an error carrying the response code.
func ParseDeliverTx(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{Data: res.Data, Log: res.Log}, nil
}
