package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/x/funding"
)

// GenInitOptions will produce the options of a fresh chain, to use for
// dev mode.
//
// The first argument selects the root schema the chain starts with,
// "legacy" for a root that was never migrated. The second argument, if
// given, is the denomination deposits are reported in.
func GenInitOptions(args []string) (json.RawMessage, error) {
	schema := 1
	if len(args) > 0 {
		switch args[0] {
		case "legacy":
			schema = 0
		case "current":
		default:
			return nil, errors.Wrapf(errors.ErrInput, "unknown schema %q, use legacy or current", args[0])
		}
	}

	denom := funding.DefaultDenomination
	if len(args) > 1 {
		denom = args[1]
	}
	conf := funding.Configuration{
		Denomination: denom,
		MaxKeyLength: funding.DefaultMaxKeyLength,
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	opts := fmt.Sprintf(`
          {
            "conf": {
              "funding": {"denomination": %q, "max_key_length": %d}
            },
            "funding": {
              "schema": %d,
              "funders": [],
              "records": []
            }
          }
	`, conf.Denomination, conf.MaxKeyLength, schema)
	return []byte(opts), nil
}
