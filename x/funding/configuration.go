package funding

import (
	"regexp"

	"github.com/iov-one/versioned/errors"
	"github.com/iov-one/versioned/gconf"
)

// configPkg is the name the configuration is stored under.
const configPkg = "funding"

const (
	// DefaultDenomination is used in deposit logs when no configuration
	// was provided with the genesis.
	DefaultDenomination = "ufund"
	// DefaultMaxKeyLength limits record keys when no configuration was
	// provided with the genesis.
	DefaultMaxKeyLength = 128
)

var isDenomination = regexp.MustCompile(`^[a-zA-Z]{2,16}$`).MatchString

// Configuration of the funding extension, set once with the genesis.
type Configuration struct {
	// Denomination is the unit deposits are made in. It is used only for
	// reporting.
	Denomination string `json:"denomination"`
	// MaxKeyLength is the longest record key accepted.
	MaxKeyLength uint32 `json:"max_key_length"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration is used when the genesis did not provide one.
func DefaultConfiguration() Configuration {
	return Configuration{
		Denomination: DefaultDenomination,
		MaxKeyLength: DefaultMaxKeyLength,
	}
}

func (c Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, c); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// Validate returns an error if the configuration cannot be used.
func (c Configuration) Validate() error {
	var errs error
	if !isDenomination(c.Denomination) {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInput, "denomination %q", c.Denomination))
	}
	if c.MaxKeyLength == 0 || c.MaxKeyLength > maxKeyLength {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInput, "max key length must be within 1..%d", maxKeyLength))
	}
	return errs
}

// loadConfiguration returns the stored configuration, or the default one
// if none was stored.
func loadConfiguration(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, configPkg, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
