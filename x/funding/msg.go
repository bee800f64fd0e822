package funding

import (
	"regexp"

	"github.com/iov-one/versioned"
	"github.com/iov-one/versioned/errors"
)

const (
	pathDeposit        = "funding/deposit"
	pathRegisterRecord = "funding/register_record"
	pathGetRecord      = "funding/get_record"

	// maxKeyLength is the hard limit of a record key. Configuration can
	// only lower it.
	maxKeyLength = 256
)

var isAccount = regexp.MustCompile(`^[a-z0-9][a-z0-9_.\-]{1,63}$`).MatchString

// IsAccount returns true if id can be used as a funder account.
func IsAccount(id string) bool {
	return isAccount(id)
}

// DepositMsg credits Amount to the balance of Account.
type DepositMsg struct {
	Account string
	Amount  Balance
}

var _ versioned.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDeposit
}

func (m DepositMsg) Validate() error {
	if !isAccount(m.Account) {
		return errors.Wrapf(errors.ErrInput, "account %q", m.Account)
	}
	return nil
}

func (m DepositMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *DepositMsg) Unmarshal(bz []byte) error {
	return unmarshalMsg(bz, m)
}

// RegisterRecordMsg creates a new record under Key.
type RegisterRecordMsg struct {
	Key string
}

var _ versioned.Msg = (*RegisterRecordMsg)(nil)

func (RegisterRecordMsg) Path() string {
	return pathRegisterRecord
}

func (m RegisterRecordMsg) Validate() error {
	return validateKey(m.Key)
}

func (m RegisterRecordMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *RegisterRecordMsg) Unmarshal(bz []byte) error {
	return unmarshalMsg(bz, m)
}

// GetRecordMsg reads the record under Key, upgrading it if needed.
type GetRecordMsg struct {
	Key string
}

var _ versioned.Msg = (*GetRecordMsg)(nil)

func (GetRecordMsg) Path() string {
	return pathGetRecord
}

func (m GetRecordMsg) Validate() error {
	return validateKey(m.Key)
}

func (m GetRecordMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *GetRecordMsg) Unmarshal(bz []byte) error {
	return unmarshalMsg(bz, m)
}

func validateKey(key string) error {
	switch n := len(key); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "key")
	case n > maxKeyLength:
		return errors.Wrapf(errors.ErrInput, "key longer than %d", maxKeyLength)
	}
	return nil
}

func unmarshalMsg(bz []byte, dst interface{}) error {
	if err := cdc.UnmarshalBinaryBare(bz, dst); err != nil {
		return errors.Wrapf(errors.ErrInput, "%T: %s", dst, err)
	}
	return nil
}
