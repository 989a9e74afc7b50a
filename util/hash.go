package util

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Hash [32]byte

var ErrInvalidHash = errors.New("invalid hash")

// HashFromHex parses a 64-character hex string. An optional 0x prefix is accepted.
func HashFromHex(s string) (Hash, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 64 {
		return Hash{}, errors.Wrapf(ErrInvalidHash, "length %d", len(s))
	}
	var h Hash
	_, err := hex.Decode(h[:], []byte(s))
	if err != nil {
		return Hash{}, errors.Wrap(ErrInvalidHash, err.Error())
	}
	return h, nil
}

// only use this for compiled data - panics if the hex is invalid
func MustHashFromHex(s string) Hash {
	h, err := HashFromHex(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (m Hash) IsZero() bool {
	return m == Hash{}
}

func (m Hash) String() string {
	return hex.EncodeToString(m[:])
}
func (m Hash) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
func (m *Hash) UnmarshalText(c []byte) error {
	h, err := HashFromHex(string(c))
	if err != nil {
		return err
	}
	*m = h
	return nil
}

func (m Hash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}
func (m *Hash) UnmarshalJSON(c []byte) error {
	if len(c) < 2 || c[0] != '"' || c[len(c)-1] != '"' {
		return errors.New("invalid string literal")
	}
	return m.UnmarshalText(c[1 : len(c)-1])
}

func (m Hash) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, m.String())
}
