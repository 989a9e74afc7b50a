package config

import (
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
)

type Network uint8

const (
	Mainnet Network = iota
	Testnet
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	}
	return "unknown"
}

var ErrUnknownNetwork = errors.New("unknown network")

// Params holds the static parameters of a network. They are selected once at startup and passed by value
// to whatever needs them.
type Params struct {
	Network Network

	// The message start bytes are rarely used upper ASCII, not valid as UTF-8, and produce a large 4-byte int
	// at any alignment.
	MessageStart [4]byte

	P2PBindPort uint16
	RPCBindPort uint16

	// subdirectory of the data directory, empty for mainnet
	DataDirSuffix string

	GenesisHash      util.Hash
	GenesisTimestamp uint64 // UNIX seconds

	LastPOWBlock  uint64
	POSStartBlock uint64
}

func (p Params) Name() string {
	return p.Network.String()
}

// IsAlternate reports whether these are the parameters of a non-primary network.
func (p Params) IsAlternate() bool {
	return p.Network != Mainnet
}

const GENESIS_HASH = "0000f84066f1d8bf38fcf7e6c033c6776edd2371b5741717b118214e870d53c1"
const GENESIS_TIMESTAMP = 1518409800

var MainnetParams = Params{
	Network:          Mainnet,
	MessageStart:     [4]byte{0xcf, 0x2a, 0xd3, 0x8e},
	P2PBindPort:      7218,
	RPCBindPort:      7217,
	GenesisHash:      util.MustHashFromHex(GENESIS_HASH),
	GenesisTimestamp: GENESIS_TIMESTAMP,
	LastPOWBlock:     3000,
	POSStartBlock:    101,
}

// testnet shares the mainnet genesis block
var TestnetParams = Params{
	Network:          Testnet,
	MessageStart:     [4]byte{0xfc, 0xa2, 0x3d, 0xe8},
	P2PBindPort:      27170,
	RPCBindPort:      27171,
	DataDirSuffix:    "testnet",
	GenesisHash:      util.MustHashFromHex(GENESIS_HASH),
	GenesisTimestamp: GENESIS_TIMESTAMP,
	LastPOWBlock:     0x7fffffff,
	POSStartBlock:    101,
}

func ParamsFor(n Network) (Params, error) {
	switch n {
	case Mainnet:
		return MainnetParams, nil
	case Testnet:
		return TestnetParams, nil
	}
	return Params{}, errors.Wrapf(ErrUnknownNetwork, "network id %d", n)
}

// Select returns the parameters chosen by the -testnet command line flag.
func Select(testnet bool) Params {
	if testnet {
		return TestnetParams
	}
	return MainnetParams
}
