package config

import (
	"testing"

	"github.com/pkg/errors"
)

func TestSelect(t *testing.T) {
	if Select(false).Network != Mainnet || Select(false).IsAlternate() {
		t.Fatal("mainnet must be the primary network")
	}
	if Select(true).Network != Testnet || !Select(true).IsAlternate() {
		t.Fatal("testnet must be an alternate network")
	}
	if Select(true).GenesisHash != Select(false).GenesisHash {
		t.Fatal("testnet and mainnet share the genesis block")
	}
	if MainnetParams.GenesisHash.String() != GENESIS_HASH {
		t.Fatalf("genesis hash %s", MainnetParams.GenesisHash)
	}
}

func TestParamsFor(t *testing.T) {
	for _, n := range []Network{Mainnet, Testnet} {
		p, err := ParamsFor(n)
		if err != nil {
			t.Fatal(err)
		}
		if p.Network != n || p.Name() != n.String() {
			t.Fatalf("got %v for %v", p.Network, n)
		}
	}

	_, err := ParamsFor(Network(7))
	if !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("expected ErrUnknownNetwork, got %v", err)
	}
}

func TestNetworkParams(t *testing.T) {
	tests := []struct {
		params   Params
		magic    [4]byte
		p2p, rpc uint16
		lastPOW  uint64
		posStart uint64
	}{
		{MainnetParams, [4]byte{0xcf, 0x2a, 0xd3, 0x8e}, 7218, 7217, 3000, 101},
		{TestnetParams, [4]byte{0xfc, 0xa2, 0x3d, 0xe8}, 27170, 27171, 0x7fffffff, 101},
	}
	for _, tt := range tests {
		p := tt.params
		if p.MessageStart != tt.magic {
			t.Errorf("%s: message start %x", p.Name(), p.MessageStart)
		}
		if p.P2PBindPort != tt.p2p || p.RPCBindPort != tt.rpc {
			t.Errorf("%s: ports %d/%d", p.Name(), p.P2PBindPort, p.RPCBindPort)
		}
		if p.LastPOWBlock != tt.lastPOW || p.POSStartBlock != tt.posStart {
			t.Errorf("%s: last pow %d, pos start %d", p.Name(), p.LastPOWBlock, p.POSStartBlock)
		}
	}
	if MainnetParams.MessageStart == TestnetParams.MessageStart {
		t.Fatal("networks must not share message start bytes")
	}
}
