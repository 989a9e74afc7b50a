package checkpoints

import (
	"slices"
	"testing"

	"github.com/emberchain/ember-node/config"

	"github.com/pkg/errors"
)

func TestMainnetDigest(t *testing.T) {
	set := ForNetwork(config.Mainnet)
	t.Logf("Checkpoints: %d; Max: %d", set.Len(), set.Max())

	if set.Digest().String() != MAINNET_CHECKPOINTS_BLAKE3 {
		t.Fatalf("hash %s does not match MAINNET_CHECKPOINTS_BLAKE3 %s", set.Digest(), MAINNET_CHECKPOINTS_BLAKE3)
	}
}

func TestVerifyGenesis(t *testing.T) {
	if err := VerifyGenesis(ForNetwork(config.Mainnet), config.MainnetParams); err != nil {
		t.Fatal(err)
	}
	if err := VerifyGenesis(ForNetwork(config.Testnet), config.TestnetParams); err != nil {
		t.Fatal(err)
	}

	params := config.MainnetParams
	params.GenesisHash = hashOf("another genesis")
	err := VerifyGenesis(ForNetwork(config.Mainnet), params)
	if !errors.Is(err, ErrGenesisMismatch) {
		t.Fatalf("expected ErrGenesisMismatch, got %v", err)
	}
	if _, err := New(params); !errors.Is(err, ErrGenesisMismatch) {
		t.Fatalf("New must refuse mismatching genesis, got %v", err)
	}

	// the primary network must pin its genesis
	if err := VerifyGenesis(ForNetwork(config.Testnet), config.MainnetParams); !errors.Is(err, ErrGenesisMismatch) {
		t.Fatalf("expected ErrGenesisMismatch for empty primary set, got %v", err)
	}
}

func TestSetOrder(t *testing.T) {
	_, err := NewSet(Checkpoint{Height: 5}, Checkpoint{Height: 5})
	if !errors.Is(err, ErrUnordered) {
		t.Fatalf("duplicate heights must be refused, got %v", err)
	}
	_, err = NewSet(Checkpoint{Height: 5}, Checkpoint{Height: 3})
	if !errors.Is(err, ErrUnordered) {
		t.Fatalf("decreasing heights must be refused, got %v", err)
	}

	set := ForNetwork(config.Mainnet)
	asc := []uint64{}
	for cp := range set.All() {
		asc = append(asc, cp.Height)
	}
	desc := []uint64{}
	for cp := range set.Backward() {
		desc = append(desc, cp.Height)
	}
	if !slices.IsSorted(asc) || len(asc) != set.Len() {
		t.Fatalf("All is not ascending: %v", asc)
	}
	slices.Reverse(desc)
	if !slices.Equal(asc, desc) {
		t.Fatalf("Backward is not the reverse of All: %v", desc)
	}
	if asc[0] != 0 || asc[len(asc)-1] != set.Max() {
		t.Fatal("unexpected bounds")
	}

	// early exit
	n := 0
	for range set.Backward() {
		n++
		break
	}
	if n != 1 {
		t.Fatal("iterator did not stop")
	}
}

func TestSerialize(t *testing.T) {
	set := ForNetwork(config.Mainnet)

	got, err := Deserialize(set.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if got.Digest() != set.Digest() || got.Len() != set.Len() {
		t.Fatal("deserialized set differs")
	}
	for cp := range set.All() {
		h, ok := got.Get(cp.Height)
		if !ok || h != cp.Hash {
			t.Fatalf("checkpoint %d lost", cp.Height)
		}
	}

	empty, err := Deserialize(ForNetwork(config.Testnet).Serialize())
	if err != nil || empty.Len() != 0 || empty.Max() != 0 {
		t.Fatal("empty set round trip failed", err)
	}

	bin := set.Serialize()
	if _, err := Deserialize(bin[:len(bin)-1]); err == nil {
		t.Fatal("expected error on truncated data")
	}
	if _, err := Deserialize(append(bin, 0)); err == nil {
		t.Fatal("expected error on trailing data")
	}
	bad := append([]byte{}, bin...)
	bad[0] = 9
	if _, err := Deserialize(bad); err == nil {
		t.Fatal("expected error on unknown version")
	}
	if _, err := Deserialize(nil); err == nil {
		t.Fatal("expected error on empty data")
	}
}
