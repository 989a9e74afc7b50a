package block

import (
	"testing"

	"github.com/emberchain/ember-node/config"

	"github.com/zeebo/blake3"
)

var sampleHeader = Header{
	Version:    1,
	Height:     18,
	Timestamp:  config.GENESIS_TIMESTAMP + 18*config.TARGET_BLOCK_TIME,
	PrevHash:   blake3.Sum256([]byte("17")),
	MerkleRoot: blake3.Sum256([]byte("txs")),
	Nonce:      7083,
}

func TestHeader(t *testing.T) {
	bl := sampleHeader
	bl2 := Header{}

	ser := bl.Serialize()
	t.Logf("ser: %x", ser)

	err := bl2.Deserialize(ser)
	if err != nil {
		t.Fatal(err)
	}

	if bl2 != bl {
		t.Fatalf("the two headers are not equal:\n%s\n%s", bl, bl2)
	}
	if bl2.Hash() != bl.Hash() {
		t.Fatal("the two hashes are not equal")
	}
}

func TestHeaderHashChanges(t *testing.T) {
	bl := sampleHeader
	h := bl.Hash()

	bl.Nonce++
	if bl.Hash() == h {
		t.Fatal("nonce is not committed by the hash")
	}
	bl = sampleHeader
	bl.PrevHash[31] ^= 1
	if bl.Hash() == h {
		t.Fatal("previous hash is not committed by the hash")
	}
}

func TestHeaderInvalid(t *testing.T) {
	ser := sampleHeader.Serialize()

	bl := Header{}
	if bl.Deserialize(ser[:len(ser)-1]) == nil {
		t.Fatal("expected error on truncated header")
	}
	if bl.Deserialize(append(ser, 0)) == nil {
		t.Fatal("expected error on trailing data")
	}

	tall := sampleHeader
	tall.Height = config.MAX_HEIGHT + 1
	if bl.Deserialize(tall.Serialize()) == nil {
		t.Fatal("expected error on height above limit")
	}
}
