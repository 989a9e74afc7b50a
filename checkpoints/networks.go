package checkpoints

import (
	"github.com/emberchain/ember-node/config"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
)

// BLAKE3 of the serialized mainnet set, checked by the tests so that edits to the list are deliberate.
const MAINNET_CHECKPOINTS_BLAKE3 = "5915eb8c17f2497ef76abbee6bf606f1152c45916aff4b4c13537a9dc5c6c61d"

// What makes a good checkpoint block?
// + Is surrounded by blocks with reasonable timestamps
//   (no blocks before with a timestamp after, none after with timestamp before)
// + Contains no strange transactions
var mainnet = mustNewSet(
	Checkpoint{0, util.MustHashFromHex("0000f84066f1d8bf38fcf7e6c033c6776edd2371b5741717b118214e870d53c1")},
	Checkpoint{1, util.MustHashFromHex("e4d5915fe2d76e0dcc765e948d8158ef3abfdcff81b4ac3b8899e8d9354da390")},
	Checkpoint{2, util.MustHashFromHex("44497fac78c7f5ad59cc7eb82ba3cf5d860ef25f3154b90febfff54e3e6ad4d2")},
	Checkpoint{3, util.MustHashFromHex("ad3bfd10867bba31b342623912f09dd4d9c8d96feb03607890dff3acb38b65b7")},
	Checkpoint{18, util.MustHashFromHex("c6ee5107b9693cf4415b437606ec2729563bf71946f351dbd85692c0fdcc5c04")},
	Checkpoint{23, util.MustHashFromHex("c80f55be5829c0bbe14d8efd74bb16d292947e4aff8410c748a87ead50ff773d")},
	Checkpoint{35, util.MustHashFromHex("eccdb2d8bd28665b43e6a355d41d1aa0258ebc812a0fa40ec314fd574d80eb31")},
	Checkpoint{43, util.MustHashFromHex("edab88ce3fe8f32f98dcc0d0d89acde606c4bdce3dde8a338e862f8ac0f7c46e")},
	Checkpoint{78, util.MustHashFromHex("c8f691b6ea3dd0b2e606ab6719a5bb50b93bd8dd6840f4274692ba290a9a04a9")},
	Checkpoint{87, util.MustHashFromHex("f7fc05f99667b97acb005856f7313e343c73cc0a1de725996415b1fceafdb7bf")},
	Checkpoint{192, util.MustHashFromHex("b0e1080fe1190bad679f43dab19c148e45a5f192f1528fe58c801f2cff0dc4c2")},
)

// testnet has no checkpoints
var testnet = mustNewSet()

// ForNetwork returns the compiled checkpoint set of a network.
func ForNetwork(n config.Network) *Set {
	if n == config.Mainnet {
		return mainnet
	}
	return testnet
}

var ErrGenesisMismatch = errors.New("checkpoint at height 0 does not match the genesis block")

// VerifyGenesis checks the compiled checkpoint data against the compiled genesis block of params. A failure
// means the binary was built with inconsistent data and must not run.
func VerifyGenesis(s *Set, params config.Params) error {
	h, ok := s.Get(0)
	if !ok {
		if !params.IsAlternate() {
			return errors.Wrapf(ErrGenesisMismatch, "%s has no checkpoint at height 0", params.Name())
		}
		return nil
	}
	if h != params.GenesisHash {
		return errors.Wrapf(ErrGenesisMismatch, "%s: checkpoint %s, genesis %s", params.Name(), h, params.GenesisHash)
	}
	return nil
}
