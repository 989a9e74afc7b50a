package daemonrpc

import (
	"github.com/emberchain/ember-node/block"
	"github.com/emberchain/ember-node/checkpoints"
	"github.com/emberchain/ember-node/util"
	"github.com/emberchain/ember-node/util/enc"
)

type BlockRef struct {
	Height uint64    `json:"height"`
	Hash   util.Hash `json:"hash"`
}

type GetInfoRequest struct {
}
type GetInfoResponse struct {
	Version             string    `json:"version"`
	Network             string    `json:"network"`
	Height              uint64    `json:"height"`
	TopHash             util.Hash `json:"top_hash"`
	Target              int       `json:"target_block_time"`
	TotalBlocksEstimate uint64    `json:"total_blocks_estimate"`
	SyncCheckpoint      BlockRef  `json:"sync_checkpoint"`
	LastCheckpoint      *BlockRef `json:"last_checkpoint,omitempty"`
	Checkpoints         int       `json:"checkpoints"`

	MessageStart  enc.Hex `json:"message_start"`
	P2PPort       uint16  `json:"p2p_port"`
	RPCPort       uint16  `json:"rpc_port"`
	LastPOWBlock  uint64  `json:"last_pow_block"`
	POSStartBlock uint64  `json:"pos_start_block"`
}

type GetCheckpointsRequest struct {
}
type GetCheckpointsResponse struct {
	Checkpoints []checkpoints.Checkpoint `json:"checkpoints"`
	Digest      util.Hash                `json:"digest"` // BLAKE3 of Hex
	Hex         enc.Hex                  `json:"hex"`    // serialized checkpoint set
}

type CheckHardenedRequest struct {
	Height uint64    `json:"height"`
	Hash   util.Hash `json:"hash"`
}
type CheckHardenedResponse struct {
	Hardened     bool `json:"hardened"` // false only if the height is checkpointed with another hash
	Checkpointed bool `json:"checkpointed"`
}

type CheckSyncRequest struct {
	Height uint64 `json:"height"`
}
type CheckSyncResponse struct {
	Allowed        bool      `json:"allowed"`
	SyncCheckpoint *BlockRef `json:"sync_checkpoint,omitempty"`
}

type GetSyncCheckpointRequest struct {
}
type GetSyncCheckpointResponse struct {
	SyncCheckpoint BlockRef `json:"sync_checkpoint"`
	Span           uint64   `json:"span"`
}

type GetLastCheckpointRequest struct {
}
type GetLastCheckpointResponse struct {
	Found      bool      `json:"found"`
	Checkpoint *BlockRef `json:"checkpoint,omitempty"`
}

type SubmitHeaderRequest struct {
	Header block.Header `json:"header"`
}
type SubmitHeaderResponse struct {
	Hash    util.Hash `json:"hash"`
	Height  uint64    `json:"height"`
	TopHash util.Hash `json:"top_hash"`
}
