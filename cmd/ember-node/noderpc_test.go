package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/emberchain/ember-node/adb/boltdb"
	"github.com/emberchain/ember-node/block"
	"github.com/emberchain/ember-node/blockchain"
	"github.com/emberchain/ember-node/checkpoints"
	"github.com/emberchain/ember-node/config"
	"github.com/emberchain/ember-node/logger"
	"github.com/emberchain/ember-node/rpc"
	"github.com/emberchain/ember-node/rpc/daemonrpc"
	"github.com/emberchain/ember-node/rpc/rpcserver"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testSpan = 4

func setupNode(t *testing.T) *blockchain.Blockchain {
	t.Helper()

	Log = logger.DiscardLog
	blockchain.Log = logger.DiscardLog

	genesis := config.TestnetParams.GenesisHash
	set, err := checkpoints.NewSet(checkpoints.Checkpoint{Height: 0, Hash: genesis})
	require.NoError(t, err)
	auth, err := checkpoints.NewFromSet(config.TestnetParams, set, testSpan)
	require.NoError(t, err)

	db, err := boltdb.New(filepath.Join(t.TempDir(), "chain.db"), 0o600)
	require.NoError(t, err)
	bc, err := blockchain.NewWithCheckpoints(db, auth)
	require.NoError(t, err)
	t.Cleanup(func() { bc.Close() })
	return bc
}

func startTestRpc(t *testing.T, bc *blockchain.Blockchain) *daemonrpc.RpcClient {
	t.Helper()

	rs := rpcserver.New(rpcserver.Config{})
	registerRpc(rs, bc)
	hs := httptest.NewServer(rs)
	t.Cleanup(hs.Close)

	return daemonrpc.NewRpcClient(hs.URL)
}

func testHeader(prev util.Hash, height uint64, nonce uint32) block.Header {
	return block.Header{
		Version:   1,
		Height:    height,
		Timestamp: config.GENESIS_TIMESTAMP + height*config.TARGET_BLOCK_TIME,
		PrevHash:  prev,
		Nonce:     nonce,
	}
}

func TestNodeRpc(t *testing.T) {
	bc := setupNode(t)
	cl := startTestRpc(t, bc)
	genesis := config.TestnetParams.GenesisHash

	info, err := cl.GetInfo(daemonrpc.GetInfoRequest{})
	require.NoError(t, err)
	require.Equal(t, "testnet", info.Network)
	require.Equal(t, uint64(0), info.Height)
	require.Equal(t, genesis, info.TopHash)
	require.Equal(t, 1, info.Checkpoints)
	require.NotNil(t, info.LastCheckpoint)
	require.Equal(t, "fca23de8", info.MessageStart.String())
	require.Equal(t, config.TestnetParams.P2PBindPort, info.P2PPort)
	require.Equal(t, config.TestnetParams.RPCBindPort, info.RPCPort)
	require.Equal(t, uint64(0x7fffffff), info.LastPOWBlock)
	require.Equal(t, uint64(101), info.POSStartBlock)

	// build 8 blocks through the RPC
	chain := []util.Hash{genesis}
	for h := uint64(1); h <= 8; h++ {
		res, err := cl.SubmitHeader(daemonrpc.SubmitHeaderRequest{
			Header: testHeader(chain[h-1], h, 0),
		})
		require.NoError(t, err)
		require.Equal(t, h, res.Height)
		require.Equal(t, res.Hash, res.TopHash)
		chain = append(chain, res.Hash)
	}

	sync, err := cl.GetSyncCheckpoint(daemonrpc.GetSyncCheckpointRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(8-testSpan), sync.SyncCheckpoint.Height)
	require.Equal(t, chain[8-testSpan], sync.SyncCheckpoint.Hash)
	require.Equal(t, uint64(testSpan), sync.Span)

	cs, err := cl.CheckSync(daemonrpc.CheckSyncRequest{Height: 4})
	require.NoError(t, err)
	require.False(t, cs.Allowed)
	require.Equal(t, uint64(4), cs.SyncCheckpoint.Height)
	cs, err = cl.CheckSync(daemonrpc.CheckSyncRequest{Height: 5})
	require.NoError(t, err)
	require.True(t, cs.Allowed)

	// a branch replacing the sync checkpoint is refused
	_, err = cl.SubmitHeader(daemonrpc.SubmitHeaderRequest{
		Header: testHeader(chain[3], 4, 1),
	})
	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, rpc.ErrValidation, rpcErr.Code)

	_, err = cl.SubmitHeader(daemonrpc.SubmitHeaderRequest{
		Header: testHeader(util.Hash{1}, 4, 1),
	})
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, rpc.ErrValidation, rpcErr.Code)

	last, err := cl.GetLastCheckpoint(daemonrpc.GetLastCheckpointRequest{})
	require.NoError(t, err)
	require.True(t, last.Found)
	require.Equal(t, uint64(0), last.Checkpoint.Height)
	require.Equal(t, genesis, last.Checkpoint.Hash)
}

func TestNodeRpcCheckpoints(t *testing.T) {
	bc := setupNode(t)
	cl := startTestRpc(t, bc)
	genesis := config.TestnetParams.GenesisHash

	res, err := cl.GetCheckpoints(daemonrpc.GetCheckpointsRequest{})
	require.NoError(t, err)
	require.Len(t, res.Checkpoints, 1)
	require.Equal(t, genesis, res.Checkpoints[0].Hash)
	require.Equal(t, bc.Checkpoints.Set().Digest(), res.Digest)

	set, err := checkpoints.Deserialize(res.Hex)
	require.NoError(t, err)
	require.Equal(t, res.Digest, set.Digest())

	hr, err := cl.CheckHardened(daemonrpc.CheckHardenedRequest{Height: 0, Hash: genesis})
	require.NoError(t, err)
	require.True(t, hr.Hardened)
	require.True(t, hr.Checkpointed)

	hr, err = cl.CheckHardened(daemonrpc.CheckHardenedRequest{Height: 0, Hash: util.Hash{2}})
	require.NoError(t, err)
	require.False(t, hr.Hardened)

	hr, err = cl.CheckHardened(daemonrpc.CheckHardenedRequest{Height: 7, Hash: util.Hash{2}})
	require.NoError(t, err)
	require.True(t, hr.Hardened)
	require.False(t, hr.Checkpointed)
}

func TestCommands(t *testing.T) {
	bc := setupNode(t)

	var out bytes.Buffer
	Log = logger.NewWriter(&out, logger.LevelInfo)

	prev := config.TestnetParams.GenesisHash
	for h := uint64(1); h <= 6; h++ {
		hdr := testHeader(prev, h, 0)
		hash, err := bc.AddBlock(&hdr)
		require.NoError(t, err)
		prev = hash
	}

	exited := false
	cmds := newCommands(bc, func() { exited = true })

	require.True(t, cmds.Exec("check_sync 2"))
	require.Contains(t, out.String(), "check_sync 2: false")
	require.True(t, cmds.Exec("check_sync 3"))
	require.Contains(t, out.String(), "check_sync 3: true")

	out.Reset()
	require.True(t, cmds.Exec("check_hardened 0 "+config.GENESIS_HASH))
	require.Contains(t, out.String(), ": true")

	out.Reset()
	require.True(t, cmds.Exec("sync_checkpoint"))
	require.Contains(t, out.String(), "Sync checkpoint: 2 ")

	out.Reset()
	require.True(t, cmds.Exec("status"))
	require.Contains(t, out.String(), "message start: fca23de8; p2p port: 27170; rpc port: 27171")
	require.Contains(t, out.String(), "Last PoW block: 2147483647; PoS start block: 101")

	out.Reset()
	require.True(t, cmds.Exec("print_block 6"))
	require.Contains(t, out.String(), "block is in mainchain: true")
	require.Contains(t, out.String(), prev.String())

	require.True(t, cmds.Exec("  "))
	require.False(t, cmds.Exec("nope"))

	require.True(t, cmds.Exec("quit"))
	require.True(t, exited)

	sols, _ := cmds.Do([]rune("check_"), 6)
	require.Len(t, sols, 2)
}
