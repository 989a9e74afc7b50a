package main

import (
	"fmt"

	"github.com/emberchain/ember-node/blockchain"
	"github.com/emberchain/ember-node/chainindex"
	"github.com/emberchain/ember-node/checkpoints"
	"github.com/emberchain/ember-node/config"
	"github.com/emberchain/ember-node/rpc"
	"github.com/emberchain/ember-node/rpc/daemonrpc"
	"github.com/emberchain/ember-node/rpc/rpcserver"

	"github.com/pkg/errors"
)

func startRpc(bc *blockchain.Blockchain, ip string, port uint16, restricted bool) {
	ratelimitCount := config.RPC_RATE_LIMIT_PRIVATE
	if restricted {
		ratelimitCount = config.RPC_RATE_LIMIT_PUBLIC
	}

	rs := rpcserver.New(rpcserver.Config{
		Restricted: restricted,
		RateLimit:  ratelimitCount,
	})
	registerRpc(rs, bc)

	bind := fmt.Sprintf("%s:%d", ip, port)
	Log.Infof("RPC server listening on %s", bind)
	err := rs.ListenAndServe(bind)
	if err != nil {
		Log.Err("rpc server:", err)
	}
}

func toRef(r blockchain.BlockRef) daemonrpc.BlockRef {
	return daemonrpc.BlockRef{
		Height: r.Height,
		Hash:   r.Hash,
	}
}

// rejection errors are the submitter's fault, anything else is ours
func isRejection(err error) bool {
	for _, e := range []error{
		blockchain.ErrDuplicate,
		blockchain.ErrOrphan,
		blockchain.ErrBadHeight,
		blockchain.ErrCheckpointMismatch,
		blockchain.ErrSyncCheckpoint,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func registerRpc(rs *rpcserver.Server, bc *blockchain.Blockchain) {
	rs.Handle("get_info", func(c *rpcserver.Context) {
		info := bc.GetInfo()

		res := daemonrpc.GetInfoResponse{
			Version:             config.VersionString(),
			Network:             info.Network,
			Height:              info.Height,
			TopHash:             info.TopHash,
			Target:              config.TARGET_BLOCK_TIME,
			TotalBlocksEstimate: info.TotalBlocksEstimate,
			SyncCheckpoint:      toRef(info.SyncCheckpoint),
			Checkpoints:         info.Checkpoints,

			MessageStart:  bc.Params.MessageStart[:],
			P2PPort:       bc.Params.P2PBindPort,
			RPCPort:       bc.Params.RPCBindPort,
			LastPOWBlock:  bc.Params.LastPOWBlock,
			POSStartBlock: bc.Params.POSStartBlock,
		}
		if info.LastCheckpoint != nil {
			ref := toRef(*info.LastCheckpoint)
			res.LastCheckpoint = &ref
		}
		c.SuccessResponse(res)
	})

	rs.Handle("get_checkpoints", func(c *rpcserver.Context) {
		set := bc.Checkpoints.Set()

		res := daemonrpc.GetCheckpointsResponse{
			Checkpoints: make([]checkpoints.Checkpoint, 0, set.Len()),
			Digest:      set.Digest(),
			Hex:         set.Serialize(),
		}
		for cp := range set.All() {
			res.Checkpoints = append(res.Checkpoints, cp)
		}
		c.SuccessResponse(res)
	})

	rs.Handle("check_hardened", func(c *rpcserver.Context) {
		params := daemonrpc.CheckHardenedRequest{}
		err := c.GetParams(&params)
		if err != nil {
			return
		}

		_, checkpointed := bc.Checkpoints.Set().Get(params.Height)
		c.SuccessResponse(daemonrpc.CheckHardenedResponse{
			Hardened:     bc.Checkpoints.CheckHardened(params.Height, params.Hash),
			Checkpointed: checkpointed,
		})
	})

	rs.Handle("check_sync", func(c *rpcserver.Context) {
		params := daemonrpc.CheckSyncRequest{}
		err := c.GetParams(&params)
		if err != nil {
			return
		}

		res := daemonrpc.CheckSyncResponse{}
		bc.Chain.View(func(v *chainindex.View) error {
			sync := bc.Checkpoints.AutoSelectSyncCheckpoint(v)
			res.Allowed = checkpoints.CheckSyncAt(sync, params.Height)
			if sync != nil {
				res.SyncCheckpoint = &daemonrpc.BlockRef{
					Height: sync.Height(),
					Hash:   sync.Hash(),
				}
			}
			return nil
		})
		c.SuccessResponse(res)
	})

	rs.Handle("get_sync_checkpoint", func(c *rpcserver.Context) {
		sync, ok := bc.SyncCheckpoint()
		if !ok {
			c.ErrorResponse(&rpc.Error{
				Code:    rpc.ErrReadFailed,
				Message: "chain is empty",
			})
			return
		}
		c.SuccessResponse(daemonrpc.GetSyncCheckpointResponse{
			SyncCheckpoint: toRef(sync),
			Span:           bc.Checkpoints.Span(),
		})
	})

	rs.Handle("get_last_checkpoint", func(c *rpcserver.Context) {
		res := daemonrpc.GetLastCheckpointResponse{}

		last, ok := bc.LastCheckpoint()
		if ok {
			ref := toRef(last)
			res.Found = true
			res.Checkpoint = &ref
		}
		c.SuccessResponse(res)
	})

	rs.Handle("submit_header", func(c *rpcserver.Context) {
		params := daemonrpc.SubmitHeaderRequest{}
		err := c.GetParams(&params)
		if err != nil {
			return
		}

		hash, err := bc.AddBlock(&params.Header)
		if err != nil {
			code := rpc.ErrInsertFailed
			if isRejection(err) {
				code = rpc.ErrValidation
			} else {
				Log.Err("submit_header:", err)
			}
			c.ErrorResponse(&rpc.Error{
				Code:    code,
				Message: err.Error(),
			})
			return
		}

		c.SuccessResponse(daemonrpc.SubmitHeaderResponse{
			Hash:    hash,
			Height:  params.Header.Height,
			TopHash: bc.GetInfo().TopHash,
		})
	})
}
