package daemonrpc

import (
	"net/http/httptest"
	"testing"

	"github.com/emberchain/ember-node/rpc"
	"github.com/emberchain/ember-node/rpc/rpcserver"
	"github.com/emberchain/ember-node/util"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	srv := rpcserver.New(rpcserver.Config{Authentication: "u:p"})
	srv.Handle("check_sync", func(c *rpcserver.Context) {
		p := CheckSyncRequest{}
		if c.GetParams(&p) != nil {
			return
		}
		if p.Height == 0 {
			c.ErrorResponse(&rpc.Error{
				Code:    rpc.ErrInvalidParams,
				Message: "height must be positive",
			})
			return
		}
		c.SuccessResponse(CheckSyncResponse{
			Allowed:        p.Height > 10,
			SyncCheckpoint: &BlockRef{Height: 10, Hash: util.Hash{10}},
		})
	})

	hs := httptest.NewServer(srv)
	defer hs.Close()

	cl := NewRpcClient(hs.URL)
	cl.Authentication = "u:p"

	res, err := cl.CheckSync(CheckSyncRequest{Height: 11})
	require.NoError(t, err)
	require.True(t, res.Allowed)
	require.Equal(t, uint64(10), res.SyncCheckpoint.Height)
	require.Equal(t, util.Hash{10}, res.SyncCheckpoint.Hash)

	res, err = cl.CheckSync(CheckSyncRequest{Height: 10})
	require.NoError(t, err)
	require.False(t, res.Allowed)

	_, err = cl.CheckSync(CheckSyncRequest{Height: 0})
	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, rpc.ErrInvalidParams, rpcErr.Code)

	_, err = cl.GetInfo(GetInfoRequest{})
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, rpc.ErrMethodNotFound, rpcErr.Code)

	cl.Authentication = ""
	_, err = cl.CheckSync(CheckSyncRequest{Height: 11})
	require.True(t, errors.As(err, &rpcErr))
	require.Equal(t, 400, rpcErr.Code)
}
