package daemonrpc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emberchain/ember-node/rpc"

	"github.com/pkg/errors"
)

type RpcClient struct {
	DaemonAddress string

	// Authentication is the username:password sent with Basic Auth, if not empty.
	Authentication string

	Client *http.Client
}

func NewRpcClient(addr string) *RpcClient {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &RpcClient{
		DaemonAddress: addr,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Request calls method and decodes the result into output. Errors returned by the daemon are *rpc.Error.
func (r *RpcClient) Request(method string, params any, output any) error {
	body := rpc.RequestOut{
		JsonRpc: "2.0",
		Method:  method,
		Params:  params,
		Id:      0,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", r.DaemonAddress, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.Authentication != "" {
		user, pass, _ := strings.Cut(r.Authentication, ":")
		req.SetBasicAuth(user, pass)
	}

	res, err := r.Client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request", method)
	}
	defer res.Body.Close()

	dat, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	out := rpc.ResponseIn{}
	err = json.Unmarshal(dat, &out)
	if err != nil {
		return errors.Wrapf(err, "%s response (HTTP %d)", method, res.StatusCode)
	}

	if out.Error != nil {
		return out.Error
	}

	return json.Unmarshal(out.Result, output)
}
