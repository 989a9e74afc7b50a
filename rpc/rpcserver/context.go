package rpcserver

import (
	"encoding/json"
	"net/http"

	"github.com/emberchain/ember-node/rpc"
)

type Context struct {
	req *http.Request
	res http.ResponseWriter

	Body *rpc.RequestIn
}

func NewContext(req *http.Request, res http.ResponseWriter, body *rpc.RequestIn) *Context {
	return &Context{
		req:  req,
		res:  res,
		Body: body,
	}
}

// GetParams decodes the request params into result. On failure the error response has already been sent.
func (c *Context) GetParams(result any) error {
	params := c.Body.Params
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	err := json.Unmarshal(params, result)
	if err != nil {
		c.ErrorResponse(&rpc.Error{
			Code:    rpc.ErrInvalidParams,
			Message: "Invalid params: " + err.Error(),
		})
	}
	return err
}

func (c *Context) Response(v rpc.ResponseOut) error {
	return WriteJSON(c.res, v)
}

func (c *Context) SuccessResponse(result any) error {
	return c.Response(rpc.ResponseOut{
		JsonRpc: "2.0",
		Result:  result,
		Id:      c.Body.Id,
	})
}

func (c *Context) ErrorResponse(e *rpc.Error) error {
	return c.Response(rpc.ResponseOut{
		JsonRpc: "2.0",
		Error:   e,
		Id:      c.Body.Id,
	})
}
