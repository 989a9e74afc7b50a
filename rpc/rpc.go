package rpc

import (
	"encoding/json"
	"strconv"

	"github.com/emberchain/ember-node/logger"
)

var Log *logger.Log = logger.DiscardLog

// https://www.jsonrpc.org/specification#error_object
const (
	ErrParse          = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603

	// implementation-defined server errors
	ErrValidation   = -32000
	ErrReadFailed   = -32001
	ErrInsertFailed = -32002
)

// https://www.jsonrpc.org/specification#request_object
type RequestIn struct {
	JsonRpc string          `json:"jsonrpc"` // Must be "2.0"
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	Id      any             `json:"id"`
}
type RequestOut struct {
	JsonRpc string `json:"jsonrpc"` // Must be "2.0"
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	Id      any    `json:"id"`
}

// https://www.jsonrpc.org/specification#response_object
type ResponseIn struct {
	JsonRpc string          `json:"jsonrpc"` // Must be "2.0"
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	Id      any             `json:"id"`
}
type ResponseOut struct {
	JsonRpc string `json:"jsonrpc"` // Must be "2.0"
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Id      any    `json:"id"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return "rpc error " + strconv.Itoa(e.Code) + ": " + e.Message
}
