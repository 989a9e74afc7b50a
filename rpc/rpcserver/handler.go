package rpcserver

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/emberchain/ember-node/rpc"

	"github.com/pkg/errors"
)

const sInvalidJson = "Parse error"
const sInvalidMethod = "Method not found"

// requests larger than this are refused
const MAX_BODY_SIZE = 1 << 20

func (s *Server) handler(res http.ResponseWriter, req *http.Request) error {
	if req.Method == "OPTIONS" {
		if len(s.config.Authentication) == 0 {
			res.Header().Set("Access-Control-Allow-Origin", "*")
			res.WriteHeader(204)
			return nil
		}
	}

	if req.Method != "POST" {
		res.Header().Set("Content-Type", "application/json")
		res.WriteHeader(405)
		WriteJSON(res, rpc.ResponseOut{
			JsonRpc: "2.0",
			Error: &rpc.Error{
				Code:    405,
				Message: "Method Not Allowed",
			},
		})
		return errors.New("method not allowed")
	}

	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		ip = req.RemoteAddr
	}
	if !s.limit.CanAct(ip, 1) {
		res.Header().Set("Content-Type", "application/json")
		res.WriteHeader(429)
		WriteJSON(res, rpc.ResponseOut{
			JsonRpc: "2.0",
			Error: &rpc.Error{
				Code:    429,
				Message: "Too Many Requests",
			},
		})
		return errors.New("too many requests")
	}

	if s.config.Restricted {
		if origin := req.Header.Get("Origin"); origin != "" && !isLocalOrigin(origin) {
			res.Header().Set("Content-Type", "application/json")
			res.WriteHeader(400)
			WriteJSON(res, rpc.ResponseOut{
				JsonRpc: "2.0",
				Error: &rpc.Error{
					Code:    400,
					Message: "invalid origin",
				},
			})
			return errors.New("invalid origin")
		}
	}

	if len(s.config.Authentication) != 0 {
		uname, pw, ok := req.BasicAuth()
		if !ok || uname+":"+pw != s.config.Authentication {
			res.Header().Set("Content-Type", "application/json")
			res.WriteHeader(400)
			s.limit.CanAct(ip, 9)
			WriteJSON(res, rpc.ResponseOut{
				JsonRpc: "2.0",
				Error: &rpc.Error{
					Code:    400,
					Message: "unauthorized",
				},
			})
			return errors.New("unauthorized")
		}
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, MAX_BODY_SIZE))
	if err != nil || len(body) < 2 {
		WriteJSON(res, rpc.ResponseOut{
			JsonRpc: "2.0",
			Error: &rpc.Error{
				Code:    rpc.ErrParse,
				Message: sInvalidJson,
			},
			Id: 0,
		})
		return errors.New("invalid json")
	}

	var jsonBody rpc.RequestIn

	err = json.Unmarshal(body, &jsonBody)
	if err != nil {
		WriteJSON(res, rpc.ResponseOut{
			JsonRpc: "2.0",
			Error: &rpc.Error{
				Code:    rpc.ErrParse,
				Message: sInvalidJson,
			},
			Id: jsonBody.Id,
		})
		return errors.Wrap(err, "invalid rpc request body")
	}

	res.Header().Set("Content-Type", "application/json")
	if len(s.config.Authentication) == 0 {
		res.Header().Set("Access-Control-Allow-Origin", "*")
	}

	if jsonBody.JsonRpc != "2.0" {
		WriteJSON(res, rpc.ResponseOut{
			JsonRpc: "2.0",
			Error: &rpc.Error{
				Code:    rpc.ErrInvalidRequest,
				Message: "invalid json_rpc version, expected 2.0",
			},
			Id: jsonBody.Id,
		})
		return errors.New("invalid json_rpc version, expected 2.0")
	}

	if jsonBody.Params == nil {
		jsonBody.Params = json.RawMessage{}
	}

	// Handle the input

	jsonBody.Method = strings.ToLower(jsonBody.Method)

	handler := s.handlers[jsonBody.Method]
	if handler == nil {
		WriteJSON(res, rpc.ResponseOut{
			JsonRpc: "2.0",
			Error: &rpc.Error{
				Code:    rpc.ErrMethodNotFound,
				Message: sInvalidMethod,
			},
			Id: jsonBody.Id,
		})
		return errors.New("invalid method")
	}

	ctx := NewContext(req, res, &jsonBody)

	handler(ctx)
	return nil
}

func WriteJSON(res http.ResponseWriter, v any) error {
	bin, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = res.Write(bin)
	return err
}

func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "127.0.0.1", "localhost", "::1":
		return true
	}
	return false
}
