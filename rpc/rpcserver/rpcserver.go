package rpcserver

import (
	"net/http"
	"time"

	"github.com/emberchain/ember-node/rpc"
	"github.com/emberchain/ember-node/util/ratelimit"
)

// Server is a JSON-RPC 2.0 over HTTP POST endpoint. It implements http.Handler.
type Server struct {
	handlers map[string]Handler
	config   Config

	limit *ratelimit.Limit
}
type Handler = func(c *Context)

type Config struct {
	// When true, the RPC server will block CORS requests from other origins than localhost.
	Restricted bool

	// The username:password used in Basic Auth. Leave blank to disable authentication.
	Authentication string

	// The maximum number of requests per minute from a single IP address. Default is 500.
	RateLimit int
}

func New(config Config) *Server {
	if config.RateLimit == 0 {
		config.RateLimit = 500
	}

	return &Server{
		handlers: make(map[string]Handler),
		config:   config,
		limit:    ratelimit.New(config.RateLimit),
	}
}

// Handle registers f for method. Method names are case-insensitive.
func (s *Server) Handle(method string, f Handler) {
	s.handlers[method] = f
}

func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	err := s.handler(res, req)
	if err != nil {
		rpc.Log.Netf("rpc request from %s: %v", req.RemoteAddr, err)
	}
}

// ListenAndServe serves the RPC on bind until the listener fails. While serving it periodically drops stale
// rate limit entries.
func (s *Server) ListenAndServe(bind string) error {
	done := make(chan struct{})
	defer close(done)
	go s.cleanupLoop(CLEANUP_INTERVAL, done)

	httpSrv := &http.Server{
		Addr:              bind,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpSrv.ListenAndServe()
}

const CLEANUP_INTERVAL = 5 * time.Minute

// cleanupLoop runs until done is closed.
func (s *Server) cleanupLoop(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.limit.Cleanup()
		case <-done:
			return
		}
	}
}
