package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/emberchain/ember-node/adb"
	"github.com/emberchain/ember-node/adb/boltdb"
	"github.com/emberchain/ember-node/adb/lmdb"
	"github.com/emberchain/ember-node/blockchain"
	"github.com/emberchain/ember-node/checkpoints"
	"github.com/emberchain/ember-node/config"
	"github.com/emberchain/ember-node/logger"
	"github.com/emberchain/ember-node/rpc"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Log = logger.New()

func init() {
	blockchain.Log = Log
	checkpoints.Log = Log
	rpc.Log = Log
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		Log.Fatal(err)
	}
	return filepath.Join(home, "."+config.NAME)
}

func main() {
	version := flag.Bool("version", false, "prints version and exits")
	testnet := flag.Bool("testnet", false, "runs on the test network")
	data_dir := flag.String("data-dir", "", "sets the data directory (default ~/."+config.NAME+")")
	db_backend := flag.String("db", config.DEFAULT_DB_BACKEND, "database backend: lmdb or bolt")
	public_rpc := flag.Bool("public-rpc", false, "required for public RPC nodes: restricts CORS and binds on 0.0.0.0")
	rpc_bind_port := flag.Uint("rpc-bind-port", 0, "starts RPC server on this port (default: network RPC port)")
	metrics_bind := flag.String("metrics-bind", "", "serves prometheus metrics on this address, for example 127.0.0.1:9217")
	log_level := flag.Uint("log-level", 1, "sets the log level")
	non_interactive := flag.Bool("non-interactive", false, "if set, the node will not process the stdinput. Useful for running as a service.")

	flag.Parse()

	if *version {
		fmt.Printf("%s-node v%s\n", config.NAME, config.VersionString())
		os.Exit(0)
	}

	Log.SetLogLevel(uint8(*log_level))

	params := config.Select(*testnet)

	Log.Info("Starting", params.Name(), "node")
	Log.Infof("Version: %s", config.VersionString())
	if params.IsAlternate() {
		Log.Warn("This is a", strings.ToUpper(params.Name()), "node, only for testing the blockchain.")
	}

	dir := *data_dir
	if dir == "" {
		dir = defaultDataDir()
	}
	if params.DataDirSuffix != "" {
		dir = filepath.Join(dir, params.DataDirSuffix)
	}

	db, err := openDB(*db_backend, dir)
	if err != nil {
		Log.Fatal(err)
	}

	// a genesis or checkpoint mismatch means the binary or the database is for another network
	bc, err := blockchain.New(params, db)
	if err != nil {
		Log.Fatal(err)
	}

	bind_ip := "127.0.0.1"
	if *public_rpc {
		bind_ip = "0.0.0.0"
	}
	rpc_port := uint16(*rpc_bind_port)
	if rpc_port == 0 {
		rpc_port = params.RPCBindPort
	}

	go startRpc(bc, bind_ip, rpc_port, *public_rpc)
	if *metrics_bind != "" {
		go startMetrics(*metrics_bind)
	}

	if !*non_interactive {
		prompts(bc)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	bc.Close()
}

func openDB(backend, dir string) (adb.DB, error) {
	switch backend {
	case "lmdb":
		return lmdb.New(filepath.Join(dir, "lmdb"), 0o755, Log)
	case "bolt", "bbolt":
		err := os.MkdirAll(dir, 0o755)
		if err != nil {
			return nil, err
		}
		return boltdb.New(filepath.Join(dir, "chain.db"), 0o644)
	}
	return nil, errors.Errorf("unknown database backend %q", backend)
}

func startMetrics(bind string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:        bind,
		Handler:     mux,
		ReadTimeout: config.METRICS_READ_TIMEOUT,
	}
	Log.Infof("Metrics server listening on %s", bind)
	err := srv.ListenAndServe()
	if err != nil {
		Log.Err("metrics server:", err)
	}
}
