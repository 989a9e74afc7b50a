package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/emberchain/ember-node/adb"
	"github.com/emberchain/ember-node/block"
	"github.com/emberchain/ember-node/blockchain"
	"github.com/emberchain/ember-node/config"
	"github.com/emberchain/ember-node/util"

	"github.com/ergochat/readline"
	"github.com/pkg/errors"
)

type Cmd struct {
	Names  []string
	Action func(args []string)
	Args   string
}

type Commands []Cmd

// Readline will pass the whole line and current offset to it
// Completer need to pass all the candidates, and how long they shared the same characters in line
// Example:
//
// [go, git, git-shell, grep]
// Do("g", 1) => ["o", "it", "it-shell", "rep"], 1
// Do("gi", 2) => ["t", "t-shell"], 2
// Do("git", 3) => ["", "-shell"], 3
func (c Commands) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if len(line) == 0 {
		return [][]rune{}, 0
	}

	lineStr := string(line)

	sols := [][]rune{}

	for _, v := range c {
		name := v.Names[0]
		if strings.HasPrefix(name, lineStr) {
			sols = append(sols, []rune(name[len(lineStr):]))
		}
	}

	return sols, pos
}

// Exec runs the command named by the first word of line. It returns false if there is no such command.
func (c Commands) Exec(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return true
	}

	for _, v := range c {
		for _, name := range v.Names {
			if name == args[0] {
				v.Action(args[1:])
				return true
			}
		}
	}
	return false
}

func parseHeight(s string) (uint64, error) {
	h, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid height %q", s)
	}
	return h, nil
}

func newCommands(bc *blockchain.Blockchain, exit func()) Commands {
	var commands Commands

	commands = Commands{{
		Names: []string{"status", "info"},
		Args:  "",
		Action: func(args []string) {
			info := bc.GetInfo()

			Log.Infof("Network: %s; message start: %x; p2p port: %d; rpc port: %d", info.Network,
				bc.Params.MessageStart, bc.Params.P2PBindPort, bc.Params.RPCBindPort)
			Log.Infof("Last PoW block: %d; PoS start block: %d", bc.Params.LastPOWBlock, bc.Params.POSStartBlock)
			Log.Infof("Height: %d; top hash: %s", info.Height, info.TopHash)
			Log.Infof("Total blocks estimate: %d", info.TotalBlocksEstimate)
			Log.Infof("Sync checkpoint: %d %s", info.SyncCheckpoint.Height, info.SyncCheckpoint.Hash)
			if info.LastCheckpoint != nil {
				Log.Infof("Last checkpoint: %d %s", info.LastCheckpoint.Height, info.LastCheckpoint.Hash)
			}
		},
	}, {
		Names: []string{"exit", "quit"},
		Args:  "",
		Action: func(args []string) {
			exit()
		},
	}, {
		Names: []string{"help"},
		Args:  "",
		Action: func(args []string) {
			Log.Info("List of available commands:")
			for _, v := range commands {
				Log.Infof("%s %s", util.PadR(v.Names[0], 18), v.Args)
			}
		},
	}, {
		Names: []string{"checkpoints"},
		Args:  "",
		Action: func(args []string) {
			set := bc.Checkpoints.Set()

			Log.Infof("%d checkpoints, digest %s", set.Len(), set.Digest())
			Log.Infof("%s %s", util.PadL("Height", 10), "Hash")
			for cp := range set.All() {
				Log.Infof("%s %s", util.PadL(util.FormatUint(cp.Height), 10), cp.Hash)
			}
		},
	}, {
		Names: []string{"check_hardened"},
		Args:  "<height> <hash>",
		Action: func(args []string) {
			if len(args) != 2 {
				Log.Err("Usage: check_hardened <height> <hash>")
				return
			}
			height, err := parseHeight(args[0])
			if err != nil {
				Log.Err(err)
				return
			}
			hash, err := util.HashFromHex(args[1])
			if err != nil {
				Log.Err(err)
				return
			}
			Log.Infof("check_hardened %d %s: %v", height, hash, bc.Checkpoints.CheckHardened(height, hash))
		},
	}, {
		Names: []string{"check_sync"},
		Args:  "<height>",
		Action: func(args []string) {
			if len(args) != 1 {
				Log.Err("Usage: check_sync <height>")
				return
			}
			height, err := parseHeight(args[0])
			if err != nil {
				Log.Err(err)
				return
			}
			Log.Infof("check_sync %d: %v", height, bc.CheckSync(height))
		},
	}, {
		Names: []string{"sync_checkpoint"},
		Args:  "",
		Action: func(args []string) {
			sync, ok := bc.SyncCheckpoint()
			if !ok {
				Log.Info("no sync checkpoint")
				return
			}
			Log.Infof("Sync checkpoint: %d %s (span %d)", sync.Height, sync.Hash, bc.Checkpoints.Span())
		},
	}, {
		Names: []string{"last_checkpoint"},
		Args:  "",
		Action: func(args []string) {
			last, ok := bc.LastCheckpoint()
			if !ok {
				Log.Info("no checkpoint reached yet")
				return
			}
			Log.Infof("Last checkpoint: %d %s", last.Height, last.Hash)
		},
	}, {
		Names: []string{"print_block"},
		Args:  "<height or hash>",
		Action: func(args []string) {
			if len(args) != 1 {
				Log.Err("Usage: print_block <height or hash>")
				return
			}

			err := bc.DB.View(func(txn adb.Txn) error {
				var hash util.Hash
				var hdr *block.Header
				var err error

				if len(args[0]) == 64 {
					hash, err = util.HashFromHex(args[0])
					if err != nil {
						return err
					}
					hdr, err = bc.GetHeader(txn, hash)
					if err != nil {
						return err
					}
				} else {
					height, err := parseHeight(args[0])
					if err != nil {
						return err
					}
					hash, hdr, err = bc.GetHeaderByHeight(txn, height)
					if err != nil {
						return err
					}
				}

				topo, err := bc.GetTopo(txn, hdr.Height)
				Log.Info("block is in mainchain:", err == nil && topo == hash)

				if hdr.Height == 0 {
					Log.Infof("Genesis block %s, timestamp %d", hash, hdr.Timestamp)
					return nil
				}
				Log.Info(hdr)
				return nil
			})
			if err != nil {
				Log.Err(err)
			}
		},
	}, {
		Names: []string{"create_checkpoints"},
		Args:  "[<max height>] [<interval>]",
		Action: func(args []string) {
			maxHeight := bc.GetInfo().Height
			interval := uint64(config.DEFAULT_CHECKPOINT_INTERVAL)

			var err error
			if len(args) > 0 {
				maxHeight, err = parseHeight(args[0])
				if err != nil {
					Log.Err(err)
					return
				}
			}
			if len(args) > 1 {
				interval, err = strconv.ParseUint(args[1], 10, 64)
				if err != nil {
					Log.Err("invalid interval:", err)
					return
				}
			}

			set, err := bc.CreateCheckpoints(maxHeight, interval)
			if err != nil {
				Log.Err(err)
				return
			}

			Log.Infof("// checkpoints generated with: create_checkpoints %d %d", maxHeight, interval)
			Log.Infof("const %s_CHECKPOINTS_BLAKE3 = \"%s\"", strings.ToUpper(bc.Params.Name()), set.Digest())
			err = os.WriteFile("checkpoints.bin", set.Serialize(), 0o666)
			if err != nil {
				Log.Err(err)
				return
			}
			Log.Infof("%d checkpoints saved to file checkpoints.bin", set.Len())
		},
	}, {
		Names: []string{"log_level"},
		Args:  "<level>",
		Action: func(args []string) {
			if len(args) != 1 {
				Log.Infof("Log level: %d", Log.GetLogLevel())
				return
			}
			lvl, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				Log.Err("invalid log level:", err)
				return
			}
			Log.SetLogLevel(uint8(lvl))
			Log.Infof("Log level set to %d", lvl)
		},
	}}

	return commands
}

func prompts(bc *blockchain.Blockchain) {
	exit := func() {
		bc.Close()
		os.Exit(0)
	}
	commands := newCommands(bc, exit)

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32m>\033[0m ",
		AutoComplete:    commands,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	l.CaptureExitSignal()

	Log.SetStdout(l.Stdout())
	Log.SetStderr(l.Stderr())

	for {
		line, err := l.ReadLine()
		if err != nil {
			Log.Debug(err)
			exit()
		}

		if !commands.Exec(line) {
			Log.Err("unknown command, use help to see a list of commands")
		}
	}
}
