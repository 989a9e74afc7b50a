package util

import (
	"strconv"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// returns the timestamp (UNIX milliseconds)
func Time() uint64 {
	return uint64(time.Now().UnixMilli())
}

func FormatUint[V uint | uint8 | uint16 | uint32 | uint64](n V) string {
	return strconv.FormatUint(uint64(n), 10)
}

func PadR(s string, l int) string {
	for len(s) < l {
		s = " " + s
	}
	return s
}
func PadL(s string, l int) string {
	for len(s) < l {
		s = s + " "
	}
	return s
}

func PadC(s string, l int) string {
	for len(s)+1 < l {
		s = " " + s + " "
	}
	if len(s) < l {
		s = s + " "
	}
	return s
}

func init() {
	deadlock.Opts.DeadlockTimeout = 30 * time.Second
}

type Mutex = deadlock.Mutex
type RWMutex = deadlock.RWMutex

func IsHex(s string) bool {
	for _, v := range s {
		if v < '0' || v > 'f' || (v > '9' && v < 'a') {
			return false
		}
	}
	return true
}
