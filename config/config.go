package config

import (
	"strconv"
	"time"
)

const NAME = "ember"

const VERSION_MAJOR = 1
const VERSION_MINOR = 2
const VERSION_PATCH = 0

const MAX_HEIGHT = 5_000_000_000

const TARGET_BLOCK_TIME = 60

const RPC_RATE_LIMIT_PRIVATE = 100_000 // requests per minute
const RPC_RATE_LIMIT_PUBLIC = 5_000

const METRICS_READ_TIMEOUT = 10 * time.Second

const DEFAULT_DB_BACKEND = "lmdb"

func VersionString() string {
	return strconv.Itoa(VERSION_MAJOR) + "." + strconv.Itoa(VERSION_MINOR) + "." + strconv.Itoa(VERSION_PATCH)
}
