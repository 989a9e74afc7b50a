package config

// This file holds advanced config options. You shouldn't edit these options unless you really know what you
// are doing: they are consensus-relevant.

// Number of blocks the sync checkpoint trails the best tip. Branches that replace history at or below the
// sync checkpoint are rejected.
const CHECKPOINT_SPAN = 5000

// Interval used by create_checkpoints when none is given.
const DEFAULT_CHECKPOINT_INTERVAL = 1000

const VERSION = VERSION_MAJOR<<32 + VERSION_MINOR<<16 + VERSION_PATCH
