package ratelimit

import (
	"time"

	"github.com/emberchain/ember-node/util"
)

// seconds an address is refused after exceeding its quota
const BAN_TIME = 120

type info struct {
	Count     int
	LastClear int64
	BanEnds   int64
}

func New(maxPerMinute int) *Limit {
	return &Limit{
		maxPerMinute: maxPerMinute,
		info:         make(map[string]*info),
		now: func() int64 {
			return time.Now().Unix()
		},
	}
}

// Limit counts actions per address over one-minute windows.
type Limit struct {
	maxPerMinute int
	info         map[string]*info
	now          func() int64

	util.Mutex
}

// CanAct records amount actions from ip and reports whether they are allowed.
func (l *Limit) CanAct(ip string, amount int) bool {
	l.Lock()
	defer l.Unlock()

	t := l.now()

	inf := l.info[ip]
	if inf == nil {
		inf = &info{
			LastClear: t,
		}
		l.info[ip] = inf
	}

	if inf.BanEnds > t {
		return false
	}
	if inf.LastClear+60 < t {
		inf.LastClear = t
		inf.Count = 0
	}

	inf.Count += amount

	if inf.Count > l.maxPerMinute {
		inf.BanEnds = t + BAN_TIME
		return false
	}
	return true
}

// Cleanup forgets addresses that are neither banned nor active in the current window.
func (l *Limit) Cleanup() {
	l.Lock()
	defer l.Unlock()

	t := l.now()
	for ip, inf := range l.info {
		if inf.BanEnds <= t && inf.LastClear+60 < t {
			delete(l.info, ip)
		}
	}
}

func (l *Limit) Len() int {
	l.Lock()
	defer l.Unlock()

	return len(l.info)
}
