package sim

import (
	"cmp"
	"math/rand"
	"slices"

	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-netvalue/common/types"
)

// LinkStats counts what happened to packets on a link.
type LinkStats struct {
	Sent       int `json:"sent"`
	Dropped    int `json:"dropped"`
	Duplicated int `json:"duplicated"`
	Delivered  int `json:"delivered"`
	Reordered  int `json:"reordered"`
}

func (s *LinkStats) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("sent", s.Sent)
	encoder.AddInt("dropped", s.Dropped)
	encoder.AddInt("duplicated", s.Duplicated)
	encoder.AddInt("delivered", s.Delivered)
	encoder.AddInt("reordered", s.Reordered)
	return nil
}

type inflight struct {
	deliver types.FrameID
	seq     uint64
	data    []byte
}

// Link is an unreliable one way channel measured in frames. It drops,
// duplicates and delays packets, delays differ so packets may arrive out of order.
type Link struct {
	rng        *rand.Rand
	latency    uint32
	maxReorder uint32
	loss       float64
	duplicate  float64

	seq       uint64
	delivered uint64
	queue     []inflight
	stats     LinkStats
}

func NewLink(rng *rand.Rand, cfg Config) *Link {
	return &Link{
		rng:        rng,
		latency:    cfg.Latency,
		maxReorder: cfg.MaxReorder,
		loss:       cfg.LossRate,
		duplicate:  cfg.DuplicateRate,
	}
}

// Send queues data sent at frame now.
func (l *Link) Send(now types.FrameID, data []byte) {
	l.stats.Sent++
	if l.rng.Float64() < l.loss {
		l.stats.Dropped++
		return
	}
	l.enqueue(now, data)
	if l.rng.Float64() < l.duplicate {
		l.stats.Duplicated++
		l.enqueue(now, data)
	}
}

func (l *Link) enqueue(now types.FrameID, data []byte) {
	delay := l.latency
	if l.maxReorder > 0 {
		delay += uint32(l.rng.Int63n(int64(l.maxReorder) + 1))
	}
	l.seq++
	l.queue = append(l.queue, inflight{deliver: now.Add(delay), seq: l.seq, data: data})
}

// Receive returns packets due at frame now, in arrival order.
func (l *Link) Receive(now types.FrameID) [][]byte {
	var due []inflight
	l.queue = slices.DeleteFunc(l.queue, func(p inflight) bool {
		if !p.deliver.After(now) {
			due = append(due, p)
			return true
		}
		return false
	})
	slices.SortFunc(due, func(a, b inflight) int {
		if c := a.deliver.Compare(b.deliver); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	rst := make([][]byte, 0, len(due))
	for _, p := range due {
		if p.seq < l.delivered {
			l.stats.Reordered++
		}
		l.delivered = max(l.delivered, p.seq)
		rst = append(rst, p.data)
	}
	l.stats.Delivered += len(rst)
	return rst
}

// Pending returns the number of packets in flight.
func (l *Link) Pending() int {
	return len(l.queue)
}

func (l *Link) Stats() LinkStats {
	return l.stats
}
