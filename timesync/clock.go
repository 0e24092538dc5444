// Package timesync ticks network frames on top of the wall clock.
package timesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-netvalue/common/types"
	"github.com/spacemeshos/go-netvalue/log"
)

var errClosed = errors.New("clock closed")

// FrameTimer receives ticked frames. Ticks are dropped if the receiver lags.
type FrameTimer <-chan types.FrameID

type Option func(*Clock)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Clock) {
		c.logger = logger
	}
}

// WithClock overrides the wall clock.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Clock) {
		c.clock = clock
	}
}

func WithConfig(cfg Config) Option {
	return func(c *Clock) {
		c.config = cfg
	}
}

// Clock notifies subscribers about new frames.
type Clock struct {
	logger *zap.Logger
	clock  clockwork.Clock
	config Config
	conv   FrameConv

	mu            sync.Mutex
	lastTicked    types.FrameID
	subscribers   map[chan types.FrameID]struct{}
	frameChannels map[types.FrameID]chan struct{}

	stop chan struct{}
	once sync.Once
}

func NewClock(opts ...Option) (*Clock, error) {
	c := &Clock{
		logger:        zap.NewNop(),
		clock:         clockwork.NewRealClock(),
		config:        DefaultConfig(),
		subscribers:   map[chan types.FrameID]struct{}{},
		frameChannels: map[types.FrameID]chan struct{}{},
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	genesis, err := c.config.Genesis(c.clock.Now())
	if err != nil {
		return nil, err
	}
	c.conv = NewFrameConv(genesis, c.config.FrameDuration)
	c.lastTicked = c.conv.TimeToFrame(c.clock.Now())
	c.logger.Info("created frame clock",
		zap.Time("genesis", genesis),
		zap.Duration("frame duration", c.config.FrameDuration),
		log.ZFrame(c.lastTicked),
	)
	return c, nil
}

// Now returns the current network time.
func (c *Clock) Now() types.NetworkTime {
	return c.conv.TimeToNetworkTime(c.clock.Now())
}

// CurrentFrame returns the frame in progress.
func (c *Clock) CurrentFrame() types.FrameID {
	return c.conv.TimeToFrame(c.clock.Now())
}

// FrameToTime returns the time frame starts at.
func (c *Clock) FrameToTime(frame types.FrameID) time.Time {
	return c.conv.FrameToTime(frame)
}

var closedChan = make(chan struct{})

func init() {
	close(closedChan)
}

// AwaitFrame returns a channel that is closed once frame is ticked.
func (c *Clock) AwaitFrame(frame types.FrameID) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !frame.After(c.lastTicked) {
		return closedChan
	}
	ch, ok := c.frameChannels[frame]
	if !ok {
		ch = make(chan struct{})
		c.frameChannels[frame] = ch
	}
	return ch
}

// Subscribe returns a channel that receives every ticked frame.
func (c *Clock) Subscribe() FrameTimer {
	ch := make(chan types.FrameID, 1)
	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

// Unsubscribe stops notifications for timer returned by Subscribe.
func (c *Clock) Unsubscribe(timer FrameTimer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.subscribers {
		if FrameTimer(ch) == timer {
			delete(c.subscribers, ch)
			return
		}
	}
}

// Run ticks frames until ctx is canceled or the clock is closed.
func (c *Clock) Run(ctx context.Context) error {
	for {
		next := c.conv.FrameToTime(c.CurrentFrame() + 1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stop:
			return errClosed
		case <-c.clock.After(next.Sub(c.clock.Now())):
			c.tick()
		}
	}
}

func (c *Clock) tick() {
	now := c.clock.Now()
	frame := c.conv.TimeToFrame(now)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !frame.After(c.lastTicked) {
		c.logger.Debug("skipping tick, frame already ticked",
			log.ZFrame(frame),
			zap.Uint32("last ticked", c.lastTicked.Uint32()),
		)
		return
	}
	latenessHist.Observe(now.Sub(c.conv.FrameToTime(frame)).Seconds())

	missed := 0
	for ch := range c.subscribers {
		select {
		case ch <- frame:
		default:
			missed++
		}
	}
	if missed > 0 {
		missedTicks.Add(float64(missed))
		c.logger.Debug("subscribers missed tick", log.ZFrame(frame), zap.Int("missed", missed))
	}
	for awaited, ch := range c.frameChannels {
		if !awaited.After(frame) {
			close(ch)
			delete(c.frameChannels, awaited)
		}
	}
	c.lastTicked = frame
}

// Close stops Run.
func (c *Clock) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}
