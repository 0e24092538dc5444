// Package sim replays authoritative motion of objects from a server to a client
// over a lossy link and measures how well the client reconstructs it.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/seehuhn/mt19937"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-netvalue/codec"
	"github.com/spacemeshos/go-netvalue/common/types"
	"github.com/spacemeshos/go-netvalue/log"
	"github.com/spacemeshos/go-netvalue/replica"
	"github.com/spacemeshos/go-netvalue/wire"
)

// Properties replicated for every object.
const (
	PropertyHealth   wire.PropertyID = 0
	PropertyPosition wire.PropertyID = 1
	PropertyRotation wire.PropertyID = 2
)

type Opt func(*Runner)

func WithLogger(logger *zap.Logger) Opt {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithReplicaLogger sets the logger of both registries.
func WithReplicaLogger(logger *zap.Logger) Opt {
	return func(r *Runner) {
		r.replicaLogger = logger
	}
}

func WithConfig(cfg Config) Opt {
	return func(r *Runner) {
		r.config = cfg
	}
}

func WithReplicaConfig(cfg replica.Config) Opt {
	return func(r *Runner) {
		r.replica = cfg
	}
}

// WithClock is required for realtime sessions.
func WithClock(clock frameClock) Opt {
	return func(r *Runner) {
		r.clock = clock
	}
}

// Runner drives a single session.
type Runner struct {
	logger        *zap.Logger
	replicaLogger *zap.Logger
	config        Config
	replica       replica.Config
	clock         frameClock
}

func New(opts ...Opt) (*Runner, error) {
	r := &Runner{
		logger:  zap.NewNop(),
		config:  DefaultConfig(),
		replica: replica.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.replicaLogger == nil {
		r.replicaLogger = r.logger
	}
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sim config: %w", err)
	}
	if r.config.Realtime && r.clock == nil {
		return nil, errors.New("realtime session requires a clock")
	}
	return r, nil
}

func newRegistry(logger *zap.Logger, cfg replica.Config) (*replica.Registry, error) {
	reg, err := replica.New(replica.WithLogger(logger), replica.WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	for property, kind := range map[wire.PropertyID]wire.Kind{
		PropertyHealth:   wire.KindScalar,
		PropertyPosition: wire.KindVector,
		PropertyRotation: wire.KindRotation,
	} {
		if err := reg.Register(property, kind); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

type session struct {
	*Runner
	motions []Motion
	server  *replica.Registry
	client  *replica.Registry
	link    *Link
	report  *Report
}

// Run simulates the configured number of frames and returns the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	rng := rand.New(mt19937.New())
	rng.Seed(r.config.Seed)

	serverCfg := r.replica
	serverCfg.MaxObjects = max(serverCfg.MaxObjects, r.config.Objects)
	server, err := newRegistry(r.replicaLogger.Named("server"), serverCfg)
	if err != nil {
		return nil, err
	}
	client, err := newRegistry(r.replicaLogger.Named("client"), r.replica)
	if err != nil {
		return nil, err
	}
	s := &session{
		Runner:  r,
		motions: make([]Motion, r.config.Objects),
		server:  server,
		client:  client,
		link:    NewLink(rng, r.config),
		report: &Report{
			Seed:    r.config.Seed,
			Frames:  r.config.Frames,
			Objects: r.config.Objects,
		},
	}
	for i := range s.motions {
		s.motions[i] = randomMotion(rng)
	}
	r.logger.Info("starting session", zap.Inline(&r.config), zap.Inline(&r.replica))

	var paced types.FrameID
	if r.config.Realtime {
		paced = r.clock.CurrentFrame() + 1
	}
	for step := uint32(0); step < r.config.Frames; step++ {
		if r.config.Realtime {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-r.clock.AwaitFrame(paced.Add(step)):
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.step(step); err != nil {
			return nil, err
		}
	}
	s.report.Link = s.link.Stats()
	r.logger.Info("session completed", zap.Inline(s.report))
	return s.report, nil
}

func (s *session) frame(step uint32) types.FrameID {
	return types.FrameID(s.config.StartFrame).Add(step)
}

func (s *session) step(step uint32) error {
	frame := s.frame(step)
	if err := s.simulate(step, frame); err != nil {
		return err
	}
	if step%s.config.SendInterval == 0 {
		if err := s.send(frame); err != nil {
			return err
		}
	}
	s.receive(frame)
	if step >= s.config.RenderDelay {
		s.render(step - s.config.RenderDelay)
	}
	return nil
}

// simulate stores the true state of every object at frame on the server.
func (s *session) simulate(step uint32, frame types.FrameID) error {
	t := float64(step)
	for i, m := range s.motions {
		id := wire.ObjectID(i)
		for _, u := range []wire.Update{
			wire.ScalarUpdate(id, PropertyHealth, frame, m.Health(t)),
			wire.VectorUpdate(id, PropertyPosition, frame, m.Position(t)),
			wire.RotationUpdate(id, PropertyRotation, frame, m.Rotation(t)),
		} {
			if err := s.server.Apply(u); err != nil {
				return fmt.Errorf("store server state: %w", err)
			}
		}
	}
	return nil
}

func (s *session) send(frame types.FrameID) error {
	now := types.NetworkTime{Frame: frame}
	packet := &wire.Packet{Sent: frame}
	flush := func() error {
		if len(packet.Updates) == 0 {
			return nil
		}
		data, err := codec.Encode(packet)
		if err != nil {
			return fmt.Errorf("encode packet: %w", err)
		}
		s.link.Send(frame, data)
		s.report.Packets++
		packetsSent.Inc()
		packet = &wire.Packet{Sent: frame}
		return nil
	}
	for i := range s.motions {
		id := wire.ObjectID(i)
		if len(packet.Updates)+3 > wire.MaxUpdatesPerPacket {
			if err := flush(); err != nil {
				return err
			}
		}
		health, ok1 := s.server.AuthoritativeScalar(id, PropertyHealth, now)
		position, ok2 := s.server.AuthoritativeVector(id, PropertyPosition, now)
		rotation, ok3 := s.server.AuthoritativeRotation(id, PropertyRotation, now)
		if !ok1 || !ok2 || !ok3 {
			return fmt.Errorf("object %d has no server state at %s", id, frame)
		}
		packet.Updates = append(packet.Updates,
			wire.ScalarUpdate(id, PropertyHealth, frame, health),
			wire.VectorUpdate(id, PropertyPosition, frame, position),
			wire.RotationUpdate(id, PropertyRotation, frame, rotation),
		)
	}
	return flush()
}

func (s *session) receive(frame types.FrameID) {
	for _, data := range s.link.Receive(frame) {
		var packet wire.Packet
		if err := codec.Decode(data, &packet); err != nil {
			s.report.DecodeErrors++
			packetsMalformed.Inc()
			s.logger.Warn("malformed packet", log.ZFrame(frame), zap.Error(err))
			continue
		}
		packetsReceived.Inc()
		for _, u := range packet.Updates {
			if err := s.client.Apply(u); err != nil {
				s.report.Rejected++
				s.logger.Debug("rejected update", zap.Object("update", &u), zap.Error(err))
				continue
			}
			s.report.Applied++
		}
	}
}

// render samples the client view within the frame at step and compares it with the truth.
func (s *session) render(step uint32) {
	frame := s.frame(step)
	for sub := 0; sub < s.config.RenderSteps; sub++ {
		fraction := float64(sub) / float64(s.config.RenderSteps)
		now := types.NetworkTime{Frame: frame, SubFrame: float32(fraction)}
		t := float64(step) + fraction
		for i, m := range s.motions {
			id := wire.ObjectID(i)
			s.report.Samples++
			health, ok1 := s.client.SampleScalar(id, PropertyHealth, now)
			position, ok2 := s.client.SampleVector(id, PropertyPosition, now)
			rotation, ok3 := s.client.SampleRotation(id, PropertyRotation, now)
			if !ok1 || !ok2 || !ok3 {
				s.report.Misses++
				continue
			}
			herr := math.Abs(float64(health - m.Health(t)))
			perr := float64(position.Sub(m.Position(t)).Length())
			rerr := rotation.AngleTo(m.Rotation(t))
			s.report.Health.Observe(herr)
			s.report.Position.Observe(perr)
			s.report.Rotation.Observe(rerr)
			healthError.Observe(herr)
			positionError.Observe(perr)
			rotationError.Observe(rerr)
		}
	}
}
