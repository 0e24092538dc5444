// Package replica keeps replicated properties of many objects and routes
// wire updates to them.
package replica

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-netvalue/common/types"
	"github.com/spacemeshos/go-netvalue/netvalue"
	"github.com/spacemeshos/go-netvalue/wire"
)

var (
	ErrUnknownProperty   = errors.New("unknown property")
	ErrKindMismatch      = errors.New("value kind does not match property")
	ErrDuplicateProperty = errors.New("property already registered")
)

type object struct {
	scalars   map[wire.PropertyID]*netvalue.Scalar
	vectors   map[wire.PropertyID]*netvalue.Position
	rotations map[wire.PropertyID]*netvalue.Rotation
}

func newObject() *object {
	return &object{
		scalars:   map[wire.PropertyID]*netvalue.Scalar{},
		vectors:   map[wire.PropertyID]*netvalue.Position{},
		rotations: map[wire.PropertyID]*netvalue.Rotation{},
	}
}

type Opt func(*Registry)

func WithLogger(logger *zap.Logger) Opt {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithConfig(cfg Config) Opt {
	return func(r *Registry) {
		r.config = cfg
	}
}

// Registry holds properties of replicated objects.
// Objects are created on their first update.
//
// Registry is safe for concurrent use. All values are accessed under one lock,
// so every value still observes a single serialized timeline.
type Registry struct {
	logger *zap.Logger
	config Config

	mu      sync.Mutex
	schema  map[wire.PropertyID]wire.Kind
	objects *lru.Cache[wire.ObjectID, *object]
}

func New(opts ...Opt) (*Registry, error) {
	r := &Registry{
		logger: zap.NewNop(),
		config: DefaultConfig(),
		schema: map[wire.PropertyID]wire.Kind{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid replica config: %w", err)
	}
	objects, err := lru.NewWithEvict(r.config.MaxObjects, r.onEvict)
	if err != nil {
		return nil, fmt.Errorf("create objects cache: %w", err)
	}
	r.objects = objects
	return r, nil
}

func (r *Registry) onEvict(id wire.ObjectID, _ *object) {
	evictedObjects.Inc()
	trackedObjects.Dec()
	r.logger.Debug("evicted object", zap.Uint32("object", uint32(id)))
}

// Register declares property with values of the given kind for all objects.
func (r *Registry) Register(property wire.PropertyID, kind wire.Kind) error {
	switch kind {
	case wire.KindScalar, wire.KindVector, wire.KindRotation:
	default:
		return fmt.Errorf("%w: %s", wire.ErrUnknownKind, kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.schema[property]; ok {
		return fmt.Errorf("%w: %d registered as %s", ErrDuplicateProperty, property, existing)
	}
	r.schema[property] = kind
	return nil
}

// Apply stores the update value. Updates older than the property window
// are dropped without an error.
func (r *Registry) Apply(update wire.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind, ok := r.schema[update.Property]
	if !ok {
		rejectedUpdates.Inc()
		return fmt.Errorf("%w: %d", ErrUnknownProperty, update.Property)
	}
	if kind != update.Kind {
		rejectedUpdates.Inc()
		return fmt.Errorf("%w: property %d is %s, got %s", ErrKindMismatch, update.Property, kind, update.Kind)
	}
	obj, ok := r.objects.Get(update.Object)
	if !ok {
		obj = newObject()
	}
	var (
		stored bool
		err    error
	)
	switch data := update.Data.(type) {
	case *wire.Scalar:
		stored, err = set(r.config.Capacity, obj.scalars, update, wire.KindScalar, data.Value)
	case *types.Vector3:
		stored, err = set(r.config.Capacity, obj.vectors, update, wire.KindVector, *data)
	case *types.Quaternion:
		stored, err = set(r.config.Capacity, obj.rotations, update, wire.KindRotation, *data)
	default:
		err = fmt.Errorf("%w: unexpected data %T", ErrKindMismatch, update.Data)
	}
	if err != nil {
		rejectedUpdates.Inc()
		return err
	}
	if !ok {
		r.objects.Add(update.Object, obj)
		trackedObjects.Inc()
	}
	if !stored {
		staleUpdates.Inc()
		r.logger.Debug("stale update", zap.Object("update", &update))
		return nil
	}
	appliedUpdates.Inc()
	return nil
}

func set[T any, P netvalue.Traits[T]](
	capacity uint32,
	values map[wire.PropertyID]*netvalue.Value[T, P],
	update wire.Update,
	expect wire.Kind,
	value T,
) (bool, error) {
	if update.Kind != expect {
		return false, fmt.Errorf("%w: %s data in %s update", ErrKindMismatch, expect, update.Kind)
	}
	v, ok := values[update.Property]
	if !ok {
		v = netvalue.NewValue[T, P](capacity)
		values[update.Property] = v
	}
	return v.Set(update.Frame, value), nil
}

// SampleScalar returns the scalar property at t as seen by a client.
func (r *Registry) SampleScalar(id wire.ObjectID, property wire.PropertyID, t types.NetworkTime) (float32, bool) {
	return sample(r, id, t, repaired, func(obj *object) *netvalue.Scalar { return obj.scalars[property] })
}

// SampleVector returns the vector property at t as seen by a client.
func (r *Registry) SampleVector(id wire.ObjectID, property wire.PropertyID, t types.NetworkTime) (types.Vector3, bool) {
	return sample(r, id, t, repaired, func(obj *object) *netvalue.Position { return obj.vectors[property] })
}

// SampleRotation returns the rotation property at t as seen by a client.
func (r *Registry) SampleRotation(
	id wire.ObjectID,
	property wire.PropertyID,
	t types.NetworkTime,
) (types.Quaternion, bool) {
	return sample(r, id, t, repaired, func(obj *object) *netvalue.Rotation { return obj.rotations[property] })
}

// AuthoritativeScalar returns the scalar property at t as seen by the server.
func (r *Registry) AuthoritativeScalar(
	id wire.ObjectID,
	property wire.PropertyID,
	t types.NetworkTime,
) (float32, bool) {
	return sample(r, id, t, authoritative, func(obj *object) *netvalue.Scalar { return obj.scalars[property] })
}

// AuthoritativeVector returns the vector property at t as seen by the server.
func (r *Registry) AuthoritativeVector(
	id wire.ObjectID,
	property wire.PropertyID,
	t types.NetworkTime,
) (types.Vector3, bool) {
	return sample(r, id, t, authoritative, func(obj *object) *netvalue.Position { return obj.vectors[property] })
}

// AuthoritativeRotation returns the rotation property at t as seen by the server.
func (r *Registry) AuthoritativeRotation(
	id wire.ObjectID,
	property wire.PropertyID,
	t types.NetworkTime,
) (types.Quaternion, bool) {
	return sample(r, id, t, authoritative, func(obj *object) *netvalue.Rotation { return obj.rotations[property] })
}

// Objects returns known objects, from the least to the most recently updated.
func (r *Registry) Objects() []wire.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objects.Keys()
}

// Len returns the number of known objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objects.Len()
}

type mode uint8

const (
	repaired mode = iota
	authoritative
)

// sample doesn't touch object recency, only updates do.
func sample[T any, P netvalue.Traits[T]](
	r *Registry,
	id wire.ObjectID,
	t types.NetworkTime,
	m mode,
	lookup func(*object) *netvalue.Value[T, P],
) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var empty T
	obj, ok := r.objects.Peek(id)
	if !ok {
		sampleMiss.Inc()
		return empty, false
	}
	v := lookup(obj)
	if v == nil || !v.IsInitialized() {
		sampleMiss.Inc()
		return empty, false
	}
	sampleHit.Inc()
	if m == authoritative {
		return v.SampleValid(t), true
	}
	return v.RepairAndSample(t, r.config.MaxExtrapolationPenalty)
}
