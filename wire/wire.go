// Package wire defines the messages that carry property values from server to clients.
package wire

import (
	"errors"
	"fmt"
	"math"

	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-netvalue/common/types"
)

// MaxUpdatesPerPacket bounds the number of updates in a single packet.
const MaxUpdatesPerPacket = 1024

var (
	// ErrUnknownKind is returned when decoding an update of unknown kind.
	ErrUnknownKind = errors.New("unknown value kind")
	// ErrTooManyUpdates is returned when a packet exceeds MaxUpdatesPerPacket.
	ErrTooManyUpdates = errors.New("too many updates in packet")
	// ErrPropertyOutOfRange is returned when a decoded property id does not fit into PropertyID.
	ErrPropertyOutOfRange = errors.New("property id out of range")
)

// Kind identifies the type of value carried by an update.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindVector
	KindRotation
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindRotation:
		return "rotation"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ObjectID identifies a replicated object.
type ObjectID uint32

// PropertyID identifies a property within an object.
type PropertyID uint16

// Scalar is the wire form of a scalar property value.
type Scalar struct {
	Value float32
}

func (s *Scalar) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeUint32(e, math.Float32bits(s.Value))
}

func (s *Scalar) DecodeScale(d *scale.Decoder) (int, error) {
	bits, n, err := scale.DecodeUint32(d)
	if err != nil {
		return n, err
	}
	s.Value = math.Float32frombits(bits)
	return n, nil
}

// Update is the value of one property at one frame.
type Update struct {
	Object   ObjectID
	Property PropertyID
	Frame    types.FrameID
	// KindScalar | KindVector | KindRotation
	Kind Kind
	// *Scalar | *types.Vector3 | *types.Quaternion
	Data scale.Type
}

// ScalarUpdate creates an update with a scalar value.
func ScalarUpdate(object ObjectID, property PropertyID, frame types.FrameID, value float32) Update {
	return Update{Object: object, Property: property, Frame: frame, Kind: KindScalar, Data: &Scalar{Value: value}}
}

// VectorUpdate creates an update with a vector value.
func VectorUpdate(object ObjectID, property PropertyID, frame types.FrameID, value types.Vector3) Update {
	return Update{Object: object, Property: property, Frame: frame, Kind: KindVector, Data: &value}
}

// RotationUpdate creates an update with a rotation value.
func RotationUpdate(object ObjectID, property PropertyID, frame types.FrameID, value types.Quaternion) Update {
	return Update{Object: object, Property: property, Frame: frame, Kind: KindRotation, Data: &value}
}

func (u *Update) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("object", uint32(u.Object))
	encoder.AddUint16("property", uint16(u.Property))
	encoder.AddUint32("frame", u.Frame.Uint32())
	encoder.AddString("kind", u.Kind.String())
	switch data := u.Data.(type) {
	case *Scalar:
		encoder.AddFloat32("value", data.Value)
	case *types.Vector3:
		return encoder.AddObject("value", data)
	case *types.Quaternion:
		return encoder.AddObject("value", data)
	}
	return nil
}

func (u *Update) EncodeScale(enc *scale.Encoder) (int, error) {
	var total int
	{
		n, err := scale.EncodeCompact32(enc, uint32(u.Object))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact32(enc, uint32(u.Property))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := u.Frame.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		// enums are a full uint8 in scale, not compact
		n, err := scale.EncodeByte(enc, byte(u.Kind))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		if err := u.checkData(); err != nil {
			return total, err
		}
		n, err := u.Data.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// checkData verifies that Data holds the value type of Kind.
func (u *Update) checkData() error {
	var ok bool
	switch u.Kind {
	case KindScalar:
		_, ok = u.Data.(*Scalar)
	case KindVector:
		_, ok = u.Data.(*types.Vector3)
	case KindRotation:
		_, ok = u.Data.(*types.Quaternion)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, u.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: %s update with %T data", ErrUnknownKind, u.Kind, u.Data)
	}
	return nil
}

func (u *Update) DecodeScale(dec *scale.Decoder) (int, error) {
	var total int
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, err
		}
		total += n
		u.Object = ObjectID(field)
	}
	{
		field, n, err := scale.DecodeCompact32(dec)
		if err != nil {
			return total, err
		}
		total += n
		if field > math.MaxUint16 {
			return total, fmt.Errorf("%w: %d", ErrPropertyOutOfRange, field)
		}
		u.Property = PropertyID(field)
	}
	{
		n, err := u.Frame.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		kind, n, err := scale.DecodeByte(dec)
		if err != nil {
			return total, err
		}
		total += n
		u.Kind = Kind(kind)
	}
	switch u.Kind {
	case KindScalar:
		u.Data = &Scalar{}
	case KindVector:
		u.Data = &types.Vector3{}
	case KindRotation:
		u.Data = &types.Quaternion{}
	default:
		return total, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(u.Kind))
	}
	n, err := u.Data.DecodeScale(dec)
	if err != nil {
		return total, err
	}
	total += n
	return total, nil
}

// Packet is a batch of updates sent by the server at one frame.
type Packet struct {
	Sent    types.FrameID
	Updates []Update
}

func (p *Packet) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint32("sent", p.Sent.Uint32())
	encoder.AddInt("updates", len(p.Updates))
	return nil
}

func (p *Packet) EncodeScale(enc *scale.Encoder) (int, error) {
	if len(p.Updates) > MaxUpdatesPerPacket {
		return 0, fmt.Errorf("%w: %d", ErrTooManyUpdates, len(p.Updates))
	}
	var total int
	{
		n, err := p.Sent.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact32(enc, uint32(len(p.Updates)))
		if err != nil {
			return total, err
		}
		total += n
	}
	for i := range p.Updates {
		n, err := p.Updates[i].EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (p *Packet) DecodeScale(dec *scale.Decoder) (int, error) {
	var total int
	{
		n, err := p.Sent.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	length, n, err := scale.DecodeCompact32(dec)
	if err != nil {
		return total, err
	}
	total += n
	if length > MaxUpdatesPerPacket {
		return total, fmt.Errorf("%w: %d", ErrTooManyUpdates, length)
	}
	p.Updates = make([]Update, length)
	for i := range p.Updates {
		n, err := p.Updates[i].DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
