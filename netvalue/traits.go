package netvalue

import (
	"golang.org/x/exp/constraints"

	"github.com/spacemeshos/go-netvalue/common/types"
)

// Traits defines how values of type T are blended.
//
// Implementations are expected to be stateless and are used as a type parameter
// of Value, so calls are resolved at compile time. Interpolate must satisfy
//
//	Interpolate(a, a, t) == a
//	Interpolate(a, b, 0) == a
//	Interpolate(a, b, 1) == b
type Traits[T any] interface {
	// Interpolate blends lhs towards rhs by factor in [0, 1].
	Interpolate(lhs, rhs T, factor float32) T
	// Extrapolate projects one step past second, continuing the first->second change.
	Extrapolate(first, second T) T
}

// Lerp blends floating point scalars linearly.
type Lerp[F constraints.Float] struct{}

func (Lerp[F]) Interpolate(lhs, rhs F, factor float32) F {
	if lhs == rhs {
		return lhs
	}
	t := F(factor)
	return lhs*(1-t) + rhs*t
}

func (Lerp[F]) Extrapolate(first, second F) F {
	return second + (second - first)
}

// VectorTraits blends positions linearly.
type VectorTraits struct{}

func (VectorTraits) Interpolate(lhs, rhs types.Vector3, factor float32) types.Vector3 {
	if lhs == rhs {
		return lhs
	}
	return lhs.Lerp(rhs, factor)
}

func (VectorTraits) Extrapolate(first, second types.Vector3) types.Vector3 {
	return second.Add(second.Sub(first))
}

// QuaternionTraits blends orientations along the shortest arc.
type QuaternionTraits struct{}

// Interpolate returns rhs itself at factor 1, not the sign-flipped quaternion
// that Slerp may produce along the shortest arc.
func (QuaternionTraits) Interpolate(lhs, rhs types.Quaternion, factor float32) types.Quaternion {
	switch {
	case lhs == rhs || factor == 0:
		return lhs
	case factor == 1:
		return rhs
	}
	return lhs.Slerp(rhs, factor)
}

// Extrapolate applies the first->second rotation once more after second.
// The order of arguments matters.
func (QuaternionTraits) Extrapolate(first, second types.Quaternion) types.Quaternion {
	return second.Mul(first.Inverse()).Mul(second)
}
