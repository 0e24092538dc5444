package sim

import "github.com/spacemeshos/go-netvalue/common/types"

//go:generate mockgen -typed -package=sim -destination=./mocks.go -source=./interface.go

// frameClock paces a realtime session.
type frameClock interface {
	CurrentFrame() types.FrameID
	AwaitFrame(types.FrameID) <-chan struct{}
}
