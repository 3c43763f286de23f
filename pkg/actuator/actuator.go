// Package actuator defines the port through which the mission talks to
// the vehicle hardware.
package actuator

import "errors"

// Movement bounds for a single relative command, in centimetres.
const (
	MinMoveCM = 20
	MaxMoveCM = 500
)

// Axis selects the direction of a relative move.
type Axis int

const (
	AxisX Axis = iota // forward (+) / back (-)
	AxisY             // right (+) / left (-)
	AxisZ             // up (+) / down (-)
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "unknown"
}

var (
	// ErrNotConnected is returned by commands issued before Connect.
	ErrNotConnected = errors.New("actuator not connected")
	// ErrNoFrame is returned by Frame when no video frame has arrived yet.
	ErrNoFrame = errors.New("no video frame available")
	// ErrMoveOutOfRange is returned for relative moves outside the
	// [MinMoveCM, MaxMoveCM] magnitude bounds.
	ErrMoveOutOfRange = errors.New("move distance out of range")
)

//go:generate mockgen -source=actuator.go -destination=mocks/mock_actuator.go -package=mocks

// Actuator accepts bounded relative motion commands and reports telemetry.
// Distances are centimetres, rotation degrees (positive = clockwise).
type Actuator interface {
	Connect() error
	Close()

	TakeOff() error
	Land() error
	EmergencyStop() error

	MoveRelative(axis Axis, distanceCM int) error
	Rotate(degrees int) error
	SetSpeed(cmPerSec int) error

	Height() (int, error)
	Battery() (int, error)
	Frame() ([]byte, error)
}
