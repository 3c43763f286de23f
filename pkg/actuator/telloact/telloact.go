// Package telloact adapts a DJI Tello drone to the actuator port.
package telloact

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/SMerrony/tello"
	"github.com/sirupsen/logrus"

	"github.com/einherij/surveyor/pkg/actuator"
)

const (
	spsPpsInterval = 500 * time.Millisecond
	takeoffTimeout = 10 * time.Second
	moveTimeout    = 30 * time.Second
	rotateTimeout  = 10 * time.Second

	// Speeds above this switch the drone into sports mode.
	sportsModeSpeedCMS = 100
)

// Tello drives the real drone through the SMerrony/tello SDK.
type Tello struct {
	drone     *tello.Tello
	log       *logrus.Entry
	connected bool
	cancel    context.CancelFunc
	lastFrame atomic.Pointer[[]byte]
}

func New(log *logrus.Entry) *Tello {
	return &Tello{
		drone: new(tello.Tello),
		log:   log,
	}
}

// Connect establishes the control and video links and starts caching the
// most recent video frame.
func (t *Tello) Connect() error {
	if err := t.drone.ControlConnectDefault(); err != nil {
		return fmt.Errorf("error connecting control link: %w", err)
	}

	videoStream, err := t.drone.VideoConnectDefault()
	if err != nil {
		t.drone.ControlDisconnect()
		return fmt.Errorf("error connecting video link: %w", err)
	}
	t.drone.SetVideoWide()

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.cacheFrames(ctx, videoStream)
	go t.requestKeyFrames(ctx)

	t.connected = true
	t.log.Warnf("connected to drone")
	return nil
}

// Close tears down both links. Safe to call when not connected.
func (t *Tello) Close() {
	if !t.connected {
		return
	}
	t.cancel()
	t.drone.VideoDisconnect()
	t.drone.ControlDisconnect()
	t.connected = false
	t.log.Warnf("disconnected from drone")
}

func (t *Tello) cacheFrames(ctx context.Context, stream <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case block, ok := <-stream:
			if !ok {
				return
			}
			frame := make([]byte, len(block))
			copy(frame, block)
			t.lastFrame.Store(&frame)
		}
	}
}

// The Tello only sends decodable video after a SPS/PPS request, so keep
// asking on a fixed period.
func (t *Tello) requestKeyFrames(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(spsPpsInterval):
			t.drone.GetVideoSpsPps()
		}
	}
}

func (t *Tello) TakeOff() error {
	if !t.connected {
		return actuator.ErrNotConnected
	}
	t.drone.TakeOff()

	// The SDK call returns immediately; wait for the drone to leave the
	// ground before reporting success.
	deadline := time.Now().Add(takeoffTimeout)
	for time.Now().Before(deadline) {
		if t.drone.GetFlightData().Height > 0 {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("error taking off: no height change within %s", takeoffTimeout)
}

func (t *Tello) Land() error {
	if !t.connected {
		return actuator.ErrNotConnected
	}
	t.drone.Land()
	return nil
}

// EmergencyStop halts all motion immediately and drops to a landing. The
// Tello has no motors-off command in normal flight, so this zeroes the
// sticks and lands.
func (t *Tello) EmergencyStop() error {
	if !t.connected {
		return actuator.ErrNotConnected
	}
	t.drone.Hover()
	t.drone.Land()
	return nil
}

func (t *Tello) MoveRelative(axis actuator.Axis, distanceCM int) error {
	if !t.connected {
		return actuator.ErrNotConnected
	}
	if abs(distanceCM) < actuator.MinMoveCM || abs(distanceCM) > actuator.MaxMoveCM {
		return fmt.Errorf("%w: %dcm on axis %s", actuator.ErrMoveOutOfRange, distanceCM, axis)
	}

	fd := t.drone.GetFlightData()

	if axis == actuator.AxisZ {
		targetDm := fd.Height + int16(distanceCM/10)
		done, err := t.drone.AutoFlyToHeight(targetDm)
		if err != nil {
			return fmt.Errorf("error starting height change: %w", err)
		}
		return t.waitDone(done, moveTimeout, "height change")
	}

	// Relative moves are in the body frame; the autopilot flies in the
	// MVO world frame, so project through the current yaw.
	yaw := float64(fd.IMU.Yaw) * math.Pi / 180.
	d := float64(distanceCM) / 100. // autopilot works in metres
	var dx, dy float64
	switch axis {
	case actuator.AxisX:
		dx, dy = d*math.Cos(yaw), d*math.Sin(yaw)
	case actuator.AxisY:
		dx, dy = d*math.Sin(yaw), -d*math.Cos(yaw)
	}

	targetX := float32(float64(fd.MVO.PositionX) + dx)
	targetY := float32(float64(fd.MVO.PositionY) + dy)
	done, err := t.drone.AutoFlyToXY(targetX, targetY)
	if err != nil {
		return fmt.Errorf("error starting move: %w", err)
	}
	return t.waitDone(done, moveTimeout, fmt.Sprintf("%dcm move on axis %s", distanceCM, axis))
}

func (t *Tello) Rotate(degrees int) error {
	if !t.connected {
		return actuator.ErrNotConnected
	}
	target := int(t.drone.GetFlightData().IMU.Yaw) + degrees
	for target > 180 {
		target -= 360
	}
	for target < -180 {
		target += 360
	}
	done, err := t.drone.AutoTurnToYaw(int16(target))
	if err != nil {
		return fmt.Errorf("error starting rotation: %w", err)
	}
	return t.waitDone(done, rotateTimeout, fmt.Sprintf("%d° rotation", degrees))
}

func (t *Tello) waitDone(done <-chan bool, timeout time.Duration, what string) error {
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("error completing %s: timed out after %s", what, timeout)
	}
}

func (t *Tello) SetSpeed(cmPerSec int) error {
	if !t.connected {
		return actuator.ErrNotConnected
	}
	t.drone.SetSportsMode(cmPerSec > sportsModeSpeedCMS)
	return nil
}

// Height reports the current height in centimetres.
func (t *Tello) Height() (int, error) {
	if !t.connected {
		return 0, actuator.ErrNotConnected
	}
	return int(t.drone.GetFlightData().Height) * 10, nil
}

func (t *Tello) Battery() (int, error) {
	if !t.connected {
		return 0, actuator.ErrNotConnected
	}
	return int(t.drone.GetFlightData().BatteryPercentage), nil
}

// Frame returns the most recent video frame block.
func (t *Tello) Frame() ([]byte, error) {
	if !t.connected {
		return nil, actuator.ErrNotConnected
	}
	frame := t.lastFrame.Load()
	if frame == nil {
		return nil, actuator.ErrNoFrame
	}
	return *frame, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
