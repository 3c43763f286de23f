// Package navigator moves the vehicle between waypoints with dead-reckoned
// position tracking.
//
// The vehicle has no absolute positioning: the position estimate is the
// accumulation of issued relative commands, trusted as positional truth
// once a command is confirmed issued. Drift is an accepted limitation.
package navigator

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/einherij/surveyor/pkg/actuator"
	"github.com/einherij/surveyor/pkg/config"
)

// State of the navigator, updated only by its own methods.
type State string

const (
	StateIdle          State = "idle"
	StateNavigating    State = "navigating"
	StateAtWaypoint    State = "at_waypoint"
	StateReturningHome State = "returning_home"
	StateComplete      State = "complete"
	StateError         State = "error"
)

// Point is a position in integer centimetres relative to the takeoff point.
type Point struct {
	X int
	Y int
	Z int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// ErrNoMoreWaypoints is returned by NavigateNext when the route is finished.
var ErrNoMoreWaypoints = errors.New("no more waypoints")

// Navigator is the capability surface the mission orchestrator depends on.
// Flight (hardware-backed) and Simulator both implement it.
type Navigator interface {
	LoadWaypoints(waypoints []config.Waypoint)
	Takeoff() error
	Land() error
	EmergencyLand()
	NavigateNext() (config.Waypoint, error)
	ReturnHome() error
	Rotate(degrees int) error
	HasNext() bool
	Position() Point
	State() State
}

// Pause between chunked movement commands, giving the vehicle time to
// settle before the next chunk.
const defaultChunkPause = 500 * time.Millisecond

// Flight is the hardware-backed Navigator.
//
// The position estimate is mutated only by the mission's primary control
// flow; it needs no locking.
type Flight struct {
	act actuator.Actuator
	cfg config.Flight
	log *logrus.Entry

	waypoints []config.Waypoint
	index     int
	state     State
	pos       Point

	// Overridable in tests to avoid real settling waits.
	chunkPause time.Duration
}

func NewFlight(act actuator.Actuator, cfg config.Flight, log *logrus.Entry) *Flight {
	return &Flight{
		act:        act,
		cfg:        cfg,
		log:        log,
		index:      -1,
		state:      StateIdle,
		chunkPause: defaultChunkPause,
	}
}

func (f *Flight) LoadWaypoints(waypoints []config.Waypoint) {
	f.waypoints = append([]config.Waypoint(nil), waypoints...)
	f.index = -1
	f.state = StateIdle
	f.log.Infof("loaded %d waypoints", len(waypoints))
	for i, wp := range waypoints {
		f.log.Debugf("  [%d] %s: (%d, %d, %d)", i+1, wp.Name, wp.X, wp.Y, wp.Z)
	}
}

// Takeoff launches the vehicle and corrects up to the configured height if
// the launch under-shoots it. The estimate is reset to (0, 0, height).
func (f *Flight) Takeoff() error {
	f.log.Info("taking off")
	if err := f.act.TakeOff(); err != nil {
		return fmt.Errorf("error taking off: %w", err)
	}

	target := f.cfg.TakeoffHeightCM
	height, err := f.act.Height()
	if err != nil {
		return fmt.Errorf("error reading height after takeoff: %w", err)
	}
	if diff := target - height; diff >= actuator.MinMoveCM {
		f.log.Debugf("adjusting height by +%dcm", diff)
		if err := f.act.MoveRelative(actuator.AxisZ, diff); err != nil {
			return fmt.Errorf("error correcting takeoff height: %w", err)
		}
	}

	f.pos = Point{0, 0, target}
	time.Sleep(f.cfg.StabilityDelay())
	f.log.Infof("takeoff complete at height %dcm", target)
	return nil
}

func (f *Flight) Land() error {
	f.log.Info("landing")
	if err := f.act.Land(); err != nil {
		return fmt.Errorf("error landing: %w", err)
	}
	f.state = StateComplete
	f.log.Info("landing complete")
	return nil
}

// EmergencyLand is best-effort: it tries an emergency stop, falls back to a
// normal landing, and always leaves the navigator in the error state. It
// never fails.
func (f *Flight) EmergencyLand() {
	f.log.Warn("EMERGENCY LANDING")
	if err := f.act.EmergencyStop(); err != nil {
		f.log.Errorf("emergency stop failed, trying normal land: %v", err)
		if err := f.act.Land(); err != nil {
			f.log.Errorf("fallback land failed: %v", err)
		}
	}
	f.state = StateError
}

// NavigateNext advances to the next waypoint in the route.
func (f *Flight) NavigateNext() (config.Waypoint, error) {
	if !f.HasNext() {
		return config.Waypoint{}, ErrNoMoreWaypoints
	}

	f.index++
	wp := f.waypoints[f.index]
	f.log.Infof("navigating to waypoint %d: %s", f.index+1, wp.Name)
	f.state = StateNavigating

	if err := f.navigateTo(Point{wp.X, wp.Y, wp.Z}); err != nil {
		f.state = StateError
		return wp, fmt.Errorf("error navigating to %s: %w", wp.Name, err)
	}

	f.state = StateAtWaypoint
	time.Sleep(f.cfg.StabilityDelay())
	f.log.Infof("reached waypoint: %s", wp.Name)
	return wp, nil
}

// ReturnHome flies back above the takeoff point at the current altitude.
func (f *Flight) ReturnHome() error {
	f.log.Info("returning to home position")
	f.state = StateReturningHome

	if err := f.navigateTo(Point{0, 0, f.pos.Z}); err != nil {
		f.state = StateError
		return fmt.Errorf("error returning home: %w", err)
	}

	f.state = StateComplete
	f.log.Info("returned to home position")
	return nil
}

func (f *Flight) Rotate(degrees int) error {
	if err := f.act.Rotate(degrees); err != nil {
		return fmt.Errorf("error rotating %d degrees: %w", degrees, err)
	}
	return nil
}

func (f *Flight) HasNext() bool {
	return f.index < len(f.waypoints)-1
}

func (f *Flight) Position() Point {
	return f.pos
}

func (f *Flight) State() State {
	return f.state
}

// navigateTo issues the relative command sequence to reach target from the
// current estimate. Vertical first (clear height before lateral motion),
// then forward/back, then right/left.
//
// On an actuator failure mid-sequence the estimate keeps the chunks that
// were already issued and nothing more; post-failure it is best-effort, not
// authoritative.
func (f *Flight) navigateTo(target Point) error {
	dx := target.X - f.pos.X
	dy := target.Y - f.pos.Y
	dz := target.Z - f.pos.Z
	f.log.Debugf("moving from %s to %s (delta %d, %d, %d)", f.pos, target, dx, dy, dz)

	if err := f.act.SetSpeed(f.cfg.MovementSpeed); err != nil {
		return fmt.Errorf("error setting speed: %w", err)
	}

	if err := f.moveAxis(actuator.AxisZ, dz, &f.pos.Z, target.Z); err != nil {
		return err
	}
	if err := f.moveAxis(actuator.AxisX, dx, &f.pos.X, target.X); err != nil {
		return err
	}
	if err := f.moveAxis(actuator.AxisY, dy, &f.pos.Y, target.Y); err != nil {
		return err
	}
	return nil
}

// moveAxis covers delta on one axis in chunks of at most MaxMoveCM.
// Residuals under MinMoveCM are dropped, but the estimate still snaps to
// the target: the uncorrected micro-drift is accepted rather than risking
// an invalid command.
func (f *Flight) moveAxis(axis actuator.Axis, delta int, coord *int, target int) error {
	sign := 1
	if delta < 0 {
		sign = -1
	}
	remaining := abs(delta)

	for remaining > 0 {
		chunk := min(remaining, actuator.MaxMoveCM)
		if chunk < actuator.MinMoveCM {
			f.log.Debugf("dropping small %dcm move on axis %s", chunk, axis)
			break
		}

		f.log.Debugf("moving %dcm on axis %s", sign*chunk, axis)
		if err := f.act.MoveRelative(axis, sign*chunk); err != nil {
			return fmt.Errorf("error moving on axis %s: %w", axis, err)
		}
		*coord += sign * chunk
		remaining -= chunk

		if remaining > 0 {
			time.Sleep(f.chunkPause)
		}
	}

	*coord = target
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
