package navigator

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/einherij/surveyor/pkg/config"
)

const (
	simSpeedCMPerSec = 100
	simMaxMoveTime   = 3 * time.Second
)

// Simulator implements Navigator without an actuator: the estimate updates
// immediately and each move sleeps a time proportional to the Manhattan
// distance, capped, to emulate flight time. Used for dry runs and tests.
type Simulator struct {
	cfg config.Flight
	log *logrus.Entry

	waypoints []config.Waypoint
	index     int
	state     State
	pos       Point

	// TimeScale stretches or shrinks the emulated delays. Tests set it
	// to zero.
	TimeScale float64
}

func NewSimulator(cfg config.Flight, log *logrus.Entry) *Simulator {
	log.Info("navigator running in simulation mode")
	return &Simulator{
		cfg:       cfg,
		log:       log,
		index:     -1,
		state:     StateIdle,
		TimeScale: 1.0,
	}
}

func (s *Simulator) LoadWaypoints(waypoints []config.Waypoint) {
	s.waypoints = append([]config.Waypoint(nil), waypoints...)
	s.index = -1
	s.state = StateIdle
	s.log.Infof("loaded %d waypoints", len(waypoints))
}

func (s *Simulator) Takeoff() error {
	s.log.Info("[simulated] takeoff")
	s.pos = Point{0, 0, s.cfg.TakeoffHeightCM}
	s.sleep(time.Second)
	return nil
}

func (s *Simulator) Land() error {
	s.log.Info("[simulated] landing")
	s.state = StateComplete
	s.sleep(time.Second)
	return nil
}

func (s *Simulator) EmergencyLand() {
	s.log.Warn("[simulated] EMERGENCY LANDING")
	s.state = StateError
}

func (s *Simulator) NavigateNext() (config.Waypoint, error) {
	if !s.HasNext() {
		return config.Waypoint{}, ErrNoMoreWaypoints
	}

	s.index++
	wp := s.waypoints[s.index]
	s.state = StateNavigating
	s.flyTo(Point{wp.X, wp.Y, wp.Z})
	s.state = StateAtWaypoint
	s.log.Infof("[simulated] reached waypoint: %s", wp.Name)
	return wp, nil
}

func (s *Simulator) ReturnHome() error {
	s.log.Info("[simulated] returning home")
	s.state = StateReturningHome
	s.flyTo(Point{0, 0, s.pos.Z})
	s.state = StateComplete
	return nil
}

func (s *Simulator) Rotate(degrees int) error {
	s.log.Infof("[simulated] rotating %d degrees", degrees)
	s.sleep(500 * time.Millisecond)
	return nil
}

func (s *Simulator) HasNext() bool {
	return s.index < len(s.waypoints)-1
}

func (s *Simulator) Position() Point {
	return s.pos
}

func (s *Simulator) State() State {
	return s.state
}

func (s *Simulator) flyTo(target Point) {
	distance := abs(target.X-s.pos.X) + abs(target.Y-s.pos.Y) + abs(target.Z-s.pos.Z)
	s.log.Infof("[simulated] moving from %s to %s", s.pos, target)
	s.pos = target

	flightTime := time.Duration(float64(distance) / simSpeedCMPerSec * float64(time.Second))
	if flightTime > simMaxMoveTime {
		flightTime = simMaxMoveTime
	}
	s.sleep(flightTime)
}

func (s *Simulator) sleep(d time.Duration) {
	time.Sleep(time.Duration(float64(d) * s.TimeScale))
}
