package mission

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/einherij/surveyor/pkg/config"
	"github.com/einherij/surveyor/pkg/detect"
	"github.com/einherij/surveyor/pkg/navigator"
	"github.com/einherij/surveyor/pkg/photo"
	"github.com/einherij/surveyor/pkg/safety"
)

type stubCapturer struct {
	panics bool
	stops  []int
}

func (c *stubCapturer) CaptureAll(_ photo.FrameSource, subjectID string, stopNumber int) []photo.CaptureResult {
	if c.panics {
		panic("capturer exploded")
	}
	c.stops = append(c.stops, stopNumber)
	results := make([]photo.CaptureResult, 3)
	for i := range results {
		results[i] = photo.CaptureResult{HeadingName: "h", FilePath: "p", Success: true}
	}
	return results
}

type stubPublisher struct {
	events map[string][]string
}

func (p *stubPublisher) Publish(eventType, payload string) {
	if p.events == nil {
		p.events = make(map[string][]string)
	}
	p.events[eventType] = append(p.events[eventType], payload)
}

type stubDetector struct {
	id      string
	started bool
	stopped bool
}

func (d *stubDetector) Start(_ detect.FrameSource) { d.started = true }
func (d *stubDetector) Wait(_ time.Duration) string { return d.id }
func (d *stubDetector) Stop() { d.stopped = true }

type stubSafety struct {
	triggered bool
	stopped   bool
	callback  func()
}

func (m *stubSafety) Start(_ safety.FrameSource) {}
func (m *stubSafety) Stop() { m.stopped = true }
func (m *stubSafety) EmergencyTriggered() bool { return m.triggered }
func (m *stubSafety) SetEmergencyCallback(callback func()) { m.callback = callback }

// stubNavigator fails on demand; the simulator covers the happy path.
type stubNavigator struct {
	failTakeoff    bool
	failReturnHome bool
	landed         bool
	emergencyLand  bool

	waypoints []config.Waypoint
	index     int
}

func (n *stubNavigator) LoadWaypoints(waypoints []config.Waypoint) { n.waypoints = waypoints }

func (n *stubNavigator) Takeoff() error {
	if n.failTakeoff {
		return errors.New("no lift")
	}
	return nil
}

func (n *stubNavigator) Land() error { n.landed = true; return nil }

func (n *stubNavigator) EmergencyLand() { n.emergencyLand = true }

func (n *stubNavigator) NavigateNext() (config.Waypoint, error) {
	if n.index >= len(n.waypoints) {
		return config.Waypoint{}, navigator.ErrNoMoreWaypoints
	}
	wp := n.waypoints[n.index]
	n.index++
	return wp, nil
}

func (n *stubNavigator) ReturnHome() error {
	if n.failReturnHome {
		return errors.New("wind drift")
	}
	return nil
}

func (n *stubNavigator) Rotate(_ int) error { return nil }

func (n *stubNavigator) HasNext() bool { return n.index < len(n.waypoints) }

func (n *stubNavigator) Position() navigator.Point { return navigator.Point{} }

func (n *stubNavigator) State() navigator.State { return navigator.StateIdle }

type MachineSuite struct {
	suite.Suite

	cfg       *config.Mission
	route     *config.Waypoints
	capturer  *stubCapturer
	publisher *stubPublisher
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func (s *MachineSuite) SetupTest() {
	s.cfg = config.DefaultMission()
	s.cfg.Flight.HoverStabilityDelaySec = 0
	s.cfg.Detection.QRTimeoutSec = 0.01

	s.route = &config.Waypoints{
		Waypoints: []config.Waypoint{
			{Name: "a", X: 100, Y: 0, Z: 100},
			{Name: "b", X: 100, Y: 100, Z: 100},
		},
		ReturnHome: true,
	}
	s.capturer = &stubCapturer{}
	s.publisher = &stubPublisher{}
}

func (s *MachineSuite) newMachine(comps Components) *Machine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if comps.Capturer == nil {
		comps.Capturer = s.capturer
	}
	if comps.Publisher == nil {
		comps.Publisher = s.publisher
	}
	if comps.Navigator == nil {
		sim := navigator.NewSimulator(s.cfg.Flight, logrus.NewEntry(logger))
		sim.TimeScale = 0
		comps.Navigator = sim
	}

	m := New(s.cfg, s.route, comps, logrus.NewEntry(logger))
	m.stepInterval = 0
	return m
}

func (s *MachineSuite) TestFullMissionCompletes() {
	m := s.newMachine(Components{})

	mctx := m.Run(context.Background())

	s.Equal(StateComplete, m.State())
	s.True(m.IsComplete())
	s.Equal(2, mctx.WaypointsVisited)
	s.Equal(6, mctx.PhotosCaptured)
	s.Equal("UNKNOWN", mctx.StructureID)
	s.Empty(mctx.Errors)
	s.Equal([]int{1, 2}, s.capturer.stops)

	s.Equal([]string{
		"IDLE -> INITIALIZING",
		"INITIALIZING -> TAKEOFF",
		"TAKEOFF -> NAVIGATING",
		"NAVIGATING -> STOPPING",
		"STOPPING -> DETECTING",
		"DETECTING -> PHOTOGRAPHING",
		"PHOTOGRAPHING -> NAVIGATING_NEXT",
		"NAVIGATING_NEXT -> NAVIGATING",
		"NAVIGATING -> STOPPING",
		"STOPPING -> DETECTING",
		"DETECTING -> PHOTOGRAPHING",
		"PHOTOGRAPHING -> NAVIGATING_NEXT",
		"NAVIGATING_NEXT -> RETURNING_HOME",
		"RETURNING_HOME -> LANDING",
		"LANDING -> COMPLETE",
	}, s.publisher.events["state"])
	s.Equal([]string{mctx.ID}, s.publisher.events["complete"])
}

func (s *MachineSuite) TestLandsDirectlyWithoutReturnHome() {
	s.route.ReturnHome = false
	m := s.newMachine(Components{})

	m.Run(context.Background())

	s.Equal(StateComplete, m.State())
	s.Contains(s.publisher.events["state"], "NAVIGATING_NEXT -> LANDING")
	s.NotContains(s.publisher.events["state"], "NAVIGATING_NEXT -> RETURNING_HOME")
}

func (s *MachineSuite) TestDetectorResultUsed() {
	detector := &stubDetector{id: "BIN-42"}
	m := s.newMachine(Components{
		Detector: detector,
		Frames:   func() ([]byte, error) { return []byte{0x01}, nil },
	})

	mctx := m.Run(context.Background())

	s.Equal("BIN-42", mctx.StructureID)
	s.True(detector.started)
	s.True(detector.stopped)
}

func (s *MachineSuite) TestEmergencyPreemptsAndLands() {
	nav := &stubNavigator{}
	m := s.newMachine(Components{Navigator: nav})

	m.Start()
	s.Equal(StateTakeoff, m.Step())

	m.TriggerEmergency()
	s.Equal(StateEmergency, m.Step())
	s.Equal(StateError, m.Step())

	s.True(nav.emergencyLand)
	s.Contains(m.Context().Errors, "emergency landing triggered")

	// Terminal states are never preempted again.
	s.Equal(StateError, m.Step())
}

func (s *MachineSuite) TestSafetyMonitorTriggerPreempts() {
	monitor := &stubSafety{triggered: true}
	nav := &stubNavigator{}
	m := s.newMachine(Components{Navigator: nav, Safety: monitor})

	m.Run(context.Background())

	s.Equal(StateError, m.State())
	s.True(nav.emergencyLand)
	s.True(monitor.stopped)
}

func (s *MachineSuite) TestSafetyCallbackWired() {
	monitor := &stubSafety{}
	m := s.newMachine(Components{
		Safety: monitor,
		Frames: func() ([]byte, error) { return []byte{0x01}, nil },
	})

	m.Start()
	m.Step()

	s.NotNil(monitor.callback)
}

func (s *MachineSuite) TestTakeoffFailureFailsMission() {
	m := s.newMachine(Components{Navigator: &stubNavigator{failTakeoff: true}})

	mctx := m.Run(context.Background())

	s.Equal(StateError, m.State())
	s.Len(mctx.Errors, 1)
	s.Contains(mctx.Errors[0], "takeoff failed")
	s.Equal([]string{mctx.ID}, s.publisher.events["failed"])
}

func (s *MachineSuite) TestReturnHomeFailureStillLands() {
	nav := &stubNavigator{failReturnHome: true}
	m := s.newMachine(Components{Navigator: nav})

	mctx := m.Run(context.Background())

	s.Equal(StateError, m.State())
	s.True(nav.landed)
	s.Len(mctx.Errors, 1)
	s.Contains(mctx.Errors[0], "return home failed")
}

func (s *MachineSuite) TestHandlerPanicIsCaptured() {
	s.capturer.panics = true
	m := s.newMachine(Components{})

	mctx := m.Run(context.Background())

	s.Equal(StateError, m.State())
	s.Len(mctx.Errors, 1)
	s.Contains(mctx.Errors[0], "state handler fault in PHOTOGRAPHING")
}

func (s *MachineSuite) TestCancelledContextInterrupts() {
	nav := &stubNavigator{}
	m := s.newMachine(Components{Navigator: nav})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mctx := m.Run(ctx)

	s.Equal(StateError, m.State())
	s.True(nav.emergencyLand)
	s.Contains(mctx.Errors, "mission interrupted")
}
