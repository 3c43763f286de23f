// Package mission orchestrates the inspection flight through a state
// machine: takeoff, navigate, detect, photograph, return, land. The safety
// monitor's one-shot emergency signal preempts every state.
package mission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/einherij/surveyor/pkg/config"
	"github.com/einherij/surveyor/pkg/detect"
	"github.com/einherij/surveyor/pkg/navigator"
	"github.com/einherij/surveyor/pkg/photo"
	"github.com/einherij/surveyor/pkg/safety"
)

// State of the mission state machine.
type State int

const (
	StateIdle State = iota
	StateInitializing
	StateTakeoff
	StateNavigating
	StateStopping
	StateDetecting
	StatePhotographing
	StateNavigatingNext
	StateReturningHome
	StateLanding
	StateComplete
	StateEmergency
	StateError
)

var stateNames = map[State]string{
	StateIdle:          "IDLE",
	StateInitializing:  "INITIALIZING",
	StateTakeoff:       "TAKEOFF",
	StateNavigating:    "NAVIGATING",
	StateStopping:      "STOPPING",
	StateDetecting:     "DETECTING",
	StatePhotographing: "PHOTOGRAPHING",
	StateNavigatingNext: "NAVIGATING_NEXT",
	StateReturningHome: "RETURNING_HOME",
	StateLanding:       "LANDING",
	StateComplete:      "COMPLETE",
	StateEmergency:     "EMERGENCY",
	StateError:         "ERROR",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Terminal reports whether the mission can make no further progress.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateError
}

// Context is the mission's audit trail, produced fresh per run and
// returned to the caller at the end. Errors is append-only; a non-empty
// error list is the single source of truth for mission failure.
type Context struct {
	ID               string
	CurrentStop      int
	StructureID      string
	PhotosCaptured   int
	WaypointsVisited int
	Errors           []string
	StartTime        time.Time
	EndTime          time.Time
}

func (c Context) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// Detector is the marker detection coordinator the machine drives.
type Detector interface {
	Start(src detect.FrameSource)
	Wait(timeout time.Duration) string
	Stop()
}

// SafetyMonitor is the safety coordinator the machine drives.
type SafetyMonitor interface {
	Start(src safety.FrameSource)
	Stop()
	EmergencyTriggered() bool
	SetEmergencyCallback(callback func())
}

// Publisher receives mission telemetry events. Implementations must not
// block.
type Publisher interface {
	Publish(eventType, payload string)
}

const defaultStepInterval = 100 * time.Millisecond

// Components are the collaborators a Machine drives. Detector, Safety,
// Frames and Publisher are optional; the mission degrades without them.
type Components struct {
	Navigator navigator.Navigator
	Capturer  photo.Capturer
	Detector  Detector
	Safety    SafetyMonitor
	Frames    func() ([]byte, error)
	Publisher Publisher
}

// Machine executes the mission one step at a time. All state transitions
// happen on the caller's flow; the background coordinators communicate
// back only through polled status and the one-shot emergency signal.
type Machine struct {
	cfg   *config.Mission
	route *config.Waypoints
	comps Components
	log   *logrus.Entry

	state    State
	mctx     Context
	running  bool
	handlers map[State]func() State

	emergency chan struct{} // closed once on manual trigger

	// Overridable in tests.
	stepInterval time.Duration
}

func New(cfg *config.Mission, route *config.Waypoints, comps Components, log *logrus.Entry) *Machine {
	m := &Machine{
		cfg:          cfg,
		route:        route,
		comps:        comps,
		log:          log,
		state:        StateIdle,
		emergency:    make(chan struct{}),
		stepInterval: defaultStepInterval,
	}
	m.handlers = map[State]func() State{
		StateIdle:           m.handleIdle,
		StateInitializing:   m.handleInitializing,
		StateTakeoff:        m.handleTakeoff,
		StateNavigating:     m.handleNavigating,
		StateStopping:       m.handleStopping,
		StateDetecting:      m.handleDetecting,
		StatePhotographing:  m.handlePhotographing,
		StateNavigatingNext: m.handleNavigatingNext,
		StateReturningHome:  m.handleReturningHome,
		StateLanding:        m.handleLanding,
		StateComplete:       m.handleComplete,
		StateEmergency:      m.handleEmergency,
		StateError:          m.handleError,
	}
	return m
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Context() Context {
	return m.mctx
}

// Start resets the context and moves the machine out of IDLE.
func (m *Machine) Start() {
	if m.state != StateIdle {
		m.log.Warn("mission already started")
		return
	}
	m.running = true
	m.mctx = Context{
		ID:        uuid.New().String()[:8],
		StartTime: time.Now(),
	}
	m.transition(StateInitializing)
	m.log.Infof("mission %s started", m.mctx.ID)
}

// Stop requests a graceful shutdown; the current step finishes first.
func (m *Machine) Stop() {
	m.running = false
	m.log.Info("mission stop requested")
}

// TriggerEmergency raises the emergency signal manually. It is safe to
// call from any goroutine and is what the safety monitor's callback does.
func (m *Machine) TriggerEmergency() {
	select {
	case <-m.emergency:
	default:
		close(m.emergency)
		m.log.Warn("emergency triggered")
	}
}

// IsComplete reports whether the mission reached a terminal state.
func (m *Machine) IsComplete() bool {
	return m.state.Terminal()
}

// Step executes one step: the emergency preemption check, then the current
// state's handler. A handler panic is absorbed here; the machine is the
// top-level fault boundary and nothing escapes it.
func (m *Machine) Step() State {
	if !m.running {
		return m.state
	}

	// The emergency overrides the transition table from every state. The
	// EMERGENCY state itself is exempt so its handler gets to run.
	if m.emergencyFlagged() && m.state != StateEmergency && !m.state.Terminal() {
		m.transition(StateEmergency)
		return m.state
	}

	handler, ok := m.handlers[m.state]
	if !ok {
		return m.state
	}

	next := m.runHandler(handler)
	if next != m.state {
		m.transition(next)
	}
	return m.state
}

func (m *Machine) runHandler(handler func() State) (next State) {
	defer func() {
		if r := recover(); r != nil {
			fault := fmt.Sprintf("state handler fault in %s: %v", m.state, r)
			m.log.Error(fault)
			m.mctx.Errors = append(m.mctx.Errors, fault)
			next = StateError
		}
	}()
	return handler()
}

// Run drives the machine until a terminal handler stops it, sleeping a
// short fixed interval between steps. Cancelling ctx (e.g. an operator
// interrupt) still attempts an emergency landing before returning.
func (m *Machine) Run(ctx context.Context) Context {
	m.Start()

	for m.running {
		select {
		case <-ctx.Done():
			m.interrupt()
			return m.mctx
		default:
		}

		m.Step()

		select {
		case <-ctx.Done():
		case <-time.After(m.stepInterval):
		}
	}

	return m.mctx
}

func (m *Machine) interrupt() {
	m.log.Warn("mission interrupted")
	m.stopCoordinators()
	m.comps.Navigator.EmergencyLand()
	m.mctx.Errors = append(m.mctx.Errors, "mission interrupted")
	m.mctx.EndTime = time.Now()
	m.transition(StateError)
	m.running = false
}

func (m *Machine) transition(next State) {
	old := m.state
	m.state = next
	m.log.Infof("state: %s -> %s", old, next)
	if m.comps.Publisher != nil {
		m.comps.Publisher.Publish("state", fmt.Sprintf("%s -> %s", old, next))
	}
}

func (m *Machine) emergencyFlagged() bool {
	select {
	case <-m.emergency:
		return true
	default:
	}
	return m.comps.Safety != nil && m.comps.Safety.EmergencyTriggered()
}

func (m *Machine) stopCoordinators() {
	if m.comps.Safety != nil {
		m.comps.Safety.Stop()
	}
	if m.comps.Detector != nil {
		m.comps.Detector.Stop()
	}
}

// State handlers.

func (m *Machine) handleIdle() State {
	return StateIdle
}

func (m *Machine) handleInitializing() State {
	m.comps.Navigator.LoadWaypoints(m.route.Waypoints)

	if m.comps.Safety != nil {
		m.comps.Safety.SetEmergencyCallback(m.TriggerEmergency)
		if m.comps.Frames != nil {
			m.comps.Safety.Start(m.comps.Frames)
		}
	}
	return StateTakeoff
}

func (m *Machine) handleTakeoff() State {
	if err := m.comps.Navigator.Takeoff(); err != nil {
		m.mctx.Errors = append(m.mctx.Errors, fmt.Sprintf("takeoff failed: %v", err))
		return StateError
	}
	return StateNavigating
}

func (m *Machine) handleNavigating() State {
	wp, err := m.comps.Navigator.NavigateNext()
	if err != nil {
		m.mctx.Errors = append(m.mctx.Errors, fmt.Sprintf("navigation failed: %v", err))
		return StateError
	}

	m.mctx.CurrentStop++
	m.mctx.WaypointsVisited++
	m.log.Infof("arrived at %s (stop %d)", wp.Name, m.mctx.CurrentStop)
	return StateStopping
}

func (m *Machine) handleStopping() State {
	time.Sleep(m.cfg.Flight.StabilityDelay())
	return StateDetecting
}

func (m *Machine) handleDetecting() State {
	if m.comps.Detector == nil || m.comps.Frames == nil {
		m.mctx.StructureID = m.cfg.Detection.FallbackID
		return StatePhotographing
	}

	m.comps.Detector.Start(m.comps.Frames)
	id := m.comps.Detector.Wait(m.cfg.Detection.Timeout())
	m.comps.Detector.Stop()

	m.mctx.StructureID = id
	m.log.Infof("detected structure: %s", id)
	return StatePhotographing
}

func (m *Machine) handlePhotographing() State {
	results := m.comps.Capturer.CaptureAll(m.comps.Frames, m.mctx.StructureID, m.mctx.CurrentStop)

	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		} else if m.comps.Publisher != nil {
			m.comps.Publisher.Publish("capture_failed", fmt.Sprintf("stop %d %s: %s", m.mctx.CurrentStop, r.HeadingName, r.ErrorMessage))
		}
	}
	m.mctx.PhotosCaptured += successful
	m.log.Infof("captured %d/%d photos at stop %d", successful, len(results), m.mctx.CurrentStop)
	return StateNavigatingNext
}

func (m *Machine) handleNavigatingNext() State {
	if m.comps.Navigator.HasNext() {
		return StateNavigating
	}
	if m.route.ReturnHome {
		return StateReturningHome
	}
	return StateLanding
}

func (m *Machine) handleReturningHome() State {
	if err := m.comps.Navigator.ReturnHome(); err != nil {
		m.log.Warnf("return home failed, landing anyway: %v", err)
		m.mctx.Errors = append(m.mctx.Errors, fmt.Sprintf("return home failed: %v", err))
	}
	return StateLanding
}

func (m *Machine) handleLanding() State {
	m.stopCoordinators()

	if err := m.comps.Navigator.Land(); err != nil {
		m.mctx.Errors = append(m.mctx.Errors, fmt.Sprintf("landing failed: %v", err))
	}
	m.mctx.EndTime = time.Now()

	// A clean landing after an earlier soft failure is still a failed
	// mission; the error list decides.
	if len(m.mctx.Errors) > 0 {
		return StateError
	}
	return StateComplete
}

func (m *Machine) handleComplete() State {
	m.running = false
	m.log.Infof("MISSION COMPLETE: %d waypoints, %d photos, %.1fs",
		m.mctx.WaypointsVisited, m.mctx.PhotosCaptured, m.mctx.Duration().Seconds())
	if m.comps.Publisher != nil {
		m.comps.Publisher.Publish("complete", m.mctx.ID)
	}
	return StateComplete
}

func (m *Machine) handleEmergency() State {
	m.log.Warn("EMERGENCY: initiating emergency landing")
	m.stopCoordinators()
	m.comps.Navigator.EmergencyLand()
	m.mctx.Errors = append(m.mctx.Errors, "emergency landing triggered")
	m.mctx.EndTime = time.Now()
	return StateError
}

func (m *Machine) handleError() State {
	m.running = false
	m.log.Errorf("MISSION FAILED: %v", m.mctx.Errors)
	if m.comps.Publisher != nil {
		m.comps.Publisher.Publish("failed", m.mctx.ID)
	}
	return StateError
}
