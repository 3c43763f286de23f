// Package safety watches the video feed for obstacles and the operator's
// emergency gesture, publishing a snapshot status and a one-shot emergency
// signal.
package safety

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/einherij/surveyor/pkg/config"
)

const stopJoinTimeout = 2 * time.Second

// FrameSource returns the most recent video frame.
type FrameSource func() ([]byte, error)

// ObstacleScanner reports whether a frame shows an obstacle and, if so, in
// which region of the frame.
type ObstacleScanner interface {
	Scan(frame []byte) (detected bool, region string)
}

// GestureClassifier reports whether a frame shows the emergency gesture and
// with what confidence.
type GestureClassifier interface {
	Classify(frame []byte) (detected bool, confidence float64)
}

// Status is a snapshot of the most recent safety check. It is replaced
// wholesale by the monitor cycle, never mutated field by field, so readers
// can never observe a torn write.
type Status struct {
	ObstacleDetected bool
	ObstacleRegion   string
	GestureDetected  bool
	Confidence       float64
}

// Monitor runs the safety checks on a background cycle.
//
// The gesture classifier is optional: when absent the monitor runs
// degraded, always reporting no gesture, instead of failing.
type Monitor struct {
	scanner    ObstacleScanner
	classifier GestureClassifier
	cfg        config.Safety
	log        *logrus.Entry

	status    atomic.Pointer[Status]
	triggered atomic.Bool
	callback  func()

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewMonitor(scanner ObstacleScanner, classifier GestureClassifier, cfg config.Safety, log *logrus.Entry) *Monitor {
	m := &Monitor{
		scanner:    scanner,
		classifier: classifier,
		cfg:        cfg,
		log:        log,
	}
	if classifier == nil {
		log.Warn("gesture classifier not available, gesture detection disabled")
	}
	m.status.Store(&Status{})
	return m
}

// SetEmergencyCallback registers the function invoked synchronously from
// the monitor cycle when the emergency fires. It must be fast and
// non-blocking; set it before Start.
func (m *Monitor) SetEmergencyCallback(callback func()) {
	m.callback = callback
}

// Start launches the monitoring cycle. A running cycle is stopped first,
// so Start is safely restartable.
func (m *Monitor) Start(src FrameSource) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.log.Warn("safety monitor already running, stopping first")
		m.stopLocked()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done

	go m.cycle(ctx, src, done)
	m.log.Info("started safety monitor")
}

// Stop signals the cycle and waits for it with a bounded join. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Monitor) stopLocked() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	select {
	case <-m.done:
	case <-time.After(stopJoinTimeout):
		m.log.Warn("safety monitor did not stop in time")
	}
	m.cancel = nil
	m.done = nil
	m.log.Info("stopped safety monitor")
}

// Status returns the most recent snapshot.
func (m *Monitor) Status() Status {
	return *m.status.Load()
}

// EmergencyTriggered reports the one-shot emergency latch. Once set it
// stays set for the lifetime of the monitor.
func (m *Monitor) EmergencyTriggered() bool {
	return m.triggered.Load()
}

// CheckFrame runs the safety checks on a single frame.
func (m *Monitor) CheckFrame(frame []byte) Status {
	var status Status
	if frame == nil {
		return status
	}

	if m.cfg.ObstacleCheckEnabled && m.scanner != nil {
		status.ObstacleDetected, status.ObstacleRegion = m.scanner.Scan(frame)
	}
	if m.classifier != nil {
		status.GestureDetected, status.Confidence = m.classifier.Classify(frame)
	}
	return status
}

func (m *Monitor) cycle(ctx context.Context, src FrameSource, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.cfg.CheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := src()
			if err != nil {
				continue
			}

			status := m.CheckFrame(frame)
			m.status.Store(&status)

			if status.GestureDetected &&
				status.Confidence >= m.cfg.GestureConfidenceThreshold &&
				m.triggered.CompareAndSwap(false, true) {
				m.log.Warn("EMERGENCY GESTURE DETECTED")
				if m.callback != nil {
					m.callback()
				}
			}
		}
	}
}
