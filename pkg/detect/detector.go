// Package detect runs an opaque marker decoder against a live frame source
// on a background cycle and lets callers wait for the first sighting.
package detect

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultCycleInterval = 100 * time.Millisecond
	waitPollInterval     = 100 * time.Millisecond
	stopJoinTimeout      = 2 * time.Second
)

// FrameSource returns the most recent video frame.
type FrameSource func() ([]byte, error)

// Decoder identifies a fiducial marker in a frame. The second return value
// reports whether anything was decoded.
type Decoder interface {
	Decode(frame []byte) (string, bool)
}

// Detector polls the decoder in the background. Only the first decoded
// value matters to waiting callers; the cycle keeps running so late
// sightings are still logged.
type Detector struct {
	decoder  Decoder
	fallback string
	interval time.Duration
	log      *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	result atomic.Pointer[string]
}

func New(decoder Decoder, fallbackID string, log *logrus.Entry) *Detector {
	return &Detector{
		decoder:  decoder,
		fallback: fallbackID,
		interval: defaultCycleInterval,
		log:      log,
	}
}

// Start launches the background detection cycle. If a cycle is already
// running it is stopped first, so Start is safely restartable.
func (d *Detector) Start(src FrameSource) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.log.Warn("detection already running, stopping first")
		d.stopLocked()
	}

	d.result.Store(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done

	go d.cycle(ctx, src, done)
	d.log.Info("started marker detection")
}

// Stop signals the cycle and waits for it with a bounded join. Calling
// Stop on an already-stopped detector is a no-op.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Detector) stopLocked() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	select {
	case <-d.done:
	case <-time.After(stopJoinTimeout):
		d.log.Warn("detection cycle did not stop in time")
	}
	d.cancel = nil
	d.done = nil
	d.log.Info("stopped marker detection")
}

// Wait blocks until a marker has been decoded or the timeout elapses,
// returning the fallback id on timeout. It polls cooperatively; it never
// busy-spins and never blocks past the timeout.
func (d *Detector) Wait(timeout time.Duration) string {
	if id := d.result.Load(); id != nil {
		return *id
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			d.log.Warnf("marker detection timeout, using fallback: %s", d.fallback)
			return d.fallback
		case <-ticker.C:
			if id := d.result.Load(); id != nil {
				return *id
			}
		}
	}
}

func (d *Detector) cycle(ctx context.Context, src FrameSource, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
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
			id, ok := d.decoder.Decode(frame)
			if !ok {
				continue
			}
			if d.result.Load() == nil {
				d.log.Infof("marker detected: %s", id)
			}
			d.result.Store(&id)
		}
	}
}
