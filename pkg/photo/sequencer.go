// Package photo captures one image per configured heading at a stop,
// driving the vehicle's rotation primitive and restoring the original
// heading afterwards.
package photo

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/einherij/surveyor/pkg/config"
)

// FrameSource returns the most recent video frame.
type FrameSource func() ([]byte, error)

// Rotator turns the vehicle by a relative angle, positive = clockwise.
type Rotator interface {
	Rotate(degrees int) error
}

// Storage files an encoded frame under its subject, stop and heading.
type Storage interface {
	SaveFrame(frame []byte, subjectID string, stopNumber int, headingName string) (string, error)
}

// CaptureResult records the outcome of one heading at one stop. One is
// produced per heading and never mutated after creation.
type CaptureResult struct {
	HeadingName  string
	FilePath     string
	Success      bool
	ErrorMessage string
}

// Capturer is what the mission orchestrator drives; Sequencer and
// Simulator both implement it.
type Capturer interface {
	CaptureAll(src FrameSource, subjectID string, stopNumber int) []CaptureResult
}

// Sequencer rotates through the configured headings and hands one frame
// per heading to storage. A failed heading is recorded and skipped; it
// never aborts the stop.
type Sequencer struct {
	storage  Storage
	rotator  Rotator
	headings []config.Heading
	settle   time.Duration
	log      *logrus.Entry
}

func NewSequencer(storage Storage, rotator Rotator, cfg config.Photo, log *logrus.Entry) *Sequencer {
	return &Sequencer{
		storage:  storage,
		rotator:  rotator,
		headings: cfg.Headings,
		settle:   cfg.ShotDelay(),
		log:      log,
	}
}

// CaptureAll captures one photo per heading, in configuration order,
// tracking cumulative rotation and restoring the arrival heading at the
// end.
func (s *Sequencer) CaptureAll(src FrameSource, subjectID string, stopNumber int) []CaptureResult {
	results := make([]CaptureResult, 0, len(s.headings))
	rotation := 0 // cumulative, relative to the arrival heading

	s.log.Infof("starting capture for %s at stop %d", subjectID, stopNumber)

	for _, heading := range s.headings {
		result := s.captureHeading(src, subjectID, stopNumber, heading, rotation)
		results = append(results, result)
		if result.Success {
			rotation = heading.Rotation
		}
	}

	if rotation != 0 {
		s.rotate(-rotation)
	}

	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}
	s.log.Infof("capture complete: %d/%d photos successful", successful, len(results))
	return results
}

func (s *Sequencer) captureHeading(src FrameSource, subjectID string, stopNumber int, heading config.Heading, rotation int) CaptureResult {
	if needed := heading.Rotation - rotation; needed != 0 {
		s.rotate(needed)
		time.Sleep(s.settle)
	}

	frame, err := src()
	if err != nil {
		return CaptureResult{
			HeadingName:  heading.Name,
			ErrorMessage: fmt.Sprintf("no frame available: %v", err),
		}
	}

	path, err := s.storage.SaveFrame(frame, subjectID, stopNumber, heading.Name)
	if err != nil {
		return CaptureResult{
			HeadingName:  heading.Name,
			ErrorMessage: err.Error(),
		}
	}

	s.log.Debugf("captured %s at %s", heading.Name, path)
	return CaptureResult{
		HeadingName: heading.Name,
		FilePath:    path,
		Success:     true,
	}
}

// A rotation failure is logged but does not fail the heading: the capture
// is still attempted from wherever the vehicle ended up.
func (s *Sequencer) rotate(degrees int) {
	s.log.Debugf("rotating %d degrees", degrees)
	if err := s.rotator.Rotate(degrees); err != nil {
		s.log.Warnf("rotation failed: %v", err)
	}
}
