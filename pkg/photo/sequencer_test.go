package photo

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/einherij/surveyor/pkg/config"
)

type stubRotator struct {
	calls []int
	err   error
}

func (r *stubRotator) Rotate(degrees int) error {
	r.calls = append(r.calls, degrees)
	return r.err
}

type stubStorage struct {
	saved []string
	err   error
}

func (s *stubStorage) SaveFrame(_ []byte, subjectID string, stopNumber int, headingName string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	path := fmt.Sprintf("%s/stop%d_%s.jpg", subjectID, stopNumber, headingName)
	s.saved = append(s.saved, path)
	return path, nil
}

type SequencerSuite struct {
	suite.Suite

	rotator *stubRotator
	storage *stubStorage
	seq     *Sequencer
}

func TestSequencerSuite(t *testing.T) {
	suite.Run(t, new(SequencerSuite))
}

func (s *SequencerSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.rotator = &stubRotator{}
	s.storage = &stubStorage{}
	s.seq = NewSequencer(s.storage, s.rotator, config.Photo{
		Headings: []config.Heading{
			{Name: "front", Rotation: 0},
			{Name: "left45", Rotation: -45},
			{Name: "right45", Rotation: 45},
		},
	}, logrus.NewEntry(logger))
}

func frames() ([]byte, error) {
	return []byte{0xff, 0xd8}, nil
}

func (s *SequencerSuite) TestCaptureAllHeadingsAndRestore() {
	results := s.seq.CaptureAll(frames, "BIN-42", 1)

	s.Len(results, 3)
	for _, r := range results {
		s.True(r.Success)
		s.NotEmpty(r.FilePath)
	}

	// front needs no turn; the final turn restores the arrival heading.
	s.Equal([]int{-45, 90, -45}, s.rotator.calls)
	s.Equal([]string{
		"BIN-42/stop1_front.jpg",
		"BIN-42/stop1_left45.jpg",
		"BIN-42/stop1_right45.jpg",
	}, s.storage.saved)
}

func (s *SequencerSuite) TestFrameFailureDoesNotAbortStop() {
	results := s.seq.CaptureAll(func() ([]byte, error) {
		return nil, errors.New("camera offline")
	}, "BIN-42", 2)

	s.Len(results, 3)
	for _, r := range results {
		s.False(r.Success)
		s.Contains(r.ErrorMessage, "no frame available")
	}

	// Cumulative rotation only advances on success, so every heading is
	// attempted from the arrival heading and nothing needs restoring.
	s.Equal([]int{-45, 45}, s.rotator.calls)
	s.Empty(s.storage.saved)
}

func (s *SequencerSuite) TestStorageFailureRecordedPerHeading() {
	s.storage.err = errors.New("disk full")

	results := s.seq.CaptureAll(frames, "BIN-42", 3)

	s.Len(results, 3)
	for _, r := range results {
		s.False(r.Success)
		s.Contains(r.ErrorMessage, "disk full")
	}
}

func (s *SequencerSuite) TestRotationFailureStillCaptures() {
	s.rotator.err = errors.New("gyro fault")

	results := s.seq.CaptureAll(frames, "BIN-42", 4)

	s.Len(results, 3)
	for _, r := range results {
		s.True(r.Success)
	}
}
