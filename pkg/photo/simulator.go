package photo

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/jpeg"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/einherij/surveyor/pkg/config"
)

const (
	placeholderWidth  = 960
	placeholderHeight = 720
)

// Simulator implements Capturer without a vehicle or camera: each heading
// gets a synthetically generated placeholder image instead of a real
// frame, so the full capture-and-store path still runs.
type Simulator struct {
	storage  Storage
	headings []config.Heading
	log      *logrus.Entry

	// TimeScale stretches or shrinks the emulated capture delay. Tests
	// set it to zero.
	TimeScale float64
}

func NewSimulator(storage Storage, cfg config.Photo, log *logrus.Entry) *Simulator {
	return &Simulator{
		storage:   storage,
		headings:  cfg.Headings,
		log:       log,
		TimeScale: 1.0,
	}
}

// CaptureAll ignores the frame source and stores a placeholder per heading.
func (s *Simulator) CaptureAll(_ FrameSource, subjectID string, stopNumber int) []CaptureResult {
	results := make([]CaptureResult, 0, len(s.headings))
	s.log.Infof("[simulated] capturing for %s at stop %d", subjectID, stopNumber)

	for _, heading := range s.headings {
		frame, err := placeholderFrame(subjectID, stopNumber, heading.Name)
		if err != nil {
			results = append(results, CaptureResult{
				HeadingName:  heading.Name,
				ErrorMessage: err.Error(),
			})
			continue
		}

		path, err := s.storage.SaveFrame(frame, subjectID, stopNumber, heading.Name)
		if err != nil {
			results = append(results, CaptureResult{
				HeadingName:  heading.Name,
				ErrorMessage: err.Error(),
			})
			continue
		}

		results = append(results, CaptureResult{
			HeadingName: heading.Name,
			FilePath:    path,
			Success:     true,
		})
		time.Sleep(time.Duration(float64(500*time.Millisecond) * s.TimeScale))
	}

	return results
}

// placeholderFrame renders a flat grey image with a colour band derived
// from the capture key, so every placeholder is distinguishable.
func placeholderFrame(subjectID string, stopNumber int, headingName string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))

	grey := color.RGBA{R: 50, G: 50, B: 50, A: 255}
	for y := 0; y < placeholderHeight; y++ {
		for x := 0; x < placeholderWidth; x++ {
			img.SetRGBA(x, y, grey)
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(subjectID + headingName))
	_, _ = h.Write([]byte{byte(stopNumber)})
	sum := h.Sum32()
	band := color.RGBA{R: byte(sum), G: byte(sum >> 8), B: byte(sum >> 16), A: 255}
	for y := placeholderHeight / 3; y < placeholderHeight/3+40; y++ {
		for x := 0; x < placeholderWidth; x++ {
			img.SetRGBA(x, y, band)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
