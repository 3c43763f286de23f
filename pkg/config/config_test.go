package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite

	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ConfigSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ConfigSuite) TestLoadMissionOverridesDefaults() {
	path := s.write("mission.yaml", `
flight:
  takeoff_height_cm: 150
detection:
  fallback_id: NO-ID
`)

	m, err := LoadMission(path)
	s.NoError(err)
	s.Equal(150, m.Flight.TakeoffHeightCM)
	s.Equal("NO-ID", m.Detection.FallbackID)

	// Untouched fields keep their defaults.
	s.Equal(50, m.Flight.MovementSpeed)
	s.Equal(2*time.Second, m.Flight.StabilityDelay())
	s.Len(m.Photo.Headings, 3)
}

func (s *ConfigSuite) TestLoadMissionCustomHeadings() {
	path := s.write("mission.yaml", `
photo:
  angles:
    - name: front
      rotation: 0
    - name: back
      rotation: 180
`)

	m, err := LoadMission(path)
	s.NoError(err)
	s.Equal([]Heading{{Name: "front"}, {Name: "back", Rotation: 180}}, m.Photo.Headings)
}

func (s *ConfigSuite) TestLoadMissionMissingFile() {
	_, err := LoadMission(filepath.Join(s.dir, "nope.yaml"))
	s.Error(err)
}

func (s *ConfigSuite) TestLoadWaypoints() {
	path := s.write("waypoints.yaml", `
waypoints:
  - name: a
    x: 200
    z: 120
  - name: b
    x: 200
    y: 150
    z: 120
return_home: false
`)

	w, err := LoadWaypoints(path)
	s.NoError(err)
	s.Len(w.Waypoints, 2)
	s.Equal(Waypoint{Name: "a", X: 200, Z: 120}, w.Waypoints[0])
	s.False(w.ReturnHome)
}

func (s *ConfigSuite) TestReturnHomeDefaultsTrue() {
	path := s.write("waypoints.yaml", `
waypoints:
  - name: a
    x: 100
`)

	w, err := LoadWaypoints(path)
	s.NoError(err)
	s.True(w.ReturnHome)
}

func (s *ConfigSuite) TestDurationHelpers() {
	cfg := DefaultMission()
	s.Equal(3*time.Second, cfg.Detection.Timeout())
	s.Equal(time.Second, cfg.Photo.ShotDelay())
	s.Equal(500*time.Millisecond, cfg.Safety.CheckInterval())
}
