package navigator

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/einherij/surveyor/pkg/config"
)

type SimulatorSuite struct {
	suite.Suite

	sim *Simulator
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorSuite))
}

func (s *SimulatorSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.sim = NewSimulator(config.Flight{TakeoffHeightCM: 100}, logrus.NewEntry(logger))
	s.sim.TimeScale = 0
}

func (s *SimulatorSuite) TestFullRoute() {
	s.sim.LoadWaypoints([]config.Waypoint{
		{Name: "a", X: 200, Y: 0, Z: 120},
		{Name: "b", X: 200, Y: 150, Z: 120},
	})

	s.NoError(s.sim.Takeoff())
	s.Equal(Point{0, 0, 100}, s.sim.Position())

	wp, err := s.sim.NavigateNext()
	s.NoError(err)
	s.Equal("a", wp.Name)
	s.Equal(Point{200, 0, 120}, s.sim.Position())
	s.True(s.sim.HasNext())

	wp, err = s.sim.NavigateNext()
	s.NoError(err)
	s.Equal("b", wp.Name)
	s.False(s.sim.HasNext())

	s.NoError(s.sim.ReturnHome())
	s.Equal(Point{0, 0, 120}, s.sim.Position())

	s.NoError(s.sim.Land())
	s.Equal(StateComplete, s.sim.State())
}

func (s *SimulatorSuite) TestEmergencyLand() {
	s.sim.EmergencyLand()
	s.Equal(StateError, s.sim.State())
}
