// Package config loads mission and waypoint configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Flight holds flight-related parameters.
type Flight struct {
	TakeoffHeightCM        int     `yaml:"takeoff_height_cm"`
	MovementSpeed          int     `yaml:"movement_speed"`
	HoverStabilityDelaySec float64 `yaml:"hover_stability_delay_sec"`
}

func (f Flight) StabilityDelay() time.Duration {
	return time.Duration(f.HoverStabilityDelaySec * float64(time.Second))
}

// Heading is a single photo heading, relative to the arrival heading.
// Rotation is in degrees, positive = clockwise.
type Heading struct {
	Name     string `yaml:"name"`
	Rotation int    `yaml:"rotation"`
}

// Photo holds photography parameters.
type Photo struct {
	Headings            []Heading `yaml:"angles"`
	DelayBetweenShotsSec float64  `yaml:"delay_between_shots_sec"`
	OutputDirectory     string    `yaml:"output_directory"`
}

func (p Photo) ShotDelay() time.Duration {
	return time.Duration(p.DelayBetweenShotsSec * float64(time.Second))
}

// Detection holds marker detection parameters.
type Detection struct {
	QRTimeoutSec float64 `yaml:"qr_timeout_sec"`
	FallbackID   string  `yaml:"fallback_id"`
}

func (d Detection) Timeout() time.Duration {
	return time.Duration(d.QRTimeoutSec * float64(time.Second))
}

// Safety holds safety monitor parameters.
type Safety struct {
	ObstacleCheckEnabled       bool    `yaml:"obstacle_check_enabled"`
	ObstacleThreshold          float64 `yaml:"obstacle_threshold"`
	GestureConfidenceThreshold float64 `yaml:"gesture_confidence_threshold"`
	GestureCheckIntervalSec    float64 `yaml:"gesture_check_interval_sec"`
}

func (s Safety) CheckInterval() time.Duration {
	return time.Duration(s.GestureCheckIntervalSec * float64(time.Second))
}

// Logging holds logger parameters.
type Logging struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// Mission is the complete mission configuration.
type Mission struct {
	Flight    Flight    `yaml:"flight"`
	Photo     Photo     `yaml:"photo"`
	Detection Detection `yaml:"detection"`
	Safety    Safety    `yaml:"safety"`
	Logging   Logging   `yaml:"logging"`
}

// Waypoint is a target position in integer centimetres relative to the
// takeoff point.
type Waypoint struct {
	Name        string `yaml:"name"`
	X           int    `yaml:"x"`
	Y           int    `yaml:"y"`
	Z           int    `yaml:"z"`
	Description string `yaml:"description"`
}

// Waypoints is the route definition.
type Waypoints struct {
	Waypoints  []Waypoint `yaml:"waypoints"`
	ReturnHome bool       `yaml:"return_home"`
}

// DefaultMission returns the built-in mission parameters, matching the
// values used when a field is absent from the YAML file.
func DefaultMission() *Mission {
	return &Mission{
		Flight: Flight{
			TakeoffHeightCM:        100,
			MovementSpeed:          50,
			HoverStabilityDelaySec: 2.0,
		},
		Photo: Photo{
			Headings: []Heading{
				{Name: "front", Rotation: 0},
				{Name: "left45", Rotation: -45},
				{Name: "right45", Rotation: 45},
			},
			DelayBetweenShotsSec: 1.0,
			OutputDirectory:      "./photos",
		},
		Detection: Detection{
			QRTimeoutSec: 3.0,
			FallbackID:   "UNKNOWN",
		},
		Safety: Safety{
			ObstacleCheckEnabled:       true,
			ObstacleThreshold:          0.3,
			GestureConfidenceThreshold: 0.7,
			GestureCheckIntervalSec:    0.5,
		},
		Logging: Logging{
			Level:   "info",
			File:    "./logs/mission.log",
			Console: true,
		},
	}
}

// LoadMission reads a mission configuration file. Missing fields keep
// their default values.
func LoadMission(path string) (*Mission, error) {
	m := DefaultMission()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading mission config: %w", err)
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("error parsing mission config: %w", err)
	}
	if len(m.Photo.Headings) == 0 {
		m.Photo.Headings = DefaultMission().Photo.Headings
	}
	return m, nil
}

// LoadWaypoints reads a waypoint file.
func LoadWaypoints(path string) (*Waypoints, error) {
	w := &Waypoints{ReturnHome: true}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading waypoints config: %w", err)
	}
	if err := yaml.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("error parsing waypoints config: %w", err)
	}
	return w, nil
}
