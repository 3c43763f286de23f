package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/einherij/surveyor/pkg/actuator/telloact"
	"github.com/einherij/surveyor/pkg/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Preflight check: connect to the drone and verify its readiness",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadMission(missionConfigPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	log := logger.WithField("component", "preflight")

	act := telloact.New(logger.WithField("component", "drone"))
	if err := act.Connect(); err != nil {
		return fmt.Errorf("error connecting to drone: %w", err)
	}
	defer act.Close()
	log.Info("connection: OK")

	battery, err := act.Battery()
	if err != nil {
		return fmt.Errorf("error reading battery level: %w", err)
	}
	log.Infof("battery: %d%%", battery)
	if battery < lowBatteryWarning {
		log.Warnf("battery below %d%%, charge before flying", lowBatteryWarning)
	}

	height, err := act.Height()
	if err != nil {
		return fmt.Errorf("error reading height: %w", err)
	}
	log.Infof("height: %dcm", height)

	frame, err := act.Frame()
	if err != nil {
		return fmt.Errorf("error reading video frame: %w", err)
	}
	log.Infof("video: OK (%d byte frame)", len(frame))

	log.Info("preflight check passed")
	return nil
}
