package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/einherij/enterprise/utils"
	"github.com/spf13/cobra"

	"github.com/einherij/surveyor/pkg/actuator/telloact"
	"github.com/einherij/surveyor/pkg/config"
	"github.com/einherij/surveyor/pkg/groundlink"
	"github.com/einherij/surveyor/pkg/mission"
	"github.com/einherij/surveyor/pkg/navigator"
	"github.com/einherij/surveyor/pkg/photo"
	"github.com/einherij/surveyor/pkg/report"
	"github.com/einherij/surveyor/pkg/safety"
	"github.com/einherij/surveyor/pkg/storage"
)

const lowBatteryWarning = 20 // percent

var (
	flyLive      bool
	groundURL    string
	reportDBPath string
)

var flyCmd = &cobra.Command{
	Use:   "fly",
	Short: "Run an inspection mission (simulation by default)",
	RunE:  runFly,
}

func init() {
	flyCmd.Flags().BoolVar(&flyLive, "live", false, "fly the real drone instead of simulating")
	flyCmd.Flags().StringVar(&groundURL, "ground-url", os.Getenv("HANDLER_HOST_URL"), "ground station URL for telemetry (optional)")
	flyCmd.Flags().StringVar(&reportDBPath, "report-db", "./missions.db", "path to the mission report database")
	rootCmd.AddCommand(flyCmd)
}

func runFly(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadMission(missionConfigPath)
	if err != nil {
		return err
	}
	route, err := config.LoadWaypoints(waypointsConfigPath)
	if err != nil {
		return err
	}

	logger := utils.Must(newLogger(cfg.Logging))
	log := logger.WithField("component", "surveyor")

	live := flyLive
	log.Infof("mode: %s, waypoints: %d, headings: %d",
		mode(live), len(route.Waypoints), len(cfg.Photo.Headings))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := utils.Must(storage.NewManager(cfg.Photo.OutputDirectory, logger.WithField("component", "storage")))

	comps := mission.Components{}

	if live {
		act := telloact.New(logger.WithField("component", "drone"))
		if err := act.Connect(); err != nil {
			log.Errorf("failed to connect to drone: %v", err)
			log.Info("switching to simulation mode")
			live = false
		} else {
			defer act.Close()

			if battery, err := act.Battery(); err != nil {
				log.Warnf("battery level unavailable: %v", err)
			} else {
				log.Infof("connected, battery: %d%%", battery)
				if battery < lowBatteryWarning {
					log.Warn("battery low, consider charging before the mission")
				}
			}

			comps.Navigator = navigator.NewFlight(act, cfg.Flight, logger.WithField("component", "navigator"))
			comps.Capturer = photo.NewSequencer(store, comps.Navigator, cfg.Photo, logger.WithField("component", "photo"))
			comps.Frames = act.Frame

			// Marker decoding and gesture classification are external
			// services; without them the mission flies degraded, using
			// the fallback structure id and obstacle-only monitoring.
			comps.Safety = safety.NewMonitor(nil, nil, cfg.Safety, logger.WithField("component", "safety"))
		}
	}

	if !live {
		comps.Navigator = navigator.NewSimulator(cfg.Flight, logger.WithField("component", "navigator"))
		comps.Capturer = photo.NewSimulator(store, cfg.Photo, logger.WithField("component", "photo"))
	}

	if groundURL != "" {
		link := groundlink.New(groundURL, logger.WithField("component", "groundlink"))
		go link.Run(ctx)
		comps.Publisher = link
	}

	machine := mission.New(cfg, route, comps, logger.WithField("component", "mission"))
	mctx := machine.Run(ctx)

	saveReport(log, mctx, machine.State())

	if machine.State() != mission.StateComplete {
		return fmt.Errorf("mission %s failed: %v", mctx.ID, mctx.Errors)
	}
	log.Infof("mission %s completed successfully", mctx.ID)
	return nil
}

// A report failure must not change the mission outcome; log and move on.
func saveReport(log interface{ Warnf(string, ...interface{}) }, mctx mission.Context, terminal mission.State) {
	store, err := report.Open(reportDBPath)
	if err != nil {
		log.Warnf("report database unavailable: %v", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.Save(context.Background(), mctx, terminal); err != nil {
		log.Warnf("error saving mission report: %v", err)
	}
}

func mode(live bool) string {
	if live {
		return "LIVE"
	}
	return "SIMULATION"
}
