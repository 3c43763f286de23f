package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	missionConfigPath   string
	waypointsConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "surveyor",
	Short: "Autonomous drone inspection missions",
	Long: `Surveyor flies a drone through a configured waypoint route, identifies
the structure at each stop and photographs it from several headings.`,
	SilenceUsage: true,
}

func main() {
	// .env is optional; it carries operator overrides like the ground
	// station URL.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&missionConfigPath, "mission-config", "config/mission_default.yaml", "path to the mission configuration file")
	rootCmd.PersistentFlags().StringVar(&waypointsConfigPath, "waypoints-config", "config/waypoints_mvp.yaml", "path to the waypoints configuration file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
