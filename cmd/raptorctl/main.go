package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/antigravity/raptor-engine/internal/allocator"
	"github.com/antigravity/raptor-engine/internal/handler"
	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/raptor"
)

var rootCmd = &cobra.Command{
	Use:          "raptorctl",
	Short:        "raptorctl",
	Long:         "Inspects a GTFS feed and runs ad hoc routing queries against it",
	SilenceUsage: true,
}

var describeCmd = &cobra.Command{
	Use:   "describe <feed.zip>",
	Short: "Print entity counts and build warnings for a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := handler.LoadRepository(args[0])
		if err != nil {
			return fmt.Errorf("loading feed: %w", err)
		}
		fmt.Printf("stops:         %d\n", repo.NumStops())
		fmt.Printf("routes:        %d\n", repo.NumRoutes())
		fmt.Printf("trips:         %d\n", repo.NumTrips())
		fmt.Printf("areas:         %d\n", len(repo.Areas))
		fmt.Printf("raptor routes: %d\n", len(repo.RaptorRoutes))
		for _, w := range repo.Warnings {
			fmt.Printf("warning: %s: %s\n", w.Kind, w.Message)
		}
		return nil
	},
}

var (
	routeFrom         string
	routeTo           string
	routeDepartureAt  string
	routeWalkDistance float64
	routeFeedPath     string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Solve a single journey and print its itinerary",
	RunE: func(cmd *cobra.Command, args []string) error {
		if routeFeedPath == "" || routeFrom == "" || routeTo == "" {
			return fmt.Errorf("--feed, --from and --to are required")
		}
		repo, err := handler.LoadRepository(routeFeedPath)
		if err != nil {
			return fmt.Errorf("loading feed: %w", err)
		}

		departure := quantities.Time(0)
		if routeDepartureAt != "" {
			departure, err = quantities.ParseTime(routeDepartureAt)
			if err != nil {
				return fmt.Errorf("invalid --departure-at: %w", err)
			}
		}

		from, err := handler.LocationFromString(repo, routeFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		to, err := handler.LocationFromString(repo, routeTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		pool := allocator.NewPool()
		solver := raptor.New(repo, pool, from, to, departure).
			WithWalkDistance(quantities.FromMeters(routeWalkDistance))

		itinerary, err := solver.Solve(context.Background())
		if err != nil {
			return fmt.Errorf("solving route: %w", err)
		}

		for _, leg := range itinerary.Legs {
			fmt.Printf("%-8s %s -> %s  %s -> %s\n", leg.Type, leg.From.ID, leg.To.ID, leg.DepartureTime, leg.ArrivalTime)
		}
		return nil
	},
}

func init() {
	routeCmd.Flags().StringVar(&routeFeedPath, "feed", "", "path to the GTFS feed zip")
	routeCmd.Flags().StringVar(&routeFrom, "from", "", "origin stop id, area id, or lat,lon")
	routeCmd.Flags().StringVar(&routeTo, "to", "", "destination stop id, area id, or lat,lon")
	routeCmd.Flags().StringVar(&routeDepartureAt, "departure-at", "", "departure time HH:MM:SS (default: midnight)")
	routeCmd.Flags().Float64Var(&routeWalkDistance, "walk-distance", float64(quantities.AverageStopDistance.Meters()), "max walk distance in meters")

	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(routeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
