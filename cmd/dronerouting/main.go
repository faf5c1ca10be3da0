// Command dronerouting plans battery-constrained delivery tours. It can
// solve a single map, sweep a directory of instances into a CSV, or
// serve the planner over HTTP.
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"

	"dronerouting/internal/annealing"
	"dronerouting/internal/config"
	"dronerouting/internal/experiments"
	"dronerouting/internal/geometry"
	"dronerouting/internal/graph"
	"dronerouting/internal/heuristics"
	"dronerouting/internal/mapdata"
	"dronerouting/internal/route"
	"dronerouting/internal/server"
	"dronerouting/internal/solver"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("dronerouting: %v", err)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "dronerouting",
		Short:         "Battery-constrained drone delivery route planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(newSolveCommand(&configPath))
	root.AddCommand(newExperimentsCommand(&configPath))
	root.AddCommand(newServeCommand(&configPath))
	return root
}

func newSolveCommand(configPath *string) *cobra.Command {
	var (
		method       string
		startBattery float64
		zonesDir     string
		simplifyEps  float64
	)

	cmd := &cobra.Command{
		Use:   "solve <map.json>",
		Short: "Plan a tour for one map document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			doc, err := mapdata.Load(args[0])
			if err != nil {
				return err
			}
			if zonesDir != "" {
				if err := mergeZoneOverlay(doc, zonesDir, simplifyEps); err != nil {
					return err
				}
			}

			g, err := graph.Build(doc)
			if err != nil {
				return err
			}

			battery := g.MaxBattery
			if cmd.Flags().Changed("start-battery") {
				battery = startBattery
			}

			plans, ok, err := runMethod(cfg, g, method, battery)
			if err != nil {
				return err
			}
			if !ok {
				log.Printf("no feasible tour for %s with method %s", args[0], method)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				OK    bool         `json:"ok"`
				Plans []route.Plan `json:"plans,omitempty"`
			}{OK: ok, Plans: plans})
		},
	}

	cmd.Flags().StringVar(&method, "method", "exact", "exact, nearest, greedy or annealing")
	cmd.Flags().Float64Var(&startBattery, "start-battery", 0, "initial battery charge (default: full)")
	cmd.Flags().StringVar(&zonesDir, "zones-dir", "", "directory of GeoJSON no-fly-zone overlays")
	cmd.Flags().Float64Var(&simplifyEps, "simplify", 0, "Douglas-Peucker tolerance for overlay polygons")
	return cmd
}

func newExperimentsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "experiments",
		Short: "Run every planner over every map in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			out, err := experiments.Run(experimentsConfig(cfg))
			if err != nil {
				return err
			}
			log.Printf("results written to %s", out)
			return nil
		},
	}
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			app := server.New()
			log.Printf("listening on %s", cfg.Server.Address)
			return app.Listen(cfg.Server.Address)
		},
	}
}

func runMethod(cfg *config.Config, g *graph.Graph, method string, battery float64) ([]route.Plan, bool, error) {
	weights := route.Weights{
		Distance:  cfg.Weights.Distance,
		Risk:      cfg.Weights.Risk,
		Recharges: cfg.Weights.Recharges,
	}

	switch method {
	case "exact":
		s, err := solver.New(g)
		if err != nil {
			return nil, false, err
		}
		plans := s.Solve(battery)
		return plans, len(plans) > 0, nil

	case "nearest":
		plan, ok := heuristics.NearestFeasible(g, battery)
		if !ok {
			return nil, false, nil
		}
		return []route.Plan{plan}, true, nil

	case "greedy":
		plan, ok := heuristics.GreedyWeighted(g, battery, weights)
		if !ok {
			return nil, false, nil
		}
		return []route.Plan{plan}, true, nil

	case "annealing":
		opts := annealing.Options{
			Seed:       cfg.Annealing.Seed,
			Iterations: cfg.Annealing.Iterations,
			T0:         cfg.Annealing.T0,
			Alpha:      cfg.Annealing.Alpha,
			Weights:    weights,
		}

		initial, ok := heuristics.GreedyWeighted(g, battery, weights)
		if !ok {
			initial, ok = heuristics.NearestFeasible(g, battery)
		}
		if !ok {
			return nil, false, nil
		}

		plan, ok := annealing.Optimize(g, initial.Order, battery, opts)
		if !ok {
			return nil, false, nil
		}
		return []route.Plan{plan}, true, nil
	}

	return nil, false, &unknownMethodError{method: method}
}

type unknownMethodError struct{ method string }

func (e *unknownMethodError) Error() string { return "unknown method: " + e.method }

// mergeZoneOverlay appends GeoJSON no-fly zones to the document's
// forbidden zones, simplifying their outlines and dropping polygons
// fully contained in another.
func mergeZoneOverlay(doc *mapdata.Document, dir string, simplifyEps float64) error {
	records, err := mapdata.LoadGeoJSONZones(dir)
	if err != nil {
		return err
	}

	var polygons []*geometry.Polygon
	for _, rec := range records {
		vertices := make([]geometry.Point, len(rec.Polygon))
		for i, p := range rec.Polygon {
			vertices[i] = geometry.Point{X: p.X, Y: p.Y}
		}
		poly, err := geometry.NewPolygon(vertices)
		if err != nil {
			log.Printf("skipping overlay polygon: %v", err)
			continue
		}
		polygons = append(polygons, poly)
	}

	if simplifyEps > 0 {
		polygons = geometry.SimplifyPolygons(polygons, simplifyEps)
	}
	polygons = geometry.RemoveContainedPolygons(polygons)

	for _, poly := range polygons {
		vertices := poly.Vertices()
		rec := mapdata.ZoneRecord{Polygon: make([]mapdata.PointRecord, len(vertices))}
		for i, v := range vertices {
			rec.Polygon[i] = mapdata.PointRecord{X: v.X, Y: v.Y}
		}
		doc.ForbiddenZones = append(doc.ForbiddenZones, rec)
	}

	log.Printf("merged %d overlay zones from %s", len(polygons), dir)
	return nil
}

func experimentsConfig(cfg *config.Config) experiments.Config {
	weights := route.Weights{
		Distance:  cfg.Weights.Distance,
		Risk:      cfg.Weights.Risk,
		Recharges: cfg.Weights.Recharges,
	}
	return experiments.Config{
		DataDir:         cfg.DataDir,
		ResultsDir:      cfg.ResultsDir,
		MaxExactClients: cfg.MaxExactClients,
		Annealing: annealing.Options{
			Seed:       cfg.Annealing.Seed,
			Iterations: cfg.Annealing.Iterations,
			T0:         cfg.Annealing.T0,
			Alpha:      cfg.Annealing.Alpha,
			Weights:    weights,
		},
		Weights: weights,
	}
}
