// Package experiments sweeps every map instance in a directory through
// all implemented planners and reports timing and costs as CSV.
package experiments

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dronerouting/internal/annealing"
	"dronerouting/internal/graph"
	"dronerouting/internal/heuristics"
	"dronerouting/internal/mapdata"
	"dronerouting/internal/route"
	"dronerouting/internal/solver"
)

// Config controls one sweep.
type Config struct {
	DataDir    string
	ResultsDir string

	// Exact search is exponential in client count; instances above this
	// size skip it.
	MaxExactClients int

	Annealing annealing.Options
	Weights   route.Weights
}

// DefaultConfig mirrors the parameters the planners were evaluated with.
func DefaultConfig() Config {
	return Config{
		DataDir:         "data",
		ResultsDir:      filepath.Join("experiments", "results"),
		MaxExactClients: 12,
		Annealing:       annealing.DefaultOptions(),
		Weights:         route.DefaultWeights(),
	}
}

var csvHeader = []string{
	"run_id", "instance", "n_clients", "method", "ok",
	"time_sec", "order", "distance", "risk", "recharges", "frontier_size",
}

// Run executes the sweep and returns the path of the written CSV.
func Run(cfg Config) (string, error) {
	instances, err := filepath.Glob(filepath.Join(cfg.DataDir, "*.json"))
	if err != nil {
		return "", fmt.Errorf("experiments: glob %s: %w", cfg.DataDir, err)
	}
	if len(instances) == 0 {
		return "", fmt.Errorf("experiments: no instances in %s", cfg.DataDir)
	}
	sort.Strings(instances)

	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return "", fmt.Errorf("experiments: create %s: %w", cfg.ResultsDir, err)
	}

	runID := uuid.NewString()
	var rows [][]string

	log.Printf("experiments: run %s over %d instances", runID, len(instances))

	for _, path := range instances {
		name := filepath.Base(path)

		doc, err := mapdata.Load(path)
		if err != nil {
			log.Printf("experiments: skipping %s: %v", name, err)
			continue
		}
		g, err := graph.Build(doc)
		if err != nil {
			log.Printf("experiments: skipping %s: %v", name, err)
			continue
		}

		battery := g.MaxBattery
		log.Printf("--- %s: hub=%s clients=%d battery=%g", name, g.Hub, len(g.Clients), battery)

		rows = append(rows, runInstance(cfg, runID, name, g, battery)...)
	}

	outPath := filepath.Join(cfg.ResultsDir, "results.csv")
	if err := writeCSV(outPath, rows); err != nil {
		return "", err
	}

	log.Printf("experiments: CSV written to %s", outPath)
	return outPath, nil
}

// runInstance runs every applicable method on one graph.
func runInstance(cfg Config, runID, name string, g *graph.Graph, battery float64) [][]string {
	var rows [][]string
	n := len(g.Clients)

	nfPlan, nfOK, nfTime := timedPlan(func() (route.Plan, bool) {
		return heuristics.NearestFeasible(g, battery)
	})
	rows = append(rows, newRow(runID, name, n, "nearest_feasible", nfOK, nfTime, nfPlan, -1))
	log.Printf("nearest feasible:    ok=%v time=%.4fs cost=%v", nfOK, nfTime.Seconds(), nfPlan.Cost)

	gwPlan, gwOK, gwTime := timedPlan(func() (route.Plan, bool) {
		return heuristics.GreedyWeighted(g, battery, cfg.Weights)
	})
	rows = append(rows, newRow(runID, name, n, "greedy_weighted", gwOK, gwTime, gwPlan, -1))
	log.Printf("greedy weighted:     ok=%v time=%.4fs cost=%v", gwOK, gwTime.Seconds(), gwPlan.Cost)

	// Annealing starts from the greedy order when available, else the
	// nearest-feasible one.
	var initial []string
	switch {
	case gwOK:
		initial = gwPlan.Order
	case nfOK:
		initial = nfPlan.Order
	}
	if initial != nil {
		saPlan, saOK, saTime := timedPlan(func() (route.Plan, bool) {
			return annealing.Optimize(g, initial, battery, cfg.Annealing)
		})
		rows = append(rows, newRow(runID, name, n, "simulated_annealing", saOK, saTime, saPlan, -1))
		log.Printf("simulated annealing: ok=%v time=%.4fs cost=%v", saOK, saTime.Seconds(), saPlan.Cost)
	} else {
		log.Printf("simulated annealing: skipped, no feasible initial order")
	}

	if n <= cfg.MaxExactClients {
		s, err := solver.New(g)
		if err != nil {
			log.Printf("exact bb:            skipped: %v", err)
			return rows
		}

		start := time.Now()
		plans := s.Solve(battery)
		elapsed := time.Since(start)

		best := route.Plan{}
		if len(plans) > 0 {
			best = plans[0] // Solve sorts by distance first.
		}
		rows = append(rows, newRow(runID, name, n, "exact_bb", len(plans) > 0, elapsed, best, len(plans)))
		log.Printf("exact bb:            frontier=%d time=%.4fs best=%v", len(plans), elapsed.Seconds(), best.Cost)
	} else {
		log.Printf("exact bb:            skipped, instance too large (%d clients)", n)
	}

	return rows
}

func timedPlan(fn func() (route.Plan, bool)) (route.Plan, bool, time.Duration) {
	start := time.Now()
	plan, ok := fn()
	return plan, ok, time.Since(start)
}

// newRow normalizes one method result into CSV fields. frontierSize < 0
// means the column does not apply to the method.
func newRow(runID, instance string, nClients int, method string, ok bool, elapsed time.Duration, plan route.Plan, frontierSize int) []string {
	okField := "0"
	order, distance, risk, recharges := "", "", "", ""
	if ok {
		okField = "1"
		order = strings.Join(plan.Order, ",")
		distance = strconv.FormatFloat(plan.Cost.Distance, 'f', 6, 64)
		risk = strconv.FormatFloat(plan.Cost.Risk, 'f', 6, 64)
		recharges = strconv.Itoa(plan.Cost.Recharges)
	}
	frontier := ""
	if frontierSize >= 0 {
		frontier = strconv.Itoa(frontierSize)
	}

	return []string{
		runID, instance, strconv.Itoa(nClients), method, okField,
		strconv.FormatFloat(elapsed.Seconds(), 'f', 6, 64),
		order, distance, risk, recharges, frontier,
	}
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("experiments: create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("experiments: write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("experiments: write rows: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
