// Package server exposes route planning over HTTP. A single endpoint
// accepts an inline map document plus solver parameters and returns the
// resulting plan or plans.
package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"dronerouting/internal/annealing"
	"dronerouting/internal/graph"
	"dronerouting/internal/heuristics"
	"dronerouting/internal/mapdata"
	"dronerouting/internal/route"
	"dronerouting/internal/solver"
)

// SolveRequest is the body of POST /routes/solve.
type SolveRequest struct {
	Map          mapdata.Document   `json:"map"`
	Method       string             `json:"method"`
	StartBattery *float64           `json:"start_battery"`
	Weights      *route.Weights     `json:"weights"`
	Annealing    *annealing.Options `json:"annealing"`
}

// SolveResponse reports the outcome of a solve. OK is false when the
// instance has no feasible tour (or the chosen heuristic got stuck).
type SolveResponse struct {
	OK     bool         `json:"ok"`
	Method string       `json:"method"`
	Plans  []route.Plan `json:"plans,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// New builds the Fiber application with all routes registered.
func New() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "dronerouting",
		DisableStartupMessage: true,
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/routes/solve", handleSolve)

	return app
}

func handleSolve(c *fiber.Ctx) error {
	var req SolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SolveResponse{Error: "invalid JSON body"})
	}

	if err := req.Map.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SolveResponse{Error: err.Error()})
	}

	g, err := graph.Build(&req.Map)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SolveResponse{Error: err.Error()})
	}

	battery := g.MaxBattery
	if req.StartBattery != nil {
		battery = *req.StartBattery
	}
	weights := route.DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	method := req.Method
	if method == "" {
		method = "exact"
	}

	plans, ok, err := dispatch(g, method, battery, weights, req.Annealing)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SolveResponse{Method: method, Error: err.Error()})
	}

	return c.JSON(SolveResponse{OK: ok, Method: method, Plans: plans})
}

var errUnknownMethod = errors.New("unknown method")

func dispatch(g *graph.Graph, method string, battery float64, weights route.Weights, annealOpts *annealing.Options) ([]route.Plan, bool, error) {
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
		opts := annealing.DefaultOptions()
		if annealOpts != nil {
			opts = *annealOpts
		}
		if opts.Weights == (route.Weights{}) {
			opts.Weights = weights
		}

		initial, ok := heuristics.GreedyWeighted(g, battery, opts.Weights)
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

	default:
		return nil, false, errUnknownMethod
	}
}
