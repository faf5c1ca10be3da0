// Package mapdata loads and validates the JSON map documents the
// navigation graph is built from, plus optional GeoJSON no-fly-zone
// overlays.
package mapdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Node types accepted in a map document.
const (
	TypeClient   = "client"
	TypeRecharge = "recharge"
	TypeHub      = "hub"
)

// PointRecord is an (x, y) coordinate pair in a map document.
type PointRecord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeRecord describes one map node.
type NodeRecord struct {
	ID   string  `json:"id" validate:"required"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Type string  `json:"type" validate:"required,oneof=client recharge hub"`
}

// ZoneRecord describes a forbidden-zone polygon.
type ZoneRecord struct {
	Polygon []PointRecord `json:"polygon" validate:"required,min=3"`
}

// RiskZoneRecord describes a risk-zone polygon with its multiplier.
type RiskZoneRecord struct {
	Polygon    []PointRecord `json:"polygon" validate:"required,min=3"`
	RiskFactor float64       `json:"risk_factor" validate:"gte=0"`
}

// Document is a deserialized map file.
type Document struct {
	MaxBattery     float64          `json:"max_battery" validate:"required,gt=0"`
	Nodes          []NodeRecord     `json:"nodes" validate:"required,min=1,dive"`
	ForbiddenZones []ZoneRecord     `json:"forbidden_zones" validate:"dive"`
	RiskZones      []RiskZoneRecord `json:"risk_zones" validate:"dive"`
}

var validate = validator.New()

// Validate checks a document that was deserialized elsewhere, for
// example out of an HTTP request body.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("mapdata: invalid map document: %w", err)
	}
	return nil
}

// Parse deserializes and validates a map document. Malformed documents
// are configuration errors and fail here rather than being defaulted.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("mapdata: invalid JSON: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("mapdata: invalid map document: %w", err)
	}
	return &doc, nil
}

// Load reads and parses a map document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapdata: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mapdata: %s: %w", path, err)
	}
	return doc, nil
}
