// Package scenario stores named project scenarios together with their last
// calculation result.
package scenario

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/linebalance/core/model"
)

var (
	// ErrNotFound is returned when no scenario has the requested ID.
	ErrNotFound = errors.New("scenario not found")
	// ErrInvalid is returned when a scenario cannot be saved.
	ErrInvalid = errors.New("invalid scenario")
)

// Scenario is a saved project. Result is optional and stored verbatim.
type Scenario struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Version     int                      `json:"version"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
	Project     model.ProjectData        `json:"project"`
	Result      *model.CalculationResult `json:"result,omitempty"`
}

// Metadata is the listing view of a scenario.
type Metadata struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Version    int       `json:"version"`
	Houses     int       `json:"houses"`
	Packages   int       `json:"packages"`
	TotalCost  float64   `json:"totalCost"`
	TotalWeeks int       `json:"totalWeeks"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Store persists scenarios.
type Store interface {
	// Save creates the scenario, or replaces it and bumps its version when
	// the ID already exists. An empty ID is assigned a new one.
	Save(s Scenario) (Scenario, error)
	Get(id string) (Scenario, error)
	// List returns the most recently updated scenarios first.
	List() ([]Metadata, error)
	Delete(id string) error
	Close() error
}

// MetadataOf summarises s. Cost and duration come from the stored result.
func MetadataOf(s Scenario) Metadata {
	m := Metadata{
		ID:        s.ID,
		Name:      s.Name,
		Version:   s.Version,
		Houses:    s.Project.HousesCount,
		Packages:  len(s.Project.WorkPackages),
		UpdatedAt: s.UpdatedAt,
	}
	if s.Result != nil {
		m.TotalCost = s.Result.Metadata.TotalProjectCost
		m.TotalWeeks = s.Result.Metadata.TotalProjectDuration
	}
	return m
}

// Check validates the fields required to save s.
func Check(s Scenario) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	return nil
}
