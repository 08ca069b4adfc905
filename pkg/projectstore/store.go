// Package projectstore persists project configurations as verbatim JSON
// snapshots. It stores what the session hands it and never interprets the
// design; evaluation always happens on load.
package projectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
)

var ErrNotFound = errors.New("projectstore: project not found")

// Summary describes a stored project without its rooms.
type Summary struct {
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	ClientName  string    `json:"clientName"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store saves and loads project snapshots.
type Store interface {
	Save(ctx context.Context, p design.ProjectConfiguration) error
	Load(ctx context.Context, projectID string) (design.ProjectConfiguration, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, projectID string) error
	Close() error
}

func encode(p design.ProjectConfiguration) ([]byte, error) {
	if p.ProjectID == "" {
		return nil, fmt.Errorf("projectstore: project id is required")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("projectstore: encode %s: %w", p.ProjectID, err)
	}
	return data, nil
}

func decode(id string, data []byte) (design.ProjectConfiguration, error) {
	var p design.ProjectConfiguration
	if err := json.Unmarshal(data, &p); err != nil {
		return design.ProjectConfiguration{}, fmt.Errorf("projectstore: decode %s: %w", id, err)
	}
	return p, nil
}

func summaryOf(p design.ProjectConfiguration, at time.Time) Summary {
	return Summary{
		ProjectID:   p.ProjectID,
		ProjectName: p.ProjectName,
		ClientName:  p.ClientName,
		UpdatedAt:   at,
	}
}
