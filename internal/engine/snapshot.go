package engine

import (
	"context"
	"log"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
)

// ConfigLister loads the currently active alert configs.
type ConfigLister interface {
	ListActive(ctx context.Context) ([]alerts.AlertConfig, error)
}

// PatternReader loads alert patterns.
type PatternReader interface {
	GetByID(ctx context.Context, id string) (*alerts.AlertPattern, error)
}

// ListReader loads distribution lists.
type ListReader interface {
	GetByID(ctx context.Context, id string) (*alerts.DistributionList, error)
}

// Snapshot is the point-in-time configuration set one cycle evaluates.
// Configs whose pattern cannot be resolved are dropped here, so the rest of
// the pipeline only ever sees fully-resolvable configs.
type Snapshot struct {
	Configs  []alerts.AlertConfig
	Patterns map[string]alerts.AlertPattern
	Lists    map[string]alerts.DistributionList
}

// Empty reports whether the snapshot carries no evaluable configs.
func (s Snapshot) Empty() bool {
	return len(s.Configs) == 0
}

func loadSnapshot(ctx context.Context, configs ConfigLister, patterns PatternReader, lists ListReader, logger *log.Logger) (Snapshot, error) {
	active, err := configs.ListActive(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snapshot := Snapshot{
		Patterns: make(map[string]alerts.AlertPattern),
		Lists:    make(map[string]alerts.DistributionList),
	}
	for _, config := range active {
		if _, ok := snapshot.Patterns[config.PatternID]; !ok {
			loaded, err := patterns.GetByID(ctx, config.PatternID)
			if err != nil || loaded == nil {
				// Configuration inconsistency is contained to this config;
				// the rest of the cycle proceeds.
				if logger != nil {
					if err != nil {
						logger.Printf("alert engine: config %s skipped, pattern %s load failed: %v", config.ID, config.PatternID, err)
					} else {
						logger.Printf("alert engine: config %s skipped, pattern %s missing", config.ID, config.PatternID)
					}
				}
				continue
			}
			snapshot.Patterns[config.PatternID] = *loaded
		}

		if _, ok := snapshot.Lists[config.DistributionListID]; !ok {
			loaded, err := lists.GetByID(ctx, config.DistributionListID)
			if err != nil || loaded == nil {
				if logger != nil {
					if err != nil {
						logger.Printf("alert engine: config %s distribution list %s load failed: %v", config.ID, config.DistributionListID, err)
					} else {
						logger.Printf("alert engine: config %s has no distribution list %s", config.ID, config.DistributionListID)
					}
				}
			} else {
				snapshot.Lists[config.DistributionListID] = *loaded
			}
		}

		snapshot.Configs = append(snapshot.Configs, config)
	}
	return snapshot, nil
}
