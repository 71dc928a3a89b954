package integration_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
	alertsrepo "github.com/ricmagno/KagomeReports-sub002/internal/alerts/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, table := range []string{"alert_patterns", "alert_configs", "distribution_lists"} {
		if !tableExists(db, table) {
			t.Skipf("missing table %s; run migrations", table)
		}
	}
	return db
}

func tableExists(db *sql.DB, name string) bool {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	)`, name).Scan(&exists)
	return err == nil && exists
}

func testPattern(id string) *alerts.AlertPattern {
	return &alerts.AlertPattern{
		ID:       id,
		Name:     "it-pattern-" + id,
		PVSuffix: "PV",
		HHLimit:  "HH_LIM",
		HHEvent:  "HH_EVT",
		HLimit:   "H_LIM",
		HEvent:   "H_EVT",
		LLimit:   "L_LIM",
		LEvent:   "L_EVT",
		LLLimit:  "LL_LIM",
		LLEvent:  "LL_EVT",
	}
}

func TestAlertRepositories_Postgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, _ = db.ExecContext(ctx, "DELETE FROM alert_configs WHERE id LIKE 'it-%'")
	_, _ = db.ExecContext(ctx, "DELETE FROM alert_patterns WHERE id LIKE 'it-%'")
	_, _ = db.ExecContext(ctx, "DELETE FROM distribution_lists WHERE id LIKE 'it-%'")

	patterns := alertsrepo.NewPatternRepository(db)
	configs := alertsrepo.NewAlertConfigRepository(db)
	lists := alertsrepo.NewDistributionListRepository(db)

	pattern := testPattern("it-pat-1")
	if err := patterns.Create(ctx, pattern); err != nil {
		t.Fatalf("create pattern: %v", err)
	}
	loaded, err := patterns.GetByID(ctx, pattern.ID)
	if err != nil {
		t.Fatalf("get pattern: %v", err)
	}
	if loaded == nil || loaded.HEvent != "H_EVT" {
		t.Fatalf("unexpected pattern %+v", loaded)
	}

	list := &alerts.DistributionList{
		ID:        "it-list-1",
		Name:      "it-operators",
		Endpoints: []string{"+5511999990000", "+5511888880000"},
	}
	if err := lists.Create(ctx, list); err != nil {
		t.Fatalf("create list: %v", err)
	}
	loadedList, err := lists.GetByID(ctx, list.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if loadedList == nil || len(loadedList.Endpoints) != 2 {
		t.Fatalf("endpoints did not round-trip: %+v", loadedList)
	}

	active := alerts.AlertConfig{
		ID:                 "it-cfg-active",
		TagBase:            "IT.Line1.Temp",
		MonitorH:           true,
		PatternID:          pattern.ID,
		DistributionListID: list.ID,
		Active:             true,
	}
	inactive := alerts.AlertConfig{
		ID:                 "it-cfg-inactive",
		TagBase:            "IT.Line2.Temp",
		MonitorL:           true,
		PatternID:          pattern.ID,
		DistributionListID: list.ID,
		Active:             false,
	}
	if err := configs.Create(ctx, &active); err != nil {
		t.Fatalf("create active config: %v", err)
	}
	if err := configs.Create(ctx, &inactive); err != nil {
		t.Fatalf("create inactive config: %v", err)
	}

	activeList, err := configs.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, config := range activeList {
		if config.ID == inactive.ID {
			t.Fatalf("inactive config leaked into active snapshot")
		}
	}
	found := false
	for _, config := range activeList {
		if config.ID == active.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("active config missing from snapshot")
	}

	// A referenced pattern must not be deletable.
	if err := patterns.Delete(ctx, pattern.ID); !errors.Is(err, alerts.ErrPatternInUse) {
		t.Fatalf("expected ErrPatternInUse, got %v", err)
	}

	if err := configs.Delete(ctx, active.ID); err != nil {
		t.Fatalf("delete active config: %v", err)
	}
	if err := configs.Delete(ctx, inactive.ID); err != nil {
		t.Fatalf("delete inactive config: %v", err)
	}
	if err := patterns.Delete(ctx, pattern.ID); err != nil {
		t.Fatalf("delete pattern after configs removed: %v", err)
	}
	if err := lists.Delete(ctx, list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}

	missing, err := patterns.GetByID(ctx, pattern.ID)
	if err != nil {
		t.Fatalf("get deleted pattern: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for deleted pattern")
	}
	if err := patterns.Delete(ctx, pattern.ID); !errors.Is(err, alerts.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
