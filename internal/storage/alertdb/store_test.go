package alertdb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bobmcallan/revpulse/internal/common"
	"github.com/bobmcallan/revpulse/internal/interfaces"
	"github.com/bobmcallan/revpulse/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := common.NewSilentLogger()
	store, err := NewStore(logger, t.TempDir())
	if err != nil {
		t.Fatalf("failed to open alert store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testAlert(id, business string, triggered time.Time) models.AnalysisAlert {
	return models.AnalysisAlert{
		ID:           id,
		BusinessName: business,
		Type:         models.CategoryRating,
		Severity:     models.SeverityCritical,
		Title:        "Rating below threshold",
		Value:        2.4,
		Threshold:    2.5,
		TriggeredAt:  triggered,
	}
}

func TestSaveAndGetAlert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alert := testAlert("a1", "Cafe Lumen", time.Now().UTC())
	if err := store.SaveAlert(ctx, &alert); err != nil {
		t.Fatalf("SaveAlert failed: %v", err)
	}

	got, err := store.GetAlert(ctx, "a1")
	if err != nil {
		t.Fatalf("GetAlert failed: %v", err)
	}
	if got.Type != models.CategoryRating || got.Severity != models.SeverityCritical {
		t.Errorf("got %+v, want rating/critical", got)
	}

	if err := store.SaveAlert(ctx, &models.AnalysisAlert{}); err == nil {
		t.Error("expected error for alert without ID")
	}
	_, err = store.GetAlert(ctx, "missing")
	if err == nil {
		t.Fatal("expected error for missing alert")
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("missing alert error = %v, want wrapped interfaces.ErrNotFound", err)
	}
}

func TestGetAlertsSortedNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		alert := testAlert(fmt.Sprintf("a%d", i), "Cafe Lumen", base.Add(time.Duration(i)*time.Hour))
		if err := store.SaveAlert(ctx, &alert); err != nil {
			t.Fatalf("SaveAlert failed: %v", err)
		}
	}
	other := testAlert("other", "Harbor Bistro", base)
	if err := store.SaveAlert(ctx, &other); err != nil {
		t.Fatalf("SaveAlert failed: %v", err)
	}

	alerts, err := store.GetAlerts(ctx, "Cafe Lumen")
	if err != nil {
		t.Fatalf("GetAlerts failed: %v", err)
	}
	if len(alerts) != 4 {
		t.Fatalf("got %d alerts, want 4", len(alerts))
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i].TriggeredAt.After(alerts[i-1].TriggeredAt) {
			t.Errorf("alerts not sorted newest first at index %d", i)
		}
	}
}

func TestGetUnacknowledged(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	open := testAlert("open", "Cafe Lumen", now)
	if err := store.SaveAlert(ctx, &open); err != nil {
		t.Fatalf("SaveAlert failed: %v", err)
	}
	acked := testAlert("acked", "Cafe Lumen", now.Add(-time.Hour))
	acked.Acknowledged = true
	acked.AcknowledgedAt = &now
	if err := store.SaveAlert(ctx, &acked); err != nil {
		t.Fatalf("SaveAlert failed: %v", err)
	}

	alerts, err := store.GetUnacknowledged(ctx, "Cafe Lumen")
	if err != nil {
		t.Fatalf("GetUnacknowledged failed: %v", err)
	}
	if len(alerts) != 1 || alerts[0].ID != "open" {
		t.Errorf("got %v, want only the open alert", alerts)
	}
}

func TestRuleLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rules := []models.NotificationRule{
		{ID: "r2", BusinessName: "Cafe Lumen", Kind: models.RuleKindThreshold, Enabled: true, Actions: []string{models.ActionEmail}},
		{ID: "r1", BusinessName: "Cafe Lumen", Kind: models.RuleKindTrend, Enabled: false, Actions: []string{models.ActionDashboard}},
		{ID: "r3", BusinessName: "Harbor Bistro", Kind: models.RuleKindThreshold, Enabled: true, Actions: []string{models.ActionEmail}},
	}
	for i := range rules {
		if err := store.SaveRule(ctx, &rules[i]); err != nil {
			t.Fatalf("SaveRule failed: %v", err)
		}
	}

	got, err := store.GetRules(ctx, "Cafe Lumen")
	if err != nil {
		t.Fatalf("GetRules failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r2" {
		t.Errorf("rules = %v, want [r1 r2] sorted by ID", got)
	}

	if err := store.DeleteRule(ctx, "r1"); err != nil {
		t.Fatalf("DeleteRule failed: %v", err)
	}
	got, err = store.GetRules(ctx, "Cafe Lumen")
	if err != nil {
		t.Fatalf("GetRules failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r2" {
		t.Errorf("rules after delete = %v, want [r2]", got)
	}

	// Deleting a missing rule is a no-op.
	if err := store.DeleteRule(ctx, "missing"); err != nil {
		t.Errorf("DeleteRule on missing rule: %v", err)
	}
}
