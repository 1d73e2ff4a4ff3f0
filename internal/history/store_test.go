package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paddyocr/invoice-sorter/constants"
	"github.com/paddyocr/invoice-sorter/internal/batch"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(context.Background(), dsn, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 2, 13, 9, 0, 0, 0, time.UTC)
	run := Run{
		ID:         uuid.New(),
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Stats:      batch.Stats{Total: 3, Routed: 1, Skipped: 1, Failed: 1},
		Items: []batch.ItemResult{
			{ItemID: "item-a", Status: constants.StatusRouted, Supplier: "Globex Corporation", DocNumber: "MSP-100", DocDate: "01/01/2026", Attachments: 1},
			{ItemID: "item-b", Status: constants.StatusFailed, Err: "extract text: exit status 1"},
			{ItemID: "item-c", Status: constants.StatusSkippedNoPDF},
		},
	}
	if err := s.RecordRun(ctx, run); err != nil {
		t.Fatalf("record run: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("id = %s, want %s", got.ID, run.ID)
	}
	if !got.StartedAt.Equal(run.StartedAt) || !got.FinishedAt.Equal(run.FinishedAt) {
		t.Errorf("times = %v/%v, want %v/%v", got.StartedAt, got.FinishedAt, run.StartedAt, run.FinishedAt)
	}
	if got.Stats != run.Stats {
		t.Errorf("stats = %+v, want %+v", got.Stats, run.Stats)
	}
	if len(got.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(got.Items))
	}
	if got.Items[0] != run.Items[0] {
		t.Errorf("item[0] = %+v, want %+v", got.Items[0], run.Items[0])
	}
	if got.Items[1].Status != constants.StatusFailed || got.Items[1].Err != run.Items[1].Err {
		t.Errorf("item[1] = %+v", got.Items[1])
	}
}

func TestRecordRunNoItems(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := Run{
		ID:         uuid.New(),
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if err := s.RecordRun(ctx, run); err != nil {
		t.Fatalf("record run: %v", err)
	}
	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("items = %d, want 0", len(got.Items))
	}
}

func TestGetRunUnknownID(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetRun(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown run id")
	}
}

func TestDriverSelection(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://user:pw@localhost/history", "pgx"},
		{"postgresql://localhost/history", "pgx"},
		{"/var/lib/sorter/history.db", "sqlite"},
		{":memory:", "sqlite"},
	}
	for _, tt := range tests {
		if got := driverFor(tt.dsn); got != tt.want {
			t.Errorf("driverFor(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}
