package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dispatchd/bookingflow/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

func sampleResult() *model.ProcessResult {
	return &model.ProcessResult{
		Success:       true,
		Count:         2,
		ExpectedCount: 2,
		Confidence:    0.9,
		CostUSD:       0.0012,
		Elapsed:       1200 * time.Millisecond,
		Classification: &model.ClassificationResult{
			Cardinality: model.CardinalityMultiple,
			Path:        model.PathModel,
		},
		Records: []model.BookingRecord{
			{
				PassengerName:    "Anita Rao",
				PassengerPhone:   "9876543210",
				DutyType:         "G2G-04HR 40KMS",
				StartDate:        "2025-03-15",
				VehicleGroup:     "Swift Dzire",
				DispatchCenter:   "Mumbai Central Dispatch",
				Confidence:       0.9,
				ExtractionMethod: "multiple_booking_model_1",
			},
			{
				PassengerName:    "Rahul Verma",
				PassengerPhone:   "9123456780",
				DutyType:         "P2P-08HR 80KMS",
				StartDate:        "2025-03-16",
				VehicleGroup:     "Toyota Innova Crysta",
				DispatchCenter:   "Delhi NCR Dispatch",
				Confidence:       0.9,
				ExtractionMethod: "multiple_booking_model_2",
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.SaveRun(ctx, "inbox/request-1.txt", sampleResult())
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a nonzero run id")
	}

	run, err := store.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}

	if !run.Success {
		t.Error("Success not persisted")
	}
	if run.RecordCount != 2 || len(run.Records) != 2 {
		t.Errorf("got %d/%d records, want 2/2", run.RecordCount, len(run.Records))
	}
	if run.Cardinality != "multiple" {
		t.Errorf("Cardinality = %q, want multiple", run.Cardinality)
	}
	if run.Records[0].PassengerName != "Anita Rao" {
		t.Errorf("first passenger = %q", run.Records[0].PassengerName)
	}
	if run.Records[1].DutyType != "P2P-08HR 80KMS" {
		t.Errorf("second duty type = %q", run.Records[1].DutyType)
	}
	if run.Records[0].Confidence != 0.9 {
		t.Errorf("first confidence = %v, want 0.9", run.Records[0].Confidence)
	}
	if run.Records[1].ExtractionMethod != "multiple_booking_model_2" {
		t.Errorf("second extraction method = %q", run.Records[1].ExtractionMethod)
	}
	if run.Elapsed != 1200*time.Millisecond {
		t.Errorf("Elapsed = %v", run.Elapsed)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first, err := store.SaveRun(ctx, "a.txt", sampleResult())
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	second, err := store.SaveRun(ctx, "b.txt", sampleResult())
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("runs not newest first: %d then %d", runs[0].ID, runs[1].ID)
	}
	if len(runs[0].Records) != 0 {
		t.Error("ListRuns should not load booking rows")
	}
}

func TestSaveRunFailedEnvelope(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.SaveRun(ctx, "bad.txt", &model.ProcessResult{
		Success: false,
		Error:   "empty booking request",
	})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	run, err := store.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Success {
		t.Error("failed run stored as success")
	}
	if run.Error != "empty booking request" {
		t.Errorf("Error = %q", run.Error)
	}
	if len(run.Records) != 0 {
		t.Errorf("failed run has %d records", len(run.Records))
	}
}

func TestSaveRunValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	if _, err := store.SaveRun(ctx, "", sampleResult()); err == nil {
		t.Error("empty source must be rejected")
	}
	if _, err := store.SaveRun(ctx, "x.txt", nil); err == nil {
		t.Error("nil result must be rejected")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	store := newTestStorage(t)

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}
