package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dispatchd/bookingflow/internal/common"
	"github.com/dispatchd/bookingflow/internal/model"
)

// Run is one stored pipeline result with its booking rows.
type Run struct {
	ID            int64
	Source        string
	Success       bool
	RecordCount   int
	ExpectedCount int
	CountMismatch bool
	Cardinality   string
	Path          string
	Confidence    float64
	CostUSD       float64
	Elapsed       time.Duration
	Error         string
	CreatedAt     time.Time
	Records       []model.BookingRecord
}

// SaveRun stores one process result and its booking records atomically.
func (s *SQLiteStorage) SaveRun(ctx context.Context, source string, result *model.ProcessResult) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if result == nil {
		return 0, ErrNilResult
	}
	if err := validateString(source, "source"); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var cardinality, path string
	if result.Classification != nil {
		cardinality = string(result.Classification.Cardinality)
		path = string(result.Classification.Path)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (source, success, record_count, expected_count,
			count_mismatch, cardinality, classification_path, confidence,
			cost_usd, elapsed_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		source, result.Success, result.Count, result.ExpectedCount,
		result.CountMismatch, cardinality, path, result.Confidence,
		result.CostUSD, result.Elapsed.Milliseconds(), result.Error)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for i := range result.Records {
		r := &result.Records[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bookings (run_id, customer, booked_by_name,
				booked_by_phone, booked_by_email, passenger_name,
				passenger_phone, passenger_email, from_location, to_location,
				vehicle_group, duty_type, start_date, end_date,
				reporting_time, reporting_address, drop_address,
				flight_train_number, dispatch_center, remarks, labels,
				confidence, extraction_method)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Customer, r.BookedByName, r.BookedByPhone,
			r.BookedByEmail, r.PassengerName, r.PassengerPhone,
			r.PassengerEmail, r.FromLocation, r.ToLocation, r.VehicleGroup,
			r.DutyType, r.StartDate, r.EndDate, r.ReportingTime,
			r.ReportingAddress, r.DropAddress, r.FlightTrainNumber,
			r.DispatchCenter, r.Remarks, r.Labels,
			r.Confidence, r.ExtractionMethod); err != nil {
			return 0, fmt.Errorf("failed to insert booking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first, without their
// booking rows.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, success, record_count, expected_count,
			count_mismatch, cardinality, classification_path, confidence,
			cost_usd, elapsed_ms, error, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// GetRun loads one run along with its booking records.
func (s *SQLiteStorage) GetRun(ctx context.Context, id int64) (*Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, success, record_count, expected_count,
			count_mismatch, cardinality, classification_path, confidence,
			cost_usd, elapsed_ms, error, created_at
		FROM runs
		WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT customer, booked_by_name, booked_by_phone, booked_by_email,
			passenger_name, passenger_phone, passenger_email, from_location,
			to_location, vehicle_group, duty_type, start_date, end_date,
			reporting_time, reporting_address, drop_address,
			flight_train_number, dispatch_center, remarks, labels,
			confidence, extraction_method
		FROM bookings
		WHERE run_id = ?
		ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r model.BookingRecord
		if err := rows.Scan(&r.Customer, &r.BookedByName, &r.BookedByPhone,
			&r.BookedByEmail, &r.PassengerName, &r.PassengerPhone,
			&r.PassengerEmail, &r.FromLocation, &r.ToLocation,
			&r.VehicleGroup, &r.DutyType, &r.StartDate, &r.EndDate,
			&r.ReportingTime, &r.ReportingAddress, &r.DropAddress,
			&r.FlightTrainNumber, &r.DispatchCenter, &r.Remarks,
			&r.Labels, &r.Confidence, &r.ExtractionMethod); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		run.Records = append(run.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return &run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var elapsedMS int64
	if err := row.Scan(&run.ID, &run.Source, &run.Success, &run.RecordCount,
		&run.ExpectedCount, &run.CountMismatch, &run.Cardinality, &run.Path,
		&run.Confidence, &run.CostUSD, &elapsedMS, &run.Error,
		&run.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return run, nil
}
