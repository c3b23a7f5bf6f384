package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchd/bookingflow/internal/model"
	"github.com/dispatchd/bookingflow/internal/sheets"
)

const testRequest1 = `Passenger Name: Anita Rao
Contact Number: +91 98765 43210
Date: 15/03/2025
Reporting Time: 9:00 am
Pickup Address: Bandra West, Mumbai
Vehicle: Dzire`

const testRequest2 = `Passenger Name: Rahul Verma
Date: 16/03/2025
Pickup Address: Koramangala, Bangalore`

func writeRequestFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "req1.txt"), []byte(testRequest1), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "req2.txt"), []byte(testRequest2), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("not a request"), 0600))

	return dir
}

func TestCollectRequestsGlob(t *testing.T) {
	dir := writeRequestFiles(t)

	requests, err := collectRequests([]string{filepath.Join(dir, "*.txt")})
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Contains(t, requests[0].source, "req1.txt")
	assert.Contains(t, requests[0].text, "Anita Rao")
	assert.Contains(t, requests[1].source, "req2.txt")
}

func TestCollectRequestsDirectFile(t *testing.T) {
	dir := writeRequestFiles(t)

	requests, err := collectRequests([]string{filepath.Join(dir, "notes.md")})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "not a request", requests[0].text)
}

func TestCollectRequestsDirectory(t *testing.T) {
	dir := writeRequestFiles(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forward.eml"), []byte(testRequest2), 0600))

	requests, err := collectRequests([]string{dir})
	require.NoError(t, err)
	require.Len(t, requests, 3)

	for _, req := range requests {
		assert.NotContains(t, req.source, "notes.md")
	}
}

func TestCollectRequestsNoMatches(t *testing.T) {
	dir := t.TempDir()

	requests, err := collectRequests([]string{filepath.Join(dir, "*.txt")})
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestExportRecords(t *testing.T) {
	mock := &sheets.MockWriter{}
	result := &model.ProcessResult{
		Success: true,
		Count:   2,
		Records: []model.BookingRecord{
			{PassengerName: "Anita Rao"},
			{PassengerName: "Rahul Verma"},
		},
	}

	exportRecords(context.Background(), mock, "req1.txt", result)
	require.Len(t, mock.AppendCalls, 1)
	assert.Len(t, mock.Rows(), 2)

	// A nil writer and an empty result are both no-ops.
	exportRecords(context.Background(), nil, "req1.txt", result)
	exportRecords(context.Background(), mock, "req2.txt", &model.ProcessResult{})
	assert.Len(t, mock.AppendCalls, 1)
}

func TestExportRecordsFailureIsNotFatal(t *testing.T) {
	mock := &sheets.MockWriter{
		AppendFunc: func(context.Context, []model.BookingRecord) error {
			return errors.New("quota exceeded")
		},
	}

	exportRecords(context.Background(), mock, "req1.txt", &model.ProcessResult{
		Records: []model.BookingRecord{{PassengerName: "Anita Rao"}},
	})
	assert.Len(t, mock.AppendCalls, 1)
}

func TestPrintSummarySuccess(t *testing.T) {
	var sb strings.Builder

	printSummary(&sb, "req1.txt", &model.ProcessResult{
		Success:    true,
		Count:      1,
		Confidence: 0.85,
		Records: []model.BookingRecord{
			{
				PassengerName: "Anita Rao",
				FromLocation:  "Mumbai",
				StartDate:     "2025-03-15",
				ReportingTime: "09:00",
				DutyType:      "G2G-04HR 40KMS",
			},
		},
	})

	out := sb.String()
	assert.Contains(t, out, "✓ req1.txt")
	assert.Contains(t, out, "Anita Rao")
	assert.Contains(t, out, "G2G-04HR 40KMS")
	assert.NotContains(t, out, "expected")
}

func TestPrintSummaryMismatch(t *testing.T) {
	var sb strings.Builder

	printSummary(&sb, "req.txt", &model.ProcessResult{
		Success:       true,
		Count:         1,
		ExpectedCount: 3,
		CountMismatch: true,
		Records:       []model.BookingRecord{{PassengerName: "Guest"}},
	})

	assert.Contains(t, sb.String(), "expected 3 booking(s), extracted 1")
}

func TestPrintSummaryFailure(t *testing.T) {
	var sb strings.Builder

	printSummary(&sb, "bad.txt", &model.ProcessResult{
		Success: false,
		Error:   "empty booking request",
	})

	out := sb.String()
	assert.Contains(t, out, "✗ bad.txt")
	assert.Contains(t, out, "empty booking request")
}

func TestPrintJSONRoundTrip(t *testing.T) {
	var sb strings.Builder

	result := &model.ProcessResult{Success: true, Count: 2, Confidence: 0.9}
	require.NoError(t, printJSON(&sb, result))

	assert.Contains(t, sb.String(), `"success": true`)
	assert.Contains(t, sb.String(), `"count": 2`)
}
