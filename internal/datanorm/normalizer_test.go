package datanorm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceirr/sample-dashboard/internal/source"
)

var testNow = time.Date(2026, 10, 19, 14, 0, 0, 0, time.Local)

var testHeader = []string{
	" SubmissionDate ", "sample_scan", "sample_scan_manually", "Sample_Type", "type_cohort", "sample_date_time",
}

func table(rows ...[]string) *source.RawTable {
	return &source.RawTable{Header: testHeader, Rows: rows}
}

func TestNormalizeScannedCodeWins(t *testing.T) {
	raw := table([]string{"2026-10-19 09:05:00", " ABC123 ", "XYZ999", "2", "1", "09:00"})

	rows, err := Normalize(raw, testNow)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, ReportRow{
		SampleID:       "ABC123",
		SampleDateTime: "09:00",
		CohortType:     "Screening",
		SampleType:     "Blood",
	}, rows[0])
}

func TestNormalizeManualFallback(t *testing.T) {
	tests := []struct {
		name   string
		scan   string
		manual string
		want   string
	}{
		{"null scan", "", "M42", "M42"},
		{"blank scan", "   ", "M42", "M42"},
		{"manual kept verbatim", "", "  M42 ", "  M42 "},
		{"both null", "", "", ""},
		{"NA scan", "NA", "M42", "M42"},
		{"N/A scan", "N/A", "M42", "M42"},
		{"NA manual", "", "N/A", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := table([]string{"2026-10-19 10:00:00", tt.scan, tt.manual, "1", "1", "10:00"})

			rows, err := Normalize(raw, testNow)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0].SampleID)
		})
	}
}

func TestNormalizeUnmappedCodesPassThrough(t *testing.T) {
	raw := table([]string{"2026-10-19 10:00:00", "", "M42", "9", "7", "10:00"})

	rows, stats, err := NormalizeWithStats(raw, testNow)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "9", rows[0].SampleType)
	assert.Equal(t, "7", rows[0].CohortType)
	assert.Equal(t, 1, stats.UnmappedSampleTypes)
	assert.Equal(t, 1, stats.UnmappedCohorts)
}

func TestNormalizeNATokensAreBlank(t *testing.T) {
	raw := table([]string{"2026-10-19 10:00:00", "N/A", "M7", "NaN", "null", "NA"})

	rows, stats, err := NormalizeWithStats(raw, testNow)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, ReportRow{SampleID: "M7"}, rows[0])
	assert.Zero(t, stats.UnmappedSampleTypes)
	assert.Zero(t, stats.UnmappedCohorts)
}

func TestNormalizeAllCodes(t *testing.T) {
	raw := table(
		[]string{"2026-10-19 08:00:00", "A", "", "1", "1", "08:00"},
		[]string{"2026-10-19 08:01:00", "B", "", "2", "2", "08:01"},
		[]string{"2026-10-19 08:02:00", "C", "", "3", "3", "08:02"},
	)

	rows, err := Normalize(raw, testNow)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Nasal swab", "Blood", "Mucosal"},
		[]string{rows[0].SampleType, rows[1].SampleType, rows[2].SampleType})
	assert.Equal(t, []string{"Screening", "Prior Infected", "Not Infected"},
		[]string{rows[0].CohortType, rows[1].CohortType, rows[2].CohortType})
}

func TestNormalizeKeepsOnlyToday(t *testing.T) {
	raw := table(
		[]string{"2026-10-18 23:59:59", "YESTERDAY", "", "1", "1", "23:59"},
		[]string{"2026-10-19 00:00:00", "MIDNIGHT", "", "1", "1", "00:00"},
		[]string{"2026-10-19 23:59:59", "LATE", "", "1", "1", "23:59"},
		[]string{"2026-10-20 00:00:00", "TOMORROW", "", "1", "1", "00:00"},
		[]string{"garbage", "BAD", "", "1", "1", "12:00"},
		[]string{"", "NULL", "", "1", "1", "12:00"},
	)

	rows, stats, err := NormalizeWithStats(raw, testNow)
	require.NoError(t, err)

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.SampleID)
	}
	assert.Equal(t, []string{"MIDNIGHT", "LATE"}, ids)
	assert.Equal(t, Stats{RowsRead: 6, RowsToday: 2, BadTimestamps: 2}, stats)
}

func TestNormalizeYesterdayExcludedEvenIfValid(t *testing.T) {
	raw := table([]string{"10/18/2026 11:00:00", "ABC123", "XYZ", "2", "1", "11:00"})

	rows, err := Normalize(raw, testNow)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNormalizeShortRowIsNullPadded(t *testing.T) {
	raw := table([]string{"2026-10-19 10:00:00", "", "M1"})

	rows, err := Normalize(raw, testNow)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ReportRow{SampleID: "M1"}, rows[0])
}

func TestNormalizeEmptyIsNotAnError(t *testing.T) {
	rows, err := Normalize(table(), testNow)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestNormalizeMissingColumns(t *testing.T) {
	raw := &source.RawTable{
		Header: []string{"submissiondate", "sample_scan"},
		Rows:   [][]string{{"2026-10-19", "A"}},
	}

	_, err := Normalize(raw, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := table(
		[]string{"2026-10-19 08:00:00", " A ", "", "1", "2", "08:00"},
		[]string{"2026-10-19 09:00:00", "", "M", "5", "3", "09:00"},
		[]string{"2026-10-17 09:00:00", "OLD", "", "1", "1", "09:00"},
	)

	first, err := Normalize(raw, testNow)
	require.NoError(t, err)
	second, err := Normalize(raw, testNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, " A ", raw.Rows[0][1], "input must not be mutated")
}

func TestNormalizeColumnOrderIndependent(t *testing.T) {
	raw := &source.RawTable{
		Header: []string{"TYPE_COHORT", "sample_date_time", "sample_type", "sample_scan_manually", "sample_scan", "submissiondate"},
		Rows:   [][]string{{"3", "13:30", "3", "MAN", "", "2026-10-19 13:30:00"}},
	}

	rows, err := Normalize(raw, testNow)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ReportRow{SampleID: "MAN", SampleDateTime: "13:30", CohortType: "Not Infected", SampleType: "Mucosal"}, rows[0])
}

func TestReportRowValues(t *testing.T) {
	r := ReportRow{SampleID: "id", SampleDateTime: "dt", CohortType: "c", SampleType: "s"}
	assert.Equal(t, []string{"id", "dt", "c", "s"}, r.Values())
	assert.Len(t, ReportColumns, len(r.Values()))
}
