// Package datanorm turns the raw sample collection sheet into the day's
// report rows: it normalizes headers, keeps today's submissions, derives
// the sample ID and relabels the coded category columns.
package datanorm

import (
	"strings"
	"time"

	"github.com/ceirr/sample-dashboard/internal/source"
)

// Normalize returns the report rows for now's calendar date.
// It fails only when a required column is missing; malformed rows are
// dropped or passed through and never reported as errors.
func Normalize(raw *source.RawTable, now time.Time) ([]ReportRow, error) {
	rows, _, err := NormalizeWithStats(raw, now)
	return rows, err
}

// NormalizeWithStats is Normalize plus a summary of what was dropped or
// passed through.
func NormalizeWithStats(raw *source.RawTable, now time.Time) ([]ReportRow, Stats, error) {
	var stats Stats

	cols := indexColumns(raw.Header)
	if err := cols.require(RequiredColumns...); err != nil {
		return nil, stats, err
	}

	report := make([]ReportRow, 0)
	for i := range raw.Rows {
		stats.RowsRead++

		rec := normalizeRow(raw, i, cols)
		if rec.SubmissionTimestamp == nil {
			stats.BadTimestamps++
			continue
		}
		if !sameDay(*rec.SubmissionTimestamp, now) {
			continue
		}

		stats.RowsToday++
		if _, ok := sampleTypeLabels[rawCell(raw, i, cols, ColSampleType)]; !ok && rec.SampleType != "" {
			stats.UnmappedSampleTypes++
		}
		if _, ok := cohortLabels[rawCell(raw, i, cols, ColTypeCohort)]; !ok && rec.TypeCohort != "" {
			stats.UnmappedCohorts++
		}

		report = append(report, rec.project())
	}

	return report, stats, nil
}

func normalizeRow(raw *source.RawTable, i int, cols columnIndex) NormalizedRow {
	var rec NormalizedRow

	if ts, ok := ParseTimestamp(rawCell(raw, i, cols, ColSubmissionDate)); ok {
		rec.SubmissionTimestamp = &ts
	}
	rec.SampleID = deriveSampleID(
		cell(raw, i, cols, ColSampleScan),
		rawCell(raw, i, cols, ColSampleScanManually),
	)
	rec.SampleDateTime = rawCell(raw, i, cols, ColSampleDateTime)

	if v := rawCell(raw, i, cols, ColSampleType); v != "" {
		rec.SampleType = SampleTypeLabel(v)
	}
	if v := rawCell(raw, i, cols, ColTypeCohort); v != "" {
		rec.TypeCohort = CohortLabel(v)
	}

	return rec
}

// deriveSampleID prefers the scanned code, trimmed. The manual entry is
// used verbatim when the scan is null or blank.
func deriveSampleID(scan *string, manual string) string {
	if scan != nil {
		if trimmed := strings.TrimSpace(*scan); trimmed != "" {
			return trimmed
		}
	}
	return manual
}

func (r NormalizedRow) project() ReportRow {
	return ReportRow{
		SampleID:       r.SampleID,
		SampleDateTime: r.SampleDateTime,
		CohortType:     r.TypeCohort,
		SampleType:     r.SampleType,
	}
}

func cell(raw *source.RawTable, row int, cols columnIndex, name string) *string {
	v, ok := raw.Cell(row, cols[name])
	if !ok {
		return nil
	}
	return &v
}

// rawCell returns the cell value, "" for null.
func rawCell(raw *source.RawTable, row int, cols columnIndex, name string) string {
	v, _ := raw.Cell(row, cols[name])
	return v
}
