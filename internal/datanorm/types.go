package datanorm

import "time"

// Source column names after header normalization.
const (
	ColSubmissionDate     = "submissiondate"
	ColSampleScan         = "sample_scan"
	ColSampleScanManually = "sample_scan_manually"
	ColSampleType         = "sample_type"
	ColTypeCohort         = "type_cohort"
	ColSampleDateTime     = "sample_date_time"
)

// RequiredColumns must all be present in the fetched header.
var RequiredColumns = []string{
	ColSubmissionDate,
	ColSampleScan,
	ColSampleScanManually,
	ColSampleType,
	ColTypeCohort,
	ColSampleDateTime,
}

// ReportColumns are the display headers, in output order.
var ReportColumns = []string{"Sample ID", "Sample Date/Time", "Cohort Type", "Sample Type"}

// NormalizedRow is one source row after parsing and relabeling.
type NormalizedRow struct {
	// SubmissionTimestamp holds wall-clock fields only; its location is
	// always UTC and carries no meaning. Nil when the source value did not parse.
	SubmissionTimestamp *time.Time
	SampleID            string
	SampleDateTime      string
	SampleType          string
	TypeCohort          string
}

// ReportRow is the four-field projection shown and exported.
type ReportRow struct {
	SampleID       string `json:"sample_id"`
	SampleDateTime string `json:"sample_date_time"`
	CohortType     string `json:"cohort_type"`
	SampleType     string `json:"sample_type"`
}

// Values returns the row's cells in ReportColumns order.
func (r ReportRow) Values() []string {
	return []string{r.SampleID, r.SampleDateTime, r.CohortType, r.SampleType}
}

// Stats summarizes one normalization run. Diagnostic only.
type Stats struct {
	RowsRead            int
	RowsToday           int
	BadTimestamps       int
	UnmappedSampleTypes int
	UnmappedCohorts     int
}
