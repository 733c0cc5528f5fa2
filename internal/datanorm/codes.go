package datanorm

var sampleTypeLabels = map[string]string{
	"1": "Nasal swab",
	"2": "Blood",
	"3": "Mucosal",
}

var cohortLabels = map[string]string{
	"1": "Screening",
	"2": "Prior Infected",
	"3": "Not Infected",
}

// SampleTypeLabel maps a coded sample type to its label. Unknown codes are
// returned unchanged.
func SampleTypeLabel(code string) string {
	label, _ := lookup(sampleTypeLabels, code)
	return label
}

// CohortLabel maps a coded cohort to its label. Unknown codes are returned
// unchanged.
func CohortLabel(code string) string {
	label, _ := lookup(cohortLabels, code)
	return label
}

func lookup(table map[string]string, code string) (string, bool) {
	if label, ok := table[code]; ok {
		return label, true
	}
	return code, false
}
