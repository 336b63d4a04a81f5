package analysis

import (
	"time"

	"sweettech/internal/util/jsonutil"
)

// DataExportFilename is the fixed name of the raw-data export.
const DataExportFilename = "SweetTech_Data.txt"

// ReportFilename returns the printable-report name for the given day,
// e.g. SweetTech_Report_2026-08-29.pdf.
func ReportFilename(t time.Time) string {
	return "SweetTech_Report_" + t.Format("2006-01-02") + ".pdf"
}

// MergedRecord is the full export payload: profile, insights, and the
// deduplicated source set at export time.
type MergedRecord struct {
	Profile  *ProductProfile   `json:"profile,omitempty"`
	Insights *AnalysisInsights `json:"insights,omitempty"`
	Sources  []string          `json:"sources"`
}

// Merged assembles the export record from a snapshot.
func Merged(snap Snapshot) MergedRecord {
	return MergedRecord{
		Profile:  snap.Profile,
		Insights: snap.Insights,
		Sources:  snap.Sources,
	}
}

// ExportJSON serializes the merged record as indented JSON text. Parsing the
// output back reproduces an equivalent structure to the session state at
// export time.
func ExportJSON(snap Snapshot) ([]byte, error) {
	return jsonutil.MarshalNoEscapeIndent(Merged(snap), "", "  ")
}
