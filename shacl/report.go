package shacl

import "time"

// Violation is one reported failure of a focus node against a constraint.
// The JSON field names are a compatibility contract.
type Violation struct {
	FocusNode                 string `json:"focusNode"`
	ResultPath                string `json:"resultPath"`
	Value                     string `json:"value,omitempty"`
	SourceShape               string `json:"sourceShape"`
	SourceConstraintComponent string `json:"sourceConstraintComponent"`
	ResultSeverity            string `json:"resultSeverity"`
	ResultMessage             string `json:"resultMessage"`
	ConstraintValue           string `json:"constraintValue"`
}

// ReportStatistics summarises a validation run. ValidationTime is in
// milliseconds.
type ReportStatistics struct {
	ShapesValidated int   `json:"shapesValidated"`
	ViolationsFound int   `json:"violationsFound"`
	ValidationTime  int64 `json:"validationTime"`
}

// Report is the result of validating a data graph against a shapes graph.
type Report struct {
	Conforms   bool             `json:"conforms"`
	Violations []Violation      `json:"violations"`
	Timestamp  time.Time        `json:"timestamp"`
	Engine     string           `json:"engine"`
	Statistics ReportStatistics `json:"statistics"`
}

func newReport(engine string, violations []Violation, shapesValidated int, elapsed time.Duration) *Report {
	if violations == nil {
		violations = make([]Violation, 0)
	}
	return &Report{
		Conforms:   len(violations) == 0,
		Violations: violations,
		Timestamp:  time.Now().UTC(),
		Engine:     engine,
		Statistics: ReportStatistics{
			ShapesValidated: shapesValidated,
			ViolationsFound: len(violations),
			ValidationTime:  elapsed.Milliseconds(),
		},
	}
}
