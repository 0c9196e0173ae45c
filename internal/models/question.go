package models

// Feature is one row of a question's methodological checklist. Option1 holds
// the complete-negative-control value for the row; Absent flags whether the
// ABSENT choice is legal ("Y") or not ("N").
type Feature struct {
	Feature     string `json:"feature"`
	Description string `json:"description"`
	Option1     string `json:"option1"`
	Option1Text string `json:"option1Text"`
	Absent      string `json:"absent"`
}

// AllowsAbsent reports whether ABSENT may be chosen for this feature row.
func (f Feature) AllowsAbsent() bool {
	return f.Absent == "Y"
}

type Question struct {
	ID                           int       `json:"id"`
	Question                     string    `json:"question"`
	IndependentVariable          string    `json:"independentVariable"`
	DependentVariable            string    `json:"dependentVariable"`
	MethodologicalConsiderations []Feature `json:"methodologicalConsiderations"`
}
