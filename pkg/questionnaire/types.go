package questionnaire

import "time"

// Category buckets a commitment score for reporting.
type Category string

const (
	CategoryHigh     Category = "high"
	CategoryModerate Category = "moderate"
	CategoryLow      Category = "low"
)

// FlagLevel is the traffic light indicator summarizing attention priority.
type FlagLevel string

const (
	FlagGreen FlagLevel = "green"
	FlagAmber FlagLevel = "amber"
	FlagRed   FlagLevel = "red"
)

// ExpectationOther is the enumerated expectations option that requires a
// free-text elaboration.
const ExpectationOther = "Other (please specify)"

// Answers holds the raw parent questionnaire responses that feed scoring.
// Additional survey answers that do not influence scoring are carried in
// Extra and persisted verbatim.
type Answers struct {
	AttendanceFrequency string   `json:"attendance_frequency"`
	AttendanceOther     string   `json:"attendance_other,omitempty"`
	BurialConsent       string   `json:"burial_consent,omitempty"`
	ParentInterest      string   `json:"parent_interest_in_islam,omitempty"`
	Expectations        []string `json:"expectations,omitempty"`
	ExpectationsOther   string   `json:"expectations_other,omitempty"`
	MedicalConsent      string   `json:"medical_consent,omitempty"`
	PolicyCompliance    string   `json:"policy_compliance,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}

// Result is the derived output of the scoring engine.
type Result struct {
	Score              int       `json:"commitment_score"`
	Category           Category  `json:"commitment_category"`
	FlagLevel          FlagLevel `json:"flag_level"`
	InconsistencyFlags []string  `json:"inconsistency_flags"`
}

// Response is the persisted questionnaire row. The derived fields mirror
// Result and are recomputed server-side on every create and update; clients
// cannot set them.
type Response struct {
	ID                    int64     `json:"id"`
	CenterID              int64     `json:"center_id"`
	MadressaApplicationID *int64    `json:"madressa_application_id,omitempty"`
	Answers               Answers   `json:"answers"`
	Score                 int       `json:"commitment_score"`
	Category              Category  `json:"commitment_category"`
	FlagLevel             FlagLevel `json:"flag_level"`
	InconsistencyFlags    []string  `json:"inconsistency_flags"`
	SubmittedBy           *int64    `json:"submitted_by,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
