package madressa

import "time"

// Application is an enrollment request for the madressa program. Grade is
// free text as captured on the paper form.
type Application struct {
	ID             int64      `json:"id"`
	CenterID       int64      `json:"center_id"`
	ApplicantID    *int64     `json:"applicant_id,omitempty"`
	StudentName    string     `json:"student_name"`
	GuardianName   string     `json:"guardian_name,omitempty"`
	Grade          string     `json:"grade,omitempty"`
	EnrollmentDate *time.Time `json:"enrollment_date,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
