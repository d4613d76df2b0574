package applicants

import "time"

// Applicant is one welfare case file, always owned by exactly one center.
type Applicant struct {
	ID             int64      `json:"id"`
	CenterID       int64      `json:"center_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	CNIC           string     `json:"cnic,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Address        string     `json:"address,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Status         string     `json:"status"`
	MonthlyIncome  *float64   `json:"monthly_income,omitempty"`
	MonthlyExpense *float64   `json:"monthly_expense,omitempty"`
	CreatedBy      *int64     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Task is a unit of caseworker follow-up on an applicant.
type Task struct {
	ID          int64      `json:"id"`
	CenterID    int64      `json:"center_id"`
	ApplicantID *int64     `json:"applicant_id,omitempty"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
