package questionnaire

import "strings"

// attendanceScores maps a normalized attendance frequency phrase to its
// commitment score. Phrases outside the table score 0.
var attendanceScores = map[string]int{
	"7 days per week":     5,
	"daily":               5,
	"6 days per week":     5,
	"5 days per week":     4,
	"4 days per week":     4,
	"3 days per week":     3,
	"2 days per week":     2,
	"weekends only":       2,
	"once a week":         1,
	"occasionally":        1,
	"only during ramadan": 1,
}

// Inconsistency flag messages. The order of evaluation is fixed so that
// repeated submissions produce identical flag lists.
const (
	flagBurialWithoutInterest = "Burial consent given but no parental interest in Islamic education"
	flagWelfareLowAttendance  = "Welfare/material expectations with low attendance commitment"
	flagUnscoreableAttendance = "Custom attendance answer could not be scored"
	flagOtherWithoutDetail    = "Expectations marked as Other without elaboration"
	flagMedicalPolicyConflict = "Medical consent declined but policy compliance affirmed"
)

// Score derives the commitment score, category, traffic light flag and
// inconsistency flags from a raw answer set. It is a pure function: identical
// input always produces identical output, which keeps re-submission and
// update idempotent.
func Score(a Answers) Result {
	score := attendanceScores[normalize(a.AttendanceFrequency)]

	var category Category
	switch {
	case score >= 4:
		category = CategoryHigh
	case score == 3:
		category = CategoryModerate
	default:
		category = CategoryLow
	}

	var flag FlagLevel
	switch {
	case score >= 4:
		flag = FlagGreen
	case score == 3:
		flag = FlagAmber
	default:
		flag = FlagRed
	}

	flags := inconsistencies(a, score)
	if len(flags) > 0 {
		// Any inconsistency forces amber, even over a green score
		flag = FlagAmber
	}

	return Result{
		Score:              score,
		Category:           category,
		FlagLevel:          flag,
		InconsistencyFlags: flags,
	}
}

// inconsistencies evaluates the fixed cross-field rules in order. Each rule
// is independent; a triggered rule appends its message.
func inconsistencies(a Answers, score int) []string {
	flags := make([]string, 0, 5)

	if affirmative(a.BurialConsent) && negative(a.ParentInterest) {
		flags = append(flags, flagBurialWithoutInterest)
	}

	if expectsWelfare(a.Expectations) && score <= 2 {
		flags = append(flags, flagWelfareLowAttendance)
	}

	if score == 0 && strings.TrimSpace(a.AttendanceOther) != "" {
		flags = append(flags, flagUnscoreableAttendance)
	}

	if containsExpectation(a.Expectations, ExpectationOther) && strings.TrimSpace(a.ExpectationsOther) == "" {
		flags = append(flags, flagOtherWithoutDetail)
	}

	if negative(a.MedicalConsent) && affirmative(a.PolicyCompliance) {
		flags = append(flags, flagMedicalPolicyConflict)
	}

	return flags
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func affirmative(s string) bool {
	return normalize(s) == "yes"
}

func negative(s string) bool {
	return normalize(s) == "no"
}

func expectsWelfare(expectations []string) bool {
	for _, e := range expectations {
		if strings.Contains(normalize(e), "welfare") {
			return true
		}
	}
	return false
}

func containsExpectation(expectations []string, want string) bool {
	for _, e := range expectations {
		if strings.EqualFold(strings.TrimSpace(e), want) {
			return true
		}
	}
	return false
}
