package reporting

import (
	"fmt"
	"math"
	"sort"

	"github.com/falah-io/falah/pkg/questionnaire"
)

// ScoredRow is one questionnaire row as seen by the aggregator.
type ScoredRow struct {
	CenterID int64
	Grade    string
	Category questionnaire.Category
}

// GroupStats holds the commitment distribution for one group.
type GroupStats struct {
	Total    int `json:"total"`
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
}

// CenterStats is GroupStats keyed by center.
type CenterStats struct {
	CenterID int64 `json:"center_id"`
	GroupStats
}

// GradeStats is GroupStats keyed by grade.
type GradeStats struct {
	Grade string `json:"grade"`
	GroupStats
}

// CommitmentReport is the aggregated output consumed by the dashboard and
// the snapshot job.
type CommitmentReport struct {
	ByCenter  []CenterStats `json:"by_center"`
	ByGrade   []GradeStats  `json:"by_grade"`
	Overall   GroupStats    `json:"overall"`
	Narrative string        `json:"narrative"`
}

// Aggregate groups scored rows by center and by grade and derives the
// overall narrative. Pure function, deterministic output ordering.
func Aggregate(rows []ScoredRow) CommitmentReport {
	byCenter := make(map[int64]*GroupStats)
	byGrade := make(map[string]*GroupStats)
	var overall GroupStats

	for _, row := range rows {
		cs, ok := byCenter[row.CenterID]
		if !ok {
			cs = &GroupStats{}
			byCenter[row.CenterID] = cs
		}
		gs, ok := byGrade[row.Grade]
		if !ok {
			gs = &GroupStats{}
			byGrade[row.Grade] = gs
		}

		for _, stats := range []*GroupStats{cs, gs, &overall} {
			stats.Total++
			switch row.Category {
			case questionnaire.CategoryHigh:
				stats.High++
			case questionnaire.CategoryModerate:
				stats.Moderate++
			default:
				stats.Low++
			}
		}
	}

	report := CommitmentReport{
		ByCenter: make([]CenterStats, 0, len(byCenter)),
		ByGrade:  make([]GradeStats, 0, len(byGrade)),
		Overall:  overall,
	}

	for centerID, stats := range byCenter {
		report.ByCenter = append(report.ByCenter, CenterStats{CenterID: centerID, GroupStats: *stats})
	}
	sort.Slice(report.ByCenter, func(i, j int) bool {
		return report.ByCenter[i].CenterID < report.ByCenter[j].CenterID
	})

	for grade, stats := range byGrade {
		report.ByGrade = append(report.ByGrade, GradeStats{Grade: grade, GroupStats: *stats})
	}
	sort.Slice(report.ByGrade, func(i, j int) bool {
		return report.ByGrade[i].Grade < report.ByGrade[j].Grade
	})

	report.Narrative = Narrative(overall)
	return report
}

// Narrative renders the overall distribution as a sentence with rounded
// percentages.
func Narrative(stats GroupStats) string {
	if stats.Total == 0 {
		return "No scored questionnaires available."
	}

	return fmt.Sprintf(
		"Of %d questionnaires, %d%% show high commitment, %d%% moderate commitment and %d%% low commitment.",
		stats.Total,
		percent(stats.High, stats.Total),
		percent(stats.Moderate, stats.Total),
		percent(stats.Low, stats.Total),
	)
}

func percent(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
