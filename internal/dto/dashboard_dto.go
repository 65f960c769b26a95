package dto

import "time"

// DashboardResponse aggregates registry statistics for the landing view.
type DashboardResponse struct {
	TotalCases       int64            `json:"total_cases"`
	CasesByStatus    map[string]int64 `json:"cases_by_status"`
	TotalEmployees   int64            `json:"total_employees"`
	ReceivedThisYear int64            `json:"received_this_year"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
