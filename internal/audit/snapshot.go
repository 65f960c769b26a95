package audit

import "github.com/courtdesk/registry-api/internal/models"

// CaseSnapshot captures the full set of case fields compared by the update
// summary. Keys line up with caseDiffFields.
func CaseSnapshot(c models.Case) map[string]any {
	return map[string]any{
		"number":      c.Number,
		"title":       c.Title,
		"petitioner":  c.Petitioner,
		"respondent":  c.Respondent,
		"case_type":   c.CaseType,
		"status":      c.Status,
		"description": c.Description,
	}
}

// EmployeeSnapshot captures the full set of employee fields compared by the
// update summary. Keys line up with employeeDiffFields.
func EmployeeSnapshot(e models.Employee) map[string]any {
	return map[string]any{
		"name":       e.Name,
		"position":   e.Position,
		"department": e.Department,
		"email":      e.Email,
		"phone":      e.Phone,
		"notes":      e.Notes,
	}
}
