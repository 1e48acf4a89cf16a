package dto

import "github.com/spec-kit/jobops-service/internal/service"

// DashboardTaskResponse is one open task on a technician's schedule.
type DashboardTaskResponse struct {
	Task      TaskResponse `json:"task"`
	Job       JobResponse  `json:"job"`
	IsOverdue bool         `json:"is_overdue"`
}

// DashboardDayResponse groups a day's open tasks.
type DashboardDayResponse struct {
	Date  string                  `json:"date"`
	Tasks []DashboardTaskResponse `json:"tasks"`
}

// DashboardResponse is the technician work view, ordered by date ascending.
type DashboardResponse struct {
	Days []DashboardDayResponse `json:"days"`
}

// NewDashboardResponse maps a technician dashboard.
func NewDashboardResponse(view *service.TechnicianDashboard) DashboardResponse {
	days := make([]DashboardDayResponse, 0, len(view.Dates))
	for _, date := range view.Dates {
		entries := view.TasksByDate[date]
		tasks := make([]DashboardTaskResponse, 0, len(entries))
		for i := range entries {
			tasks = append(tasks, DashboardTaskResponse{
				Task:      NewTaskResponse(&entries[i].Task),
				Job:       NewJobResponse(&entries[i].Job),
				IsOverdue: entries[i].IsOverdue,
			})
		}
		days = append(days, DashboardDayResponse{Date: date, Tasks: tasks})
	}
	return DashboardResponse{Days: days}
}
