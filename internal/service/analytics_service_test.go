package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/repository"
)

func TestAnalyticsReportZeroJobs(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{}, nil, time.Minute, nil)

	report, err := svc.Report(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalJobs != 0 || report.CompletedJobs != 0 || report.OverdueJobs != 0 {
		t.Fatalf("expected zero totals, got %+v", report)
	}
	if report.CompletionRate != 0 {
		t.Fatalf("completion rate must be 0 with no jobs, got %f", report.CompletionRate)
	}
	if report.AvgTaskCompletionTimeHours != nil {
		t.Fatal("average completion time must be null with no completed tasks")
	}
	if len(report.MostUsedEquipment) != 0 {
		t.Fatal("expected empty equipment breakdown")
	}
	if len(report.JobsByStatus) != 0 || len(report.JobsByPriority) != 0 {
		t.Fatal("expected empty status and priority breakdowns")
	}
}

func TestAnalyticsReportComputesRate(t *testing.T) {
	avg := 3.5
	repo := &fakeAnalyticsRepo{
		total:     4,
		completed: 1,
		overdue:   2,
		byStatus: map[domain.JobStatus]int64{
			domain.JobStatusPending:   3,
			domain.JobStatusCompleted: 1,
		},
		byPriority: map[int]int64{2: 4},
		avgHours:   &avg,
		topEquipment: []repository.EquipmentUsage{
			{EquipmentID: "equipment-1", Name: "Drill", UsageCount: 7},
		},
	}
	svc := NewAnalyticsService(repo, nil, time.Minute, nil)

	report, err := svc.Report(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.CompletionRate != 25 {
		t.Fatalf("expected 25%% completion rate, got %f", report.CompletionRate)
	}
	if report.AvgTaskCompletionTimeHours == nil || *report.AvgTaskCompletionTimeHours != 3.5 {
		t.Fatalf("unexpected average hours: %v", report.AvgTaskCompletionTimeHours)
	}
	if len(report.MostUsedEquipment) != 1 || report.MostUsedEquipment[0].UsageCount != 7 {
		t.Fatalf("unexpected equipment breakdown: %+v", report.MostUsedEquipment)
	}
}
