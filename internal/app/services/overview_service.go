package services

import (
	"context"
	"time"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
)

// recentRequestCount is how many latest submissions the dashboard shows.
const recentRequestCount = 5

// OverviewService computes the registrar dashboard counters
type OverviewService struct {
	requestRepo requestStore
	studentRepo studentStore
}

// NewOverviewService creates a new OverviewService
func NewOverviewService(requestRepo requestStore, studentRepo studentStore) *OverviewService {
	return &OverviewService{
		requestRepo: requestRepo,
		studentRepo: studentRepo,
	}
}

// Stats returns the queue counters shown at the top of the admin dashboard.
// "Today" is the server's local calendar day.
func (s *OverviewService) Stats(ctx context.Context) (dto.OverviewStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	pendingRequests, err := s.requestRepo.CountByStatus(ctx, models.RequestStatusPending)
	if err != nil {
		return dto.OverviewStats{}, err
	}

	approvedToday, err := s.requestRepo.CountByStatusSince(ctx, models.RequestStatusProcessing, startOfDay)
	if err != nil {
		return dto.OverviewStats{}, err
	}

	rejectedToday, err := s.requestRepo.CountByStatusSince(ctx, models.RequestStatusRejected, startOfDay)
	if err != nil {
		return dto.OverviewStats{}, err
	}

	pendingStudents, err := s.studentRepo.CountByStatus(ctx, models.StudentStatusPending)
	if err != nil {
		return dto.OverviewStats{}, err
	}

	return dto.OverviewStats{
		PendingRequests: pendingRequests,
		ApprovedToday:   approvedToday,
		RejectedToday:   rejectedToday,
		PendingStudents: pendingStudents,
	}, nil
}

// RecentRequests returns the latest submissions for the dashboard feed.
func (s *OverviewService) RecentRequests(ctx context.Context) ([]*models.DocumentRequest, error) {
	return s.requestRepo.ListRecent(ctx, recentRequestCount)
}
