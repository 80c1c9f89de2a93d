// Package dashboard summarises clinic activity for the landing screen.
package dashboard

import (
	"context"
	"fmt"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

// RecentLimit is how many of the latest evolutions the summary carries.
const RecentLimit = 5

// Stats counts every patient, active or not, and treats each recorded
// evolution as one attended session.
type Stats struct {
	TotalPatients int                       `json:"total_patients"`
	TotalSessions int                       `json:"total_sessions"`
	Recent        []model.ClinicalEvolution `json:"recent"`
}

type Repository interface {
	CountPatients(ctx context.Context) (int, error)
	CountEvolutions(ctx context.Context) (int, error)
	RecentEvolutions(ctx context.Context, limit int) ([]model.ClinicalEvolution, error)
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type dashboardService struct {
	repo Repository
}

func New(repo Repository) Service {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) Stats(ctx context.Context) (*Stats, error) {
	patients, err := s.repo.CountPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	sessions, err := s.repo.CountEvolutions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count evolutions: %w", err)
	}
	recent, err := s.repo.RecentEvolutions(ctx, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent evolutions: %w", err)
	}
	if recent == nil {
		recent = []model.ClinicalEvolution{}
	}
	return &Stats{TotalPatients: patients, TotalSessions: sessions, Recent: recent}, nil
}
