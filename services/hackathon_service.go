package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/Hariom00027/hackathon-system/repositories"
)

type PhaseInput struct {
	Name     string  `json:"name"`
	Deadline *string `json:"deadline"`
}

type CreateHackathonInput struct {
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	EndDate     *string      `json:"end_date"`
	Phases      []PhaseInput `json:"phases"`
}

type UpdateHackathonInput struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	EndDate     *string      `json:"end_date"`
	Phases      []PhaseInput `json:"phases"`
}

// HackathonService — создание и сопровождение хакатонов индустрией.
type HackathonService interface {
	Create(ctx context.Context, identity *models.Identity, input CreateHackathonInput) (*models.Hackathon, error)
	GetByID(ctx context.Context, id int) (*models.Hackathon, error)
	List(ctx context.Context, limit, offset int) ([]models.Hackathon, error)
	ListMine(ctx context.Context, identity *models.Identity) ([]models.Hackathon, error)
	Update(ctx context.Context, identity *models.Identity, id int, input UpdateHackathonInput) (*models.Hackathon, error)
	Delete(ctx context.Context, identity *models.Identity, id int) error
}

type hackathonService struct {
	repo repositories.HackathonRepository
}

func NewHackathonService(repo repositories.HackathonRepository) HackathonService {
	return &hackathonService{repo: repo}
}

func (s *hackathonService) Create(ctx context.Context, identity *models.Identity, input CreateHackathonInput) (*models.Hackathon, error) {
	if err := requireIndustry(identity); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrHackathonTitleRequired
	}

	phases := make([]models.Phase, 0, len(input.Phases))
	for i, p := range input.Phases {
		if strings.TrimSpace(p.Name) == "" {
			return nil, ErrHackathonPhaseInvalid
		}
		phases = append(phases, models.Phase{
			Position: i + 1,
			Name:     p.Name,
			Deadline: p.Deadline,
		})
	}

	hackathon := &models.Hackathon{
		Title:       input.Title,
		Description: input.Description,
		IndustryID:  identity.ID,
		EndDate:     input.EndDate,
		Phases:      phases,
	}
	if err := s.repo.Create(ctx, hackathon); err != nil {
		return nil, fmt.Errorf("failed to create hackathon: %w", err)
	}
	return hackathon, nil
}

func (s *hackathonService) GetByID(ctx context.Context, id int) (*models.Hackathon, error) {
	hackathon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrHackathonNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, err
	}
	return hackathon, nil
}

func (s *hackathonService) List(ctx context.Context, limit, offset int) ([]models.Hackathon, error) {
	return s.repo.List(ctx, repositories.ListHackathonsFilter{Limit: limit, Offset: offset})
}

func (s *hackathonService) ListMine(ctx context.Context, identity *models.Identity) ([]models.Hackathon, error) {
	if err := requireIndustry(identity); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, repositories.ListHackathonsFilter{IndustryID: &identity.ID})
}

func (s *hackathonService) Update(ctx context.Context, identity *models.Identity, id int, input UpdateHackathonInput) (*models.Hackathon, error) {
	hackathon, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrHackathonTitleRequired
		}
		hackathon.Title = *input.Title
	}
	if input.Description != nil {
		hackathon.Description = input.Description
	}
	if input.EndDate != nil {
		hackathon.EndDate = input.EndDate
	}

	if err := s.repo.Update(ctx, hackathon); err != nil {
		return nil, fmt.Errorf("failed to update hackathon: %w", err)
	}

	if input.Phases != nil {
		phases := make([]models.Phase, 0, len(input.Phases))
		for i, p := range input.Phases {
			if strings.TrimSpace(p.Name) == "" {
				return nil, ErrHackathonPhaseInvalid
			}
			phases = append(phases, models.Phase{
				Position: i + 1,
				Name:     p.Name,
				Deadline: p.Deadline,
			})
		}
		updated, err := s.repo.ReplacePhases(ctx, id, phases)
		if err != nil {
			return nil, fmt.Errorf("failed to update phases: %w", err)
		}
		hackathon.Phases = updated
	}
	return hackathon, nil
}

func (s *hackathonService) Delete(ctx context.Context, identity *models.Identity, id int) error {
	hackathon, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireHackathonOwner(identity, hackathon); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
