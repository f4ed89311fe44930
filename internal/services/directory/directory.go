// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package directory implements the cafe listing, detail, search, create and delete operations.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/cafe-directory/internal/models"
	"codeberg.org/oliverandrich/cafe-directory/internal/policy"
	"codeberg.org/oliverandrich/cafe-directory/internal/repository"
)

var (
	ErrUnauthenticated = errors.New("login required")
	ErrNotFound        = errors.New("cafe not found")
	ErrNotAuthorized   = errors.New("not authorized to delete this cafe")
	ErrDuplicateKey    = errors.New("a cafe with this name already exists")
)

// Which field a search matched on.
const (
	MatchedByName     = "name"
	MatchedByLocation = "location"
)

// SearchResult holds the cafes of the first search tier that matched.
// MatchedBy is empty when nothing matched.
type SearchResult struct {
	Cafes     []models.Cafe
	MatchedBy string
}

// Empty reports whether the search found nothing.
func (r SearchResult) Empty() bool {
	return len(r.Cafes) == 0
}

// CafeInput is the data a user submits for a new cafe.
type CafeInput struct {
	Name         string
	MapURL       string
	ImgURL       string
	Location     string
	HasToilet    bool
	HasWifi      bool
	HasSockets   bool
	CanTakeCalls bool
	Seats        string
	CoffeePrice  string
}

type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// List returns every cafe.
func (s *Service) List(ctx context.Context) ([]models.Cafe, error) {
	cafes, err := s.repo.ListCafes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cafes: %w", err)
	}
	return cafes, nil
}

// Get returns a cafe by ID.
func (s *Service) Get(ctx context.Context, id int64) (*models.Cafe, error) {
	cafe, err := s.repo.GetCafeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cafe: %w", err)
	}
	return cafe, nil
}

// Create stores a new cafe owned by the submitting user.
func (s *Service) Create(ctx context.Context, owner *models.User, in CafeInput) (*models.Cafe, error) {
	if owner == nil {
		return nil, ErrUnauthenticated
	}

	cafe := &models.Cafe{
		UserID:       owner.ID,
		Name:         strings.TrimSpace(in.Name),
		MapURL:       strings.TrimSpace(in.MapURL),
		ImgURL:       strings.TrimSpace(in.ImgURL),
		Location:     strings.TrimSpace(in.Location),
		HasToilet:    in.HasToilet,
		HasWifi:      in.HasWifi,
		HasSockets:   in.HasSockets,
		CanTakeCalls: in.CanTakeCalls,
		Seats:        strings.TrimSpace(in.Seats),
	}
	if price := strings.TrimSpace(in.CoffeePrice); price != "" {
		cafe.CoffeePrice = &price
	}

	if err := s.repo.CreateCafe(ctx, cafe); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			slog.Info("cafe_create_failed", "name", cafe.Name, "reason", "duplicate_name")
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to create cafe: %w", err)
	}

	slog.Info("cafe_created", "cafe_id", cafe.ID, "name", cafe.Name, "user_id", owner.ID)
	return cafe, nil
}

// Delete removes a cafe if the actor owns it or is an admin.
// It returns the deleted cafe so callers can name it.
func (s *Service) Delete(ctx context.Context, actor *models.User, id int64) (*models.Cafe, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	cafe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanDeleteCafe(actor, cafe) {
		slog.Warn("cafe_delete_denied", "cafe_id", id, "user_id", actor.ID)
		return nil, ErrNotAuthorized
	}

	if err := s.repo.DeleteCafe(ctx, id); err != nil {
		// deleted concurrently
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete cafe: %w", err)
	}

	slog.Info("cafe_deleted", "cafe_id", id, "user_id", actor.ID)
	return cafe, nil
}

// Search matches the query against cafe names first. Locations are only
// searched when no name matches, and the two result sets are never merged.
func (s *Service) Search(ctx context.Context, query string) (SearchResult, error) {
	query = strings.TrimSpace(query)

	cafes, err := s.repo.FindCafesByName(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to search by name: %w", err)
	}
	if len(cafes) > 0 {
		return SearchResult{Cafes: cafes, MatchedBy: MatchedByName}, nil
	}

	cafes, err = s.repo.FindCafesByLocation(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to search by location: %w", err)
	}
	if len(cafes) > 0 {
		return SearchResult{Cafes: cafes, MatchedBy: MatchedByLocation}, nil
	}

	return SearchResult{Cafes: []models.Cafe{}}, nil
}
