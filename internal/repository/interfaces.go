package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/acca-engine/internal/models"
)

// StandingRepository defines the interface for league standing data access
type StandingRepository interface {
	Upsert(ctx context.Context, standing *models.Standing) error
	UpsertBatch(ctx context.Context, standings []*models.Standing) error
	GetByLeagueSeason(ctx context.Context, leagueID uuid.UUID, season string) ([]*models.Standing, error)
	GetByTeamSeason(ctx context.Context, teamID uuid.UUID, season string) (*models.Standing, error)
}

// FixtureRepository defines the interface for fixture and match context data access
type FixtureRepository interface {
	Upsert(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error)
	GetUpcomingByTeam(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]*models.Fixture, error)
	GetInjuries(ctx context.Context, fixtureID, teamID uuid.UUID) ([]models.PlayerAvailability, error)
	GetWeather(ctx context.Context, fixtureID uuid.UUID) (*models.MatchWeather, error)
}

// DominantTeamRepository defines the interface for dominance profile data access
type DominantTeamRepository interface {
	ReplaceForLeagueSeason(ctx context.Context, leagueID uuid.UUID, season string, profiles []models.DominanceProfile) error
	GetBettable(ctx context.Context, season string) ([]*models.DominanceProfile, error)
	GetByTeamSeason(ctx context.Context, teamID uuid.UUID, season string) (*models.DominanceProfile, error)
}

// PickRepository defines the interface for daily accumulator pick persistence
type PickRepository interface {
	ReplaceForDate(ctx context.Context, day time.Time, picks []models.AccumulatorPick) error
	GetByDate(ctx context.Context, day time.Time) ([]models.AccumulatorPick, error)
	GetByDateMinSafety(ctx context.Context, day time.Time, minSafety int) ([]models.AccumulatorPick, error)
}

// ComboRepository defines the interface for daily accumulator combo persistence
type ComboRepository interface {
	ReplaceForDate(ctx context.Context, day time.Time, combos []models.AccumulatorCombo) error
	GetByDate(ctx context.Context, day time.Time) ([]models.AccumulatorCombo, error)
	GetByDateAndRisk(ctx context.Context, day time.Time, risk models.RiskLevel) ([]models.AccumulatorCombo, error)
}
