package repository

import (
	"fmt"

	"github.com/yourusername/acca-engine/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Standing     StandingRepository
	Fixture      FixtureRepository
	DominantTeam DominantTeamRepository
	Pick         PickRepository
	Combo        ComboRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Standing:     NewPostgresStandingRepository(db),
		Fixture:      NewPostgresFixtureRepository(db),
		DominantTeam: NewPostgresDominantTeamRepository(db),
		Pick:         NewPostgresPickRepository(db),
		Combo:        NewPostgresComboRepository(db),
	}, nil
}
