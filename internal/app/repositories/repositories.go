package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CollegeRepository  *CollegeRepository
	RoleRepository     *RoleRepository
	UserRepository     *UserRepository
	RegistryRepository *RegistryRepository
	SyllabusRepository *SyllabusRepository
	NoteRepository     *NoteRepository
	ActivityRepository *ActivityRepository
	TokenRepository    *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CollegeRepository:  NewCollegeRepository(db),
		RoleRepository:     NewRoleRepository(db),
		UserRepository:     NewUserRepository(db),
		RegistryRepository: NewRegistryRepository(db),
		SyllabusRepository: NewSyllabusRepository(db),
		NoteRepository:     NewNoteRepository(db),
		ActivityRepository: NewActivityRepository(db),
		TokenRepository:    NewTokenRepository(db),
	}
}
