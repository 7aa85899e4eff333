package services

import (
	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/repositories"
	"github.com/edustack/portal/internal/db"
	pkgauth "github.com/edustack/portal/internal/pkg/auth"
	"github.com/edustack/portal/internal/pkg/filestorage"
)

// Services holds all the service instances
type Services struct {
	ActivityService     *ActivityService
	AuthService         *AuthService
	CollegeService      *CollegeService
	RegistryService     *RegistryService
	SyllabusService     *SyllabusService
	NoteService         *NoteService
	VerificationService *VerificationService
	DashboardService    *DashboardService
}

// NewServices wires all services to their repositories
func NewServices(
	repos *repositories.Repositories,
	database *db.PostgresDB,
	guard *auth.Guard,
	jwtService *pkgauth.JWTService,
	uploader *filestorage.Uploader,
) *Services {
	activity := NewActivityService(repos.ActivityRepository)

	return &Services{
		ActivityService: activity,
		AuthService: NewAuthService(
			repos.UserRepository,
			repos.RoleRepository,
			repos.RegistryRepository,
			repos.CollegeRepository,
			repos.TokenRepository,
			database,
			jwtService,
			activity,
		),
		CollegeService:  NewCollegeService(repos.CollegeRepository, guard, database, activity),
		RegistryService: NewRegistryService(repos.RegistryRepository, guard, activity),
		SyllabusService: NewSyllabusService(repos.SyllabusRepository, guard, database, activity, uploader.Local()),
		NoteService: NewNoteService(
			repos.NoteRepository,
			repos.SyllabusRepository,
			uploader,
			guard,
			database,
			activity,
		),
		VerificationService: NewVerificationService(repos.UserRepository, repos.NoteRepository, guard, activity, uploader.Local()),
		DashboardService: NewDashboardService(
			repos.UserRepository,
			repos.NoteRepository,
			repos.SyllabusRepository,
			repos.CollegeRepository,
			guard,
		),
	}
}
