package accountservice

import (
	"log/slog"

	httpadapter "funded/contexts/identity-access/account-service/adapters/http"
	"funded/contexts/identity-access/account-service/adapters/memory"
	"funded/contexts/identity-access/account-service/application/commands"
	"funded/contexts/identity-access/account-service/application/queries"
	"funded/contexts/identity-access/account-service/domain/entities"
	"funded/contexts/identity-access/account-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Actors    queries.ResolveActorUseCase
	Directory queries.StudentDirectoryUseCase
	Stats     queries.UserStatsUseCase
	SeedAdmin commands.SeedAdminUseCase
	Store     *memory.Store
	Storage   *memory.DocumentStorage
}

type Dependencies struct {
	Users       ports.UserRepository
	Storage     ports.DocumentStorage
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	AdminEmail  string
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			SyncUser: commands.SyncUserUseCase{
				Users:       deps.Users,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				AdminEmail:  deps.AdminEmail,
				Logger:      deps.Logger,
			},
			CreateStudentProfile: commands.CreateStudentProfileUseCase{
				Users:       deps.Users,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			RequestDocumentUpload: commands.RequestDocumentUploadUseCase{
				Users:       deps.Users,
				Storage:     deps.Storage,
				Clock:       deps.Clock,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			ManageUsers: commands.ManageUsersUseCase{
				Users:  deps.Users,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			ReviewStudent: commands.ReviewStudentUseCase{
				Users:  deps.Users,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			GetCurrentUser: queries.GetCurrentUserUseCase{Users: deps.Users, Logger: deps.Logger},
			ListUsers:      queries.ListUsersUseCase{Users: deps.Users, Logger: deps.Logger},
			ListStudents:   queries.ListStudentsUseCase{Users: deps.Users, Logger: deps.Logger},
			Logger:         deps.Logger,
		},
		Actors:    queries.ResolveActorUseCase{Users: deps.Users, Logger: deps.Logger},
		Directory: queries.StudentDirectoryUseCase{Users: deps.Users, Logger: deps.Logger},
		Stats:     queries.UserStatsUseCase{Users: deps.Users},
		SeedAdmin: commands.SeedAdminUseCase{
			Users:       deps.Users,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule wires the memory store and the local document storage.
func NewInMemoryModule(seed []entities.User, adminEmail string, logger *slog.Logger) Module {
	store := memory.NewStore(seed, logger)
	storage := memory.NewDocumentStorage("http://localhost/uploads")
	module := NewModule(Dependencies{
		Users:       store,
		Storage:     storage,
		Clock:       store,
		IDGenerator: store,
		AdminEmail:  adminEmail,
		Logger:      logger,
	})
	module.Store = store
	module.Storage = storage
	return module
}
