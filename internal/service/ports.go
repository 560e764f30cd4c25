package service

import (
	"context"

	"github.com/azrova/azrovadash/internal/models"
)

// PanelAPI is the narrow port over the panel client adapter. Handlers never
// touch the panel directly, so a caching layer could slot in here without
// touching them.
type PanelAPI interface {
	CreateUser(ctx context.Context, opts models.CreatePanelUserOptions) (*models.PanelUser, error)
	FindUserByEmail(ctx context.Context, email string) (*models.PanelUser, error)
	UpdateUser(ctx context.Context, userID int, opts models.UpdatePanelUserOptions) (*models.PanelUser, error)
	DeleteUser(ctx context.Context, userID int) error
	ListUserServers(ctx context.Context, ownerID int) ([]models.PanelServer, error)
	ListAllocations(ctx context.Context, nodeID int) ([]models.Allocation, error)
	CreateServer(ctx context.Context, opts models.CreatePanelServerOptions) (*models.PanelServer, error)
	DeleteServer(ctx context.Context, serverID int) error
	GetServerStatus(ctx context.Context, uuid string) (string, error)
}

// UserStore is the capability interface over the local identity store.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, login string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id int64, username, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	Delete(ctx context.Context, id int64) error
}

// ConfigStore reads the file-backed configuration documents.
type ConfigStore interface {
	LoadDefaults() (*models.DefaultResources, error)
	LoadNodes() ([]models.Node, error)
	LoadEggs() ([]models.Egg, error)
	FindEgg(eggID int) (*models.Egg, error)
}
