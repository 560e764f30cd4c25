package service

import (
	"context"
	"fmt"
	"log"

	"github.com/azrova/azrovadash/internal/models"
)

// ServerService proxies server operations to the panel. The caller is always
// resolved to their panel account by email, and every action on a specific
// server is matched by UUID inside the caller's own server list, so users can
// only act on servers they own. Nothing is cached; usage is re-fetched and
// re-summed on every call.
type ServerService struct {
	panel  PanelAPI
	config ConfigStore
}

func NewServerService(panel PanelAPI, config ConfigStore) *ServerService {
	return &ServerService{panel: panel, config: config}
}

// resolvePanelUser maps the session email to the panel account.
func (s *ServerService) resolvePanelUser(ctx context.Context, email string) (*models.PanelUser, error) {
	panelUser, err := s.panel.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if panelUser == nil {
		return nil, ErrPanelUserMissing
	}
	return panelUser, nil
}

// ListServers returns the caller's servers plus the configured server-count
// ceiling for display.
func (s *ServerService) ListServers(ctx context.Context, email string) ([]models.PanelServer, int, error) {
	serverLimit := 0
	if defaults, err := s.config.LoadDefaults(); err != nil {
		log.Printf("[servers] Could not read server limit from config: %v", err)
	} else {
		serverLimit = defaults.FeatureLimits.ServerLimit
	}

	panelUser, err := s.resolvePanelUser(ctx, email)
	if err != nil {
		return nil, serverLimit, err
	}

	servers, err := s.panel.ListUserServers(ctx, panelUser.ID)
	if err != nil {
		return nil, serverLimit, err
	}

	return servers, serverLimit, nil
}

// CreatePageData is everything the create-server form needs.
type CreatePageData struct {
	Defaults *models.DefaultResources
	Nodes    []models.Node
	Eggs     []models.Egg
}

// PrepareCreate loads the form configuration and enforces the server-count
// ceiling before the form is shown.
func (s *ServerService) PrepareCreate(ctx context.Context, email string) (*CreatePageData, error) {
	defaults, err := s.config.LoadDefaults()
	if err != nil {
		return nil, err
	}
	nodes, err := s.config.LoadNodes()
	if err != nil {
		return nil, err
	}
	eggs, err := s.config.LoadEggs()
	if err != nil {
		return nil, err
	}

	panelUser, err := s.resolvePanelUser(ctx, email)
	if err != nil {
		return nil, err
	}
	servers, err := s.panel.ListUserServers(ctx, panelUser.ID)
	if err != nil {
		return nil, err
	}
	if err := CheckServerCount(defaults, len(servers)); err != nil {
		return nil, err
	}

	return &CreatePageData{Defaults: defaults, Nodes: nodes, Eggs: eggs}, nil
}

// CreateServer runs the admission pipeline and provisions the server. Check
// order is fixed: server count, then CPU, memory, disk, short-circuiting on
// the first violation.
func (s *ServerService) CreateServer(ctx context.Context, email string, input models.CreateServerInput) (*models.PanelServer, error) {
	if input.Name == "" || input.NodeID == 0 || input.EggID == 0 {
		return nil, ValidationError("Server name, node, and egg are required.")
	}

	defaults, err := s.config.LoadDefaults()
	if err != nil {
		return nil, err
	}

	panelUser, err := s.resolvePanelUser(ctx, email)
	if err != nil {
		return nil, err
	}

	servers, err := s.panel.ListUserServers(ctx, panelUser.ID)
	if err != nil {
		return nil, err
	}
	if err := CheckServerCount(defaults, len(servers)); err != nil {
		return nil, err
	}

	limits, features := applyDefaults(input, defaults)
	if err := CheckAdmission(defaults, SumUsage(servers), limits); err != nil {
		return nil, err
	}

	egg, err := s.config.FindEgg(input.EggID)
	if err != nil {
		return nil, err
	}

	allocations, err := s.panel.ListAllocations(ctx, input.NodeID)
	if err != nil {
		return nil, err
	}
	allocationID := 0
	for _, allocation := range allocations {
		if !allocation.Assigned {
			allocationID = allocation.ID
			break
		}
	}
	if allocationID == 0 {
		return nil, ValidationError(fmt.Sprintf("No available allocations found on node ID: %d.", input.NodeID))
	}

	server, err := s.panel.CreateServer(ctx, models.CreatePanelServerOptions{
		Name:           input.Name,
		Description:    input.Description,
		OwnerID:        panelUser.ID,
		EggID:          input.EggID,
		DockerImage:    egg.DockerImage,
		StartupCommand: egg.StartupCommand,
		Limits:         limits,
		FeatureLimits:  features,
		AllocationID:   allocationID,
		Environment:    egg.Environment,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[servers] User %s created server %s (uuid: %s)", email, server.Name, server.UUID)
	return server, nil
}

// findOwnedServer matches a UUID inside the caller's own server list.
func (s *ServerService) findOwnedServer(ctx context.Context, email, uuid string) (*models.PanelServer, error) {
	panelUser, err := s.resolvePanelUser(ctx, email)
	if err != nil {
		return nil, err
	}

	servers, err := s.panel.ListUserServers(ctx, panelUser.ID)
	if err != nil {
		return nil, err
	}

	for i := range servers {
		if servers[i].UUID == uuid {
			return &servers[i], nil
		}
	}
	return nil, ErrServerNotOwned
}

// DeleteServer removes one of the caller's servers.
func (s *ServerService) DeleteServer(ctx context.Context, email, uuid string) error {
	server, err := s.findOwnedServer(ctx, email, uuid)
	if err != nil {
		return err
	}

	if err := s.panel.DeleteServer(ctx, server.ID); err != nil {
		return err
	}

	log.Printf("[servers] User %s deleted server %s", email, uuid)
	return nil
}

// ServerStatus reports the live state of one of the caller's servers.
func (s *ServerService) ServerStatus(ctx context.Context, email, uuid string) (string, error) {
	server, err := s.findOwnedServer(ctx, email, uuid)
	if err != nil {
		return "", err
	}

	return s.panel.GetServerStatus(ctx, server.UUID)
}

// BuildDashboardStats computes the dashboard usage figures. It never fails
// the page: any upstream error degrades every figure to "N/A".
func (s *ServerService) BuildDashboardStats(ctx context.Context, email string) *models.DashboardStats {
	defaults, err := s.config.LoadDefaults()
	if err != nil {
		log.Printf("[dashboard] Error reading resource config: %v", err)
		return degradedStats()
	}

	usage := models.ResourceUsage{}
	panelUser, err := s.panel.FindUserByEmail(ctx, email)
	if err != nil {
		log.Printf("[dashboard] Error resolving panel user %s: %v", email, err)
		return degradedStats()
	}
	if panelUser == nil {
		log.Printf("[dashboard] Panel user %s not found, reporting zero usage", email)
	} else {
		servers, err := s.panel.ListUserServers(ctx, panelUser.ID)
		if err != nil {
			log.Printf("[dashboard] Error listing servers for %s: %v", email, err)
			return degradedStats()
		}
		usage = SumUsage(servers)
	}

	limits := defaults.Limits
	features := defaults.FeatureLimits
	return &models.DashboardStats{
		CPUDisplay:         fmt.Sprintf("%d%% / %d%%", usage.CPU, limits.CPU),
		RAMDisplay:         fmt.Sprintf("%.1f GB / %.1f GB", float64(usage.Memory)/1024, float64(limits.Memory)/1024),
		DiskDisplay:        fmt.Sprintf("%.1f GB / %.1f GB", float64(usage.Disk)/1024, float64(limits.Disk)/1024),
		ServerLimitDisplay: fmt.Sprintf("%d / %d", usage.ServerCount, features.ServerLimit),
		BackupsDisplay:     fmt.Sprintf("%d / %d", usage.Backups, features.Backups),
		DatabasesDisplay:   fmt.Sprintf("%d / %d", usage.Databases, features.Databases),
		Limits:             *defaults,
		Usage:              usage,
	}
}

func degradedStats() *models.DashboardStats {
	const na = "N/A / N/A"
	return &models.DashboardStats{
		CPUDisplay:         na,
		RAMDisplay:         na,
		DiskDisplay:        na,
		ServerLimitDisplay: na,
		BackupsDisplay:     na,
		DatabasesDisplay:   na,
		Degraded:           true,
	}
}
