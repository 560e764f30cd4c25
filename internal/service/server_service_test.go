package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azrova/azrovadash/internal/models"
)

type fakeConfigStore struct {
	defaults    *models.DefaultResources
	defaultsErr error
	nodes       []models.Node
	nodesErr    error
	eggs        []models.Egg
	eggsErr     error
}

func (f *fakeConfigStore) LoadDefaults() (*models.DefaultResources, error) {
	return f.defaults, f.defaultsErr
}

func (f *fakeConfigStore) LoadNodes() ([]models.Node, error) {
	return f.nodes, f.nodesErr
}

func (f *fakeConfigStore) LoadEggs() ([]models.Egg, error) {
	return f.eggs, f.eggsErr
}

func (f *fakeConfigStore) FindEgg(eggID int) (*models.Egg, error) {
	for i := range f.eggs {
		if f.eggs[i].ID == eggID {
			return &f.eggs[i], nil
		}
	}
	return nil, errors.New("egg configuration not found")
}

func testConfigStore() *fakeConfigStore {
	return &fakeConfigStore{
		defaults: testDefaults(),
		nodes:    []models.Node{{ID: 1, Name: "Node 1", Location: "EU"}},
		eggs: []models.Egg{{
			ID:             1,
			Name:           "Paper",
			DockerImage:    "ghcr.io/pterodactyl/yolks:java_21",
			StartupCommand: "java -jar server.jar",
		}},
	}
}

func validCreateInput() models.CreateServerInput {
	return models.CreateServerInput{
		Name:   "my-server",
		NodeID: 1,
		EggID:  1,
		CPU:    50,
		Memory: 1024,
		Disk:   2048,
	}
}

func TestCreateServerSuccess(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{
		foundUser:   &models.PanelUser{ID: 42},
		allocations: []models.Allocation{{ID: 5, Assigned: true}, {ID: 6, Assigned: false}},
	}
	svc := NewServerService(panel, testConfigStore())

	server, err := svc.CreateServer(context.Background(), "alice@example.com", validCreateInput())
	require.NoError(t, err)
	require.NotNil(t, server)

	require.Len(t, panel.createdServers, 1)
	created := panel.createdServers[0]
	assert.Equal(t, 42, created.OwnerID)
	assert.Equal(t, 6, created.AllocationID, "must pick the first unassigned allocation")
	assert.Equal(t, 50, created.Limits.CPU)
	assert.Equal(t, 0, created.Limits.Swap)
	assert.Equal(t, "ghcr.io/pterodactyl/yolks:java_21", created.DockerImage)
}

func TestCreateServerRequiredFields(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{foundUser: &models.PanelUser{ID: 42}}
	svc := NewServerService(panel, testConfigStore())

	input := validCreateInput()
	input.Name = ""
	_, err := svc.CreateServer(context.Background(), "alice@example.com", input)
	assert.EqualError(t, err, "Server name, node, and egg are required.")
	assert.Empty(t, panel.createdServers)
}

func TestCreateServerEnforcesServerCount(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{
		foundUser: &models.PanelUser{ID: 42},
		servers: []models.PanelServer{
			{Limits: models.ServerLimits{CPU: 10}},
			{Limits: models.ServerLimits{CPU: 10}},
		},
		allocations: []models.Allocation{{ID: 6}},
	}
	svc := NewServerService(panel, testConfigStore())

	_, err := svc.CreateServer(context.Background(), "alice@example.com", validCreateInput())
	var limit *LimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, "servers", limit.Dimension)
	assert.Empty(t, panel.createdServers)
}

func TestCreateServerEnforcesAdmission(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{
		foundUser: &models.PanelUser{ID: 42},
		servers: []models.PanelServer{
			{Limits: models.ServerLimits{CPU: 80, Memory: 2048, Disk: 4096}},
		},
		allocations: []models.Allocation{{ID: 6}},
	}
	svc := NewServerService(panel, testConfigStore())

	input := validCreateInput()
	input.CPU = 30
	_, err := svc.CreateServer(context.Background(), "alice@example.com", input)
	var limit *LimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, "cpu", limit.Dimension)
	assert.Equal(t, "CPU limit exceeded. Available: 20%. Requested: 30%.", limit.Message)
	assert.Empty(t, panel.createdServers)
}

func TestCreateServerNoFreeAllocation(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{
		foundUser:   &models.PanelUser{ID: 42},
		allocations: []models.Allocation{{ID: 5, Assigned: true}},
	}
	svc := NewServerService(panel, testConfigStore())

	_, err := svc.CreateServer(context.Background(), "alice@example.com", validCreateInput())
	assert.EqualError(t, err, "No available allocations found on node ID: 1.")
	assert.Empty(t, panel.createdServers)
}

func TestCreateServerMissingPanelUser(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{foundUser: nil}
	svc := NewServerService(panel, testConfigStore())

	_, err := svc.CreateServer(context.Background(), "alice@example.com", validCreateInput())
	assert.ErrorIs(t, err, ErrPanelUserMissing)
}

func TestDeleteServerOwnershipCheck(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{
		foundUser: &models.PanelUser{ID: 42},
		servers: []models.PanelServer{
			{ID: 7, UUID: "11111111-1111-1111-1111-111111111111"},
		},
	}
	svc := NewServerService(panel, testConfigStore())

	// A UUID outside the caller's own list is indistinguishable from a
	// nonexistent server.
	err := svc.DeleteServer(context.Background(), "alice@example.com", "22222222-2222-2222-2222-222222222222")
	assert.ErrorIs(t, err, ErrServerNotOwned)
	assert.Empty(t, panel.deletedServers)

	err = svc.DeleteServer(context.Background(), "alice@example.com", "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, []int{7}, panel.deletedServers)
}

func TestServerStatus(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{
		foundUser: &models.PanelUser{ID: 42},
		servers: []models.PanelServer{
			{ID: 7, UUID: "11111111-1111-1111-1111-111111111111"},
		},
		status: "running",
	}
	svc := NewServerService(panel, testConfigStore())

	status, err := svc.ServerStatus(context.Background(), "alice@example.com", "11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.Equal(t, "running", status)

	_, err = svc.ServerStatus(context.Background(), "alice@example.com", "22222222-2222-2222-2222-222222222222")
	assert.ErrorIs(t, err, ErrServerNotOwned)
}

func TestPrepareCreateBlocksAtServerLimit(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{
		foundUser: &models.PanelUser{ID: 42},
		servers: []models.PanelServer{
			{Limits: models.ServerLimits{CPU: 10}},
			{Limits: models.ServerLimits{CPU: 10}},
		},
	}
	svc := NewServerService(panel, testConfigStore())

	_, err := svc.PrepareCreate(context.Background(), "alice@example.com")
	var limit *LimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, "Server limit reached.", limit.Message)
}

func TestBuildDashboardStats(t *testing.T) {
	t.Parallel()

	panel := &fakePanel{
		foundUser: &models.PanelUser{ID: 42},
		servers: []models.PanelServer{
			{
				Limits:        models.ServerLimits{CPU: 50, Memory: 1024, Disk: 2048},
				FeatureLimits: models.ServerFeatureLimits{Backups: 1, Databases: 1},
			},
		},
	}
	svc := NewServerService(panel, testConfigStore())

	stats := svc.BuildDashboardStats(context.Background(), "alice@example.com")
	require.NotNil(t, stats)
	assert.False(t, stats.Degraded)
	assert.Equal(t, "50% / 100%", stats.CPUDisplay)
	assert.Equal(t, "1.0 GB / 4.0 GB", stats.RAMDisplay)
	assert.Equal(t, "2.0 GB / 10.0 GB", stats.DiskDisplay)
	assert.Equal(t, "1 / 2", stats.ServerLimitDisplay)
	assert.Equal(t, "1 / 2", stats.BackupsDisplay)
	assert.Equal(t, "1 / 2", stats.DatabasesDisplay)
}

func TestBuildDashboardStatsDegrades(t *testing.T) {
	t.Parallel()

	// Config unreadable.
	svc := NewServerService(&fakePanel{}, &fakeConfigStore{defaultsErr: errors.New("no such file")})
	stats := svc.BuildDashboardStats(context.Background(), "alice@example.com")
	assert.True(t, stats.Degraded)
	assert.Equal(t, "N/A / N/A", stats.CPUDisplay)
	assert.Equal(t, "N/A / N/A", stats.ServerLimitDisplay)

	// Panel unreachable.
	svc = NewServerService(&fakePanel{findUserErr: errors.New("connection refused")}, testConfigStore())
	stats = svc.BuildDashboardStats(context.Background(), "alice@example.com")
	assert.True(t, stats.Degraded)
	assert.Equal(t, "N/A / N/A", stats.RAMDisplay)
}

func TestBuildDashboardStatsZeroUsageWithoutPanelUser(t *testing.T) {
	t.Parallel()

	// A missing panel account is not an outage; usage reads as zero.
	svc := NewServerService(&fakePanel{foundUser: nil}, testConfigStore())
	stats := svc.BuildDashboardStats(context.Background(), "alice@example.com")
	assert.False(t, stats.Degraded)
	assert.Equal(t, "0% / 100%", stats.CPUDisplay)
	assert.Equal(t, "0 / 2", stats.ServerLimitDisplay)
}
