package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/azrova/azrovadash/internal/models"
)

// Server status strings reported by GetServerStatus. StatusInstalling covers
// both an uninstalled container and a resource endpoint that has not come up
// yet; anything the client API reports (running, offline, starting, ...) is
// passed through as-is.
const (
	StatusInstalling = "installing"
	StatusOffline    = "offline"
	StatusError      = "error"
)

// ListUserServers fetches the full server collection and filters client-side
// by owner id; the application API has no server-side owner filter on this
// path.
func (c *Client) ListUserServers(ctx context.Context, ownerID int) ([]models.PanelServer, error) {
	body, _, err := c.doApplication(ctx, http.MethodGet, "/servers", nil)
	if err != nil {
		logPanelError(fmt.Sprintf("list servers for owner %d", ownerID), err)
		return nil, err
	}

	var servers []models.PanelServer
	err = decodeList(body, func(attributes json.RawMessage) error {
		var server models.PanelServer
		if jsonErr := decodeAttributes(attributes, &server); jsonErr != nil {
			return jsonErr
		}
		if server.UserID == ownerID {
			servers = append(servers, server)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return servers, nil
}

// ListAllocations lists the (host, port) allocations of a node.
func (c *Client) ListAllocations(ctx context.Context, nodeID int) ([]models.Allocation, error) {
	body, _, err := c.doApplication(ctx, http.MethodGet, fmt.Sprintf("/nodes/%d/allocations", nodeID), nil)
	if err != nil {
		logPanelError(fmt.Sprintf("list allocations for node %d", nodeID), err)
		return nil, err
	}

	var allocations []models.Allocation
	err = decodeList(body, func(attributes json.RawMessage) error {
		var allocation models.Allocation
		if jsonErr := decodeAttributes(attributes, &allocation); jsonErr != nil {
			return jsonErr
		}
		allocations = append(allocations, allocation)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// CreateServer provisions a server. The caller must have resolved an
// unassigned allocation id beforehand.
func (c *Client) CreateServer(ctx context.Context, opts models.CreatePanelServerOptions) (*models.PanelServer, error) {
	environment := opts.Environment
	if environment == nil {
		environment = map[string]any{}
	}

	payload := map[string]any{
		"name":           opts.Name,
		"user":           opts.OwnerID,
		"egg":            opts.EggID,
		"docker_image":   opts.DockerImage,
		"startup":        opts.StartupCommand,
		"limits":         opts.Limits,
		"feature_limits": opts.FeatureLimits,
		"description":    opts.Description,
		"environment":    environment,
		"allocation": map[string]any{
			"default": opts.AllocationID,
		},
	}

	body, status, err := c.doApplication(ctx, http.MethodPost, "/servers", payload)
	if err != nil {
		logPanelError("create server "+opts.Name, err)
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("unexpected status %d when creating server", status)
	}

	server := &models.PanelServer{}
	if err := decodeObject(body, "server", server); err != nil {
		return nil, err
	}

	log.Printf("[panel] Created server %s (id: %d)", server.Name, server.ID)
	return server, nil
}

// DeleteServer hard-deletes a server by its panel-assigned id.
func (c *Client) DeleteServer(ctx context.Context, serverID int) error {
	_, _, err := c.doApplication(ctx, http.MethodDelete, fmt.Sprintf("/servers/%d", serverID), nil)
	if err != nil {
		logPanelError(fmt.Sprintf("delete server %d", serverID), err)
		return err
	}

	log.Printf("[panel] Deleted server id %d", serverID)
	return nil
}

// GetServerStatus resolves a server by UUID on the application API, then
// reports installing until the container install flag is set, after which the
// client-scoped resource endpoint provides the live state. A 404 from the
// resource endpoint still means installing.
func (c *Client) GetServerStatus(ctx context.Context, uuid string) (string, error) {
	body, _, err := c.doApplication(ctx, http.MethodGet, "/servers?"+encodeFilter("filter[uuid]", uuid), nil)
	if err != nil {
		logPanelError("resolve server "+uuid, err)
		return "", err
	}

	var servers []models.PanelServer
	err = decodeList(body, func(attributes json.RawMessage) error {
		var server models.PanelServer
		if jsonErr := decodeAttributes(attributes, &server); jsonErr != nil {
			return jsonErr
		}
		servers = append(servers, server)
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(servers) == 0 {
		return StatusError, nil
	}

	server := servers[0]
	if !server.Container.Installed {
		return StatusInstalling, nil
	}

	resourceBody, _, err := c.doClient(ctx, http.MethodGet, "/servers/"+server.Identifier+"/resources", nil)
	if err != nil {
		if IsNotFound(err) {
			return StatusInstalling, nil
		}
		logPanelError("poll resources for "+server.Identifier, err)
		return "", err
	}

	var resources struct {
		CurrentState string `json:"current_state"`
	}
	if err := decodeObject(resourceBody, "stats", &resources); err != nil {
		return "", err
	}
	if resources.CurrentState == "" {
		return StatusOffline, nil
	}
	return resources.CurrentState, nil
}
