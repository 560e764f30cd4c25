package models

import "encoding/json"

// Types mapping the Pterodactyl application API JSON envelope. Only the
// attributes this dashboard reads are mapped.

// PanelUser is a user record on the panel.
type PanelUser struct {
	ID        int    `json:"id"`
	UUID      string `json:"uuid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	RootAdmin bool   `json:"root_admin"`
	CreatedAt string `json:"created_at"`
}

// ServerLimits are the primary resource limits of a panel server.
// CPU is in percent, memory and disk in MB.
type ServerLimits struct {
	Memory int `json:"memory"`
	Swap   int `json:"swap"`
	Disk   int `json:"disk"`
	IO     int `json:"io"`
	CPU    int `json:"cpu"`
}

// ServerFeatureLimits are the panel-side secondary quotas.
type ServerFeatureLimits struct {
	Databases   int `json:"databases"`
	Allocations int `json:"allocations"`
	Backups     int `json:"backups"`
}

// PanelServerContainer carries the install state of a server's container.
type PanelServerContainer struct {
	Installed bool `json:"installed"`
}

// UnmarshalJSON accepts both boolean and 0/1 numeric encodings of the
// installed flag; panel versions differ in how they serialize it.
func (c *PanelServerContainer) UnmarshalJSON(data []byte) error {
	var raw struct {
		Installed any `json:"installed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.Installed.(type) {
	case bool:
		c.Installed = v
	case float64:
		c.Installed = v != 0
	}
	return nil
}

// PanelServer is a server record on the panel, owned by exactly one panel user.
type PanelServer struct {
	ID            int                  `json:"id"`
	UUID          string               `json:"uuid"`
	Identifier    string               `json:"identifier"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	UserID        int                  `json:"user"`
	Node          int                  `json:"node"`
	Limits        ServerLimits         `json:"limits"`
	FeatureLimits ServerFeatureLimits  `json:"feature_limits"`
	Container     PanelServerContainer `json:"container"`
}

// Allocation is a (host, port) pair on a compute node.
type Allocation struct {
	ID       int    `json:"id"`
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	Assigned bool   `json:"assigned"`
}

// CreatePanelUserOptions are the fields sent when creating a panel user.
type CreatePanelUserOptions struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	IsAdmin   bool
}

// UpdatePanelUserOptions is a partial update; nil fields are omitted.
type UpdatePanelUserOptions struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	IsAdmin   *bool
}

// CreatePanelServerOptions are the fields sent when provisioning a server.
// AllocationID must be a pre-resolved, unassigned allocation.
type CreatePanelServerOptions struct {
	Name           string
	Description    string
	OwnerID        int
	EggID          int
	DockerImage    string
	StartupCommand string
	Limits         ServerLimits
	FeatureLimits  ServerFeatureLimits
	AllocationID   int
	Environment    map[string]any
}
