package models

// File-backed configuration documents, read fresh from the config directory
// on every relevant request.

// ResourceLimits is the global per-dimension quota ceiling applied uniformly
// to every user. CPU is in percent, memory and disk in MB.
type ResourceLimits struct {
	CPU    int `json:"cpu"`
	Memory int `json:"memory"`
	Disk   int `json:"disk"`
	IO     int `json:"io"`
}

// ResourceFeatureLimits are the default secondary quotas plus the per-user
// server-count ceiling.
type ResourceFeatureLimits struct {
	Databases   int `json:"databases"`
	Allocations int `json:"allocations"`
	Backups     int `json:"backups"`
	ServerLimit int `json:"server_limit"`
}

// DefaultResources is the default_server_resources.json document.
type DefaultResources struct {
	Limits        ResourceLimits        `json:"limits"`
	FeatureLimits ResourceFeatureLimits `json:"feature_limits"`
}

// Node describes a compute host available for new servers (nodes.json).
type Node struct {
	ID       int    `json:"node_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Egg describes a deployable application template (config/eggs/*.json).
type Egg struct {
	ID             int            `json:"egg_id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	DockerImage    string         `json:"docker_image"`
	StartupCommand string         `json:"startup_command"`
	Environment    map[string]any `json:"environment"`
}

// Link is an external link shown on the links page (links.json).
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Icon string `json:"icon"`
}
