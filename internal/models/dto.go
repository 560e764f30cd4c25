package models

// ResourceUsage is a user's aggregate consumption, computed on demand by
// summing the limits of all their panel servers.
type ResourceUsage struct {
	CPU         int
	Memory      int
	Disk        int
	Backups     int
	Databases   int
	ServerCount int
}

// DashboardStats carries the pre-formatted usage figures rendered on the
// dashboard. On any upstream failure every figure reads "N/A / N/A" instead
// of failing the page.
type DashboardStats struct {
	CPUDisplay         string
	RAMDisplay         string
	DiskDisplay        string
	ServerLimitDisplay string
	BackupsDisplay     string
	DatabasesDisplay   string
	Limits             DefaultResources
	Usage              ResourceUsage
	Degraded           bool
}

// CreateServerInput are the validated form fields of the create-server page.
// Zero resource values fall back to the configured per-dimension defaults.
type CreateServerInput struct {
	Name        string
	Description string
	NodeID      int
	EggID       int
	Memory      int
	Disk        int
	CPU         int
	IO          int
	Backups     int
	Databases   int
}
