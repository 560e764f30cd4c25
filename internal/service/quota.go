package service

import (
	"fmt"

	"github.com/azrova/azrovadash/internal/models"
)

// LimitError is an admission rejection naming the violated quota dimension.
// Its message is rendered to the user verbatim.
type LimitError struct {
	Dimension string
	Message   string
}

func (e *LimitError) Error() string { return e.Message }

// SumUsage computes a user's aggregate consumption by summing the limits of
// their existing panel servers.
func SumUsage(servers []models.PanelServer) models.ResourceUsage {
	usage := models.ResourceUsage{ServerCount: len(servers)}
	for _, server := range servers {
		usage.CPU += server.Limits.CPU
		usage.Memory += server.Limits.Memory
		usage.Disk += server.Limits.Disk
		usage.Backups += server.FeatureLimits.Backups
		usage.Databases += server.FeatureLimits.Databases
	}
	return usage
}

// CheckServerCount enforces the per-user server-count ceiling. It runs before
// the create form is even shown.
func CheckServerCount(defaults *models.DefaultResources, currentCount int) error {
	if currentCount >= defaults.FeatureLimits.ServerLimit {
		return &LimitError{Dimension: "servers", Message: "Server limit reached."}
	}
	return nil
}

// CheckAdmission rejects a creation request that would push aggregate usage
// above the global ceiling on any dimension. Checks run in the fixed order
// CPU, memory, disk and short-circuit on the first violation so the error
// message is deterministic. The caller checks the server count separately.
func CheckAdmission(defaults *models.DefaultResources, usage models.ResourceUsage, requested models.ServerLimits) error {
	limits := defaults.Limits

	if usage.CPU+requested.CPU > limits.CPU {
		return &LimitError{
			Dimension: "cpu",
			Message: fmt.Sprintf("CPU limit exceeded. Available: %d%%. Requested: %d%%.",
				limits.CPU-usage.CPU, requested.CPU),
		}
	}
	if usage.Memory+requested.Memory > limits.Memory {
		return &LimitError{
			Dimension: "memory",
			Message: fmt.Sprintf("Memory limit exceeded. Available: %.1f GB. Requested: %.1f GB.",
				float64(limits.Memory-usage.Memory)/1024, float64(requested.Memory)/1024),
		}
	}
	if usage.Disk+requested.Disk > limits.Disk {
		return &LimitError{
			Dimension: "disk",
			Message: fmt.Sprintf("Disk limit exceeded. Available: %.1f GB. Requested: %.1f GB.",
				float64(limits.Disk-usage.Disk)/1024, float64(requested.Disk)/1024),
		}
	}
	return nil
}

// applyDefaults fills omitted resource values with the configured
// per-dimension defaults.
func applyDefaults(input models.CreateServerInput, defaults *models.DefaultResources) (models.ServerLimits, models.ServerFeatureLimits) {
	limits := models.ServerLimits{
		Memory: input.Memory,
		Swap:   0,
		Disk:   input.Disk,
		IO:     input.IO,
		CPU:    input.CPU,
	}
	if limits.Memory == 0 {
		limits.Memory = defaults.Limits.Memory
	}
	if limits.Disk == 0 {
		limits.Disk = defaults.Limits.Disk
	}
	if limits.IO == 0 {
		limits.IO = defaults.Limits.IO
	}
	if limits.CPU == 0 {
		limits.CPU = defaults.Limits.CPU
	}

	features := models.ServerFeatureLimits{
		Databases:   input.Databases,
		Allocations: defaults.FeatureLimits.Allocations,
		Backups:     input.Backups,
	}
	if features.Databases == 0 {
		features.Databases = defaults.FeatureLimits.Databases
	}
	if features.Backups == 0 {
		features.Backups = defaults.FeatureLimits.Backups
	}

	return limits, features
}
