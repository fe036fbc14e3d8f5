package health

import (
	"context"
	"time"

	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// HealthChecker reports whether every application table is reachable
type HealthChecker struct {
	store  interfaces.ItemStore
	tables []string
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(store interfaces.ItemStore) *HealthChecker {
	return &HealthChecker{
		store:  store,
		tables: []string{tlgmodels.TableDevices, tlgmodels.TableTemperature, tlgmodels.TableHumidity},
	}
}

// GetHealthStatus returns the current health status
func (h *HealthChecker) GetHealthStatus(ctx context.Context) map[string]interface{} {
	checks := make(map[string]interface{}, len(h.tables))
	overallStatus := "ok"

	for _, table := range h.tables {
		if err := h.store.Ping(ctx, table); err != nil {
			overallStatus = "degraded"
			checks[table] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
			continue
		}
		checks[table] = map[string]interface{}{"status": "ok"}
	}

	return map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    overallStatus,
		"checks":    checks,
	}
}
