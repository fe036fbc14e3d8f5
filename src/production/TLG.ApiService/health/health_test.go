package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	implementation "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Implementation"
)

func TestHealthOK(t *testing.T) {
	store := implementation.NewMemoryStore(implementation.TableNames{App: "templog", Stage: "dev"}, implementation.DefaultSchemas())

	status := NewHealthChecker(store).GetHealthStatus(context.Background())
	assert.Equal(t, "ok", status["status"])
	assert.Len(t, status["checks"], 3)
}

func TestHealthDegradedWithoutNaming(t *testing.T) {
	store := implementation.NewMemoryStore(implementation.TableNames{}, implementation.DefaultSchemas())

	status := NewHealthChecker(store).GetHealthStatus(context.Background())
	assert.Equal(t, "degraded", status["status"])
	checks := status["checks"].(map[string]interface{})
	assert.Equal(t, "error", checks["devices"].(map[string]interface{})["status"])
}
