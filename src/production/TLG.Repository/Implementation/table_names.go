package implementation

import (
	"fmt"

	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
)

// TableNames resolves logical table names to the physical per-stage name
type TableNames struct {
	App   string
	Stage string
}

// Resolve returns {app}-{stage}-{logical}, e.g. templog-prod-temperature
func (t TableNames) Resolve(logical string) (string, error) {
	if t.App == "" || t.Stage == "" {
		return "", apierrors.Internal(fmt.Errorf("table naming configuration missing (app=%q, stage=%q)", t.App, t.Stage))
	}
	if logical == "" {
		return "", apierrors.Internal(fmt.Errorf("logical table name is empty"))
	}
	return fmt.Sprintf("%s-%s-%s", t.App, t.Stage, logical), nil
}
