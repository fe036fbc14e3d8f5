package implementation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNamesResolve(t *testing.T) {
	name, err := TableNames{App: "templog", Stage: "prod"}.Resolve("temperature")
	require.NoError(t, err)
	assert.Equal(t, "templog-prod-temperature", name)

	_, err = TableNames{Stage: "prod"}.Resolve("temperature")
	assert.Error(t, err)

	_, err = TableNames{App: "templog", Stage: "prod"}.Resolve("")
	assert.Error(t, err)
}
