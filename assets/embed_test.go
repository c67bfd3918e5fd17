package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClassNames(t *testing.T) {
	names, err := DefaultClassNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "bag", names[0])
	assert.Equal(t, "null", names[len(names)-1])
}
