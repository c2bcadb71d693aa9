package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolunteerID(t *testing.T) {
	seen := make(map[string]struct{})

	for range 50 {
		id, err := VolunteerID()
		require.NoError(t, err)
		assert.True(t, IsVolunteerID(id))
		assert.Len(t, id, len(VolunteerIDPrefix)+VolunteerIDRawLength)
		seen[id] = struct{}{}
	}

	assert.Greater(t, len(seen), 45)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("incidents", ".JPG")
	assert.True(t, strings.HasPrefix(key, "incidents/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, ConnectionID(), ConnectionID())

	first := ObjectKey("incidents", ".png")
	second := ObjectKey("incidents", ".png")
	assert.Less(t, first, second, "keys sort by creation")
}
