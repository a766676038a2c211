package cache

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityKey(t *testing.T) {
	assert.Equal(t, "disponibilidade:42:2024-06-03", availabilityKey(42, "2024-06-03"))
}

func TestVersionKeys(t *testing.T) {
	venueKey, dateKey := versionKeys(42, "2024-06-03")
	assert.Equal(t, "disponibilidade-versao:42", venueKey)
	assert.Equal(t, "disponibilidade-versao:42:2024-06-03", dateKey)

	// InvalidateVenue сканирует только ответы, счетчики остаются
	pattern := "disponibilidade:42:*"
	for _, key := range []string{venueKey, dateKey} {
		matched, err := path.Match(pattern, key)
		assert.NoError(t, err)
		assert.False(t, matched, key)
	}
	matched, err := path.Match(pattern, availabilityKey(42, "2024-06-03"))
	assert.NoError(t, err)
	assert.True(t, matched)
}
