package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.False(t, StatusScheduled.Terminal())
	assert.False(t, StatusSending.Terminal())
	assert.True(t, StatusSent.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestUnitID(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)

	assert.Equal(t, "email_1704069000000000000_c1_2", UnitID(at, "c1", 2))
	assert.NotEqual(t, UnitID(at, "c1", 0), UnitID(at, "c1", 1), "index separates equal send times")
	assert.NotEqual(t, UnitID(at, "c1", 0), UnitID(at, "c2", 0), "campaign separates equal send times")
}
