package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

func TestClockProvider_UsesConfiguredZone(t *testing.T) {
	clock := NewClockProvider(&structures.Config{Timezone: "Asia/Seoul"})

	assert.Equal(t, "Asia/Seoul", clock.Location().String())
	assert.Equal(t, "Asia/Seoul", clock.Now().Location().String())
}

func TestClockProvider_FallsBackToLocal(t *testing.T) {
	clock := NewClockProvider(&structures.Config{})
	assert.Equal(t, "Local", clock.Location().String())
}
