package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultMessageLimit, ClampLimit(0, DefaultMessageLimit, MaxMessageLimit))
	assert.Equal(t, DefaultMessageLimit, ClampLimit(-5, DefaultMessageLimit, MaxMessageLimit))
	assert.Equal(t, 25, ClampLimit(25, DefaultMessageLimit, MaxMessageLimit))
	assert.Equal(t, MaxMessageLimit, ClampLimit(1000, DefaultMessageLimit, MaxMessageLimit))
	assert.Equal(t, MaxNotificationLimit, ClampLimit(500, DefaultNotificationLimit, MaxNotificationLimit))
}
