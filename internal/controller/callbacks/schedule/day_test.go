package schedule

import (
	"testing"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickShortest(t *testing.T) {
	services := []*model.Service{
		{ID: 1, DurationMinutes: 60, IsActive: true},
		{ID: 2, DurationMinutes: 15, IsActive: false},
		{ID: 3, DurationMinutes: 30, IsActive: true},
	}

	svc, err := pickShortest(services)
	require.NoError(t, err)
	assert.Equal(t, int64(3), svc.ID)

	_, err = pickShortest([]*model.Service{{ID: 2, IsActive: false}})
	assert.ErrorIs(t, err, errNoServices)
}
