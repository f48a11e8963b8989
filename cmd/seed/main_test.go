package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"itsheet.com/itsheet/core/coretest"
	"itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/core/users"
)

func TestSeedIsRepeatable(t *testing.T) {
	dm := coretest.NewDatabase(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, dm, "admin", "s3cret", DefaultTeam))
	require.NoError(t, Seed(ctx, dm, "admin", "other", DefaultTeam))

	directory := users.NewDirectory(dm)
	list, err := directory.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsAdmin())

	_, err = directory.Authenticate(ctx, "admin", "s3cret")
	assert.NoError(t, err)

	types, err := timesheet.ActivityTypes(ctx, dm, DefaultTeam)
	require.NoError(t, err)
	names := make([]string, len(types))
	for i, at := range types {
		names[i] = at.ActivityName
	}
	assert.Equal(t, []string{"BRNET", "GLOW", "TracOD", "TruCell"}, names)
}
