package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	db, err := Open("sqlite://:memory:")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpenRejectsEmptyConnection(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
