package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierAcquireRelease(t *testing.T) {
	owner := &struct{}{}

	first := IdentifierAcquireNewID(owner)
	second := IdentifierAcquireNewID(owner)
	assert.NotEqual(t, first, second)

	// A released slot is handed out again.
	require.NoError(t, IdentifierReleaseID(first))
	third := IdentifierAcquireNewID(owner)
	assert.Equal(t, first, third)

	require.NoError(t, IdentifierReleaseID(second))
	require.NoError(t, IdentifierReleaseID(third))
}

func TestNewResourceIDUnique(t *testing.T) {
	a := NewResourceID()
	b := NewResourceID()
	assert.NotEqual(t, a, b)
}

func TestMetricsInstanceCounters(t *testing.T) {
	require.NoError(t, MetricsInitialize())

	MetricsMaterialInstances(90, 10)
	MetricsMeshInstances(5, 3)

	dupMat, uniqMat, dupMesh, uniqMesh := MetricsInstanceCounts()
	assert.Equal(t, uint32(90), dupMat)
	assert.Equal(t, uint32(10), uniqMat)
	assert.Equal(t, uint32(5), dupMesh)
	assert.Equal(t, uint32(3), uniqMesh)
}
