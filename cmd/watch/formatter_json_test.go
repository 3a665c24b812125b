package watch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/LegacyCodeHQ/visualdep/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFormatter_Format(t *testing.T) {
	ts := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)
	formatter := snapshotFormatter{dim: 3, seed: 42, top: 1}

	output, err := formatter.Format(testhelpers.SampleAnalysis(t), 7, ts)
	require.NoError(t, err)

	var snapshot graphSnapshot
	require.NoError(t, json.Unmarshal([]byte(output), &snapshot))

	assert.Equal(t, int64(7), snapshot.ID)
	assert.True(t, ts.Equal(snapshot.Timestamp))
	assert.Equal(t, "/project", snapshot.Root)
	assert.Equal(t, 3, snapshot.Dimensions)
	require.Len(t, snapshot.Nodes, 4)
	for _, n := range snapshot.Nodes {
		assert.Len(t, n.Position, 3, n.ID)
	}
	assert.Len(t, snapshot.Edges, 3)
	require.Len(t, snapshot.TopShared, 1)
	assert.Equal(t, "pkg.a", snapshot.TopShared[0].Module)
	assert.Len(t, snapshot.Warnings, 1)
}

func TestSnapshotFormatter_SameSeedSamePositions(t *testing.T) {
	formatter := snapshotFormatter{dim: 2, seed: 3, top: 10}
	ts := time.Unix(0, 0).UTC()

	first, err := formatter.Format(testhelpers.SampleAnalysis(t), 1, ts)
	require.NoError(t, err)
	second, err := formatter.Format(testhelpers.SampleAnalysis(t), 1, ts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
