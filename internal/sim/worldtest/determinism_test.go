package worldtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exolore.ai/internal/sim/tuning"
)

func TestDeterminism_SameSeedSameDigests(t *testing.T) {
	edit := func(tu *tuning.Tuning) {
		tu.Robots.Count = 6
		tu.Obstacles.Count = 4
	}
	h1 := NewHarnessFromTuning(t, repoTuning, edit)
	h2 := NewHarnessFromTuning(t, repoTuning, edit)

	for i := 0; i < 200; i++ {
		dt := float64(i%9) / 120
		h1.Step(dt)
		h2.Step(dt)
	}
	require.Len(t, h1.Entries, 200)
	for i := range h1.Entries {
		require.Equal(t, h1.Entries[i].Digest, h2.Entries[i].Digest, "tick %d", i)
		require.Equal(t, h1.Entries[i].Assigned, h2.Entries[i].Assigned, "tick %d", i)
	}
	assert.Equal(t, h1.W.View(), h2.W.View())
}

func TestDeterminism_DifferentSeedsDiverge(t *testing.T) {
	h1 := NewHarnessFromTuning(t, repoTuning, func(tu *tuning.Tuning) { tu.Seed = 1 })
	h2 := NewHarnessFromTuning(t, repoTuning, func(tu *tuning.Tuning) { tu.Seed = 2 })
	assert.NotEqual(t, h1.Step(0).Digest, h2.Step(0).Digest)
}
