package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	c := []float32{0, 1, 0}
	d := []float32{-1, 0, 0}

	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity(a, c), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity(a, d), 1e-9)
}

func TestCosineSimilarityDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestRankBySimilarity(t *testing.T) {
	query := []float32{1, 0}
	candidates := map[string][]float32{
		"exact":      {1, 0},
		"orthogonal": {0, 1},
		"close":      {0.9, 0.1},
		"empty":      {},
	}

	matches := RankBySimilarity(query, candidates, 2)
	require.Len(t, matches, 2)
	assert.Equal(t, "exact", matches[0].ID)
	assert.Equal(t, "close", matches[1].ID)
}

func TestEmbeddingRoundTrip(t *testing.T) {
	emb := []float32{0.25, -0.5, 1.0}

	data, err := EncodeEmbedding(emb)
	require.NoError(t, err)

	got, err := DecodeEmbedding(data)
	require.NoError(t, err)
	assert.Equal(t, emb, got)

	got, err = DecodeEmbedding(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbeddingText(t *testing.T) {
	assert.Equal(t, "Go developer\nBuild APIs", EmbeddingText("Go developer", "", "  ", "Build APIs"))
}
