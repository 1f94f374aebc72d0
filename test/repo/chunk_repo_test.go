package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seclens/auditgate/internal/model"
	"github.com/seclens/auditgate/internal/repo"
	"github.com/seclens/auditgate/test/testutil"
)

// axisVector returns a 768-dim unit vector pointing along one axis, so cosine
// similarity between distinct axes is exactly zero and ranking is predictable.
func axisVector(axis int) []float32 {
	vec := make([]float32, 768)
	vec[axis] = 1
	return vec
}

func seedChunks(t *testing.T, chunks *repo.ChunkRepo) {
	t.Helper()
	now := time.Now().UnixMilli()
	docs := []model.DocumentChunk{
		{ID: "pub.txt_1", Source: "pub.txt", Sensitivity: model.SensitivityLow, Content: "public finding", Ctime: now},
		{ID: "int.txt_1", Source: "int.txt", Sensitivity: model.SensitivityMedium, Content: "internal finding", Ctime: now},
		{ID: "sec.txt_1", Source: "sec.txt", Sensitivity: model.SensitivityHigh, Content: "restricted finding", Ctime: now},
	}
	embeddings := [][]float32{axisVector(0), axisVector(1), axisVector(2)}
	require.NoError(t, chunks.InsertBatch(context.Background(), docs, embeddings))
}

func TestChunkRepoSearchFiltersBySensitivity(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewChunkRepo(db)
	require.NoError(t, chunks.Reset(context.Background()))
	seedChunks(t, chunks)

	// Query nearest to the high chunk, but only low and medium are allowed.
	allowed := []model.Sensitivity{model.SensitivityLow, model.SensitivityMedium}
	results, err := chunks.Search(context.Background(), axisVector(2), 3, allowed)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, item := range results {
		require.NotEqual(t, model.SensitivityHigh, item.Sensitivity)
	}
}

func TestChunkRepoSearchUnfilteredSeesEverything(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewChunkRepo(db)
	require.NoError(t, chunks.Reset(context.Background()))
	seedChunks(t, chunks)

	results, err := chunks.Search(context.Background(), axisVector(2), 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "sec.txt_1", results[0].ID)
	require.InDelta(t, 1.0, float64(results[0].Score), 1e-4)
}

func TestChunkRepoSearchRanksByCosineSimilarity(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewChunkRepo(db)
	require.NoError(t, chunks.Reset(context.Background()))
	seedChunks(t, chunks)

	results, err := chunks.Search(context.Background(), axisVector(0), 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "pub.txt_1", results[0].ID)
	for i := 1; i < len(results); i++ {
		require.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestChunkRepoResetIsIdempotent(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewChunkRepo(db)
	require.NoError(t, chunks.Reset(context.Background()))
	seedChunks(t, chunks)

	count, err := chunks.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	require.NoError(t, chunks.Reset(context.Background()))
	require.NoError(t, chunks.Reset(context.Background()))

	count, err = chunks.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestChunkRepoInsertBatchRejectsLengthMismatch(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	chunks := repo.NewChunkRepo(db)
	err := chunks.InsertBatch(context.Background(), []model.DocumentChunk{{ID: "x"}}, nil)
	require.Error(t, err)
}
