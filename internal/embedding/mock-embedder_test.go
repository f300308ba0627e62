package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()
	e := NewMockEmbedder(16)

	a1, _ := e.Embed(ctx, "rust ownership")
	a2, _ := e.Embed(ctx, "rust ownership")
	b, _ := e.Embed(ctx, "go channels")
	if len(a1) != 16 {
		t.Fatalf("len = %d, want 16", len(a1))
	}
	var norm, diff float64
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatalf("embedding not deterministic at %d", i)
		}
		norm += float64(a1[i]) * float64(a1[i])
		diff += math.Abs(float64(a1[i] - b[i]))
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("norm^2 = %f, want 1", norm)
	}
	if diff == 0 {
		t.Error("different texts produced identical embeddings")
	}

	batch, err := e.EmbedBatch(ctx, []string{"rust ownership", "go channels"})
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 2 || batch[0][3] != a1[3] || batch[1][3] != b[3] {
		t.Error("EmbedBatch disagrees with Embed")
	}

	if NewMockEmbedder(0).Dimensions() != defaultMockDimensions {
		t.Error("non-positive dimensions should fall back to the default")
	}
}
