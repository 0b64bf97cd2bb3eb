package vision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logitsFor returns logits over n classes whose softmax puts p on class c and
// spreads the rest evenly.
func logitsFor(n, c int, p float64) []float32 {
	rest := (1 - p) / float64(n-1)
	out := make([]float32, n)
	for i := range out {
		if i == c {
			out[i] = float32(math.Log(p))
		} else {
			out[i] = float32(math.Log(rest))
		}
	}
	return out
}

func TestPostProcess_ThresholdAndScaling(t *testing.T) {
	const classes = 4 // three real classes plus no-object
	var logits []float32
	logits = append(logits, logitsFor(classes, 1, 0.9)...)  // kept
	logits = append(logits, logitsFor(classes, 2, 0.3)...)  // below threshold
	logits = append(logits, logitsFor(classes, 3, 0.97)...) // no-object wins
	logits = append(logits, logitsFor(classes, 0, 0.6)...)  // kept

	boxes := []float32{
		0.5, 0.5, 0.2, 0.4,
		0.1, 0.1, 0.1, 0.1,
		0.5, 0.5, 1, 1,
		0.25, 0.75, 0.5, 0.5,
	}

	got, err := PostProcess(RawOutput{Logits: logits, Boxes: boxes, Queries: 4, Classes: classes},
		200, 100, DefaultThreshold, []string{"", "apple", "cake"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].ClassID)
	assert.Equal(t, "apple", got[0].Label)
	assert.InDelta(t, 0.9, got[0].Score, 1e-4)
	assert.InDelta(t, 80, got[0].Box.XMin, 1e-3)
	assert.InDelta(t, 30, got[0].Box.YMin, 1e-3)
	assert.InDelta(t, 120, got[0].Box.XMax, 1e-3)
	assert.InDelta(t, 70, got[0].Box.YMax, 1e-3)

	assert.Equal(t, 0, got[1].ClassID)
	assert.Equal(t, "LABEL_0", got[1].Label)
	assert.InDelta(t, 0, got[1].Box.XMin, 1e-3)
	assert.InDelta(t, 100, got[1].Box.YMax, 1e-3)
}

func TestPostProcess_ThresholdInclusive(t *testing.T) {
	// Equal logits over the real classes and a very negative no-object logit
	// give each real class exactly 0.5.
	out := RawOutput{
		Logits:  []float32{0, 0, -1e4},
		Boxes:   []float32{0.5, 0.5, 1, 1},
		Queries: 1,
		Classes: 3,
	}
	got, err := PostProcess(out, 10, 10, 0.5, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, float32(0.5), got[0].Score)
	assert.Equal(t, 0, got[0].ClassID, "first class wins ties")

	got, err = PostProcess(out, 10, 10, 0.51, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostProcess_UnknownLabel(t *testing.T) {
	out := RawOutput{
		Logits:  logitsFor(6, 4, 0.95),
		Boxes:   []float32{0.5, 0.5, 0.5, 0.5},
		Queries: 1,
		Classes: 6,
	}
	got, err := PostProcess(out, 1, 1, DefaultThreshold, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LABEL_4", got[0].Label)
}

func TestPostProcess_PlaceholderLabelIsKept(t *testing.T) {
	// COCO id2label carries "N/A" for unused ids; it is a real label, not a gap.
	out := RawOutput{
		Logits:  logitsFor(3, 0, 0.9),
		Boxes:   []float32{0.5, 0.5, 0.5, 0.5},
		Queries: 1,
		Classes: 3,
	}
	got, err := PostProcess(out, 1, 1, DefaultThreshold, []string{"N/A", "person"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "N/A", got[0].Label)
}

func TestPostProcess_InvalidShape(t *testing.T) {
	_, err := PostProcess(RawOutput{Queries: 1, Classes: 1}, 1, 1, 0.5, nil)
	assert.Error(t, err)

	_, err = PostProcess(RawOutput{Logits: []float32{1, 2}, Queries: 2, Classes: 2}, 1, 1, 0.5, nil)
	assert.Error(t, err)

	_, err = PostProcess(RawOutput{Logits: []float32{1, 2}, Boxes: []float32{0, 0}, Queries: 1, Classes: 2}, 1, 1, 0.5, nil)
	assert.Error(t, err)
}
