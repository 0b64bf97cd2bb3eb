package vision

import (
	"fmt"
	"math"
)

const DefaultThreshold float32 = 0.5

// Box is a bounding box in original image pixels.
type Box struct {
	XMin float32 `json:"xmin"`
	YMin float32 `json:"ymin"`
	XMax float32 `json:"xmax"`
	YMax float32 `json:"ymax"`
}

// Detection is one surviving detector query after post-processing.
type Detection struct {
	ClassID int     `json:"class_id"`
	Label   string  `json:"label"`
	Score   float32 `json:"score"`
	Box     Box     `json:"box"`
}

// RawOutput is the flat DETR output for a single image.
type RawOutput struct {
	// Logits has shape [queries, classes]; the last class is "no object".
	Logits []float32
	// Boxes has shape [queries, 4] as normalized (cx, cy, w, h).
	Boxes []float32

	Queries int
	Classes int
}

// PostProcess mirrors DETR's post_process_object_detection for one image:
// softmax over classes, drop the no-object class, keep the best class per
// query and scale boxes to width x height. Detections scoring at least
// threshold are returned in query order.
func PostProcess(out RawOutput, width, height int, threshold float32, labels []string) ([]Detection, error) {
	if out.Queries <= 0 || out.Classes < 2 {
		return nil, fmt.Errorf("invalid detector output shape: queries=%d classes=%d", out.Queries, out.Classes)
	}
	if len(out.Logits) < out.Queries*out.Classes {
		return nil, fmt.Errorf("logits size %d < %d", len(out.Logits), out.Queries*out.Classes)
	}
	if len(out.Boxes) < out.Queries*4 {
		return nil, fmt.Errorf("boxes size %d < %d", len(out.Boxes), out.Queries*4)
	}

	w, h := float32(width), float32(height)
	var detections []Detection
	probs := make([]float32, out.Classes)

	for q := 0; q < out.Queries; q++ {
		softmax(out.Logits[q*out.Classes:(q+1)*out.Classes], probs)

		best, bestScore := 0, float32(-1)
		for c := 0; c < out.Classes-1; c++ {
			if probs[c] > bestScore {
				best, bestScore = c, probs[c]
			}
		}
		if bestScore < threshold {
			continue
		}

		cx, cy, bw, bh := out.Boxes[q*4], out.Boxes[q*4+1], out.Boxes[q*4+2], out.Boxes[q*4+3]
		detections = append(detections, Detection{
			ClassID: best,
			Label:   labelFor(labels, best),
			Score:   bestScore,
			Box: Box{
				XMin: (cx - 0.5*bw) * w,
				YMin: (cy - 0.5*bh) * h,
				XMax: (cx + 0.5*bw) * w,
				YMax: (cy + 0.5*bh) * h,
			},
		})
	}
	return detections, nil
}

func softmax(logits, dst []float32) {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxLogit))
		dst[i] = float32(e)
		sum += e
	}
	for i := range dst {
		dst[i] = float32(float64(dst[i]) / sum)
	}
}

func labelFor(labels []string, id int) string {
	if id >= 0 && id < len(labels) && labels[id] != "" {
		return labels[id]
	}
	return fmt.Sprintf("LABEL_%d", id)
}
