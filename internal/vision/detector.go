package vision

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Detector runs object detection on extracted features.
type Detector interface {
	Detect(ctx context.Context, features *Features) ([]Detection, error)
}

// ONNXDetector runs a DETR model exported to ONNX.
type ONNXDetector struct {
	mu sync.Mutex

	threshold float32
	inputSize int
	labels    []string

	session *ort.AdvancedSession
	pixels  *ort.Tensor[float32]
	mask    *ort.Tensor[int64] // nil when the export has no pixel_mask input
	logits  *ort.Tensor[float32]
	boxes   *ort.Tensor[float32]

	queries int
	classes int
}

type ONNXDetectorConfig struct {
	ModelPath  string
	LabelsPath string
	LibPath    string
	InputSize  int
	Threshold  float32
}

var ortInit sync.Once
var ortInitErr error

func initEnvironment(libPath string) error {
	ortInit.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			ortInitErr = fmt.Errorf("onnx init environment: %w", err)
		}
	})
	return ortInitErr
}

// NewONNXDetector loads labels, inspects the model and allocates the
// session with fixed-size tensors for cfg.InputSize square inputs.
func NewONNXDetector(cfg ONNXDetectorConfig) (*ONNXDetector, error) {
	if cfg.InputSize <= 0 {
		cfg.InputSize = defaultInputSize
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}

	if err := initEnvironment(cfg.LibPath); err != nil {
		return nil, err
	}

	labels, err := LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx get input/output info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) < 2 {
		return nil, fmt.Errorf("onnx model needs pixel input and logits/boxes outputs, got %d inputs %d outputs", len(inputs), len(outputs))
	}

	d := &ONNXDetector{
		threshold: cfg.Threshold,
		inputSize: cfg.InputSize,
		labels:    labels,
	}

	size := int64(cfg.InputSize)
	d.pixels, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, fmt.Errorf("onnx new input tensor: %w", err)
	}

	inputNames := []string{inputs[0].Name}
	inputValues := []ort.Value{d.pixels}
	for _, in := range inputs[1:] {
		if !strings.Contains(in.Name, "mask") {
			continue
		}
		d.mask, err = ort.NewEmptyTensor[int64](ort.NewShape(1, size, size))
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("onnx new mask tensor: %w", err)
		}
		maskData := d.mask.GetData()
		for i := range maskData {
			maskData[i] = 1
		}
		inputNames = append(inputNames, in.Name)
		inputValues = append(inputValues, d.mask)
		break
	}

	logitsInfo, boxesInfo := pickOutputs(outputs)
	logitsShape, err := staticShape(logitsInfo.Dimensions, 3)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("logits output: %w", err)
	}
	boxesShape, err := staticShape(boxesInfo.Dimensions, 3)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("boxes output: %w", err)
	}
	d.queries = int(logitsShape[1])
	d.classes = int(logitsShape[2])

	if d.logits, err = ort.NewEmptyTensor[float32](logitsShape); err != nil {
		d.Close()
		return nil, fmt.Errorf("onnx new logits tensor: %w", err)
	}
	if d.boxes, err = ort.NewEmptyTensor[float32](boxesShape); err != nil {
		d.Close()
		return nil, fmt.Errorf("onnx new boxes tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		inputNames, []string{logitsInfo.Name, boxesInfo.Name},
		inputValues, []ort.Value{d.logits, d.boxes}, nil)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("onnx new session: %w", err)
	}
	d.session = session
	return d, nil
}

// Detect copies the features into the session input, runs inference and
// post-processes against the original image size.
func (d *ONNXDetector) Detect(ctx context.Context, features *Features) ([]Detection, error) {
	if features == nil {
		return nil, fmt.Errorf("nil features")
	}
	if features.Size != d.inputSize {
		return nil, fmt.Errorf("features size %d does not match detector input %d", features.Size, d.inputSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	inData := d.pixels.GetData()
	if len(inData) < len(features.Pixels) {
		return nil, fmt.Errorf("input tensor size %d < preprocessed %d", len(inData), len(features.Pixels))
	}
	copy(inData, features.Pixels)

	if err := d.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	// PostProcess only reads the tensors, so it is safe under the lock.
	return PostProcess(RawOutput{
		Logits:  d.logits.GetData(),
		Boxes:   d.boxes.GetData(),
		Queries: d.queries,
		Classes: d.classes,
	}, features.OrigWidth, features.OrigHeight, d.threshold, d.labels)
}

func (d *ONNXDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		d.session.Destroy()
		d.session = nil
	}
	for _, t := range []*ort.Tensor[float32]{d.pixels, d.logits, d.boxes} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	if d.mask != nil {
		_ = d.mask.Destroy()
	}
	d.pixels, d.logits, d.boxes, d.mask = nil, nil, nil, nil
	return nil
}

// pickOutputs finds the class logits and box outputs by name, falling back
// to export order.
func pickOutputs(outputs []ort.InputOutputInfo) (ort.InputOutputInfo, ort.InputOutputInfo) {
	logits, boxes := outputs[0], outputs[1]
	for _, o := range outputs {
		name := strings.ToLower(o.Name)
		switch {
		case strings.Contains(name, "logits"):
			logits = o
		case strings.Contains(name, "box"):
			boxes = o
		}
	}
	return logits, boxes
}

// staticShape pins a dynamic batch dimension to 1 and rejects any other
// dynamic dimension.
func staticShape(dims ort.Shape, rank int) (ort.Shape, error) {
	if len(dims) != rank {
		return nil, fmt.Errorf("expected rank %d, got shape %v", rank, dims)
	}
	shape := dims.Clone()
	if shape[0] <= 0 {
		shape[0] = 1
	}
	for i, v := range shape[1:] {
		if v <= 0 {
			return nil, fmt.Errorf("dimension %d is dynamic in shape %v", i+1, dims)
		}
	}
	return shape, nil
}

// LoadLabels reads one label per line; the line number is the class id.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		labels = append(labels, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}
