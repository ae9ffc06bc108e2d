package detect

import (
	"fmt"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/cyclopcam/halo/pkg/nn"
	"github.com/cyclopcam/halo/pkg/nv12"
	"gocv.io/x/gocv"
)

// DNNDetector runs a YOLO-family model through OpenCV's DNN module.
// It satisfies nn.ObjectDetector. Inference is serialized: the runner only
// ever has one pass in flight, but the lock keeps the C++ net safe if a
// second caller shows up.
type DNNDetector struct {
	net        gocv.Net
	classNames []string
	inputSize  int
	lock       sync.Mutex
}

// NewDNNDetector loads a YOLO network plus its class name list.
// inputSize is the square network input resolution (eg 416 or 608).
func NewDNNDetector(weightsPath, configPath, namesPath string, inputSize int) (*DNNDetector, error) {
	net := gocv.ReadNet(weightsPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %v and %v", weightsPath, configPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	names, err := os.ReadFile(namesPath)
	if err != nil {
		net.Close()
		return nil, fmt.Errorf("could not read class names %v: %w", namesPath, err)
	}
	classNames := []string{}
	for _, line := range strings.Split(string(names), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			classNames = append(classNames, line)
		}
	}
	if inputSize <= 0 {
		inputSize = 416
	}

	return &DNNDetector{
		net:        net,
		classNames: classNames,
		inputSize:  inputSize,
	}, nil
}

func (d *DNNDetector) Close() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.net.Close()
}

// DetectObjects runs one inference pass. Candidate boxes come back in
// normalized [0,1] frame coordinates, with the detector's class name text as
// the label; label resolution happens downstream.
func (d *DNNDetector) DetectObjects(frame *nv12.Frame) ([]nn.Candidate, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	rgb := frame.ToCImageRGB()
	mat, err := gocv.NewMatFromBytes(rgb.Height, rgb.Width, gocv.MatTypeCV8UC3, rgb.Pixels)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap frame: %w", err)
	}
	defer mat.Close()

	// swapRB is false because our pixels are already RGB
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.inputSize, d.inputSize), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	// Each output row is [cx, cy, w, h, objectness, class scores...],
	// normalized to the network input, which BlobFromImage squashed to the
	// whole frame, so the coordinates are frame-normalized already.
	candidates := []nn.Candidate{}
	for i := 0; i < output.Rows(); i++ {
		row := output.RowRange(i, i+1)
		scores := row.ColRange(5, row.Cols())
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(scores)
		classID := maxLoc.X
		confidence := float32(maxVal) * row.GetFloatAt(0, 4)
		if confidence > 0.1 && classID < len(d.classNames) {
			cx := row.GetFloatAt(0, 0)
			cy := row.GetFloatAt(0, 1)
			w := row.GetFloatAt(0, 2)
			h := row.GetFloatAt(0, 3)
			candidates = append(candidates, nn.Candidate{
				Label:      d.classNames[classID],
				Confidence: confidence,
				Box: nn.Rect{
					X:      cx - w/2,
					Y:      cy - h/2,
					Width:  w,
					Height: h,
				},
			})
		}
		scores.Close()
		row.Close()
	}
	return candidates, nil
}
