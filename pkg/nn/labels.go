package nn

// Label identifies the class of a detected object.
// Detectors report classes as text; anything we don't recognize maps to LabelUnknown.
type Label int

const (
	LabelUnknown Label = iota
	LabelPerson
	LabelBicycle
	LabelCar
	LabelMotorcycle
	LabelCat
	LabelDog
)

var labelNames = map[string]Label{
	"person":     LabelPerson,
	"bicycle":    LabelBicycle,
	"car":        LabelCar,
	"motorcycle": LabelMotorcycle,
	"cat":        LabelCat,
	"dog":        LabelDog,
}

// ParseLabel maps a detector class name onto our label enumeration
func ParseLabel(name string) Label {
	return labelNames[name]
}

func (l Label) String() string {
	switch l {
	case LabelPerson:
		return "person"
	case LabelBicycle:
		return "bicycle"
	case LabelCar:
		return "car"
	case LabelMotorcycle:
		return "motorcycle"
	case LabelCat:
		return "cat"
	case LabelDog:
		return "dog"
	}
	return "unknown"
}

// Color is an RGB triple with components in [0,1]
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
}

var labelColors = map[Label]Color{
	LabelPerson:     {R: 0.15, G: 0.95, B: 0.85}, // cyan
	LabelBicycle:    {R: 0.95, G: 0.75, B: 0.15}, // amber
	LabelCar:        {R: 0.30, G: 0.65, B: 1.00}, // blue
	LabelMotorcycle: {R: 0.95, G: 0.40, B: 0.15}, // orange
	LabelCat:        {R: 0.85, G: 0.30, B: 0.95}, // purple
	LabelDog:        {R: 0.35, G: 0.95, B: 0.30}, // green
}

// ColorForLabel returns the overlay color for a label.
// Unrecognized labels get a neutral gray.
func ColorForLabel(l Label) Color {
	if c, ok := labelColors[l]; ok {
		return c
	}
	return Color{R: 0.6, G: 0.6, B: 0.6}
}
