package overlay

import (
	"github.com/bmharper/cimg/v2"
	"github.com/chewxy/math32"
	"github.com/cyclopcam/halo/pkg/nn"
	"github.com/cyclopcam/halo/pkg/nv12"
)

// Compositor paints the background plus the detection annotation into an RGB
// viewport image. The annotation is an edge highlight on the box boundary, a
// bloom extending outward, an inner glow just inside the boundary, and a
// solid badge anchored at the box min corner. Every blend weight is
// multiplied by the detection strength and clamped to [0,1] on its own, so
// overlapping effects saturate instead of overflowing, and a strength of zero
// leaves the background untouched.
type Compositor struct {
	cfg Config
}

// Fixed reference rectangle drawn in debug mode, in display-normalized coordinates
const (
	debugRectMinX = 0.15
	debugRectMinY = 0.2
	debugRectMaxX = 0.85
	debugRectMaxY = 0.8
)

var debugColor = nn.Color{R: 1, G: 0, B: 1}

func NewCompositor(cfg Config) *Compositor {
	return &Compositor{
		cfg: cfg,
	}
}

// Render paints one display tick into dst. dst must be viewport-sized RGB.
// timeSec drives the luminance pulse; debug adds the reference rectangle.
func (c *Compositor) Render(dst *cimg.Image, state State, timeSec float64, debug bool) {
	frame := state.Frame
	m := FitFrame(frame.Width, frame.Height, dst.Width, dst.Height)
	strength := clamp01(state.Strength)

	if (strength <= 0 || !state.HasDetection) && !debug {
		// Nothing to annotate. The overlay math below degenerates to the
		// background anyway when strength is zero, but there's no point
		// paying for it.
		c.RenderBackground(dst, frame, m)
		return
	}

	// Radii are fractions of the viewport height
	unit := float32(dst.Height)
	edgeHW := c.cfg.EdgeHalfWidth * unit
	bloomR := c.cfg.BloomRadius * unit
	innerM := c.cfg.InnerGlowMargin * unit
	badgeR := c.cfg.BadgeRadius * unit

	minX, minY, maxX, maxY := m.MapBox(state.Detection.Box)
	boxCX := (minX + maxX) / 2
	boxCY := (minY + maxY) / 2
	boxHX := (maxX - minX) / 2
	boxHY := (maxY - minY) / 2
	badgeX := minX + c.cfg.BadgeOffsetX*unit
	badgeY := minY + c.cfg.BadgeOffsetY*unit

	// Confidence pulse: a gentle sinusoidal luminance wobble on the label
	// color, scaled by strength. Decoration only; it gates nothing.
	labelColor := nn.ColorForLabel(state.Detection.Label)
	pulse := 1 + c.cfg.PulseAmplitude*math32.Sin(2*math32.Pi*c.cfg.PulseHz*float32(timeSec))*strength
	tintR := clamp01(labelColor.R * pulse)
	tintG := clamp01(labelColor.G * pulse)
	tintB := clamp01(labelColor.B * pulse)

	hasBox := strength > 0 && state.HasDetection

	for y := 0; y < dst.Height; y++ {
		row := dst.Pixels[y*dst.Stride:]
		py := float32(y) + 0.5
		for x := 0; x < dst.Width; x++ {
			px := float32(x) + 0.5
			r, g, b := backgroundAt(frame, m, px, py)

			if hasBox {
				// Signed distance to the box boundary: negative inside,
				// positive outside. Outside distance is the vector length of
				// the per-axis excess.
				qx := math32.Abs(px-boxCX) - boxHX
				qy := math32.Abs(py-boxCY) - boxHY
				outside := math32.Hypot(math32.Max(qx, 0), math32.Max(qy, 0))
				d := outside + math32.Min(math32.Max(qx, qy), 0)

				// Edge band
				w := clamp01((1 - smoothstep(0, edgeHW, math32.Abs(d))) * strength)
				r = mix(r, tintR, w)
				g = mix(g, tintG, w)
				b = mix(b, tintB, w)

				// Bloom: soft additive glow outside the boundary
				if d > 0 && d < bloomR {
					w := clamp01(math32.Pow(1-d/bloomR, 1.5) * strength)
					r += tintR * 0.5 * w
					g += tintG * 0.5 * w
					b += tintB * 0.5 * w
				}

				// Inner glow: same shape, confined to the interior margin
				if d < 0 && d > -innerM {
					w := clamp01(math32.Pow(1+d/innerM, 1.5) * strength)
					r += tintR * 0.35 * w
					g += tintG * 0.35 * w
					b += tintB * 0.35 * w
				}

				// Badge: solid circle at box min, drawn over everything else
				bd := math32.Hypot(px-badgeX, py-badgeY)
				if bd < badgeR {
					w := clamp01(0.9 * strength)
					r = mix(r, tintR, w)
					g = mix(g, tintG, w)
					b = mix(b, tintB, w)
					if bd < badgeR*0.45 {
						// Brighter core
						core := clamp01(0.35 * strength)
						r += core
						g += core
						b += core
					}
				}
			}

			if debug {
				r, g, b = c.debugReference(px, py, dst.Width, dst.Height, r, g, b)
			}

			row[x*3] = byte(clamp01(r)*255 + 0.5)
			row[x*3+1] = byte(clamp01(g)*255 + 0.5)
			row[x*3+2] = byte(clamp01(b)*255 + 0.5)
		}
	}
}

// RenderBackground paints only the color-converted frame, letterboxed, with
// pure black in the borders. This is exactly what Render produces when the
// detection strength is zero.
func (c *Compositor) RenderBackground(dst *cimg.Image, frame *nv12.Frame, m AspectMapping) {
	for y := 0; y < dst.Height; y++ {
		row := dst.Pixels[y*dst.Stride:]
		py := float32(y) + 0.5
		for x := 0; x < dst.Width; x++ {
			px := float32(x) + 0.5
			r, g, b := backgroundAt(frame, m, px, py)
			row[x*3] = byte(clamp01(r)*255 + 0.5)
			row[x*3+1] = byte(clamp01(g)*255 + 0.5)
			row[x*3+2] = byte(clamp01(b)*255 + 0.5)
		}
	}
}

// Clear fills dst with black. Used when no frame is available.
func Clear(dst *cimg.Image) {
	for y := 0; y < dst.Height; y++ {
		clear(dst.Pixels[y*dst.Stride : y*dst.Stride+dst.Width*3])
	}
}

// backgroundAt samples the frame at a viewport pixel center.
// Sampling coordinates outside [0,1] are in the letterbox border: pure black.
func backgroundAt(frame *nv12.Frame, m AspectMapping, px, py float32) (r, g, b float32) {
	u, v := m.FrameUV(px, py)
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, 0, 0
	}
	return frame.RGBAt(int(u*float32(frame.Width)), int(v*float32(frame.Height)))
}

// debugReference draws a fixed rectangle outline plus four corner markers,
// independent of detection state. Useful for verifying the letterbox
// transform against a known pattern.
func (c *Compositor) debugReference(px, py float32, width, height int, r, g, b float32) (float32, float32, float32) {
	const lineHW = 1.5   // outline half width, pixels
	const markerR = 5.0  // corner marker radius, pixels
	x0 := debugRectMinX * float32(width)
	x1 := debugRectMaxX * float32(width)
	y0 := debugRectMinY * float32(height)
	y1 := debugRectMaxY * float32(height)

	onVertical := (math32.Abs(px-x0) <= lineHW || math32.Abs(px-x1) <= lineHW) && py >= y0-lineHW && py <= y1+lineHW
	onHorizontal := (math32.Abs(py-y0) <= lineHW || math32.Abs(py-y1) <= lineHW) && px >= x0-lineHW && px <= x1+lineHW
	onCorner := math32.Hypot(px-x0, py-y0) <= markerR ||
		math32.Hypot(px-x1, py-y0) <= markerR ||
		math32.Hypot(px-x0, py-y1) <= markerR ||
		math32.Hypot(px-x1, py-y1) <= markerR

	if onVertical || onHorizontal || onCorner {
		return debugColor.R, debugColor.G, debugColor.B
	}
	return r, g, b
}

func mix(a, b, w float32) float32 {
	return a + (b-a)*w
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
