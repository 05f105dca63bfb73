package adapters

import "fmt"

// KenBurnsScale is the zoom factor applied at time t of a clip lasting
// duration seconds. It grows linearly from 1 to 1+zoom.
func KenBurnsScale(t, duration, zoom float64) float64 {
	if duration <= 0 {
		return 1
	}
	if t < 0 {
		t = 0
	}
	if t > duration {
		t = duration
	}
	return 1 + zoom*t/duration
}

type CropRect struct {
	X, Y          float64
	Width, Height float64
}

// KenBurnsCrop is the window cut out of a width x height frame scaled by
// scale: always the output frame size, centred on the scaled frame. The
// source image is fitted to the frame before zooming.
func KenBurnsCrop(width, height int, scale float64) CropRect {
	scaledW := float64(width) * scale
	scaledH := float64(height) * scale
	return CropRect{
		X:      (scaledW - float64(width)) / 2,
		Y:      (scaledH - float64(height)) / 2,
		Width:  float64(width),
		Height: float64(height),
	}
}

// kenBurnsFilter renders the zoom as an ffmpeg filter chain: a per-frame
// scale by KenBurnsScale followed by a centred crop back to width x height.
// Scaled dimensions are rounded to even numbers for the encoder.
func kenBurnsFilter(width, height int, duration, zoom float64) string {
	factor := fmt.Sprintf("(1+%s*t/%s)", formatSeconds(zoom), formatSeconds(duration))
	return fmt.Sprintf(
		"scale=w='2*trunc(%d*%s/2)':h='2*trunc(%d*%s/2)':eval=frame,crop=%d:%d:(in_w-%d)/2:(in_h-%d)/2",
		width, factor, height, factor, width, height, width, height,
	)
}
