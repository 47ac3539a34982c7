package pose

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// prepareInput decodes the photo and lays it out as a normalized NHWC
// float32 buffer the model expects.
func prepareInput(data []byte) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	resized := imaging.Resize(img, inputWidth, inputHeight, imaging.Lanczos)

	buffer := make([]float32, inputHeight*inputWidth*3)
	for y := 0; y < inputHeight; y++ {
		for x := 0; x < inputWidth; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			i := (y*inputWidth + x) * 3
			buffer[i] = float32(r>>8) / 255.0
			buffer[i+1] = float32(g>>8) / 255.0
			buffer[i+2] = float32(b>>8) / 255.0
		}
	}

	return buffer, nil
}
