// Package qr renders and reads ticket QR codes.
package qr

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	goqrcode "github.com/skip2/go-qrcode"

	"campusconnect/internal/domain"
)

// DefaultSize is the edge length in pixels of rendered ticket codes.
const DefaultSize = 256

type encoder struct {
	level goqrcode.RecoveryLevel
}

// NewEncoder returns a QREncoder producing PNGs at medium error correction.
func NewEncoder() domain.QREncoder {
	return encoder{level: goqrcode.Medium}
}

func (e encoder) EncodePNG(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, errors.New("qr: empty content")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := goqrcode.Encode(text, e.level, size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}

type decoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewDecoder returns a QRDecoder. Images without a readable code report found=false.
func NewDecoder() domain.QRDecoder {
	return decoder{hints: map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}}
}

func (d decoder) Decode(img image.Image) (string, bool, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", false, nil
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false, fmt.Errorf("qr bitmap: %w", err)
	}
	result, err := zxingqr.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		// not found, checksum and format failures all mean no usable code in this frame
		return "", false, nil
	}
	return result.GetText(), true, nil
}
