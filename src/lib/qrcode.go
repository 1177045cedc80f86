package lib

import (
	"bytes"

	"github.com/yeqown/go-qrcode"
)

// GenerateQRCode encodes data into a JPEG QR image. Same input yields the
// same bytes, so stored codes stay stable across re-renders.
func GenerateQRCode(data string) ([]byte, error) {
	qrc, err := qrcode.New(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
