package ocr

import (
	"encoding/base64"
	"os"

	"ocrclip/internal/apperr"
)

// EncodeFile reads the whole file at path and returns its standard base64 encoding.
func EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperr.Wrap(apperr.IO, "EncodeFile", err, "cannot read image file")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeBase64 reverses EncodeFile.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, apperr.Wrap(apperr.Base64, "DecodeBase64", err, "invalid base64 data")
	}
	return data, nil
}
