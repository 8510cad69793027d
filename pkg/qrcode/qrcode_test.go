package qrcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQRCode(t *testing.T) {
	svc := NewQRService(0)

	png, err := svc.GenerateQRCode("https://meet.example.com/abc")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output must be a PNG")

	_, err = svc.GenerateQRCode("")
	assert.Error(t, err)
}
