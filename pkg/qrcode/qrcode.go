package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// QRService, canlı oturum linkleri için QR kod üretir
type QRService struct {
	size int
}

func NewQRService(size int) *QRService {
	if size <= 0 {
		size = DefaultSize
	}
	return &QRService{size: size}
}

// GenerateQRCode, verilen link için PNG formatında QR kod bayt dizisi oluşturur
func (s *QRService) GenerateQRCode(link string) ([]byte, error) {
	if link == "" {
		return nil, fmt.Errorf("empty link")
	}
	png, err := qrcode.Encode(link, qrcode.Medium, s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}
	return png, nil
}
