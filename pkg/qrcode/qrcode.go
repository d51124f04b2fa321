package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRService renders shareable referral links as QR codes, for the printed
// cards drivers hand out at truck stops.
type QRService struct {
	baseURL string // e.g. "https://drivetimetales.com/signup?ref="
}

func NewQRService(baseURL string) *QRService {
	return &QRService{
		baseURL: baseURL,
	}
}

// GenerateReferralQR returns a PNG QR code for the given referral code.
func (s *QRService) GenerateReferralQR(referralCode string, size int) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s", s.baseURL, referralCode)

	png, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}

	return png, nil
}
