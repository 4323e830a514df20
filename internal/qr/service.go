package qr

import (
	"fmt"
	"strconv"
	"strings"

	"fish_and_follow_backend/platform/logger"

	"github.com/skip2/go-qrcode"
)

const contactFormPath = "/contact-form"

type Service struct {
	baseURL string
	log     *logger.Logger
}

func NewService(baseURL string, log *logger.Logger) *Service {
	return &Service{baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// ContactFormURL is the public address the QR code points at.
func (s *Service) ContactFormURL() string {
	return s.baseURL + contactFormPath
}

// ContactFormPNG renders the contact form QR code as a square PNG.
func (s *Service) ContactFormPNG(size int) ([]byte, error) {
	png, err := qrcode.Encode(s.ContactFormURL(), qrcode.Medium, size)
	if err != nil {
		s.log.Error("qr code encoding failed", "error", err)
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// clampSize parses the requested edge length in pixels. Missing or
// malformed values use the default; others are clamped to the allowed range.
func clampSize(raw string) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultSize
	}
	if size < minSize {
		return minSize
	}
	if size > maxSize {
		return maxSize
	}
	return size
}
