// Package qr renders the QR codes printed on dealership stands. Each code
// encodes the public check-in URL for a brand/department.
package qr

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

type Generator struct {
	publicURL string
}

func NewGenerator(publicURL string) *Generator {
	return &Generator{publicURL: publicURL}
}

// CheckInURL builds the public-site URL a scanned code opens.
func (g *Generator) CheckInURL(dealershipID, brandID, departmentID string) string {
	q := url.Values{}
	q.Set("dealership", dealershipID)
	if brandID != "" {
		q.Set("brand", brandID)
	}
	if departmentID != "" {
		q.Set("department", departmentID)
	}
	return fmt.Sprintf("%s/check-in?%s", g.publicURL, q.Encode())
}

// PNG renders the check-in QR code at the given pixel size.
func (g *Generator) PNG(dealershipID, brandID, departmentID string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	target := g.CheckInURL(dealershipID, brandID, departmentID)
	png, err := qrcode.Encode(target, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", target, err)
	}
	return png, nil
}
