package qr

import (
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Renderer produces QR codes pointing at public feedback pages.
type Renderer struct {
	baseURL string
}

func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: strings.TrimRight(baseURL, "/")}
}

// PagePNG renders the public feedback page URL for a business slug as a PNG
// suitable for print.
func (r *Renderer) PagePNG(slug string, size int) ([]byte, error) {
	if size <= 0 {
		size = 512
	}
	url := fmt.Sprintf("%s/r/%s", r.baseURL, slug)
	return qrcode.Encode(url, qrcode.Medium, size)
}

// PageDataURL returns the QR as a data URI ready for an <img src="...">.
func (r *Renderer) PageDataURL(slug string, size int) (string, error) {
	png, err := r.PagePNG(slug, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
