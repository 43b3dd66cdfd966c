// Package banner turns banner prompts into image URLs.
package banner

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"campusconnect/internal/domain"
)

var schemeColors = map[domain.ColorScheme]string{
	domain.ColorProfessional: "2563eb",
	domain.ColorVibrant:      "dc2626",
	domain.ColorAcademic:     "059669",
	domain.ColorCreative:     "7c3aed",
}

const textColor = "ffffff"

type placeholderRenderer struct{}

// NewPlaceholderRenderer returns an ImageRenderer that links a placehold.co image
// showing the event title and category on the colour-scheme background.
func NewPlaceholderRenderer() domain.ImageRenderer {
	return placeholderRenderer{}
}

func (placeholderRenderer) Render(ctx context.Context, prompt string, req domain.BannerRequest) (string, error) {
	bg, ok := schemeColors[req.ColorScheme]
	if !ok {
		bg = schemeColors[domain.ColorProfessional]
	}
	return fmt.Sprintf("https://placehold.co/800x450/%s/%s?text=%s+%%0A%s&font=montserrat",
		bg, textColor, escape(req.Title), escape(req.Type)), nil
}

// escape encodes s like a URI component: spaces become %20, not "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
