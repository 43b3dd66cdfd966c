package domain

import (
	"context"
	"time"
)

// ColorScheme selects the palette of a generated banner.
type ColorScheme string

const (
	ColorVibrant      ColorScheme = "vibrant"
	ColorProfessional ColorScheme = "professional"
	ColorAcademic     ColorScheme = "academic"
	ColorCreative     ColorScheme = "creative"
)

// Valid reports whether c is a known scheme.
func (c ColorScheme) Valid() bool {
	switch c {
	case ColorVibrant, ColorProfessional, ColorAcademic, ColorCreative:
		return true
	}
	return false
}

// DescriptionRequest carries the fields used to prompt for an event description.
type DescriptionRequest struct {
	Title          string
	Type           string
	TargetAudience string
	Duration       string
	Location       string
	KeyPoints      []string
}

// GeneratedDescription is the text model's answer.
type GeneratedDescription struct {
	Description string    `json:"description"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// BannerRequest carries the fields used to design a banner.
type BannerRequest struct {
	Title       string
	Type        string
	Description string
	Location    string
	Date        string
	ColorScheme ColorScheme
}

// GeneratedBanner is a banner image plus the prompt that produced it.
type GeneratedBanner struct {
	Prompt      string    `json:"prompt"`
	ImageURL    string    `json:"imageUrl"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GenerationOptions are the sampling parameters sent with a prompt.
type GenerationOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// TextGenerator sends a prompt to a generative text model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error)
}

// ImageRenderer turns a banner prompt into an image URL.
type ImageRenderer interface {
	Render(ctx context.Context, prompt string, req BannerRequest) (string, error)
}

// ContentService generates event copy and banners.
type ContentService interface {
	GenerateDescription(ctx context.Context, req DescriptionRequest) (*GeneratedDescription, error)
	GenerateBanner(ctx context.Context, req BannerRequest) (*GeneratedBanner, error)
}
