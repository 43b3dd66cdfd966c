package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusconnect/internal/domain"
)

var (
	descriptionOptions = domain.GenerationOptions{Temperature: 0.7, MaxOutputTokens: 300}
	bannerOptions      = domain.GenerationOptions{Temperature: 0.7, MaxOutputTokens: 1024}
)

type contentService struct {
	text           domain.TextGenerator
	renderer       domain.ImageRenderer
	contextTimeout time.Duration
	now            Clock
}

// NewContentService returns the AI content generators. A nil text generator means
// no credential is configured.
func NewContentService(text domain.TextGenerator, renderer domain.ImageRenderer, timeout time.Duration, now Clock) domain.ContentService {
	return &contentService{
		text:           text,
		renderer:       renderer,
		contextTimeout: orDefaultTimeout(timeout),
		now:            now.orDefault(),
	}
}

func (s *contentService) GenerateDescription(ctx context.Context, req domain.DescriptionRequest) (*domain.GeneratedDescription, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Type = strings.TrimSpace(req.Type)
	if req.Title == "" || req.Type == "" || len(req.KeyPoints) == 0 {
		return nil, &domain.ValidationError{Message: "Missing required fields: eventTitle, eventType, and keyPoints are required"}
	}
	points := make([]string, 0, len(req.KeyPoints))
	for _, p := range req.KeyPoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return nil, &domain.ValidationError{Message: "At least one valid key point is required"}
	}
	req.KeyPoints = points

	if s.text == nil {
		return nil, domain.ErrUpstreamUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	out, err := s.text.Generate(ctx, descriptionPrompt(req), descriptionOptions)
	if err != nil {
		return nil, upstreamErr("generate description", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, fmt.Errorf("generate description: %w: empty response", domain.ErrUpstream)
	}
	return &domain.GeneratedDescription{Description: out, GeneratedAt: s.now()}, nil
}

// GenerateBanner asks the text model to turn the event details into a design
// prompt and renders that prompt into an image URL.
func (s *contentService) GenerateBanner(ctx context.Context, req domain.BannerRequest) (*domain.GeneratedBanner, error) {
	if s.text == nil {
		return nil, domain.ErrUpstreamUnavailable
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Type = strings.TrimSpace(req.Type)
	req.Description = strings.TrimSpace(req.Description)
	switch {
	case req.Title == "":
		return nil, &domain.ValidationError{Message: "Missing required field: eventTitle"}
	case req.Type == "":
		return nil, &domain.ValidationError{Message: "Missing required field: eventType (category)"}
	case req.Description == "":
		return nil, &domain.ValidationError{Message: "Missing required field: description"}
	}
	if req.ColorScheme == "" {
		req.ColorScheme = domain.ColorProfessional
	}
	if !req.ColorScheme.Valid() {
		return nil, &domain.ValidationError{Message: "Invalid colorScheme: must be one of vibrant, professional, academic, creative"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prompt, err := s.text.Generate(ctx, bannerPrompt(req), bannerOptions)
	if err != nil {
		return nil, upstreamErr("generate banner prompt", err)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("generate banner prompt: %w: empty response", domain.ErrUpstream)
	}
	url, err := s.renderer.Render(ctx, prompt, req)
	if err != nil {
		return nil, upstreamErr("render banner", err)
	}
	return &domain.GeneratedBanner{Prompt: prompt, ImageURL: url, GeneratedAt: s.now()}, nil
}

func upstreamErr(op string, err error) error {
	if errors.Is(err, domain.ErrUpstream) || errors.Is(err, domain.ErrUpstreamUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
}

func descriptionPrompt(req domain.DescriptionRequest) string {
	var b strings.Builder
	b.WriteString("Create a compelling and professional event description for a campus event with the following details:\n\n")
	fmt.Fprintf(&b, "Event Title: %s\n", req.Title)
	fmt.Fprintf(&b, "Event Type: %s\n", req.Type)
	optionalLine(&b, "Target Audience", req.TargetAudience)
	optionalLine(&b, "Duration", req.Duration)
	optionalLine(&b, "Location", req.Location)
	b.WriteString("\nKey Points to Include:\n")
	for i, p := range req.KeyPoints {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	b.WriteString(`
Write a well-structured, engaging description that:
- Is approximately 100-200 words
- Captures the essence of the event
- Highlights the key benefits for attendees
- Uses professional yet accessible language
- Includes a clear call-to-action
- Is suitable for a university campus event platform
`)
	return b.String()
}

func bannerPrompt(req domain.BannerRequest) string {
	var b strings.Builder
	b.WriteString("Create a detailed visual description for an event banner design with the following specifications:\n\nEvent Details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", req.Title)
	fmt.Fprintf(&b, "- Type: %s\n", req.Type)
	fmt.Fprintf(&b, "- Description: %s\n", req.Description)
	optionalLine(&b, "- Location", req.Location)
	optionalLine(&b, "- Date", req.Date)
	fmt.Fprintf(&b, "- Color Scheme: %s\n", req.ColorScheme)
	fmt.Fprintf(&b, `
Describe:
1. Layout composition and text hierarchy
2. Color palette and visual style
3. Typography suggestions
4. Graphic elements and imagery
5. Placement of the event title, date and key information

The banner must suit digital display at 16:9, read clearly from a distance,
appeal to university students and follow the %s color scheme.
Answer with a description usable as input to an image generation tool.
`, req.ColorScheme)
	return b.String()
}

func optionalLine(b *strings.Builder, label, value string) {
	if v := strings.TrimSpace(value); v != "" {
		fmt.Fprintf(b, "%s: %s\n", label, v)
	}
}
