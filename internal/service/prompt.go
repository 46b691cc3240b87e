package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"adgallery/internal/genai"
	"adgallery/internal/model"
)

var (
	ErrImageRequired       = errors.New("image data is required")
	ErrDescriptionRequired = errors.New("product_description is required")
	ErrImageAnalysisFailed = errors.New("failed to analyze uploaded image")
)

// previewLen caps the prompt preview returned to clients.
const previewLen = 200

// PromptVariation is one generated prompt candidate with its display
// metadata.
type PromptVariation struct {
	ID          int    `json:"id"`
	Prompt      string `json:"prompt"`
	Preview     string `json:"preview"`
	Length      int    `json:"length"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

// ImageAnalysis is the result of a vision extraction pass over an
// uploaded poster.
type ImageAnalysis struct {
	VisualDescription string         `json:"visual_description"`
	Fields            map[string]any `json:"extracted_fields"`
}

// PromptService generates image prompts and runs the text-model assisted
// helpers (vision extraction, field autofill).
type PromptService interface {
	// GenerateVariations builds n prompt candidates from the ad parameters.
	// When params carry an uploaded image the prompts are derived from a
	// vision description; otherwise each candidate is enhanced by the text
	// model, falling back to a styled base prompt if the model errors.
	GenerateVariations(ctx context.Context, params map[string]any, n int) ([]PromptVariation, error)

	// AnalyzeImage extracts text fields and a visual description from a
	// base64-encoded poster image.
	AnalyzeImage(ctx context.Context, imageBase64 string) (*ImageAnalysis, error)

	// AutofillFields drafts short ad copy for every form field from a free
	// text product description.
	AutofillFields(ctx context.Context, productDescription, category, brandName string) (map[string]any, error)
}

type promptService struct {
	text genai.TextModel
	log  *zap.Logger
}

// NewPromptService constructs a new PromptService.
func NewPromptService(text genai.TextModel, log *zap.Logger) PromptService {
	return &promptService{text: text, log: log}
}

// variationStyle pins the model/product layout per variation so the three
// candidates differ in composition, not just wording.
type variationStyle struct {
	number          int
	model           string
	position        string
	productPosition string
}

var variationStyles = []variationStyle{
	{1, "confident professional man in category-appropriate business attire", "right third of the frame", "left side"},
	{2, "well-dressed professional man in category-appropriate formal attire", "left third of the frame", "right side"},
	{3, "confident professional woman in elegant category-appropriate business attire", "left third of the frame", "right side"},
}

// Person position | Content position | Visual style, indexed like
// variationStyles.
var variationDescriptions = []string{
	"Person: Right | Content: Left | Warm lighting, beige gradient",
	"Person: Left | Content: Right | Dramatic lighting, dark gradient",
	"Person: Left | Content: Right | Cool lighting, light gradient",
}

func (s *promptService) GenerateVariations(ctx context.Context, params map[string]any, n int) ([]PromptVariation, error) {
	if n <= 0 {
		n = 3
	}

	ar, _ := params["aspect_ratio"].(string)
	if ar == "" {
		return nil, model.ErrAspectRatioRequired
	}
	if _, ok := model.AspectSize(ar); !ok {
		return nil, model.ErrInvalidAspectRatio
	}

	var prompts []string
	useUploaded, _ := params["use_uploaded_image"].(bool)
	uploaded, _ := params["uploaded_image"].(string)
	if useUploaded && uploaded != "" {
		description, err := s.describeImage(ctx, uploaded)
		if err != nil || description == "" {
			s.log.Warn("image description failed", zap.Error(err))
			return nil, ErrImageAnalysisFailed
		}
		prompts = promptsFromImage(description, params, n)
	} else {
		prompts = s.enhancedPrompts(ctx, params, n)
	}

	variations := make([]PromptVariation, len(prompts))
	lengths := make([]int, len(prompts))
	for i, p := range prompts {
		preview := p
		// Truncate on runes so multibyte text is never split mid-character.
		if runes := []rune(preview); len(runes) > previewLen {
			preview = string(runes[:previewLen]) + "..."
		}
		variations[i] = PromptVariation{
			ID:          i + 1,
			Prompt:      p,
			Preview:     preview,
			Length:      len(p),
			Description: variationDescriptions[i%len(variationDescriptions)],
		}
		lengths[i] = len(p)
	}

	ratings := lengthRatings(lengths)
	for i := range variations {
		variations[i].Rating = ratings[variations[i].Length]
	}
	return variations, nil
}

// lengthRatings maps each prompt length to a star rating relative to the
// batch: longest 5, runner-up 4, the rest 3. Equal lengths share the
// lowest rating assigned to that length.
func lengthRatings(lengths []int) map[int]int {
	sorted := append([]int(nil), lengths...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	ratings := make(map[int]int, len(sorted))
	for i, l := range sorted {
		switch {
		case len(sorted) == 1:
			ratings[l] = 5
		case len(sorted) == 2:
			ratings[l] = []int{5, 4}[i]
		case i == 0:
			ratings[l] = 5
		case i == 1:
			ratings[l] = 4
		default:
			ratings[l] = 3
		}
	}
	return ratings
}

// enhancedPrompts asks the text model to refine the base prompt once per
// variation, raising the temperature each round for diversity. A failed
// call degrades to the styled base prompt rather than failing the batch.
func (s *promptService) enhancedPrompts(ctx context.Context, params map[string]any, n int) []string {
	base := buildBasePrompt(params)

	prompts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		style := variationStyles[i%len(variationStyles)]
		enhanced, err := s.text.Complete(ctx, genai.CompletionRequest{
			Prompt:      enhancementInstruction(style, base),
			Temperature: 0.7 + float64(i)*0.1,
		})
		if err != nil || enhanced == "" {
			s.log.Warn("prompt enhancement failed, using base prompt",
				zap.Int("variation", i+1), zap.Error(err))
			enhanced = fmt.Sprintf("%s positioned on %s, product on %s. %s",
				style.model, style.position, style.productPosition, base)
		}
		prompts = append(prompts, enhanced)
	}
	return prompts
}

func enhancementInstruction(style variationStyle, basePrompt string) string {
	return fmt.Sprintf(`You are an expert at creating image generation prompts for advertising photography.

TASK: Convert this base advertising prompt into a professional, detailed image prompt (MAX 1800 characters).

CRITICAL REQUIREMENTS:
1. COPY ALL USER TEXT EXACTLY - do not change any headlines, prices, features, or contact info
2. Keep total output under 1800 characters
3. Use EXACTLY these specifications for VARIATION %d:
   - Model: %s
   - Model Position: %s
   - Product Placement: %s
4. FULL-BLEED COMPOSITION: Content must extend edge-to-edge with NO frames, NO borders, NO mockups, NO device screens, NO containers around the image
5. CONTENT SAFETY: All content must be family-friendly, professional, and appropriate for all ages (no 18+ content, no suggestive poses, no revealing clothing)
6. ATTIRE GUIDELINES: Dress the model appropriately for the category (e.g., medical scrubs for healthcare, chef uniform for food, business suit for corporate, casual professional for tech)

YOUR CREATIVE FREEDOM (make each variation unique):
- Choose lighting style (warm/dramatic/natural/etc)
- Choose background colors and gradients
- Choose overall aesthetic (minimalist/bold/elegant/etc)
- Add photography details (depth of field, camera angle, etc)
- Make this variation DISTINCTLY DIFFERENT from others

FORMAT:
Start with: "%s positioned on %s, product on %s."
Then add all text elements with EXACT user text.
Then add your creative lighting, background, and aesthetic choices.
End with: "Full-bleed edge-to-edge composition, no frames or borders, content extends to all edges."

BASE PROMPT (copy all text EXACTLY):
%s

OUTPUT ENHANCED PROMPT (under 1800 chars, exact text, creative styling):`,
		style.number, style.model, style.position, style.productPosition,
		style.model, style.position, style.productPosition, basePrompt)
}

// promptsFromImage builds variations that pair a vision description with
// the user's text overlays.
func promptsFromImage(description string, params map[string]any, n int) []string {
	labels := []struct{ key, label string }{
		{"headline", "headline text"},
		{"subheadline", "subheadline"},
		{"brand_name", "brand name"},
		{"product_name", "product name"},
		{"price", "price"},
		{"original_price", "original price"},
		{"discount_text", "discount offer"},
		{"offer_label", "offer badge"},
		{"cta_text", "call-to-action button"},
		{"feature_list", "features"},
		{"body_copy", "description"},
		{"contact_info", "contact information"},
		{"location", "location"},
		{"color_theme", "color theme"},
		{"background_color", "background color"},
		{"text_color", "text color"},
	}

	var elems []string
	for _, l := range labels {
		if v, ok := params[l.key]; ok && isFilled(v) {
			elems = append(elems, fmt.Sprintf("%s '%v'", l.label, v))
		}
	}
	allText := strings.Join(elems, ", ")

	var prompts []string
	if allText != "" {
		prompts = []string{
			fmt.Sprintf("%s IMPORTANT: Add these text overlays to the image: %s. Make sure all text is clearly visible and readable.", description, allText),
			fmt.Sprintf("Recreate this exact visual: %s. Include these text elements prominently: %s. Text should be clear and legible.", description, allText),
			fmt.Sprintf("%s Add the following text overlays in appropriate positions: %s. Ensure text is visible, well-positioned, and matches the image style.", description, allText),
		}
	} else {
		for i := 0; i < n; i++ {
			prompts = append(prompts, description)
		}
	}

	if len(prompts) > n {
		prompts = prompts[:n]
	}
	for len(prompts) < n {
		prompts = append(prompts, fmt.Sprintf("Exact visual recreation: %s. Text overlays to include: %s. Make text prominent and readable.", description, allText))
	}
	return prompts
}

// isFilled reports whether a request value carries actual content.
func isFilled(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		for _, item := range t {
			if isFilled(item) {
				return true
			}
		}
		return false
	case []string:
		for _, item := range t {
			if strings.TrimSpace(item) != "" {
				return true
			}
		}
		return false
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}

func str(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return strings.TrimSpace(v)
}

// buildBasePrompt assembles the deterministic base prompt from every
// filled ad parameter. Field ordering is fixed so identical inputs yield
// identical prompts.
func buildBasePrompt(params map[string]any) string {
	productName := str(params, "product_name")
	category := str(params, "category")
	brandName := str(params, "brand_name")

	headline := str(params, "headline")
	subheadline := str(params, "subheadline")
	bodyCopy := str(params, "body_copy")
	tagline := str(params, "tagline")

	price := str(params, "price")
	originalPrice := str(params, "original_price")
	discountText := str(params, "discount_text")
	offerLabel := str(params, "offer_label")

	featureList := featureText(params["feature_list"])

	contactInfo := str(params, "contact_info")
	phone := str(params, "phone")
	email := str(params, "email")
	website := str(params, "website")
	location := str(params, "location")

	ctaText := str(params, "cta_text")

	colorTheme := str(params, "color_theme")
	backgroundColor := str(params, "background_color")
	textColor := str(params, "text_color")

	var parts []string

	switch {
	case category != "":
		parts = append(parts, fmt.Sprintf("Create a clean, modern %s advertising poster with a realistic and professional layout", category))
	case productName != "":
		parts = append(parts, fmt.Sprintf("Create a clean, modern advertising poster for %s with a realistic and professional layout", productName))
	default:
		parts = append(parts, "Create a clean, modern advertising poster with a realistic and professional layout")
	}

	if brandName != "" {
		parts = append(parts, "Brand: "+brandName)
	}
	if productName != "" && productName != "product" {
		parts = append(parts, "Product/Service: "+productName)
	}
	if headline != "" {
		parts = append(parts, fmt.Sprintf("Main Headline (large, prominent): '%s'", headline))
	}
	if subheadline != "" {
		parts = append(parts, fmt.Sprintf("Subheadline: '%s'", subheadline))
	}
	if bodyCopy != "" {
		parts = append(parts, fmt.Sprintf("Description: '%s'", bodyCopy))
	}
	if featureList != "" {
		parts = append(parts, "Features Section (display exactly as written):\n"+featureList)
	}

	var pricing []string
	if price != "" {
		pricing = append(pricing, fmt.Sprintf("Price: '%s'", price))
	}
	if originalPrice != "" {
		pricing = append(pricing, fmt.Sprintf("Original Price (crossed out): '%s'", originalPrice))
	}
	if discountText != "" {
		pricing = append(pricing, fmt.Sprintf("Discount/Offer: '%s'", discountText))
	}
	if offerLabel != "" {
		pricing = append(pricing, fmt.Sprintf("Offer Badge: '%s'", offerLabel))
	}
	if len(pricing) > 0 {
		parts = append(parts, "Pricing Section: "+strings.Join(pricing, ", "))
	}

	var contact []string
	if phone != "" {
		contact = append(contact, fmt.Sprintf("Phone: '%s'", phone))
	}
	if email != "" {
		contact = append(contact, fmt.Sprintf("Email: '%s'", email))
	}
	if website != "" {
		contact = append(contact, fmt.Sprintf("Website: '%s'", website))
	}
	if location != "" {
		contact = append(contact, fmt.Sprintf("Location: '%s'", location))
	}
	if contactInfo != "" {
		contact = append(contact, fmt.Sprintf("Additional Contact: '%s'", contactInfo))
	}
	if len(contact) > 0 {
		parts = append(parts, "Contact Section: "+strings.Join(contact, ", "))
	}

	if ctaText != "" {
		parts = append(parts, fmt.Sprintf("Call-to-Action Button: '%s'", ctaText))
	}
	if tagline != "" && tagline != subheadline {
		parts = append(parts, fmt.Sprintf("Tagline: '%s'", tagline))
	}

	var design []string
	if colorTheme != "" {
		design = append(design, "color theme: "+colorTheme)
	}
	if backgroundColor != "" {
		design = append(design, "background: "+backgroundColor)
	}
	if textColor != "" {
		design = append(design, "text color: "+textColor)
	}
	if len(design) > 0 {
		parts = append(parts, "Design Style: "+strings.Join(design, ", "))
	}

	parts = append(parts, qualityRequirements)

	return strings.Join(parts, ". ") + "."
}

// qualityRequirements closes every base prompt with the composition and
// content constraints that apply regardless of the filled fields.
const qualityRequirements = "Professional advertising poster composition featuring a confident, well-dressed professional man or woman in category-appropriate business attire standing naturally in the frame, visible from head down to at least the waist, occupying the right or left third of the image with sharp focus on their upper body and face, while the main product or service is prominently displayed in the remaining space, both subjects perfectly lit with studio lighting creating subtle rim light on edges, positioned against a clean gradient background transitioning from deep charcoal to midnight black, maintaining shallow depth of field with professional color grading, high-end commercial aesthetic, 4K quality, and ample negative space ensuring no elements overlap the model's face or shoulders, shot with full-frame camera perspective for authentic advertising photography feel. CRITICAL: Full-bleed edge-to-edge composition with NO frames, NO borders, NO mockups, NO device screens, NO containers - content must extend to all edges of the image canvas. CONTENT SAFETY: All content must be family-friendly, professional, and appropriate for all ages with modest, professional attire suitable for the category (business suit, medical scrubs, chef uniform, etc.) - absolutely NO revealing clothing, NO suggestive poses, NO 18+ content"

// featureText renders the feature_list parameter, which clients send as
// either a string or a list, into bullet lines.
func featureText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		var lines []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				lines = append(lines, "• "+strings.TrimSpace(s))
			}
		}
		return strings.Join(lines, "\n")
	case []string:
		var lines []string
		for _, s := range t {
			if strings.TrimSpace(s) != "" {
				lines = append(lines, "• "+strings.TrimSpace(s))
			}
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

const describePrompt = `You are an expert at describing images for AI image generation. Analyze this image in EXTREME detail to recreate it EXACTLY.

Describe EVERY visual element you see: the main subject and its exact position, specific color names, lighting direction and quality, background type and gradients, composition and negative space, surfaces and materials, photography style and effects, and depth of field.

CRITICAL: Describe this image so precisely that someone could recreate it EXACTLY without seeing it. Include measurements, percentages, exact color names, specific positions. Be extremely detailed - aim for 8-12 sentences covering every visual aspect.

IGNORE any text in the image - describe only the visual elements, composition, colors, lighting, and style.`

func (s *promptService) describeImage(ctx context.Context, imageBase64 string) (string, error) {
	cleaned, mediaType := normalizeImagePayload(imageBase64)
	return s.text.Complete(ctx, genai.CompletionRequest{
		Prompt:      describePrompt,
		ImageBase64: cleaned,
		ImageType:   mediaType,
	})
}

const extractionPrompt = `You are an expert at analyzing advertising posters. Analyze this image and extract ALL information.

OUTPUT FORMAT (JSON):
{
  "visual_description": "Detailed description of the visual scene (person, product, background, lighting, composition) - 3-4 sentences",
  "headline": "Main headline text (if visible)",
  "subheadline": "Subheadline text (if visible)",
  "body_copy": "Body text or description (if visible)",
  "price": "Price (if visible)",
  "original_price": "Original/crossed-out price (if visible)",
  "discount_text": "Discount or offer text (if visible)",
  "offer_label": "Badge text like 'SALE', 'NEW', 'LIMITED' (if visible)",
  "phone": "Phone number (if visible)",
  "email": "Email address (if visible)",
  "website": "Website URL (if visible)",
  "location": "Location or address (if visible)",
  "cta_text": "Call-to-action button text (if visible)",
  "brand_name": "Brand or company name (if visible)",
  "features": ["Feature 1", "Feature 2", "Feature 3"],
  "color_theme": "Main colors used (e.g., 'Gold, Navy Blue')",
  "background_color": "Background color or gradient",
  "category": "Best category: Real Estate, Mobile, Fashion, Food, Education, Travel, or General"
}

INSTRUCTIONS:
1. Extract ALL visible text exactly as written
2. Describe the visual scene in detail (person, product, background, lighting)
3. Identify the main colors and design style
4. Suggest the best category for this type of ad
5. If a field has no visible text, use empty string ""
6. For features, extract bullet points or key features if visible

Be thorough - extract every piece of text you can see!`

func (s *promptService) AnalyzeImage(ctx context.Context, imageBase64 string) (*ImageAnalysis, error) {
	if strings.TrimSpace(imageBase64) == "" {
		return nil, ErrImageRequired
	}

	cleaned, mediaType := normalizeImagePayload(imageBase64)
	out, err := s.text.Complete(ctx, genai.CompletionRequest{
		Prompt:      extractionPrompt,
		ImageBase64: cleaned,
		ImageType:   mediaType,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	fields, err := extractJSON(out)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	description, _ := fields["visual_description"].(string)
	return &ImageAnalysis{VisualDescription: description, Fields: fields}, nil
}

func autofillInstruction(productDescription, category, brandName string) string {
	if category == "" {
		category = "general"
	}
	if brandName == "" {
		brandName = "not specified"
	}
	return fmt.Sprintf(`You are a professional advertising copywriter. Generate SHORT, CONCISE content for an advertising poster. Keep ALL text very brief for better AI image generation.

PRODUCT INFORMATION:
- Description: %s
- Category: %s
- Brand: %s

CRITICAL: Keep ALL text VERY SHORT (3-4 words maximum per field) for optimal AI image text rendering!

Generate these fields with MINIMAL text: headline (2-4 words), subheadline (3-5 words), body_copy (5-8 words), features (3-4 entries, each 2-3 words), price, original_price, discount_text (2-3 words), offer_label (1-2 words), phone, email, website, location (city/area only), cta_text (1-2 words), tagline (2-4 words), color_theme (2 colors), background_color (1 color or simple gradient).

OUTPUT FORMAT (JSON):
{
  "headline": "...",
  "subheadline": "...",
  "body_copy": "...",
  "features": ["...", "...", "...", "..."],
  "price": "...",
  "original_price": "...",
  "discount_text": "...",
  "offer_label": "...",
  "phone": "...",
  "email": "...",
  "website": "...",
  "location": "...",
  "cta_text": "...",
  "tagline": "...",
  "color_theme": "...",
  "background_color": "..."
}

Generate SHORT, CONCISE content now (remember: 2-4 words per field!):`, productDescription, category, brandName)
}

func (s *promptService) AutofillFields(ctx context.Context, productDescription, category, brandName string) (map[string]any, error) {
	if strings.TrimSpace(productDescription) == "" {
		return nil, ErrDescriptionRequired
	}

	out, err := s.text.Complete(ctx, genai.CompletionRequest{
		Prompt:      autofillInstruction(productDescription, category, brandName),
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("autofill fields: %w", err)
	}
	fields, err := extractJSON(out)
	if err != nil {
		return nil, fmt.Errorf("autofill fields: %w", err)
	}
	return fields, nil
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON pulls the first JSON object out of a model response, which
// may surround it with prose.
func extractJSON(s string) (map[string]any, error) {
	raw := jsonObjectPattern.FindString(s)
	if raw == "" {
		raw = s
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return out, nil
}

// normalizeImagePayload strips data URL prefixes and whitespace from a
// base64 image and sniffs its media type from the encoded magic bytes.
func normalizeImagePayload(imageBase64 string) (data string, mediaType string) {
	data = strings.TrimSpace(imageBase64)
	if strings.HasPrefix(data, "data:") {
		if i := strings.IndexByte(data, ','); i >= 0 {
			data = data[i+1:]
		}
	}
	data = strings.NewReplacer("\n", "", "\r", "", " ", "").Replace(data)

	switch {
	case strings.HasPrefix(data, "/9j/"):
		mediaType = "image/jpeg"
	case strings.HasPrefix(data, "iVBOR"):
		mediaType = "image/png"
	case strings.HasPrefix(data, "R0lGO"):
		mediaType = "image/gif"
	case strings.HasPrefix(data, "UklGR"):
		mediaType = "image/webp"
	default:
		mediaType = "image/png"
	}
	return data, mediaType
}
