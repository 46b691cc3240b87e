package service

import "adgallery/internal/model"

// OptionSets carries the dropdown choices the frontend renders. Keys are
// the values persisted in params; values are display labels.
type OptionSets struct {
	AdObjectives   map[string]string `json:"ad_objectives"`
	VisualStyles   map[string]string `json:"visual_styles"`
	LightingStyles map[string]string `json:"lighting_styles"`
	Backgrounds    map[string]string `json:"backgrounds"`
	ProductAngles  map[string]string `json:"product_angles"`
	CTAOptions     map[string]string `json:"cta_options"`
	AspectRatios   map[string]string `json:"aspect_ratios"`
}

var aspectRatioLabels = map[string]string{
	model.AspectInstagramPost:    "Instagram Post (1:1)",
	model.AspectInstagramStory:   "Instagram Story (9:16)",
	model.AspectFacebookPost:     "Facebook Post (1:1)",
	model.AspectLinkedInPost:     "LinkedIn Post (1:1)",
	model.AspectPinterest:        "Pinterest (9:16)",
	model.AspectTwitterPost:      "Twitter Post (16:9)",
	model.AspectYouTubeThumbnail: "YouTube Thumbnail (16:9)",
	model.AspectWideBanner:       "Wide Banner (16:9)",
}

// Options returns the static configuration sets exposed on /api/config.
func Options() OptionSets {
	return OptionSets{
		AdObjectives: map[string]string{
			"brand_awareness":    "Brand Awareness",
			"sales_boost":        "Sales Boost",
			"discount_promotion": "Discount Promotion",
			"product_launch":     "Product Launch",
			"event_promotion":    "Event Promotion",
		},
		VisualStyles: map[string]string{
			"minimal":   "Minimal & Clean",
			"premium":   "Premium & Luxury",
			"modern":    "Modern & Sleek",
			"bold":      "Bold & Vibrant",
			"cinematic": "Cinematic",
		},
		LightingStyles: map[string]string{
			"studio":        "Studio Lighting",
			"natural":       "Natural Light",
			"dramatic":      "Dramatic Lighting",
			"soft_diffused": "Soft Diffused",
			"golden_hour":   "Golden Hour",
		},
		Backgrounds: map[string]string{
			"solid_color":   "Solid Color",
			"gradient":      "Gradient",
			"studio_white":  "Studio White",
			"studio_black":  "Studio Black",
			"blurred_depth": "Blurred Background",
		},
		ProductAngles: map[string]string{
			"front_view": "Front View",
			"45_degree":  "45° Angle",
			"top_view":   "Top View",
			"floating":   "Floating",
		},
		CTAOptions: map[string]string{
			"shop_now":    "Shop Now",
			"order_now":   "Order Now",
			"learn_more":  "Learn More",
			"get_started": "Get Started",
			"claim_offer": "Claim Offer",
		},
		AspectRatios: aspectRatioLabels,
	}
}
