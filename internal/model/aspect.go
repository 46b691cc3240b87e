package model

// Aspect ratio presets. Each maps to a fixed pixel size; the square presets
// are the only ones every image model supports natively.
const (
	AspectInstagramPost    = "instagram_post"
	AspectInstagramStory   = "instagram_story"
	AspectFacebookPost     = "facebook_post"
	AspectLinkedInPost     = "linkedin_post"
	AspectPinterest        = "pinterest"
	AspectTwitterPost      = "twitter_post"
	AspectYouTubeThumbnail = "youtube_thumbnail"
	AspectWideBanner       = "wide_banner"
)

// DefaultSize is used when a request omits both size and aspect ratio.
const DefaultSize = "1024x1024"

var aspectSizes = map[string]string{
	AspectInstagramPost:    "1024x1024",
	AspectFacebookPost:     "1024x1024",
	AspectLinkedInPost:     "1024x1024",
	AspectInstagramStory:   "1024x1792",
	AspectPinterest:        "1024x1792",
	AspectTwitterPost:      "1792x1024",
	AspectYouTubeThumbnail: "1792x1024",
	AspectWideBanner:       "1792x1024",
}

// aspects preserves the documented ordering for listings.
var aspects = []string{
	AspectInstagramPost,
	AspectInstagramStory,
	AspectFacebookPost,
	AspectLinkedInPost,
	AspectPinterest,
	AspectTwitterPost,
	AspectYouTubeThumbnail,
	AspectWideBanner,
}

// AspectSize resolves a preset name to its pixel size.
func AspectSize(name string) (string, bool) {
	size, ok := aspectSizes[name]
	return size, ok
}

// AspectSizeOrDefault resolves a preset name, falling back to DefaultSize
// for unknown names.
func AspectSizeOrDefault(name string) string {
	if size, ok := aspectSizes[name]; ok {
		return size
	}
	return DefaultSize
}

// AspectRatios lists every supported preset in documentation order.
func AspectRatios() []string {
	out := make([]string, len(aspects))
	copy(out, aspects)
	return out
}
