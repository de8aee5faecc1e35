package config

const (
	// MaxTitleLength is the maximum length for item titles.
	MaxTitleLength = 255

	// MaxDescriptionLength is the maximum length for item descriptions.
	MaxDescriptionLength = 2000

	// MaxTagCount is the maximum number of tags on one item.
	MaxTagCount = 32

	// MaxTagLength is the maximum length of a single tag.
	MaxTagLength = 64
)
