package model

// Package model contains domain models/data structures.
// Structs carry bson tags because documents are marshaled straight into
// MongoDB; json tags define the wire shape.

// Generation modes.
const (
	ModeCustom   = "custom"
	ModeTemplate = "template"
)

// Image reference types.
const (
	ImageTypeURL    = "url"
	ImageTypeBase64 = "base64"
)

// Storage backends recorded on image references. Older documents may lack
// the field entirely; "azure" appears only in documents migrated from the
// previous deployment.
const (
	StorageMinIO = "minio"
	StorageLocal = "local"
	StorageAzure = "azure"
)
