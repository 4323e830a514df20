package qr

// ImageRequest binds the optional size query parameter.
type ImageRequest struct {
	Size string `form:"size"`
}

const (
	defaultSize = 256
	minSize     = 128
	maxSize     = 1024
)
