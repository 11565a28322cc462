package media

import "errors"

var (
	// ErrUnsupportedType is returned for uploads outside the
	// jpeg/png/webp allow-list
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrTooLarge is returned when an upload exceeds the size ceiling
	ErrTooLarge = errors.New("image exceeds upload size limit")

	// ErrUploadFailed is returned when the media host rejects an upload
	ErrUploadFailed = errors.New("media host rejected upload")
)
