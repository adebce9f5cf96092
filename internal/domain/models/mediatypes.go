// internal/domain/models/mediatypes.go
package models

// Canonical media type identifiers stored in Story.MediaType.
const (
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
	MediaTypePDF   = "pdf"
)

// MediaTypes is the full set of allowed media type identifiers.
var MediaTypes = []string{MediaTypeVideo, MediaTypeAudio, MediaTypePDF}

// allowedMIME maps a media type to the content types an upload may carry.
var allowedMIME = map[string][]string{
	MediaTypeVideo: {"video/mp4", "video/webm", "video/ogg"},
	MediaTypeAudio: {"audio/mpeg", "audio/wav", "audio/ogg"},
	MediaTypePDF:   {"application/pdf"},
}

// IsValidMediaType reports whether t is one of MediaTypes.
func IsValidMediaType(t string) bool {
	_, ok := allowedMIME[t]
	return ok
}

// AllowedMIMETypes returns the accepted content types for mediaType,
// or nil when mediaType is unknown.
func AllowedMIMETypes(mediaType string) []string {
	return allowedMIME[mediaType]
}

// AllowsMIME reports whether a file with content type mime may be uploaded
// as mediaType. mime must already be stripped of parameters.
func AllowsMIME(mediaType, mime string) bool {
	for _, m := range allowedMIME[mediaType] {
		if m == mime {
			return true
		}
	}
	return false
}
