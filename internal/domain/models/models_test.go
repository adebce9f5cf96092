package models

import "testing"

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"director", true},
		{"producer", true},
		{"Director", false},
		{"admin", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := IsValidRole(tt.role); got != tt.want {
				t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestAllowsMIME(t *testing.T) {
	tests := []struct {
		mediaType string
		mime      string
		want      bool
	}{
		{"video", "video/mp4", true},
		{"video", "video/webm", true},
		{"video", "video/ogg", true},
		{"video", "audio/mpeg", false},
		{"audio", "audio/mpeg", true},
		{"audio", "audio/wav", true},
		{"audio", "audio/ogg", true},
		{"audio", "video/mp4", false},
		{"pdf", "application/pdf", true},
		{"pdf", "image/png", false},
		{"image", "image/png", false},
		{"", "video/mp4", false},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType+"_"+tt.mime, func(t *testing.T) {
			if got := AllowsMIME(tt.mediaType, tt.mime); got != tt.want {
				t.Errorf("AllowsMIME(%q, %q) = %v, want %v", tt.mediaType, tt.mime, got, tt.want)
			}
		})
	}
}

func TestIsValidMediaType(t *testing.T) {
	for _, mt := range MediaTypes {
		if !IsValidMediaType(mt) {
			t.Errorf("IsValidMediaType(%q) = false, want true", mt)
		}
	}
	if IsValidMediaType("image") {
		t.Error("IsValidMediaType(\"image\") = true, want false")
	}
	if got := AllowedMIMETypes("image"); got != nil {
		t.Errorf("AllowedMIMETypes(\"image\") = %v, want nil", got)
	}
}
