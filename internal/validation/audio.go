package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// AudioConstraints bounds recording uploads. Sniffed MIME types for m4a
// come back as video/mp4 containers, so both are allowed.
var AudioConstraints = struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}{
	AllowedMimeTypes: map[string]bool{
		"audio/mpeg":  true,
		"audio/wave":  true,
		"audio/wav":   true,
		"audio/x-wav": true,
		"audio/aac":   true,
		"video/mp4":   true, // m4a container
	},
	AllowedExtensions: map[string]bool{
		".m4a": true,
		".mp3": true,
		".wav": true,
		".aac": true,
	},
	MaxSize: 25 << 20, // 25MB, ~10 minutes of voice
}

// ValidateAudio checks an uploaded recording's size, sniffed content type
// and extension. The content check reads the first 512 bytes and rewinds.
func ValidateAudio(header *multipart.FileHeader) error {
	if header.Size > AudioConstraints.MaxSize {
		return fmt.Errorf("recording too large: maximum size is %d MB", AudioConstraints.MaxSize/(1<<20))
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer func() { _ = file.Close() }()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read recording: %w", err)
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, err = seeker.Seek(0, 0)
		if err != nil {
			return fmt.Errorf("failed to rewind recording: %w", err)
		}
	}

	detected := http.DetectContentType(buffer[:n])
	// DetectContentType is coarse for audio; accept the generic fallback
	// as long as the extension checks out.
	if detected != "application/octet-stream" && !AudioConstraints.AllowedMimeTypes[detected] {
		return fmt.Errorf("invalid recording type (detected: %s)", detected)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !AudioConstraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid recording extension: %s", ext)
	}

	return nil
}
