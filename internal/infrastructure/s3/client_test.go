package s3infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeFromName(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeFromName("Front.JPG"))
	assert.Equal(t, "image/jpeg", ContentTypeFromName("front.jpeg"))
	assert.Equal(t, "image/png", ContentTypeFromName("logo.png"))
	assert.Equal(t, "image/webp", ContentTypeFromName("hero.webp"))
	assert.Equal(t, "application/pdf", ContentTypeFromName("window-sticker.pdf"))
	assert.Equal(t, "application/octet-stream", ContentTypeFromName("dump.bin"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "front.jpg", SanitizeFilename("front.jpg"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "my_car_photo.png", SanitizeFilename("my car photo.png"))
	assert.Equal(t, "_", SanitizeFilename(""))
	assert.Equal(t, "_", SanitizeFilename("."))
}
