package validation

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("sam@example.com"))
	assert.NoError(t, ValidateEmail("sam+journal@example.co.uk"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@domain@example.com"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("orange-battery-kite-42"))

	assert.Error(t, ValidatePassword("short"), "below minimum length")
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)), "above bcrypt limit")
	assert.Error(t, ValidatePassword("mypassword12345"), "contains a common pattern")
	assert.Error(t, ValidatePassword("QWERTYqwerty12"), "block list is case insensitive")
}

func multipartAudioHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["audio"][0]
}

func TestValidateAudio(t *testing.T) {
	// Arbitrary bytes sniff as application/octet-stream; the extension
	// decides.
	header := multipartAudioHeader(t, "session.m4a", []byte("not really audio"))
	assert.NoError(t, ValidateAudio(header))

	header = multipartAudioHeader(t, "session.txt", []byte("not really audio"))
	assert.Error(t, ValidateAudio(header), "extension not allowed")

	header = multipartAudioHeader(t, "page.m4a", []byte("<html><body>hi</body></html>"))
	assert.Error(t, ValidateAudio(header), "sniffed type not allowed")
}
