package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/middleware"
)

// NewAuthedRequest creates an HTTP request carrying the given user identity,
// the way the auth middleware would after verifying a bearer token.
func NewAuthedRequest(method, path, userID string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// NewAuthedJSONRequest creates an authenticated request with a JSON body.
func NewAuthedJSONRequest(t *testing.T, method, path, userID string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	req := NewAuthedRequest(method, path, userID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthedUploadRequest creates an authenticated multipart upload request
// carrying the given file contents under the "file" form field, plus any
// extra form fields.
func NewAuthedUploadRequest(t *testing.T, method, path, userID, filename, contents string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write form field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := NewAuthedRequest(method, path, userID, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// DecodeJSON decodes a recorded response body into out.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}
