package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/middleware"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/response"
)

// maxUploadBytes caps the size of accepted CSV uploads.
const maxUploadBytes = 10 << 20 // 10 MB

// parseJSON decodes a request body into the given request type.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}
	return req, nil
}

// requireUser extracts the authenticated user id, writing a 401 when the
// request carries none. The bool reports whether the caller may proceed.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", nil)
		return "", false
	}
	return userID, true
}

// readUploadedFile pulls the "file" field out of a multipart form and
// returns its contents.
func readUploadedFile(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return string(data), nil
}
