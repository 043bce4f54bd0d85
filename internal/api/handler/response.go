package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iconidentify/vgrabba/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeArtifact sends a as an attachment.
func writeArtifact(w http.ResponseWriter, a *domain.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.Header().Set("Content-Disposition", a.ContentDisposition())
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data)
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the cause of err without the op and URL prefix.
func errorMessage(err error) string {
	var me *domain.MediaError
	if errors.As(err, &me) && me.Err != nil {
		return me.Err.Error()
	}
	return err.Error()
}
