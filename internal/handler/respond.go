package handler

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) errorBody {
	return errorBody{Message: msg}
}

// internalError carries the underlying error detail alongside the generic
// message, mirroring the {message, error} wire contract for 500s.
func internalError(err error) errorBody {
	return errorBody{Message: "something went wrong", Error: err.Error()}
}
