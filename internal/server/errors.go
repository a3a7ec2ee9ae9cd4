package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrResponse is the JSON body of every failed request
type ErrResponse struct {
	HTTPStatusCode int    `json:"-"`
	Message        string `json:"message"`
}

// Render implements render.Renderer
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrBadRequest reports a problem with the uploaded file
func ErrBadRequest(message string) render.Renderer {
	return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Message: message}
}

// ErrInternal reports an unexpected failure
func ErrInternal(err error) render.Renderer {
	return &ErrResponse{HTTPStatusCode: http.StatusInternalServerError, Message: err.Error()}
}
