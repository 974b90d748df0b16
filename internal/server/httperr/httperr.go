// Package httperr writes uniform JSON error responses. All error bodies share
// one shape so clients can parse failures without knowing the endpoint:
//
//	{"status_code": 401, "content": {"msg": "...", "loc": "..."}}
package httperr

import (
	"encoding/json"
	"log"
	"net/http"
)

type payload struct {
	StatusCode int     `json:"status_code"`
	Content    content `json:"content"`
}

type content struct {
	Msg string `json:"msg"`
	Loc string `json:"loc,omitempty"`
}

// internalMsg deliberately reveals nothing about the failure.
const internalMsg = "The server encountered an unexpected condition that prevented it from fulfilling the request."

// Write writes the error payload with the given status. loc names the request
// field(s) the error relates to and may be empty.
func Write(w http.ResponseWriter, status int, msg, loc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload{
		StatusCode: status,
		Content:    content{Msg: msg, Loc: loc},
	}); err != nil {
		log.Printf("httperr: encode response: %v", err)
	}
}

// Unauthorized writes a 401 with a WWW-Authenticate challenge.
func Unauthorized(w http.ResponseWriter, msg, loc string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	Write(w, http.StatusUnauthorized, msg, loc)
}

// Conflict writes a 409.
func Conflict(w http.ResponseWriter, msg, loc string) {
	Write(w, http.StatusConflict, msg, loc)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, msg string) {
	Write(w, http.StatusNotFound, msg, "")
}

// Unprocessable writes a 422 for request validation failures.
func Unprocessable(w http.ResponseWriter, msg, loc string) {
	Write(w, http.StatusUnprocessableEntity, msg, loc)
}

// Internal logs err and writes a generic 500.
func Internal(w http.ResponseWriter, err error) {
	log.Printf("internal error: %v", err)
	Write(w, http.StatusInternalServerError, internalMsg, "")
}

// Unavailable writes a 503 for dependency failures the client may retry.
func Unavailable(w http.ResponseWriter, msg string) {
	Write(w, http.StatusServiceUnavailable, msg, "")
}
