// Package problems writes RFC 7807 problem+json responses.
package problems

import (
	"encoding/json"
	"net/http"
)

const (
	TypeValidation      = "https://rastro.app/problems/validation-error"
	TypeNotFound        = "https://rastro.app/problems/not-found"
	TypeTenantNotFound  = "https://rastro.app/problems/tenant-not-found"
	TypeTenantSuspended = "https://rastro.app/problems/tenant-suspended"
	TypeUnauthorized    = "https://rastro.app/problems/unauthorized"
	TypeInternal        = "https://rastro.app/problems/internal-error"
)

// Problem is the wire body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Write encodes p with the problem+json content type.
func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// New builds a Problem.
func New(status int, problemType, title, detail string) Problem {
	return Problem{Type: problemType, Title: title, Status: status, Detail: detail}
}
