package server

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
)

//go:embed client.js
var clientJS []byte

var clientETag = func() string {
	sum := sha256.Sum256(clientJS)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:]))
}()

// ClientJS returns the thin client served at ClientPath.
func ClientJS() []byte { return clientJS }

func (s *Server[Model, Msg]) serveThinClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("ETag", clientETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")

	if etagMatches(r.Header.Get("If-None-Match"), clientETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(clientJS)
}

func etagMatches(ifNoneMatchHeader, etag string) bool {
	if ifNoneMatchHeader == "" || etag == "" {
		return false
	}
	// If-None-Match: "abc", W/"def"
	for _, part := range strings.Split(ifNoneMatchHeader, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == etag || candidate == "*" {
			return true
		}
		if strings.HasPrefix(candidate, "W/") && strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
