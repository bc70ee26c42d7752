package mw

import (
	"net/http"
	"strconv"
)

// reject ends the request with a JSON error body matching the handlers' shape.
func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":` + strconv.Quote(msg) + "}\n"))
}
