package middleware

import (
	"encoding/json"
	"net/http"

	apimodel "github.com/petgateway/petgateway/pkg/model"
)

// writeError writes the gateway error payload.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apimodel.Error{Code: code, Message: message})
}
