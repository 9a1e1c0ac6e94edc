package server

import (
	"fmt"
	"net/http"
)

// decodeForm parses the request body into dst using its form tags.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}

	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("failed to decode form: %w", err)
	}

	return nil
}
