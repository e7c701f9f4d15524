package api

import (
	"encoding/json/v2"
	"io"
	"net/http"
)

// maxBodySize caps JSON request bodies. EPUB uploads go through
// multipart and are not subject to this limit.
const maxBodySize = 1 << 20 // 1 MiB

// decodeBody reads and decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}
