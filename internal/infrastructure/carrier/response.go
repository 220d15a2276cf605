package carrier

import "encoding/json"

// maxCarrierResponseSize limits response body size to prevent memory exhaustion
const maxCarrierResponseSize = 10 * 1024 * 1024 // 10MB max response

// carrierErrorMessage pulls a human-readable message out of a carrier error
// body. Carrier error vocabularies are inconsistent; the common shapes carry
// either "message" or "error" at the top level.
func carrierErrorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
