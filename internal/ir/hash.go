package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainReport separates report digests from any other hash use.
const DomainReport = "tablas/report/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ReportHash computes a stable digest of an audit outcome: the audited
// document title and its records in order. Two passes over an unchanged
// document produce the same hash.
func ReportHash(document string, records []ElementRecord) (string, error) {
	recs := make([]any, len(records))
	for i, r := range records {
		recs[i] = recordTree(r)
	}
	canonical, err := MarshalCanonical(map[string]any{
		"document": document,
		"records":  recs,
		"version":  ReportVersion,
	})
	if err != nil {
		return "", fmt.Errorf("ReportHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainReport, canonical), nil
}

func recordTree(r ElementRecord) map[string]any {
	items := make([]any, len(r.Items))
	for i, it := range r.Items {
		items[i] = map[string]any{
			"kind":        string(it.Kind),
			"current":     it.Current,
			"expected":    it.Expected,
			"status":      string(it.Status),
			"message":     it.Message,
			"correctable": it.Correctable(),
		}
	}
	return map[string]any{
		"id":       int64(r.ID),
		"name":     r.Name,
		"category": r.Category,
		"code":     string(r.Code),
		"takeoff":  r.IsMaterialTakeoff,
		"system":   r.System,
		"items":    items,
	}
}
