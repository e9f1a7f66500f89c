package model

import "time"

// AuditLog is one request audit entry. Bodies are stored post-redaction;
// raw credentials must never reach this struct.
type AuditLog struct {
	ID           string                 `json:"id"`
	TenantID     string                 `json:"tenant_id,omitempty"`
	Method       string                 `json:"method"`
	Path         string                 `json:"path"`
	IP           string                 `json:"ip"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	StatusCode   int                    `json:"status_code"`
	RequestBody  string                 `json:"request_body,omitempty"`
	ResponseBody string                 `json:"response_body,omitempty"`
	LatencyMs    int64                  `json:"latency_ms"`
	Context      map[string]interface{} `json:"context,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}
