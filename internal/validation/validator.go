package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Failure reason classes. Every invalid result carries exactly one of these
// so callers can diagnose failures without parsing messages.
const (
	ReasonTimeout   = "timeout"
	ReasonTransport = "transport"
	ReasonBadStatus = "bad_status"
	ReasonPolicy    = "policy"
)

// WorkItem is a single unit to validate: a catalog record id plus the
// poster URL the probe checks.
type WorkItem struct {
	ItemID    string
	PosterURL string
}

// Result is the outcome of one probe. Probe failures are carried here as
// data, never as error returns.
type Result struct {
	ItemID         string    `json:"item_id"`
	IsValid        bool      `json:"is_valid"`
	PosterURL      string    `json:"poster_url,omitempty"`
	HTTPStatus     *int      `json:"http_status,omitempty"`
	ContentType    string    `json:"content_type,omitempty"`
	ResponseTimeMS *float64  `json:"response_time_ms,omitempty"`
	FileSizeBytes  *int64    `json:"file_size_bytes,omitempty"`
	ErrorReason    string    `json:"error_reason,omitempty"`
	ErrorDetail    string    `json:"error_detail,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}

// ValidatorConfig holds probe policy configuration
type ValidatorConfig struct {
	Timeout           time.Duration
	ContentTypePrefix string
	MaxFileSizeBytes  int64
	UserAgent         string
}

// Validator performs one bounded-timeout HEAD probe per work item.
type Validator struct {
	client            *http.Client
	contentTypePrefix string
	maxFileSizeBytes  int64
	userAgent         string
	logger            *slog.Logger
}

// NewValidator creates a validator with the given probe policy.
func NewValidator(cfg *ValidatorConfig, logger *slog.Logger) *Validator {
	contentTypePrefix := cfg.ContentTypePrefix
	if contentTypePrefix == "" {
		contentTypePrefix = "image/"
	}

	maxFileSize := cfg.MaxFileSizeBytes
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Validator{
		client: &http.Client{
			Timeout: timeout,
		},
		contentTypePrefix: contentTypePrefix,
		maxFileSizeBytes:  maxFileSize,
		userAgent:         cfg.UserAgent,
		logger:            logger,
	}
}

// Probe issues a single HEAD request against the item's poster URL and
// classifies the outcome. It always returns a Result; expected failure modes
// (timeout, transport error, bad status, policy violation) never surface as
// panics or process-level errors.
func (v *Validator) Probe(ctx context.Context, item WorkItem) Result {
	result := Result{
		ItemID:    item.ItemID,
		PosterURL: item.PosterURL,
		CheckedAt: time.Now().UTC(),
	}

	if item.PosterURL == "" {
		result.ErrorReason = ReasonPolicy
		result.ErrorDetail = "no poster url"
		return result
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, item.PosterURL, nil)
	if err != nil {
		result.ErrorReason = ReasonTransport
		result.ErrorDetail = fmt.Sprintf("invalid url: %s", err)
		return result
	}
	if v.userAgent != "" {
		req.Header.Set("User-Agent", v.userAgent)
	}

	resp, err := v.client.Do(req)
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	result.ResponseTimeMS = &elapsed

	if err != nil {
		if isTimeout(err) {
			result.ErrorReason = ReasonTimeout
			result.ErrorDetail = "request timeout"
		} else {
			result.ErrorReason = ReasonTransport
			result.ErrorDetail = fmt.Sprintf("request error: %s", err)
		}

		v.logger.Debug("Poster probe failed",
			slog.String("item_id", item.ItemID),
			slog.String("reason", result.ErrorReason),
		)
		return result
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	result.HTTPStatus = &status

	if status != http.StatusOK {
		result.ErrorReason = ReasonBadStatus
		result.ErrorDetail = fmt.Sprintf("HTTP %d", status)
		return result
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	result.ContentType = contentType
	if !strings.HasPrefix(contentType, v.contentTypePrefix) {
		result.ErrorReason = ReasonPolicy
		result.ErrorDetail = fmt.Sprintf("invalid content type: %s", contentType)
		return result
	}

	if lengthHeader := resp.Header.Get("Content-Length"); lengthHeader != "" {
		if size, parseErr := strconv.ParseInt(lengthHeader, 10, 64); parseErr == nil {
			result.FileSizeBytes = &size
			if size > v.maxFileSizeBytes {
				result.ErrorReason = ReasonPolicy
				result.ErrorDetail = fmt.Sprintf("file too large: %d bytes", size)
				return result
			}
		}
	}

	result.IsValid = true
	return result
}

// isTimeout distinguishes deadline-style failures from other transport errors.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Timeout()
	}
	return false
}
