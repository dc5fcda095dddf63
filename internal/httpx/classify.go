// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
)

// Classification failures. Adapters treat any of these as "source failed";
// the orchestrator logs them and moves on.
var (
	ErrRateLimited  = fmt.Errorf("rate limited")
	ErrForbidden    = fmt.Errorf("forbidden")
	ErrUnauthorized = fmt.Errorf("unauthorized")
)

// titlePattern extracts an HTML page title. Only the first titleProbeLen
// bytes of the body are searched.
var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

const titleProbeLen = 1000

// maxBodyLen bounds how much of an upstream response is read. Providers
// never legitimately return more than a few MB of JSON for a search page.
const maxBodyLen = 8 << 20

// DecodeJSON classifies resp and, when it is usable JSON, decodes the body
// into v. Upstream providers under load routinely return HTML maintenance
// pages or CAPTCHAs with a 200 status; decoding such a body as JSON is the
// dominant failure mode this guards against, so every JSON adapter must
// route its responses through here.
//
// Rules, in order: non-200 statuses map to errors (429, 403 and 401 get
// dedicated sentinels); a declared HTML content-type is reported as a
// disguised error page with its <title>; a parse failure on a body that
// starts with '<' is reported as HTML masquerading as JSON.
//
// DecodeJSON consumes resp.Body but does not close it.
func DecodeJSON(resp *http.Response, v any) error {
	if err := classifyStatus(resp.StatusCode); err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyLen))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if isHTMLContentType(ct) {
		return fmt.Errorf("html: %s", htmlTitle(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		trimmed := strings.TrimSpace(string(body))
		if strings.HasPrefix(trimmed, "<") {
			return fmt.Errorf("html masquerading as json")
		}
		return fmt.Errorf("parse error: %v", err)
	}
	return nil
}

// ReadBody classifies resp status and returns the raw body. XML and HTML
// adapters use this where JSON decoding does not apply.
func ReadBody(resp *http.Response) ([]byte, error) {
	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyLen))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

func classifyStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("http %d", code)
	}
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "html") && !strings.Contains(ct, "json")
}

// htmlTitle extracts the page <title> from the first titleProbeLen bytes
// of body, best effort.
func htmlTitle(body []byte) string {
	probe := body
	if len(probe) > titleProbeLen {
		probe = probe[:titleProbeLen]
	}
	if m := titlePattern.FindSubmatch(probe); m != nil {
		return strings.TrimSpace(string(m[1]))
	}
	return "unknown error page"
}
