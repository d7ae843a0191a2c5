// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"
)

// Do executes req and classifies the outcome. Network-level failures are
// transient unless the context was cancelled, in which case the context
// error is returned unchanged. HTTP 429 and 5xx are transient; any other
// non-2xx status is permanent. On a classified status error the response
// body is drained and closed before returning. A 2xx response is returned
// open for the caller to parse.
func Do(ctx context.Context, client *http.Client, req *http.Request, provider string) (*http.Response, error) {
	resp, err := client.Do(req.Clone(ctx))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransientError{Provider: provider, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &TransientError{Provider: provider, Status: resp.StatusCode}
	}
	return nil, &PermanentError{Provider: provider, Status: resp.StatusCode}
}
