// Package httputil provides the HTTP client used to fetch remote metadata
// documents.
//
// # Overview
//
//   - [Client]: GET requests with default headers, JSON decoding and a
//     read-through [cache.Cache]
//   - [Retry]: repeats a fetch on transient failures under a [Policy]
//
// # Attempts
//
// A [Client] attempts each fetch once. A failed metadata load is reported to
// the user, who reloads explicitly. Callers that want transient failures
// repeated set a policy:
//
//	client := httputil.NewClient(c, "docs:", time.Hour, nil).
//	    WithRetry(httputil.Policy{Attempts: 3, Delay: time.Second})
//
// Network errors and 5xx responses are transient ([RetryableError]); 404 and
// other 4xx responses fail at once.
package httputil
