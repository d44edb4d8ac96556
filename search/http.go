package search

import (
	"context"
	"net/http"
	"time"
)

// maxResults caps how many hits a result-list provider renders.
const maxResults = 5

const maxBackoff = 30 * time.Second

// doWithBackoff sends the request built by newReq, retrying on 429 with a
// doubling delay capped at maxBackoff.
func doWithBackoff(ctx context.Context, client *http.Client, newReq func() (*http.Request, error)) (*http.Response, error) {
	delay := time.Second
	for {
		req, err := newReq()
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < maxBackoff {
			delay *= 2
		}
	}
}
