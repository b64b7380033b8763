package oracle

import "time"

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithRetries enables resty's retry loop for transient failures.
func WithRetries(count int, wait time.Duration) Option {
	return func(c *Client) {
		if count > 0 {
			c.http.SetRetryCount(count).SetRetryWaitTime(wait)
		}
	}
}
