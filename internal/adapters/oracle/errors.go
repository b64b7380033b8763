package oracle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Sentinel kinds for oracle errors.
var (
	ErrUnavailable = errors.New("oracle unavailable")
	ErrBadResponse = errors.New("oracle returned malformed response")
	ErrNoResult    = errors.New("oracle returned no result")
)

// SchemaError reports a PostgREST schema problem, typically a broken
// relationship between tables (code PGRST200). It signals that the
// matching RPC is structurally unusable, not transiently failing, so
// callers should switch to the unscored fallback.
type SchemaError struct {
	Code    string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("oracle schema error %s: %s", e.Code, e.Message)
}

// IsSchemaError reports whether err carries a PostgREST schema error.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// responseError classifies a non-2xx oracle response.
func responseError(resp *resty.Response) error {
	body := gjson.ParseBytes(resp.Body())
	code := body.Get("code").String()
	message := body.Get("message").String()

	if code == "PGRST200" || strings.Contains(strings.ToLower(message), "relationship") {
		return &SchemaError{Code: code, Message: message}
	}
	return fmt.Errorf("%w: status %d code %q: %s", ErrUnavailable, resp.StatusCode(), code, message)
}
