package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/powercore-shop/storefront/pkg/errors"
	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/metrics"
)

const apiPrefix = "/api/v1"

const maxErrorBodyBytes = 64 << 10

// TokenSource supplies the bearer token for authenticated calls. An empty
// string means the request goes out unauthenticated, which the backend
// permits for browsing and guest checkout.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a closure to a TokenSource, which keeps wiring simple when
// the token owner is constructed after the client.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client is the typed HTTP wrapper around the storefront backend API.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	logg     *logger.Logger
	metrics  *metrics.ClientMetrics
	validate *validator.Validate
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
	Logger     *logger.Logger
	Metrics    *metrics.ClientMetrics
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("gateway base url required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:  base,
		http:     httpClient,
		tokens:   opts.Tokens,
		logg:     opts.Logger,
		metrics:  opts.Metrics,
		validate: newRequestValidator(),
	}, nil
}

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// BaseURL reports the resolved backend base, used by the unreachable banner.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) checkRequest(payload any) error {
	if payload == nil {
		return nil
	}
	if err := c.validate.Struct(payload); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid request payload").WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request payload")
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body, dest any) error {
	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(ctx, endpoint, "transport_error", started)
		return c.normalizeTransportError(err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.observe(ctx, endpoint, fmt.Sprintf("http_%d", resp.StatusCode), started)
		return normalizeStatusError(resp.StatusCode, resp.Status, raw)
	}

	c.observe(ctx, endpoint, "ok", started)

	if dest == nil || resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding backend response")
	}
	return nil
}

func (c *Client) observe(ctx context.Context, endpoint, outcome string, started time.Time) {
	elapsed := time.Since(started)
	c.metrics.ObserveRequest(endpoint, outcome, elapsed)
	if c.logg != nil {
		ctx = c.logg.WithFields(ctx, map[string]any{
			"endpoint":    endpoint,
			"outcome":     outcome,
			"duration_ms": elapsed.Milliseconds(),
		})
		c.logg.Debug(ctx, "gateway.request")
	}
}

func (c *Client) normalizeTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "request cancelled")
	}
	msg := fmt.Sprintf("cannot reach backend at %s", c.baseURL)
	return pkgerrors.Wrap(pkgerrors.CodeUnreachable, err, msg).
		WithDetails(map[string]any{"base_url": c.baseURL})
}

type apiErrorBody struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

func normalizeStatusError(status int, statusText string, raw []byte) error {
	msg := ""
	var parsed apiErrorBody
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil {
		if parsed.Message != "" {
			msg = parsed.Message
		} else if len(parsed.Detail) > 0 {
			var detail string
			if json.Unmarshal(parsed.Detail, &detail) == nil {
				msg = detail
			}
		}
	}
	if msg == "" {
		msg = statusText
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", status)
		}
	}

	err := pkgerrors.New(codeForStatus(status), msg)
	if len(parsed.Detail) > 0 {
		var anyDetail any
		if json.Unmarshal(parsed.Detail, &anyDetail) == nil {
			err = err.WithDetails(anyDetail)
		}
	}
	return err
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	}
	return pkgerrors.CodeUpstream
}
