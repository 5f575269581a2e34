package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/graphline/graphline/pkg/template"
)

// executeAPI performs one HTTP call. GET sends scalar payload fields as
// query parameters; POST and PUT send the whole payload as a JSON body.
// Non-2xx responses are errors. The result is the parsed JSON body, or the
// raw text when the body is not JSON.
func (n *ToolNode) executeAPI(ctx context.Context, input map[string]any) (any, error) {
	endpoint := n.configString("api_endpoint")
	if endpoint == "" {
		return nil, errors.New("missing required field 'api_endpoint'")
	}

	method := strings.ToUpper(n.configString("api_method"))
	if method == "" {
		method = http.MethodGet
	}

	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return nil, fmt.Errorf("unsupported api_method %q", method)
	}

	var body io.Reader

	if method == http.MethodGet {
		rendered, err := appendQueryParams(endpoint, input)
		if err != nil {
			return nil, err
		}

		endpoint = rendered
	} else {
		data, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if headers, ok := n.config["headers"].(map[string]any); ok {
		for key, value := range headers {
			if strVal, ok := value.(string); ok {
				req.Header.Set(key, strVal)
			}
		}
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed any
	if err := json.Unmarshal(respBody, &parsed); err == nil {
		return parsed, nil
	}

	return string(respBody), nil
}

// appendQueryParams adds each scalar payload field as a query parameter.
func appendQueryParams(endpoint string, input map[string]any) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid api_endpoint %q: %w", endpoint, err)
	}

	query := parsed.Query()

	for key, value := range input {
		if template.IsScalar(value) {
			query.Set(key, template.Stringify(value))
		}
	}

	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
