/*
File    : ruchy/internal/interp/builtin/http.go
*/

// http.go generalizes go-mix's std/http.go client helpers onto the
// stdlib net/http package. Only a blocking request/response surface
// is exposed; no server-side builtins are registered.
package builtin

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func doRequest(method, url, body string, headers map[string]value.Value) (value.Value, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("http_%s: %w", strings.ToLower(method), err)
	}
	for k, v := range headers {
		req.Header.Set(k, v.String())
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http_%s: %w", strings.ToLower(method), err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("http_%s: reading response: %w", strings.ToLower(method), err)
	}
	result := value.NewMap()
	result.Set(&value.Str{Value: "status"}, &value.Int{Value: int64(resp.StatusCode)})
	result.Set(&value.Str{Value: "body"}, &value.Str{Value: string(data)})
	return result, nil
}

func init() {
	get := func(rt value.Runtime, args []value.Value) (value.Value, error) {
		url, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return doRequest(http.MethodGet, url, "", nil)
	}
	registerFunc("http_get", get)
	registerFunc("__builtin_http_get__", get)

	post := func(rt value.Runtime, args []value.Value) (value.Value, error) {
		url, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		body := ""
		if len(args) > 1 {
			body, err = strArg(args, 1)
			if err != nil {
				return nil, err
			}
		}
		return doRequest(http.MethodPost, url, body, nil)
	}
	registerFunc("http_post", post)
	registerFunc("__builtin_http_post__", post)
}
