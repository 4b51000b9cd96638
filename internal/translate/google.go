// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// googleAPIBase is the unauthenticated web-client translation endpoint.
// Declared as a var so tests can substitute an httptest server.
var googleAPIBase = "https://translate.googleapis.com/translate_a/single"

// Google translates through the free gtx web endpoint.
type Google struct {
	client *http.Client
	source string
	target string
	agent  string
}

// NewGoogle builds the google backend from configuration.
func NewGoogle(cfg types.TranslationConfig) *Google {
	source, target := languages(cfg)
	if target == "zh" {
		// The gtx endpoint wants the regioned code.
		target = "zh-CN"
	}
	return &Google{
		client: httpClient(cfg.HTTPConfig),
		source: source,
		target: target,
		agent:  cfg.UserAgent,
	}
}

// Name returns the provider identifier.
func (g *Google) Name() string { return "google" }

// Translate calls the gtx endpoint and joins the returned sentence
// segments. The response is a nested JSON array; segment texts sit at
// body[0][i][0].
func (g *Google) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", g.source)
	params.Set("tl", g.target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", &RejectedContentError{Err: fmt.Errorf("creating request: %w", err)}
	}
	if g.agent != "" {
		req.Header.Set("User-Agent", g.agent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, "google")
	}

	var body []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &TransientError{Err: fmt.Errorf("parsing google response: %w", err)}
	}
	if len(body) == 0 {
		return "", &TransientError{Err: fmt.Errorf("empty google response")}
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(body[0], &segments); err != nil {
		return "", &TransientError{Err: fmt.Errorf("parsing google segments: %w", err)}
	}

	var out strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		out.WriteString(piece)
	}

	translated := strings.TrimSpace(out.String())
	if translated == "" {
		return "", &TransientError{Err: fmt.Errorf("google returned no translation")}
	}
	return translated, nil
}
