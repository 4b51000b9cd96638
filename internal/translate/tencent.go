// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// tencentAPIBase is the TMT endpoint. Declared as a var so tests can
// substitute an httptest server.
var tencentAPIBase = "https://tmt.tencentcloudapi.com/"

const (
	tencentService = "tmt"
	tencentVersion = "2018-03-21"
	tencentAction  = "TextTranslate"
	tencentAlgo    = "TC3-HMAC-SHA256"
)

// Tencent translates through the Tencent Cloud TMT TextTranslate API,
// signing each request with the TC3-HMAC-SHA256 scheme.
type Tencent struct {
	client    *http.Client
	secretID  string
	secretKey string
	region    string
	source    string
	target    string

	// now is the clock used for request signing; tests pin it.
	now func() time.Time
}

// NewTencent builds the tencent backend from configuration.
func NewTencent(cfg types.TranslationConfig) (*Tencent, error) {
	if cfg.TencentSecretID == "" || cfg.TencentSecretKey == "" {
		return nil, fmt.Errorf("tencent translator requires secret id and key")
	}
	region := cfg.TencentRegion
	if region == "" {
		region = "ap-guangzhou"
	}
	source, target := languages(cfg)
	return &Tencent{
		client:    httpClient(cfg.HTTPConfig),
		secretID:  cfg.TencentSecretID,
		secretKey: cfg.TencentSecretKey,
		region:    region,
		source:    source,
		target:    target,
		now:       time.Now,
	}, nil
}

// Name returns the provider identifier.
func (t *Tencent) Name() string { return "tencent" }

type tencentRequest struct {
	SourceText string `json:"SourceText"`
	Source     string `json:"Source"`
	Target     string `json:"Target"`
	ProjectID  int    `json:"ProjectId"`
}

type tencentResponse struct {
	Response struct {
		TargetText string `json:"TargetText"`
		Error      *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error"`
	} `json:"Response"`
}

// Translate calls TextTranslate and returns TargetText.
func (t *Tencent) Translate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(tencentRequest{
		SourceText: text,
		Source:     t.source,
		Target:     t.target,
	})
	if err != nil {
		return "", &RejectedContentError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tencentAPIBase, bytes.NewReader(payload))
	if err != nil {
		return "", &RejectedContentError{Err: fmt.Errorf("creating request: %w", err)}
	}

	ts := t.now().UTC()
	host := req.URL.Host
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Host", host)
	req.Header.Set("X-TC-Action", tencentAction)
	req.Header.Set("X-TC-Version", tencentVersion)
	req.Header.Set("X-TC-Region", t.region)
	req.Header.Set("X-TC-Timestamp", fmt.Sprintf("%d", ts.Unix()))
	req.Header.Set("Authorization", t.authorization(host, payload, ts))

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, "tencent")
	}

	var body tencentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &TransientError{Err: fmt.Errorf("parsing tencent response: %w", err)}
	}

	if apiErr := body.Response.Error; apiErr != nil {
		err := fmt.Errorf("tencent %s: %s", apiErr.Code, apiErr.Message)
		// Parameter and content rejections cannot succeed on retry;
		// quota and availability errors can.
		if strings.HasPrefix(apiErr.Code, "InvalidParameter") ||
			strings.HasPrefix(apiErr.Code, "UnsupportedOperation") ||
			strings.HasPrefix(apiErr.Code, "UnauthorizedOperation") {
			return "", &RejectedContentError{Err: err}
		}
		return "", &TransientError{Err: err}
	}

	if body.Response.TargetText == "" {
		return "", &TransientError{Err: fmt.Errorf("tencent returned no translation")}
	}
	return body.Response.TargetText, nil
}

// authorization computes the TC3-HMAC-SHA256 Authorization header.
func (t *Tencent) authorization(host string, payload []byte, ts time.Time) string {
	date := ts.Format("2006-01-02")

	canonicalHeaders := fmt.Sprintf("content-type:application/json; charset=utf-8\nhost:%s\n", host)
	signedHeaders := "content-type;host"
	hashedPayload := sha256hex(payload)
	canonicalRequest := strings.Join([]string{
		http.MethodPost, "/", "", canonicalHeaders, signedHeaders, hashedPayload,
	}, "\n")

	scope := fmt.Sprintf("%s/%s/tc3_request", date, tencentService)
	stringToSign := strings.Join([]string{
		tencentAlgo,
		fmt.Sprintf("%d", ts.Unix()),
		scope,
		sha256hex([]byte(canonicalRequest)),
	}, "\n")

	secretDate := hmacSHA256([]byte("TC3"+t.secretKey), date)
	secretService := hmacSHA256(secretDate, tencentService)
	secretSigning := hmacSHA256(secretService, "tc3_request")
	signature := hex.EncodeToString(hmacSHA256(secretSigning, stringToSign))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		tencentAlgo, t.secretID, scope, signedHeaders, signature)
}

func sha256hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
