package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/netx"
)

// maxErrorBody bounds how much of an error reply is read looking for `message`.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL string
	// api carries the request timeout; transfer is used for upload and
	// download bodies, which are bounded by ctx only.
	api      *http.Client
	transfer *http.Client
	tokens   TokenSource
	log      logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Discard()
	}
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		api:      &http.Client{Timeout: timeout},
		transfer: &http.Client{},
		tokens:   tokens,
		log:      log,
	}
}

func (c *HTTPClient) Close() error {
	c.api.CloseIdleConnections()
	c.transfer.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}
	return req, nil
}

// send executes req and returns the response when it is 2xx. Any other
// status is drained into an *APIError.
func (c *HTTPClient) send(hc *http.Client, req *http.Request) (*http.Response, error) {
	started := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug(req.Context(), "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.log.Debug(req.Context(), "request done",
		"method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "took", time.Since(started))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{Status: resp.StatusCode}
	var body models.MessageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil {
		apiErr.Message = strings.TrimSpace(body.Message)
	}
	return nil, apiErr
}

// doJSON sends in (if non-nil) as JSON and decodes the reply into out (if
// non-nil). An empty reply body leaves out untouched.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	resp, err := c.send(c.api, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeOptional(resp.Body, out)
}

func decodeOptional(r io.Reader, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, r)
		return nil
	}
	if err := json.NewDecoder(r).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) message(ctx context.Context, method, path string, in any) (string, error) {
	var out models.MessageResponse
	if err := c.doJSON(ctx, method, path, in, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Message), nil
}

func (c *HTTPClient) Register(ctx context.Context, draft models.RegistrationDraft) (string, error) {
	return c.message(ctx, http.MethodPost, "/auth/register", draft)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, challenge models.OTPChallenge) (string, error) {
	return c.message(ctx, http.MethodPost, "/auth/verify-otp", challenge)
}

func (c *HTTPClient) ResendOTP(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/auth/resend-otp", models.ForgotPasswordForm{Email: email})
}

func (c *HTTPClient) Login(ctx context.Context, form models.LoginForm) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", form, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("login response carries no token")
	}
	return &out, nil
}

func (c *HTTPClient) Activate(ctx context.Context, token string) (string, error) {
	return c.message(ctx, http.MethodGet, "/auth/activate/"+url.PathEscape(token), nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.message(ctx, http.MethodPost, "/auth/forgot-password", models.ForgotPasswordForm{Email: email})
}

func (c *HTTPClient) ResetPassword(ctx context.Context, r models.ResetPasswordRequest) (string, error) {
	return c.message(ctx, http.MethodPost, "/auth/reset-password", r)
}

func (c *HTTPClient) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	var files []models.FileRecord
	if err := c.doJSON(ctx, http.MethodGet, "/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *HTTPClient) Upload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	body, contentType := netx.MultipartFile(common.UploadFormField, fileName, r)
	defer body.Close()

	req, err := c.newRequest(ctx, http.MethodPost, "/files/upload", body, contentType)
	if err != nil {
		return "", err
	}
	resp, err := c.send(c.transfer, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out models.MessageResponse
	if err := decodeOptional(resp.Body, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Message), nil
}

func (c *HTTPClient) Download(ctx context.Context, id string) (*models.Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/files/download/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.send(c.transfer, req)
	if err != nil {
		return nil, err
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		defer resp.Body.Close()
		var link models.DownloadLink
		if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
			return nil, fmt.Errorf("decode download link: %w", err)
		}
		if link.URL == "" {
			return nil, fmt.Errorf("download reply has no url")
		}
		return &models.Download{URL: link.URL}, nil
	}

	return &models.Download{
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		ContentLength:      resp.ContentLength,
		Body:               resp.Body,
	}, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id string) (string, error) {
	return c.message(ctx, http.MethodDelete, "/files/"+url.PathEscape(id), nil)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}
