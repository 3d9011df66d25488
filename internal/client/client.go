// Package client talks to the follow-up API over HTTP. Failed responses are
// decoded back into the policy error taxonomy so callers can classify them
// the same way the server does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"
	"denuncia/backend/internal/session"
)

// HTTPError is a failed response that maps to no policy error.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("http %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client is safe for concurrent use once configured. SetSession must not race
// with in-flight calls.
type Client struct {
	baseURL string
	http    *http.Client
	bearer  string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSessionToken authenticates every request with token.
func WithSessionToken(token string) Option {
	return func(c *Client) { c.bearer = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSession switches the bearer token; "" makes the client anonymous.
func (c *Client) SetSession(token string) { c.bearer = token }

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns a failed response into a policy error where one applies.
func decodeError(resp *http.Response) error {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) != nil {
		body.Message = strings.TrimSpace(string(raw))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", policy.ErrNotFound, body.Message)
	case resp.StatusCode == http.StatusUnauthorized:
		return session.ErrInvalidToken
	case resp.StatusCode == http.StatusForbidden && (body.Error == "forbidden" || body.Error == ""):
		return policy.ErrForbidden
	case resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return &policy.RejectedError{Reason: body.Error, Message: body.Message}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Code: body.Error, Message: body.Message}
}

// Login signs in and keeps the session for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	var sess session.Session
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password}, &sess)
	if err != nil {
		if errors.Is(err, session.ErrInvalidToken) {
			return nil, session.ErrInvalidCredentials
		}
		return nil, err
	}
	c.bearer = sess.Token
	return &sess, nil
}

// Logout revokes the current session and drops it.
func (c *Client) Logout(ctx context.Context) error {
	if c.bearer == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.bearer = ""
	return err
}

type actorView struct {
	Admin       bool   `json:"admin"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// CurrentActor asks the server who the current session belongs to.
func (c *Client) CurrentActor(ctx context.Context) (policy.Actor, error) {
	if c.bearer == "" {
		return policy.Anonymous(), nil
	}
	var v actorView
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &v); err != nil {
		return policy.Anonymous(), err
	}
	if !v.Admin {
		return policy.Anonymous(), nil
	}
	return policy.Administrator(v.DisplayName, v.Email), nil
}

// NewCase is a report submission.
type NewCase struct {
	Category    models.Category `json:"category"`
	Description string          `json:"description"`
	Anonymous   bool            `json:"anonymous"`
	Name        string          `json:"name,omitempty"`
	Email       string          `json:"email,omitempty"`
	Evidence    []string        `json:"evidence,omitempty"`
}

// CreateCase submits a report and returns its follow-up token.
func (c *Client) CreateCase(ctx context.Context, in NewCase) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/denuncias", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func tokenPath(token string) string {
	return "/api/v1/acompanhamento/" + url.PathEscape(token)
}

func idPath(id uint) string {
	return "/api/v1/admin/denuncias/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) CaseByToken(ctx context.Context, token string) (*models.TokenView, error) {
	var v models.TokenView
	if err := c.do(ctx, http.MethodGet, tokenPath(token), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) CaseByID(ctx context.Context, id uint) (*models.Case, error) {
	var v models.Case
	if err := c.do(ctx, http.MethodGet, idPath(id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListCases lists cases, optionally only those in status.
func (c *Client) ListCases(ctx context.Context, status models.Status) ([]models.Case, error) {
	path := "/api/v1/admin/denuncias"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	cases := []models.Case{}
	if err := c.do(ctx, http.MethodGet, path, nil, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// MessagesByToken never returns a nil slice on success.
func (c *Client) MessagesByToken(ctx context.Context, token string) ([]models.Message, error) {
	msgs := []models.Message{}
	if err := c.do(ctx, http.MethodGet, tokenPath(token)+"/mensagens", nil, &msgs); err != nil {
		return nil, err
	}
	return nonNil(msgs), nil
}

func (c *Client) MessagesByID(ctx context.Context, id uint) ([]models.Message, error) {
	msgs := []models.Message{}
	if err := c.do(ctx, http.MethodGet, idPath(id)+"/mensagens", nil, &msgs); err != nil {
		return nil, err
	}
	return nonNil(msgs), nil
}

func (c *Client) SendByToken(ctx context.Context, token, body string) (*models.Message, error) {
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, tokenPath(token)+"/mensagens", map[string]string{"body": body}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) SendByID(ctx context.Context, id uint, body string) (*models.Message, error) {
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, idPath(id)+"/mensagens", map[string]string{"body": body}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) SetStatus(ctx context.Context, id uint, status models.Status) (*models.Case, error) {
	var v models.Case
	if err := c.do(ctx, http.MethodPatch, idPath(id)+"/status", map[string]models.Status{"status": status}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Follow marks the session's administrator as following case id and returns
// the administrator who followed it before, if any.
func (c *Client) Follow(ctx context.Context, id uint) (string, error) {
	var out struct {
		PreviousFollower string `json:"previous_follower"`
	}
	if err := c.do(ctx, http.MethodPost, idPath(id)+"/follow", nil, &out); err != nil {
		return "", err
	}
	return out.PreviousFollower, nil
}

func nonNil(msgs []models.Message) []models.Message {
	if msgs == nil {
		return []models.Message{}
	}
	return msgs
}
