// Package deviceflow implements the OAuth device authorization grant against github.com.
//
// The authenticator performs single requests only. Polling cadence belongs to the
// caller, which may stop at any time to cancel.
package deviceflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/failure"
)

const (
	// DefaultInterval applies when the server omits the poll interval.
	DefaultInterval = 5 * time.Second
	// SlowDownIncrement is added to the wait after a slow_down response.
	SlowDownIncrement = 5 * time.Second

	defaultLoginURL = "https://github.com"
	defaultScope    = "public_repo"
	grantType       = "urn:ietf:params:oauth:grant-type:device_code"
)

var (
	// ErrAuthorizationPending means the user has not finished authorizing yet. Wait and poll again.
	ErrAuthorizationPending = errors.New("authorization pending")
	// ErrSlowDown means polling is too frequent. Increase the interval, then poll again.
	ErrSlowDown = errors.New("slow down")
	// ErrExpired means the device code expired. Start a new session.
	ErrExpired = errors.New("device code expired")
	// ErrAccessDenied means the user declined. Start a new session.
	ErrAccessDenied = errors.New("access denied by user")
)

// Session is an in-progress device authorization. It is never persisted.
type Session struct {
	DeviceCode      string
	UserCode        string
	VerificationURI string
	Interval        time.Duration
	ExpiresIn       time.Duration
}

// Config configures an Authenticator.
type Config struct {
	LoginURL   string // defaults to https://github.com
	ClientID   string
	Scope      string // defaults to public_repo
	UserAgent  string
	HTTPClient *http.Client
	Logger     *clog.Logger
}

// Authenticator obtains a bearer token without the user pasting a secret.
type Authenticator struct {
	clientID   string
	httpClient *http.Client
	log        *clog.Logger
	loginURL   string
	scope      string
	userAgent  string
}

// New creates an Authenticator. ClientID is required.
func New(cfg Config) (*Authenticator, error) {
	if cfg.ClientID == "" {
		return nil, failure.New(failure.KindDomain, "new device flow", errors.New("client id is not configured"))
	}
	a := &Authenticator{
		clientID:   cfg.ClientID,
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
		loginURL:   strings.TrimRight(cfg.LoginURL, "/"),
		scope:      cfg.Scope,
		userAgent:  cfg.UserAgent,
	}
	if a.httpClient == nil {
		a.httpClient = http.DefaultClient
	}
	if a.log == nil {
		a.log = clog.Default().WithPrefix("deviceflow")
	}
	if a.loginURL == "" {
		a.loginURL = defaultLoginURL
	}
	if a.scope == "" {
		a.scope = defaultScope
	}
	return a, nil
}

// Start requests a device code and user code. It fails only on transport or parse errors.
func (a *Authenticator) Start(ctx context.Context) (Session, error) {
	const op = "start device flow"

	var resp struct {
		DeviceCode      string `json:"device_code"`
		UserCode        string `json:"user_code"`
		VerificationURI string `json:"verification_uri"`
		ExpiresIn       int    `json:"expires_in"`
		Interval        int    `json:"interval"`
		Error           string `json:"error"`
		ErrorDesc       string `json:"error_description"`
	}
	form := url.Values{
		"client_id": {a.clientID},
		"scope":     {a.scope},
	}
	if err := a.postForm(ctx, op, "/login/device/code", form, &resp); err != nil {
		return Session{}, err
	}
	if resp.Error != "" {
		return Session{}, failure.Newf(failure.KindAuth, op, "%s: %s", resp.Error, resp.ErrorDesc)
	}
	if resp.DeviceCode == "" {
		return Session{}, failure.New(failure.KindParse, op, errors.New("response has no device_code"))
	}

	interval := time.Duration(resp.Interval) * time.Second
	if interval <= 0 {
		interval = DefaultInterval
	}

	a.log.Debug("Device flow started", "userCode", resp.UserCode, "interval", interval, "expiresIn", resp.ExpiresIn)
	return Session{
		DeviceCode:      resp.DeviceCode,
		UserCode:        resp.UserCode,
		VerificationURI: resp.VerificationURI,
		Interval:        interval,
		ExpiresIn:       time.Duration(resp.ExpiresIn) * time.Second,
	}, nil
}

// Poll makes a single token request.
//
// It returns ErrAuthorizationPending or ErrSlowDown (bare, non-terminal) while
// the user has not finished. ErrExpired and ErrAccessDenied come wrapped in a
// KindAuth failure and end the session. Any other server code is a terminal
// KindAuth failure carrying the raw code.
func (a *Authenticator) Poll(ctx context.Context, deviceCode string) (string, error) {
	const op = "poll device flow"

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Scope       string `json:"scope"`
		Error       string `json:"error"`
		ErrorDesc   string `json:"error_description"`
	}
	form := url.Values{
		"client_id":   {a.clientID},
		"device_code": {deviceCode},
		"grant_type":  {grantType},
	}
	if err := a.postForm(ctx, op, "/login/oauth/access_token", form, &resp); err != nil {
		return "", err
	}

	switch resp.Error {
	case "":
	case "authorization_pending":
		return "", ErrAuthorizationPending
	case "slow_down":
		return "", ErrSlowDown
	case "expired_token":
		return "", failure.New(failure.KindAuth, op, ErrExpired)
	case "access_denied":
		return "", failure.New(failure.KindAuth, op, ErrAccessDenied)
	default:
		a.log.Warn("device flow returned error", "code", resp.Error, "description", resp.ErrorDesc)
		return "", failure.Newf(failure.KindAuth, op, "device flow error: %s", resp.Error)
	}

	if resp.AccessToken == "" {
		return "", failure.New(failure.KindParse, op, errors.New("response has neither access_token nor error"))
	}
	a.log.Debug("Device flow granted", "scope", resp.Scope)
	return resp.AccessToken, nil
}

func (a *Authenticator) postForm(ctx context.Context, op, path string, form url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.loginURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return failure.New(failure.KindTransport, op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.log.Warn("device flow request failed", "path", path, "error", err)
		return failure.New(failure.KindTransport, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure.New(failure.KindTransport, op, err)
	}

	if err := json.Unmarshal(body, result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &failure.Error{Kind: failure.KindHTTPStatus, Op: op, StatusCode: resp.StatusCode,
				Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
		}
		return failure.New(failure.KindParse, op, fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}
