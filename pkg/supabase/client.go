package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	storage_go "github.com/supabase-community/storage-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

// Client adapts the community auth and storage SDKs to the storefront's
// context-first, status-error conventions.
type Client struct {
	baseURL string
	auth    gotrue.Client
	admin   gotrue.Client
	storage *storage_go.Client
	// The storage SDK applies per-upload options to client-wide headers.
	uploadMu sync.Mutex
}

func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(cfg.URL, "/")
	httpClient := http.Client{Timeout: timeout}

	return &Client{
		baseURL: baseURL,
		auth: gotrue.New("", cfg.AnonKey).
			WithCustomGoTrueURL(baseURL + "/auth/v1").
			WithClient(httpClient),
		admin: gotrue.New("", cfg.ServiceRoleKey).
			WithCustomGoTrueURL(baseURL + "/auth/v1").
			WithClient(httpClient).
			WithToken(cfg.ServiceRoleKey),
		storage: storage_go.NewClient(baseURL+"/storage/v1", cfg.ServiceRoleKey, map[string]string{
			"apikey": cfg.ServiceRoleKey,
		}),
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: status %d: %s", e.StatusCode, e.Message)
}

// GRPCStatus lets status.FromError classify backend failures.
func (e *APIError) GRPCStatus() *status.Status {
	var code codes.Code
	switch {
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		code = codes.InvalidArgument
	case e.StatusCode == http.StatusUnauthorized:
		code = codes.Unauthenticated
	case e.StatusCode == http.StatusForbidden:
		code = codes.PermissionDenied
	case e.StatusCode == http.StatusNotFound:
		code = codes.NotFound
	case e.StatusCode == http.StatusConflict:
		code = codes.AlreadyExists
	default:
		code = codes.Unavailable
	}
	return status.New(code, e.Message)
}

// The auth SDK reports non-2xx answers as "response status code N: <body>".
var authStatusPattern = regexp.MustCompile(`(?s)^response status code (\d{3})(?:: (.*))?$`)

// authError converts an auth SDK error into an APIError or a status error.
func authError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrInvalidTokenRequest) {
		return status.Error(codes.InvalidArgument, "email and password are required")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return status.Errorf(codes.Unavailable, "request failed: %v", err)
	}
	m := authStatusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return status.Errorf(codes.Unavailable, "unexpected auth response: %v", err)
	}
	code, _ := strconv.Atoi(m[1])
	return &APIError{StatusCode: code, Message: errorMessage([]byte(m[2]), http.StatusText(code))}
}

// storageError converts a storage SDK error. The SDK keeps the status only
// when the body carries a numeric "status" field.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	var se *storage_go.StorageError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = "storage request failed"
		}
		return &APIError{StatusCode: se.Status, Message: msg}
	}
	return status.Errorf(codes.Unavailable, "request failed: %v", err)
}

// ctxError reports a finished context before an SDK call that cannot take one.
func ctxError(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	return nil
}

// errorMessage pulls the human readable part out of the backend's error bodies,
// which differ between the auth and storage services.
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		for _, s := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
			if s != "" {
				return s
			}
		}
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return fallback
}
