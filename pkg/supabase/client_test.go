package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ashaID = "6f1c2d8e-4b3a-4c5d-9e8f-0a1b2c3d4e5f"
	raviID = "0d9e8f7a-6b5c-4d3e-8f2a-1b0c9d8e7f6a"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&Config{URL: srv.URL + "/", AnonKey: "anon", ServiceRoleKey: "service"})
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in["password"] != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
			return
		}
		io.WriteString(w, `{"access_token":"tok","user":{"id":"`+ashaID+`","aud":"authenticated","email":"staff@example.com"}}`)
	})

	sess, err := c.SignInWithPassword(context.Background(), "staff@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.AccessToken)
	assert.Equal(t, "staff@example.com", sess.User.Email)
	assert.Equal(t, ashaID, sess.User.ID)

	_, err = c.SignInWithPassword(context.Background(), "staff@example.com", "nope")
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "Invalid login credentials", st.Message())
}

func TestSignInRejectsUnconfirmedAudience(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"tok","user":{"id":"`+ashaID+`","aud":"","email":"staff@example.com"}}`)
	})

	_, err := c.SignInWithPassword(context.Background(), "staff@example.com", "secret1")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestSignInEmptyPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	_, err := c.SignInWithPassword(context.Background(), "staff@example.com", "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCancelledContextSkipsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListUsers(ctx)
	assert.Equal(t, codes.Canceled, status.Code(err))
	err = c.Bucket("receipts").Upload(ctx, "a.pdf", []byte("x"), UploadOptions{})
	assert.Equal(t, codes.Canceled, status.Code(err))
}

func TestAdminUsers(t *testing.T) {
	var calls []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))
		calls = append(calls, r.Method+" "+r.URL.Path)

		switch {
		case r.Method == http.MethodGet:
			io.WriteString(w, `{"users":[{"id":"`+ashaID+`","email":"a@b.co","user_metadata":{"name":"Asha"}}]}`)
		case r.Method == http.MethodPost:
			var in map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, true, in["email_confirm"])
			assert.Equal(t, "secret1", in["password"])
			assert.Equal(t, map[string]interface{}{"name": "Ravi"}, in["user_metadata"])
			io.WriteString(w, `{"id":"`+raviID+`","email":"ravi@b.co","user_metadata":{"name":"Ravi"}}`)
		case r.Method == http.MethodPut:
			var in map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "newpass", in["password"])
			io.WriteString(w, `{"id":"`+raviID+`"}`)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		}
	})
	ctx := context.Background()

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Asha", users[0].Name())

	u, err := c.CreateUser(ctx, "Ravi", "ravi@b.co", "secret1")
	require.NoError(t, err)
	assert.Equal(t, raviID, u.ID)

	require.NoError(t, c.UpdateUserPassword(ctx, raviID, "newpass"))
	require.NoError(t, c.DeleteUser(ctx, raviID))

	assert.Equal(t, []string{
		"GET /auth/v1/admin/users",
		"POST /auth/v1/admin/users",
		"PUT /auth/v1/admin/users/" + raviID,
		"DELETE /auth/v1/admin/users/" + raviID,
	}, calls)
}

func TestAdminUserErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"code":422,"msg":"A user with this email address has already been registered"}`)
	})
	ctx := context.Background()

	_, err := c.CreateUser(ctx, "Ravi", "ravi@b.co", "secret1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "A user with this email address has already been registered", apiErr.Message)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	assert.Equal(t, codes.InvalidArgument, status.Code(c.DeleteUser(ctx, "not-a-uuid")))
	assert.Equal(t, codes.InvalidArgument, status.Code(c.UpdateUserPassword(ctx, "u2", "newpass")))
}

func TestAuthErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{"unauthorized", errors.New(`response status code 401: {"msg":"Invalid token"}`), codes.Unauthenticated, "Invalid token"},
		{"not found", errors.New(`response status code 404: {"message":"User not found"}`), codes.NotFound, "User not found"},
		{"no body", errors.New("response status code 503"), codes.Unavailable, "Service Unavailable"},
		{"decode failure", errors.New("invalid character 'x'"), codes.Unavailable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authError(tt.err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			if tt.msg != "" {
				assert.Equal(t, tt.msg, st.Message())
			}
		})
	}
	assert.NoError(t, authError(nil))
}

func TestBucketUploadAndPublicURL(t *testing.T) {
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/receipts/Asha Rao-1700000000000.pdf", r.URL.Path)
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))
		assert.Equal(t, "service", r.Header.Get("apikey"))
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		assert.Equal(t, "max-age=3600", r.Header.Get("cache-control"))
		assert.Equal(t, "false", r.Header.Get("x-upsert"))
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"Key":"receipts/x.pdf"}`)
	})

	b := c.Bucket("receipts")
	err := b.Upload(context.Background(), "Asha Rao-1700000000000.pdf", []byte("%PDF-1.4"), UploadOptions{
		ContentType:  "application/pdf",
		CacheControl: 3600,
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(gotBody))

	assert.Equal(t, c.baseURL+"/storage/v1/object/public/receipts/Asha%20Rao-1700000000000.pdf", b.PublicURL("Asha Rao-1700000000000.pdf"))
}

func TestBucketUploadConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"status":409,"error":"Duplicate","message":"The resource already exists"}`)
	})

	err := c.Bucket("receipts").Upload(context.Background(), "a.pdf", []byte("x"), UploadOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "The resource already exists", apiErr.Message)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestBucketUploadServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.Bucket("receipts").Upload(context.Background(), "a.pdf", []byte("x"), UploadOptions{})
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
