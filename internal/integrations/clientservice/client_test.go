package clientservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGetClientWithGracefulDegradation(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		email   string
	}{
		{name: "ok", status: http.StatusOK, body: `{"id":5,"name":"Anna","email":"anna@example.com"}`, email: "anna@example.com"},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrClientNotFound},
		{name: "server error degrades", status: http.StatusBadGateway, wantErr: ErrServiceDegraded},
		{name: "broken body degrades", status: http.StatusOK, body: `{`, wantErr: ErrServiceDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/internal/clients/5", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, 5, time.Minute, nopLogger{})
			client, err := c.GetClientWithGracefulDegradation(context.Background(), 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, client.Email)
		})
	}
}

func TestGetClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, 200*time.Millisecond, 1, time.Minute, nopLogger{})
	_, err := c.GetClientWithGracefulDegradation(context.Background(), 5)
	assert.ErrorIs(t, err, ErrServiceDegraded)
}
