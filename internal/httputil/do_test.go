// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := Do(context.Background(), ts.Client(), req, "test")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDoClassifiesStatus(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
		permanent bool
	}{
		{http.StatusTooManyRequests, true, false},
		{http.StatusInternalServerError, true, false},
		{http.StatusBadGateway, true, false},
		{http.StatusServiceUnavailable, true, false},
		{http.StatusUnauthorized, false, true},
		{http.StatusForbidden, false, true},
		{http.StatusNotFound, false, true},
		{http.StatusBadRequest, false, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP %d", tt.status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			_, err = Do(context.Background(), ts.Client(), req, "test")
			require.Error(t, err)
			assert.Equal(t, tt.transient, IsTransient(err))
			assert.Equal(t, tt.permanent, IsPermanent(err))
		})
	}
}

func TestDoNetworkErrorIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ts.Close() // connection refused

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = Do(context.Background(), http.DefaultClient, req, "test")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestDoCancelledContextPassesThrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = Do(ctx, ts.Client(), req, "test")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsTransient(err))
}

func TestErrorMessagesNameProvider(t *testing.T) {
	terr := &TransientError{Provider: "familysearch_records", Status: 429}
	assert.Contains(t, terr.Error(), "familysearch_records")
	assert.Contains(t, terr.Error(), "429")

	perr := &PermanentError{Provider: "familysearch_records", Status: 401}
	assert.Contains(t, perr.Error(), "401")

	parseErr := &ParseError{Provider: "familysearch_records", Err: errors.New("bad json")}
	assert.Contains(t, parseErr.Error(), "bad json")
	assert.True(t, IsParse(fmt.Errorf("wrapped: %w", parseErr)))
}
