// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_DecodesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"entry_id": "e1", "upload_id": "u1"}`))
	}))
	defer ts.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var got struct {
		EntryID  string `json:"entry_id"`
		UploadID string `json:"upload_id"`
	}
	require.NoError(t, DoJSON(ts.Client(), req, &got))
	assert.Equal(t, "e1", got.EntryID)
	assert.Equal(t, "u1", got.UploadID)
}

func TestDoJSON_StatusErrorCarriesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	}))
	defer ts.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	err = DoJSON(ts.Client(), req, nil)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, se.Body, "token expired")
	assert.Contains(t, err.Error(), "401")
}

func TestDoJSON_NilOutDrainsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ignored": true}`))
	}))
	defer ts.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodPut, ts.URL, nil)
	require.NoError(t, err)

	assert.NoError(t, DoJSON(ts.Client(), req, nil))
}

func TestNewJSONRequest_EncodesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sample1", body["name"])
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodPost, ts.URL, map[string]string{"name": "Sample1"})
	require.NoError(t, err)

	var out map[string]any
	assert.NoError(t, DoJSON(ts.Client(), req, &out))
}

func TestDoJSON_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	req, err := NewJSONRequest(context.Background(), http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	var out map[string]any
	err = DoJSON(ts.Client(), req, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response body")
}
