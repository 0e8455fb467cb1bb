package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetJSONNestedRecords(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{
		"data": {"users": [
			{"id": 1, "firstName": "John", "lastName": "Doe"},
			{"id": 2, "firstName": "Jane", "lastName": "Smith"},
			"not an object"
		]},
		"total": 42
	}`)

	js, err := NewClient(time.Second).GetJSON(context.Background(), srv.URL)
	require.NoError(t, err)

	records := Records(js, "data.users")
	require.Len(t, records, 2, "non-object elements are skipped")
	assert.Equal(t, "John", records[0]["firstName"])
	assert.Equal(t, "Smith", records[1]["lastName"])

	assert.Equal(t, 42, Int(js, "total"))
}

func TestRecordsMissingOrWrongType(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"users": {"a": 1}, "total": "many"}`)

	js, err := NewClient(time.Second).GetJSON(context.Background(), srv.URL)
	require.NoError(t, err)

	missing := Records(js, "people")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)

	assert.Empty(t, Records(js, "users"), "object is not an array")
	assert.Equal(t, 0, Int(js, "total"))
	assert.Equal(t, 0, Int(js, "nope"))
}

func TestGetJSONStatusError(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"message": "boom"}`)

	_, err := NewClient(time.Second).GetJSON(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestGetJSONMalformedBody(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"users": [`)

	_, err := NewClient(time.Second).GetJSON(context.Background(), srv.URL)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStatus))
}

func TestGetJSONTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(20*time.Millisecond).GetJSON(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestLookupEmptyKey(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[{"id": 1}]`)

	js, err := NewClient(time.Second).GetJSON(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Len(t, Records(js, ""), 1, "empty key addresses the top-level array")
}
