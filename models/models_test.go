package models

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceResponse_JSON(t *testing.T) {
	resp := NewServiceResponse(StatusFailed, "URL must be a string", nil, http.StatusBadRequest)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"status":"Failed","message":"URL must be a string","responseObject":null,"statusCode":400}`, string(data))

	var back ServiceResponse
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, StatusFailed, back.Status)
}

func TestResponseStatus_UnknownText(t *testing.T) {
	var s ResponseStatus
	assert.Error(t, s.UnmarshalText([]byte("Maybe")))
}

func TestContentQuery_SingleURL(t *testing.T) {
	tests := []struct {
		name string
		urls []string
		want string
		ok   bool
	}{
		{name: "one value", urls: []string{"https://example.com"}, want: "https://example.com", ok: true},
		{name: "missing", urls: nil},
		{name: "empty", urls: []string{""}},
		{name: "repeated", urls: []string{"https://a.example", "https://b.example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ContentQuery{URL: tt.urls}
			got, ok := q.SingleURL()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentQuery_Defaults(t *testing.T) {
	q := ContentQuery{}
	q.Defaults()
	assert.Equal(t, FormatText, q.Format)
	assert.Equal(t, ExtractRaw, q.Extract)
}

func TestReaderError_Unwrap(t *testing.T) {
	cause := errors.New("net::ERR_CONNECTION_REFUSED")
	err := NewReaderError(ErrCodeNavigation, "navigation to target URL failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NAVIGATION_FAILED: navigation to target URL failed: net::ERR_CONNECTION_REFUSED", err.Error())
	assert.Equal(t, "FALLBACK_FAILED: no key", NewReaderError(ErrCodeFallback, "no key", nil).Error())
}
