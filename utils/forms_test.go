package utils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name string `json:"name" validate:"required"`
}

func TestDecodeAndValidateJSON(t *testing.T) {
	req := require.New(t)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"name": "alice"}`)))
	payload := &testPayload{}
	req.NoError(DecodeAndValidateJSON(payload, r))
	req.Equal("alice", payload.Name)

	r = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{not json`)))
	req.Error(DecodeAndValidateJSON(&testPayload{}, r))

	r = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{}`)))
	req.Error(DecodeAndValidateJSON(&testPayload{}, r))
}

func TestWriteJSON(t *testing.T) {
	req := require.New(t)

	w := httptest.NewRecorder()
	req.NoError(WriteJSON(w, http.StatusCreated, map[string]string{"ok": "yes"}))
	req.Equal(http.StatusCreated, w.Code)
	req.Equal("application/json", w.Header().Get("Content-Type"))
	req.JSONEq(`{"ok": "yes"}`, w.Body.String())
}

func TestGetLanguage(t *testing.T) {
	req := require.New(t)

	req.Equal("en", GetLanguage("en-US"))
	req.Equal("es", GetLanguage("es"))
	req.Equal("", GetLanguage("not a language"))
	req.Equal("", GetLanguage(""))
}
