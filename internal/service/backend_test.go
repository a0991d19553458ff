package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristomax/shopbuddy/internal/domain"
)

func TestGenerateResponseRequestShape(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-response", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"response": "hi"}`))
	}))
	defer srv.Close()

	c := NewBackendClient(srv.URL)
	resp, err := c.GenerateResponse(context.Background(), GenerateRequest{
		Prompt:    "hello",
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Response)

	// All three fields are always present, history as an array even when
	// empty.
	assert.JSONEq(t, `"hello"`, string(got["prompt"]))
	assert.JSONEq(t, `[]`, string(got["chat_history"]))
	assert.JSONEq(t, `"s1"`, string(got["session_id"]))
}

func TestGenerateResponseStructuredFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Invalid chat_history format"}`))
	}))
	defer srv.Close()

	_, err := NewBackendClient(srv.URL).GenerateResponse(context.Background(), GenerateRequest{Prompt: "x"})
	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Status)
	assert.Equal(t, "Invalid chat_history format", svcErr.Detail)
}

func TestUploadFileSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload-file", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "shirt.png", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("img-bytes"), data)

		w.Write([]byte(`{"success": true, "generated_description": "shirt"}`))
	}))
	defer srv.Close()

	resp, err := NewBackendClient(srv.URL).UploadFile(context.Background(), "shirt.png", []byte("img-bytes"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "shirt", resp.GeneratedDescription)
}

func TestBackendProductDecoding(t *testing.T) {
	var resp GenerateResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"response": "ok",
		"products": [
			{"image": "a.jpg", "price": "500"},
			{"image_url": "b.jpg", "price": 42.5},
			{"image": "c.jpg", "price": null},
			{"image": "d.jpg"}
		]
	}`), &resp))

	require.Len(t, resp.Products, 4)
	assert.Equal(t, domain.Product{Image: "a.jpg", Price: "500"}, resp.Products[0].ToProduct())
	assert.Equal(t, domain.Product{Image: "b.jpg", Price: "42.5"}, resp.Products[1].ToProduct())
	assert.Equal(t, domain.Product{Image: "c.jpg", Price: ""}, resp.Products[2].ToProduct())
	assert.Equal(t, domain.Product{Image: "d.jpg", Price: ""}, resp.Products[3].ToProduct())
}
