package uploads

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1_1/medicore/image/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "hospital_unsigned", r.FormValue("upload_preset"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "doctor.jpg", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake image bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.example/doctor.jpg"}`))
	}))
	defer srv.Close()

	svc := NewService(Config{
		BaseURL:      srv.URL,
		CloudName:    "medicore",
		UploadPreset: "hospital_unsigned",
	})

	url, err := svc.Upload(context.Background(), "doctor.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.example/doctor.jpg", url)
}

func TestUploadFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid upload preset"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := NewService(Config{BaseURL: srv.URL, CloudName: "medicore", UploadPreset: "bad"})

	_, err := svc.Upload(context.Background(), "x.jpg", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestUploadMissingSecureURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := NewService(Config{BaseURL: srv.URL, CloudName: "medicore", UploadPreset: "p"})

	_, err := svc.Upload(context.Background(), "x.jpg", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrUploadFailed)
}
