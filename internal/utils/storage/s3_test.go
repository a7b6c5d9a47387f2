package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadJSON(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s3, err := NewAwsS3(context.Background(), S3Config{
		Bucket:    "recipes",
		Region:    "eu-west-3",
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)

	key, err := s3.UploadJSON(context.Background(), "/exports/", "a.json", []byte(`{"recipes":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "exports/a.json", key)
	assert.Equal(t, "/recipes/exports/a.json", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Contains(t, string(gotBody), `{"recipes":[]}`)
	assert.Equal(t, srv.URL+"/recipes/exports/a.json", s3.GetPublicLinkKey(key))
}

func TestUploadJSON_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	s3, err := NewAwsS3(context.Background(), S3Config{
		Bucket: "recipes", AccessKey: "key", SecretKey: "secret", Endpoint: srv.URL,
	})
	require.NoError(t, err)

	_, err = s3.UploadJSON(context.Background(), "exports", "a.json", []byte(`{}`))
	require.Error(t, err)
}

func TestNewAwsS3_RequiresBucket(t *testing.T) {
	_, err := NewAwsS3(context.Background(), S3Config{})
	assert.ErrorIs(t, err, ErrBucketRequired)
}

func TestPublicLinkOnAWS(t *testing.T) {
	a := &awsS3{bucket: "recipes", region: "eu-west-3"}
	assert.Equal(t, "https://recipes.s3.eu-west-3.amazonaws.com/exports/a.json", a.GetPublicLinkKey("exports/a.json"))
}
