package courses

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend(t *testing.T) {
	var gotSearch, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses", r.URL.Path)
		gotSearch = r.URL.Query().Get("search")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"1","title":"Hooks in depth","slug":"hooks"},{"id":"2"},{"id":"3"},{"id":"4"}]}`))
	}))
	defer srv.Close()

	rec := New(srv.URL+"/", time.Second)
	got, err := rec.Recommend(context.Background(), []string{"react", "hooks"}, 3)
	require.NoError(t, err)
	assert.Equal(t, "react hooks", gotSearch)
	assert.Equal(t, "3", gotLimit)
	require.Len(t, got, 3)
	assert.Equal(t, "Hooks in depth", got[0].Title)
	assert.Equal(t, "hooks", got[0].Slug)
}

func TestRecommend_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Recommend(context.Background(), []string{"go"}, 3)
	assert.ErrorContains(t, err, "503")

	_, err = New("http://127.0.0.1:1", 200*time.Millisecond).Recommend(context.Background(), []string{"go"}, 3)
	assert.Error(t, err)
}

func TestDecode_WrappedCourses(t *testing.T) {
	got, err := decode([]byte(`{"data":{"courses":[{"id":"a","level":"BEGINNER"}]}}`), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BEGINNER", got[0].Level)

	_, err = decode([]byte(`{"data":"nope"}`), 3)
	assert.Error(t, err)
}
