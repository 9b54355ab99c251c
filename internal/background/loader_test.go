package background

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// eventLoop collects posted callbacks so the test can run them in order.
type eventLoop chan func()

func (q eventLoop) post(fn func()) { q <- fn }

func (q eventLoop) runOne(t *testing.T) {
	t.Helper()
	select {
	case fn := <-q:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a posted callback")
	}
}

func TestLoadDeliversImage(t *testing.T) {
	data := pngBytes(t, 30, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	q := make(eventLoop, 2)
	l := NewLoader(srv.Client(), srv.URL, q.post)

	var got []Result
	l.Request("/img.png", func(r Result) { got = append(got, r) })
	q.runOne(t)

	require.Len(t, got, 1)
	require.NoError(t, got[0].Err)
	assert.Equal(t, image.Pt(30, 20), got[0].Size())
	assert.Equal(t, srv.URL+"/img.png", got[0].URL)
}

func TestSupersededLoadIsDropped(t *testing.T) {
	release := make(chan struct{})
	fast := pngBytes(t, 8, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow.png" {
			select {
			case <-r.Context().Done():
			case <-release:
			}
			return
		}
		w.Write(fast)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	q := make(eventLoop, 2)
	l := NewLoader(srv.Client(), srv.URL, q.post)

	var got []Result
	l.Request("slow.png", func(r Result) { got = append(got, r) })
	l.Request("fast.png", func(r Result) { got = append(got, r) })
	q.runOne(t)
	q.runOne(t)

	require.Len(t, got, 1)
	assert.Equal(t, srv.URL+"/fast.png", got[0].URL)
	assert.NoError(t, got[0].Err)
}

func TestCancelDropsCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 2, 2))
	}))
	defer srv.Close()

	q := make(eventLoop, 1)
	l := NewLoader(srv.Client(), "", q.post)
	called := false
	l.Request(srv.URL+"/a.png", func(Result) { called = true })
	l.Cancel()
	q.runOne(t)

	assert.False(t, called)
}

func TestLoadFailureIsReported(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	q := make(eventLoop, 1)
	l := NewLoader(srv.Client(), srv.URL, q.post)
	var got Result
	l.Request("missing.png", func(r Result) { got = r })
	q.runOne(t)

	assert.Error(t, got.Err)
	assert.Nil(t, got.Image)
	assert.Equal(t, image.Point{}, got.Size())
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 5, 7), 0o644))

	img, err := Fetch(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(5, 7), img.Bounds().Size())
}

func TestFetchRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, []byte("<html>not found</html>"), 0o644))

	_, err := Fetch(context.Background(), nil, path)
	assert.ErrorContains(t, err, "not an image")
}

func TestBaseURL(t *testing.T) {
	base, ok := BaseURL("http://localhost:8501/component/index.html?hostUrl=http%3A%2F%2Fdash.local%3A8501%2Fapp%2F&x=1")
	require.True(t, ok)
	assert.Equal(t, "http://dash.local:8501", base)

	_, ok = BaseURL("http://localhost/index.html")
	assert.False(t, ok)
	_, ok = BaseURL("http://localhost/index.html?hostUrl=nota-url")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "http://h/media/a.png", Resolve("http://h", "/media/a.png"))
	assert.Equal(t, "http://h/media/a.png", Resolve("http://h/", "media/a.png"))
	assert.Equal(t, "https://x/a.png", Resolve("http://h", "https://x/a.png"))
	assert.Equal(t, "/media/a.png", Resolve("", "/media/a.png"))
}
