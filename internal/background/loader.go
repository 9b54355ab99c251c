// Package background fetches the image drawn under the scene.
package background

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// BaseURLParam is the page query parameter carrying the host's address.
const BaseURLParam = "hostUrl"

// Poster runs fn on the event thread.
type Poster func(fn func())

// Result is what a finished load hands back on the event thread.
type Result struct {
	URL   string
	Image image.Image
	Err   error
}

// Size returns the natural size of the loaded image.
func (r Result) Size() image.Point {
	if r.Image == nil {
		return image.Point{}
	}
	return r.Image.Bounds().Size()
}

// Loader runs one background fetch at a time. A new Request cancels the one
// in flight, and a completion that arrives after being superseded is dropped.
// Request and Cancel must be called from the event thread.
type Loader struct {
	client *http.Client
	base   string
	post   Poster

	gen    uint64
	cancel context.CancelFunc
}

// NewLoader resolves references against base and delivers results via post.
func NewLoader(client *http.Client, base string, post Poster) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{client: client, base: base, post: post}
}

// Request starts loading ref and calls done with the result on the event
// thread, unless another Request or Cancel happens first.
func (l *Loader) Request(ref string, done func(Result)) {
	l.Cancel()
	if ref == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	gen := l.gen
	target := Resolve(l.base, ref)

	go func() {
		img, err := Fetch(ctx, l.client, target)
		res := Result{URL: target, Image: img, Err: err}
		l.post(func() {
			if gen != l.gen {
				log.Printf("[BACKGROUND] dropping superseded load of %s", target)
				return
			}
			cancel()
			l.cancel = nil
			done(res)
		})
	}()
}

// Cancel aborts the load in flight, if any.
func (l *Loader) Cancel() {
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Resolve joins ref onto base. Absolute references and an empty base leave
// ref unchanged.
func Resolve(base, ref string) string {
	if base == "" || strings.Contains(ref, "://") {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}

// BaseURL extracts the origin of the BaseURLParam query parameter from the
// page URL.
func BaseURL(pageURL string) (string, bool) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	raw := page.Query().Get(BaseURLParam)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host, true
}

// Fetch loads and decodes an image from an http(s) URL or a local path.
func Fetch(ctx context.Context, client *http.Client, target string) (image.Image, error) {
	var body io.ReadCloser
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", target, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", target, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: %s", target, resp.Status)
		}
		body = resp.Body
	} else {
		f, err := os.Open(strings.TrimPrefix(target, "file://"))
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", target, err)
		}
		body = f
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", target, err)
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("%s is not an image", target)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", target, err)
	}
	return img, nil
}
