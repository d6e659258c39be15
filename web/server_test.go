// Copyright 2022 Ian Parberry
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	tile, err := curvedline.DefaultTile(8)
	if err != nil {
		t.Fatal(err)
	}
	variants, err := curvedline.NewVariantSet(tile)
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(NewMemStorage(), variants, curvedline.DefaultBackground)
	ctx.Seeder = func() uint64 { return 99 }
	return ctx
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	var req *http.Request
	if reader != nil {
		req = httptest.NewRequest(method, path, reader)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c client) json(method, path string, body interface{}, wantStatus int) map[string]interface{} {
	c.t.Helper()
	rec := c.do(method, path, body)
	if rec.Code != wantStatus {
		c.t.Fatalf("%s %s: status %d, want %d (%s)", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	res := make(map[string]interface{})
	if wantStatus == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			c.t.Fatalf("%s %s: invalid json: %v", method, path, err)
		}
	}
	return res
}

func newSession(c client) string {
	c.t.Helper()
	res := c.json(http.MethodPost, "/sessions", nil, http.StatusOK)
	id, ok := res["connection"].(string)
	if !ok {
		c.t.Fatalf("no connection id in %v", res)
	}
	return id
}

func TestSessionFlow(t *testing.T) {
	c := client{t: t, router: NewRouter(testContext(t))}
	id := newSession(c)
	base := "/sessions/" + id

	res := c.json(http.MethodGet, base, nil, http.StatusOK)
	if res["layout"] != "original" || res["seed"] != float64(99) {
		t.Errorf("new session = %v", res)
	}

	res = c.json(http.MethodPost, base+"/layout", map[string]string{"layout": "random"}, http.StatusOK)
	if res["layout"] != "random" {
		t.Errorf("layout after selecting random = %v", res["layout"])
	}

	rec := c.do(http.MethodGet, base+"/mosaic.png", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s", ct)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Errorf("mosaic bounds = %v", img.Bounds())
	}

	c.json(http.MethodDelete, base, nil, http.StatusOK)
	c.json(http.MethodGet, base, nil, http.StatusNotFound)
}

func TestSessionRandomMatchesSeed(t *testing.T) {
	ctx := testContext(t)
	c := client{t: t, router: NewRouter(ctx)}
	id := newSession(c)
	c.json(http.MethodPost, "/sessions/"+id+"/layout", map[string]string{"layout": "random"}, http.StatusOK)

	connID, _ := ParseConnectionID(id)
	state, err := ctx.Storage.Get(context.Background(), connID)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := curvedline.DrawPattern(curvedline.NewRandomStrategy(curvedline.NewRandomSource(99)))
	if state.Cells != want {
		t.Error("random layout of the session does not follow its seed")
	}

	rec := c.do(http.MethodGet, "/sessions/"+id+"/mosaic.png", nil)
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	expected := curvedline.Render(ctx.Variants, want, ctx.Background)
	for _, p := range []image.Point{{0, 0}, {13, 27}, {63, 63}} {
		got := color.NRGBAModel.Convert(img.At(p.X, p.Y)).(color.NRGBA)
		if got != expected.NRGBAAt(p.X, p.Y) {
			t.Errorf("pixel %v = %v, want %v", p, got, expected.NRGBAAt(p.X, p.Y))
		}
	}
}

func TestSessionConcurrentLayouts(t *testing.T) {
	ctx := testContext(t)
	c := client{t: t, router: NewRouter(ctx)}
	id := newSession(c)
	const n = 20
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/layout",
				strings.NewReader(`{"layout": "random"}`))
			rec := httptest.NewRecorder()
			c.router.ServeHTTP(rec, req)
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		if code != http.StatusOK {
			t.Errorf("status %d", code)
		}
	}

	// every request drew its own layout from the session's generator
	src := curvedline.NewRandomSource(99)
	var want curvedline.Pattern
	for i := 0; i < n; i++ {
		want, _ = curvedline.DrawPattern(curvedline.NewRandomStrategy(src))
	}
	connID, _ := ParseConnectionID(id)
	state, err := ctx.Storage.Get(context.Background(), connID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Cells != want {
		t.Errorf("session lost updates, cells after %d requests:\n%s\nwant\n%s", n, state.Cells, want)
	}
}

func TestSessionErrors(t *testing.T) {
	c := client{t: t, router: NewRouter(testContext(t))}
	c.json(http.MethodGet, "/sessions/not-an-id", nil, http.StatusBadRequest)
	unknown, _ := GenConnectionID()
	c.json(http.MethodGet, "/sessions/"+unknown.String(), nil, http.StatusNotFound)

	id := newSession(c)
	base := "/sessions/" + id
	c.json(http.MethodPost, base+"/layout", map[string]string{"layout": "spiral"}, http.StatusBadRequest)
	c.json(http.MethodPost, base+"/layout", map[string]int{"layout": 1}, http.StatusBadRequest)
	c.json(http.MethodPost, base+"/layout", nil, http.StatusBadRequest)
	c.json(http.MethodGet, base+"/mosaic.svg", nil, http.StatusBadRequest)
	c.json(http.MethodGet, base+"/preview?size=big", nil, http.StatusBadRequest)

	// failed requests leave the session untouched
	res := c.json(http.MethodGet, base, nil, http.StatusOK)
	if res["layout"] != "original" {
		t.Errorf("layout = %v after failed requests", res["layout"])
	}
}

func TestSessionVars(t *testing.T) {
	c := client{t: t, router: NewRouter(testContext(t))}
	base := "/sessions/" + newSession(c)

	res := c.json(http.MethodGet, base+"/vars", nil, http.StatusOK)
	if res["jpeg-quality"] != float64(100) || res["interp"] != "mitchell" || res["upscale"] != false {
		t.Errorf("default vars = %v", res)
	}
	c.json(http.MethodPost, base+"/vars", map[string]interface{}{"var": "jpeg-quality", "value": 70}, http.StatusOK)
	c.json(http.MethodPost, base+"/vars", map[string]interface{}{"var": "interp", "value": "nearest"}, http.StatusOK)
	c.json(http.MethodPost, base+"/vars", map[string]interface{}{"var": "upscale", "value": true}, http.StatusOK)
	c.json(http.MethodPost, base+"/vars", map[string]interface{}{"var": "seed", "value": 12}, http.StatusOK)
	res = c.json(http.MethodGet, base+"/vars", nil, http.StatusOK)
	if res["jpeg-quality"] != float64(70) || res["interp"] != "nearest" || res["upscale"] != true || res["seed"] != float64(12) {
		t.Errorf("vars after set = %v", res)
	}

	for _, body := range []map[string]interface{}{
		{"var": "jpeg-quality", "value": 0},
		{"var": "jpeg-quality", "value": 1.5},
		{"var": "interp", "value": "blurry"},
		{"var": "seed", "value": -1},
		{"var": "colour", "value": 1},
		{"value": 1},
	} {
		c.json(http.MethodPost, base+"/vars", body, http.StatusBadRequest)
	}
}

func TestSessionPreview(t *testing.T) {
	c := client{t: t, router: NewRouter(testContext(t))}
	base := "/sessions/" + newSession(c)
	res := c.json(http.MethodGet, base+"/preview?size=100x50", nil, http.StatusOK)
	if res["format"] != "png" || res["width"] != float64(100) || res["height"] != float64(50) {
		t.Errorf("preview = %v", res)
	}
	encoded, _ := res["image"].(string)
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 100, 50) {
		t.Errorf("preview bounds = %v", img.Bounds())
	}
	// the mosaic is centered, the border stays white
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if got := color.NRGBAModel.Convert(img.At(2, 25)).(color.NRGBA); got != white {
		t.Errorf("border pixel = %v", got)
	}

	res = c.json(http.MethodGet, base+"/preview?size=40x40&format=jpg", nil, http.StatusOK)
	if res["format"] != "jpeg" {
		t.Errorf("format = %v", res["format"])
	}

	// a missing side follows the square mosaic
	res = c.json(http.MethodGet, base+"/preview?size=30x", nil, http.StatusOK)
	if res["width"] != float64(30) || res["height"] != float64(30) {
		t.Errorf("preview 30x = %vx%v", res["width"], res["height"])
	}
}

func TestSessionPreviewTooLarge(t *testing.T) {
	c := client{t: t, router: NewRouter(testContext(t))}
	base := "/sessions/" + newSession(c)
	for _, size := range []string{"50000x50000", "2000000000x2000000000", "9223372036854775807x1", "x300000000"} {
		c.json(http.MethodGet, base+"/preview?size="+size, nil, http.StatusRequestEntityTooLarge)
	}
	for _, size := range []string{"", "x", "0x10", "10", "-5x5"} {
		c.json(http.MethodGet, base+"/preview?size="+size, nil, http.StatusBadRequest)
	}
	// the session is still usable
	c.json(http.MethodGet, base+"/preview?size=10x10", nil, http.StatusOK)
}

func TestJSONMap(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"n": 7, "big": 18446744073709551615, "s": "x", "b": true}`))
	m, err := ProcessRequest(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatal(err)
	}
	if n, err := m.GetInt("n"); err != nil || n != 7 {
		t.Errorf("GetInt = %d, %v", n, err)
	}
	if n, err := m.GetUint64("big"); err != nil || n != 18446744073709551615 {
		t.Errorf("GetUint64 = %d, %v", n, err)
	}
	if _, err := m.GetInt("s"); err == nil {
		t.Error("GetInt accepted a string")
	}
	if s, err := m.GetString("s"); err != nil || s != "x" {
		t.Errorf("GetString = %q, %v", s, err)
	}
	if b, err := m.GetBool("b"); err != nil || !b {
		t.Errorf("GetBool = %v, %v", b, err)
	}
	if _, err := m.GetBool("missing"); err == nil {
		t.Error("GetBool found a missing key")
	}

	rec := httptest.NewRecorder()
	if _, err := ProcessRequest(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))); err != ErrAlreadyHandled {
		t.Errorf("ProcessRequest(invalid) = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := curvedline.ServerConfig{Addr: "127.0.0.1:0", SessionTTL: curvedline.Duration{Duration: time.Minute}}
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, testContext(t))
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}
