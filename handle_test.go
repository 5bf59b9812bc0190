package httpctx_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/advdv/httpctx"
	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// usersMapping names the segments of /v1/{type}/{id} once the version prefix is dropped.
var usersMapping = httpctx.WithPathMapping(func(s httpctx.Segments) map[string]string {
	return map[string]string{"type": s.At(0), "id": s.At(1)}
})

func serveEcho(c *httpctx.Context) error {
	if err := c.ReadBody(c.Request.Context()); err != nil {
		return err
	}

	search, err := c.SearchParams()
	if err != nil {
		return err
	}

	path, err := c.PathParams()
	if err != nil {
		return err
	}

	body, err := c.BodyParams()
	if err != nil {
		return httpctx.NewError(httpctx.CodeBadRequest, err)
	}

	cookies := c.CookieParams()
	if session, ok := cookies["session"]; ok {
		if err := c.SetCookie("session", session, httpctx.CookieOptions{MaxAge: 1000}); err != nil {
			return err
		}
	}

	return c.Write(c.Request.Context(), map[string]any{
		"search":  search,
		"path":    path,
		"body":    body,
		"cookies": cookies,
	})
}

func newEchoServer(t *testing.T, logs httpctx.Logger, opts ...httpctx.Option) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(httpctx.ToStd(httpctx.HandlerFunc(serveEcho), logs, opts...))
	t.Cleanup(srv.Close)

	return srv
}

func TestHandleCharCode(t *testing.T) {
	logs := httpctx.NewTestLogger(t)
	srv := httptest.NewServer(httpctx.ToStd(httpctx.HandlerFunc(func(c *httpctx.Context) error {
		search, err := c.SearchParams()
		if err != nil {
			return err
		}

		path, err := c.PathParams()
		if err != nil {
			return err
		}

		code := 0
		for _, r := range search["code"] {
			code = code*10 + int(r-'0')
		}

		return c.Write(c.Request.Context(), []byte{byte(code + len(c.CookieParams()) + len(path))})
	}), logs))
	t.Cleanup(srv.Close)

	var body string
	hdr := http.Header{}
	require.NoError(t, requests.
		URL(srv.URL).
		Param("code", "65").
		CopyHeaders(hdr).
		ToString(&body).
		Fetch(context.Background()))

	require.Equal(t, "A", body)
	require.Equal(t, "application/octet-stream", hdr.Get("Content-Type"))
	require.Zero(t, logs.NumLogUnhandledServeError)
}

func TestHandleEcho(t *testing.T) {
	logs := httpctx.NewTestLogger(t)
	srv := newEchoServer(t, logs, httpctx.WithPathBase(1), usersMapping)

	var body string
	hdr := http.Header{}
	require.NoError(t, requests.
		URL(srv.URL).
		Path("/v1/users/1/").
		Param("action", "delete").
		Header("Cookie", "session=0; user=1").
		BodyBytes([]byte(`{"label":"A"}`)).
		ContentType("application/json").
		CopyHeaders(hdr).
		ToString(&body).
		Fetch(context.Background()))

	require.Equal(t, "application/json; charset=utf-8", hdr.Get("Content-Type"))
	require.Equal(t, []string{"session=0; Max-Age=1000"}, hdr.Values("Set-Cookie"))

	require.JSONEq(t, `{"action":"delete"}`, gjson.Get(body, "search").Raw)
	require.JSONEq(t, `{"label":"A"}`, gjson.Get(body, "body").Raw)
	require.Equal(t, "users", gjson.Get(body, "path.type").String())
	require.Equal(t, "1", gjson.Get(body, "path.id").String())
	require.Equal(t, "1", gjson.Get(body, "cookies.user").String())
}

func TestHandleBodyTooLarge(t *testing.T) {
	payload := `{"label":"A"}`

	for _, tt := range []struct {
		name string
		body func() requests.BodyGetter
	}{
		{"content length present", func() requests.BodyGetter {
			return requests.BodyBytes([]byte(payload))
		}},
		{"content length absent", func() requests.BodyGetter {
			// a reader of unknown size is sent chunked
			return requests.BodyReader(iotest.OneByteReader(strings.NewReader(payload)))
		}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			logs := httpctx.NewTestLogger(t)
			srv := newEchoServer(t, logs, httpctx.WithMaxBodySize(1))

			var body string
			require.NoError(t, requests.
				URL(srv.URL).
				Method(http.MethodPost).
				Body(tt.body()).
				CheckStatus(http.StatusRequestEntityTooLarge).
				ToString(&body).
				Fetch(context.Background()))

			require.Equal(t, "Request Entity Too Large", body)
			require.Zero(t, logs.NumLogUnhandledServeError)
		})
	}

	t.Run("content length incorrect", func(t *testing.T) {
		hdlr := httpctx.ToStd(httpctx.HandlerFunc(serveEcho), httpctx.NewTestLogger(t), httpctx.WithMaxBodySize(1))

		rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		req.ContentLength = 0
		req.Header.Set("Content-Length", "0")
		hdlr.ServeHTTP(rec, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestHandleErrors(t *testing.T) {
	t.Run("bad request is not logged", func(t *testing.T) {
		logs := httpctx.NewTestLogger(t)
		srv := newEchoServer(t, logs)

		var body bytes.Buffer
		require.NoError(t, requests.
			URL(srv.URL).
			Post().
			BodyBytes([]byte(`{bad`)).
			CheckStatus(http.StatusBadRequest).
			ToBytesBuffer(&body).
			Fetch(context.Background()))

		require.Equal(t, "Bad Request", body.String())
		require.Zero(t, logs.NumLogUnhandledServeError)
	})

	t.Run("generic error is logged and hidden", func(t *testing.T) {
		logs := httpctx.NewTestLogger(t)
		hdlr := httpctx.ToStd(httpctx.HandlerFunc(func(c *httpctx.Context) error {
			return errors.New("secret detail")
		}), logs)

		rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
		hdlr.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "Internal Server Error", rec.Body.String())
		require.Equal(t, int64(1), logs.NumLogUnhandledServeError)
		require.Zero(t, logs.NumLogWriteError)
	})

	t.Run("error after commit is only logged", func(t *testing.T) {
		logs := httpctx.NewTestLogger(t)
		hdlr := httpctx.ToStd(httpctx.HandlerFunc(func(c *httpctx.Context) error {
			if err := c.Write(c.Request.Context(), "partial"); err != nil {
				return err
			}
			return errors.New("too late")
		}), logs)

		rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
		hdlr.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "partial", rec.Body.String())
		require.Equal(t, int64(1), logs.NumLogUnhandledServeError)
	})

	t.Run("failing error factory falls back", func(t *testing.T) {
		logs := httpctx.NewTestLogger(t)
		hdlr := httpctx.ToStd(httpctx.HandlerFunc(func(c *httpctx.Context) error {
			return errors.New("boom")
		}), logs, httpctx.WithErrorFactory(func(err error) error { return err }))

		rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)
		hdlr.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "Internal Server Error\n", rec.Body.String())
		require.Equal(t, int64(1), logs.NumLogWriteError)
	})
}
