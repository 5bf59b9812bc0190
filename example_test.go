package httpctx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/advdv/httpctx"
	"github.com/cockroachdb/errors"
)

func Example() {
	hdlr := httpctx.ToStd(httpctx.HandlerFunc(func(c *httpctx.Context) error {
		segs, err := c.PathSegments()
		if err != nil {
			return err
		}

		return c.Write(c.Request.Context(), map[string]string{"id": segs.At(1)})
	}), httpctx.NewStdLogger(nil))

	rec := httptest.NewRecorder()
	hdlr.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	fmt.Println("Status:", rec.Code)
	fmt.Println("Type:", rec.Header().Get("Content-Type"))
	fmt.Println("Body:", rec.Body.String())
	// Output:
	// Status: 200
	// Type: application/json; charset=utf-8
	// Body: {"id":"42"}
}

func ExampleNewError() {
	hdlr := httpctx.ToStd(httpctx.HandlerFunc(func(c *httpctx.Context) error {
		token := c.Request.Header.Get("Authorization")
		if token == "" {
			return httpctx.NewError(httpctx.CodeUnauthorized, errors.New("missing token"),
				httpctx.WithHeader("WWW-Authenticate", "Bearer"))
		}
		if token != "Bearer secret" {
			return httpctx.NewError(httpctx.CodeForbidden, errors.New("invalid token"), httpctx.Expose())
		}

		return c.Write(c.Request.Context(), "welcome")
	}), httpctx.NewStdLogger(nil))

	for _, token := range []string{"", "Bearer wrong", "Bearer secret"} {
		rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/protected", nil)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		hdlr.ServeHTTP(rec, req)

		fmt.Println(rec.Code, rec.Body.String())
	}
	// Output:
	// 401 Unauthorized
	// 403 invalid token
	// 200 welcome
}

func ExampleContext_ReadBody() {
	hdlr := httpctx.ToStd(httpctx.HandlerFunc(func(c *httpctx.Context) error {
		if err := c.ReadBody(c.Request.Context()); err != nil {
			return err
		}

		params, err := c.BodyParams()
		if err != nil {
			return httpctx.NewError(httpctx.CodeBadRequest, err)
		}

		c.StatusCode = http.StatusCreated
		return c.Write(c.Request.Context(), params)
	}), httpctx.NewStdLogger(nil), httpctx.WithMaxBodySize(32))

	for _, body := range []string{`{"label":"A"}`, `{"label":"far too long for the limit"}`} {
		rec := httptest.NewRecorder()
		hdlr.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

		fmt.Println(rec.Code, rec.Body.String())
	}
	// Output:
	// 201 {"label":"A"}
	// 413 Request Entity Too Large
}

func ExampleContext_WriteBody() {
	rec := httptest.NewRecorder()
	c := httpctx.New(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_ = c.WriteBody(c.Request.Context(), httpctx.Text{Text: "<h1>hi</h1>", ContentType: "text/html"})

	fmt.Println(rec.Header().Get("Content-Type"))
	// Output:
	// text/html; charset=utf-8
}
