package httpctx_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/httpctx"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err1 := httpctx.NewError(httpctx.CodeBadRequest, errors.New("foo"))
	require.Equal(t, httpctx.Code(400), err1.Code())
	require.Equal(t, httpctx.CodeBadRequest, httpctx.CodeOf(err1))
	require.Equal(t, "Bad Request: foo", err1.Error())

	require.Equal(t, httpctx.CodeUnknown, httpctx.CodeOf(errors.New("bar")))
	require.Equal(t, "Unknown: rab", httpctx.NewError(900, errors.New("rab")).Error())
	require.Equal(t, "Not Found", httpctx.NewError(httpctx.CodeNotFound, nil).Error())
}

func TestErrorWrapping(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := errors.Wrap(httpctx.NewError(httpctx.CodeConflict, sentinel), "outer")

	require.True(t, httpctx.IsHTTPError(err))
	require.Equal(t, httpctx.CodeConflict, httpctx.CodeOf(err))
	require.ErrorIs(t, err, sentinel)

	require.False(t, httpctx.IsHTTPError(errors.New("plain")))
	require.False(t, httpctx.IsHTTPError(httpctx.NewError(httpctx.CodeUnknown, sentinel)))
	require.False(t, httpctx.IsHTTPError(httpctx.NewError(http.StatusEarlyHints, nil)))
	require.False(t, httpctx.IsHTTPError(httpctx.NewError(http.StatusFound, nil)))
	require.False(t, httpctx.IsHTTPError(httpctx.NewError(900, nil)))
	require.True(t, httpctx.IsHTTPError(httpctx.NewError(httpctx.CodeBadRequest, nil)))
	require.True(t, httpctx.IsHTTPError(httpctx.NewError(httpctx.CodeNetworkAuthenticationRequired, nil)))
}

func TestSentinelsMatchStdlib(t *testing.T) {
	_, err := httpctx.BodyOf(42)
	require.True(t, stderrors.Is(err, httpctx.ErrUnsupportedBodyType))
	require.Contains(t, err.Error(), "unknown data type to write: 42 (int)")

	err = httpctx.New(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)).
		WriteBody(context.Background(), httpctx.Stream{})
	require.True(t, stderrors.Is(err, httpctx.ErrUnsupportedBodyType))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RequestURI = "/%zz"
	_, err = httpctx.New(httptest.NewRecorder(), req).URL()
	require.True(t, stderrors.Is(err, httpctx.ErrMalformedURL))
	require.Contains(t, err.Error(), `failed to parse request target "/%zz"`)

	err = httpctx.New(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)).
		WriteError(context.Background(), nil)
	require.True(t, stderrors.Is(err, httpctx.ErrInvalidErrorArgument))
}

func TestErrorOptions(t *testing.T) {
	err := httpctx.NewError(httpctx.CodeUnauthorized, errors.New("token expired"),
		httpctx.Expose(),
		httpctx.WithHeader("WWW-Authenticate", "Bearer"),
		httpctx.WithErrorContentType("text/problem"))

	require.True(t, err.Exposed())
	require.Equal(t, "token expired", err.Message())
	require.Equal(t, http.Header{"Www-Authenticate": {"Bearer"}}, err.Header())
	require.Equal(t, "text/problem", err.ContentType())

	plain := httpctx.NewError(httpctx.CodeGone, nil)
	require.False(t, plain.Exposed())
	require.Nil(t, plain.Header())
	require.Equal(t, "Gone", plain.Message())
}
