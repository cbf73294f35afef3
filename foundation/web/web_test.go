package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/coinjecture/core/foundation/web"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	var order []string
	mark := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(make(chan os.Signal, 1), mark("app"))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, v.TraceID)
		require.Equal(t, v.TraceID, web.GetTraceID(ctx))

		resp := struct {
			Name string `json:"name"`
		}{
			Name: web.Param(r, "name"),
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
	app.Handle(http.MethodGet, "v1", "/echo/:name", h, mark("route"))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/echo/alice", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"name":"alice"}`, w.Body.String())
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, []string{"app", "route"}, order)
}

func TestShutdown(t *testing.T) {
	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	}
	app.Handle(http.MethodGet, "", "/fail", h)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Len(t, shutdown, 1)
	require.True(t, web.IsShutdown(web.NewShutdownError("x")))
}

func TestDecode(t *testing.T) {
	var v struct {
		Data string `json:"data"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"data":"0x00"}`))
	require.NoError(t, web.Decode(r, &v))
	require.Equal(t, "0x00", v.Data)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"data":"0x00","extra":1}`))
	require.Error(t, web.Decode(r, &v))

	_, err := web.GetValues(context.Background())
	require.Error(t, err)
}
