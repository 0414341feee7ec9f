package httputil

import (
	"encoding/json"
	"testing"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestWriteResponse(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	WriteResponseWithStatus(ctx, map[string]int{"n": 1}, fasthttp.StatusCreated)

	assert.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var resp Response
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.True(t, resp.Success)
}

func TestWriteErrorResponse(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	WriteErrorResponse(ctx, "nope", fasthttp.StatusBadRequest)

	var resp Response
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "nope", resp.Error)
}

func TestDecodeJSON(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(ctx, &dst))

	ctx.Request.SetBody([]byte(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(ctx, &dst))
	assert.Equal(t, "x", dst.Name)

	ctx.Request.SetBody([]byte(`{`))
	assert.Error(t, DecodeJSON(ctx, &dst))
}

func TestMiddlewareGroup_RecoverAndOrder(t *testing.T) {
	r := router.New()
	var order []string
	tag := func(name string) Middleware {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}

	g := NewMiddlewareGroup(r.Group("/api"), Recover(zerolog.Nop()), tag("outer"))
	g.Group("/v").GET("/panic", func(ctx *fasthttp.RequestCtx) { panic("boom") })

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/api/v/panic")
	r.Handler(ctx)

	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, []string{"outer"}, order)
}
