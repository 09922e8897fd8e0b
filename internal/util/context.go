package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

type requestInfoKey struct{}

// RequestInfo is the request metadata recorded with audit entries.
type RequestInfo struct {
	IP        string
	UserAgent string
	Path      string
	Method    string
}

// WithRequestInfo returns a copy of ctx carrying info.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestInfoFromContext returns the metadata stored by WithRequestInfo. A gin
// context without it falls back to the values of its current request.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	if info, ok := ctx.Value(requestInfoKey{}).(RequestInfo); ok {
		return info
	}

	if ginCtx, ok := ctx.(*gin.Context); ok && ginCtx.Request != nil {
		if info, ok := ginCtx.Request.Context().Value(requestInfoKey{}).(RequestInfo); ok {
			return info
		}
		return RequestInfo{
			IP:        ginCtx.ClientIP(),
			UserAgent: ginCtx.Request.UserAgent(),
			Path:      ginCtx.Request.URL.Path,
			Method:    ginCtx.Request.Method,
		}
	}

	return RequestInfo{}
}
