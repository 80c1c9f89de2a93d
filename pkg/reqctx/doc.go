// Package reqctx carries request-scoped metadata through context.Context.
//
// The HTTP request-id middleware stores a RequestMeta for every request;
// the log handler in pkg/logs reads it back so service logs written with
// slog.*Context carry the request id without threading it by hand. The auth
// middleware adds the signed-in operator's Identity the same way.
//
//	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: rid})
//	rid := reqctx.RequestIDFromContext(ctx)
package reqctx
