package server

import (
	"net/http"

	"github.com/gordonnow/session-issuer/internal/config"
	"github.com/gordonnow/session-issuer/internal/openapi"
	"github.com/gordonnow/session-issuer/internal/session"
)

const (
	Namespace = "/gordon-now-app/v1"

	AuthenticateUserPath = Namespace + "/authenticate-user"
	ValidateCookiesPath  = Namespace + "/validate-cookies"
	JWKSPath             = Namespace + "/jwks.json"

	maxBodySize = 1 << 20
)

// RegisterRoutes adds the REST API routes to mux. Successful AuthenticateUser
// bodies are passed through the AuthenticateUserResponseFilter hook of
// filters, which may be nil.
func RegisterRoutes(mux *http.ServeMux, cfg *config.Config, sManager *session.Manager, filters Filters) {
	strictHandler := openapi.NewStrictHandlerWithOptions(
		newOpenAPIServer(sManager, cfg.Cookies, filters),
		[]openapi.StrictMiddlewareFunc{
			newTraceMiddleware(cfg),
		},
		openapi.StrictHTTPServerOptions{
			RequestErrorHandlerFunc:  requestErrorHandler,
			ResponseErrorHandlerFunc: responseErrorHandler,
		},
	)

	openapi.HandlerWithOptions(strictHandler, openapi.StdHTTPServerOptions{
		BaseRouter:  mux,
		Middlewares: []openapi.MiddlewareFunc{limitRequestBody},
	})
}

func limitRequestBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		next.ServeHTTP(w, r)
	})
}
