package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/gordonnow/session-issuer/internal/config"
	"github.com/gordonnow/session-issuer/internal/identity"
	"github.com/gordonnow/session-issuer/internal/openapi"
	"github.com/gordonnow/session-issuer/internal/serviceerr"
	"github.com/gordonnow/session-issuer/internal/session"
)

// AuthenticateUserResponseFilter is the filter hook the body of a successful
// AuthenticateUser response is passed through. Filters receive and must
// return an openapi.AuthenticateUserResponse.
const AuthenticateUserResponseFilter = "authenticate_user_response"

const (
	noStore   = "no-store"
	jwksCache = "public, max-age=300"
)

// Filters threads a value through the filters registered under a hook name.
type Filters interface {
	Apply(ctx context.Context, name string, value any) (any, error)
}

// openAPIServer is an implementation of the OpenAPI interface.
type openAPIServer struct {
	sManager      *session.Manager
	filters       Filters
	setOnResponse bool
}

// Ensure openAPIServer implements [openapi.StrictServerInterface]
var _ openapi.StrictServerInterface = (*openAPIServer)(nil)

func newOpenAPIServer(sManager *session.Manager, cookies config.Cookies, filters Filters) *openAPIServer {
	return &openAPIServer{
		sManager:      sManager,
		filters:       filters,
		setOnResponse: cookies.SetOnResponse,
	}
}

// AuthenticateUser implements openapi.StrictServerInterface.
func (s *openAPIServer) AuthenticateUser(ctx context.Context, request openapi.AuthenticateUserRequestObject) (openapi.AuthenticateUserResponseObject, error) {
	slogctx.Debug(ctx, "AuthenticateUser() called")
	defer slogctx.Debug(ctx, "AuthenticateUser() completed")

	if request.Body == nil {
		body, status := newBadRequest("request body must be a JSON object with username and password")
		return openapi.AuthenticateUserdefaultJSONResponse{Body: body, StatusCode: status}, nil
	}

	creds := identity.Credentials{Username: request.Body.Username, Password: request.Body.Password}

	issued, err := s.sManager.Login(ctx, creds)
	if err != nil {
		slogctx.Info(ctx, "Login failed", "credentials", creds, "error", err)

		body, status := toErrorModel(err)
		return openapi.AuthenticateUserdefaultJSONResponse{Body: body, StatusCode: status}, nil
	}

	respBody, err := s.filterAuthenticateUserResponse(ctx, openapi.AuthenticateUserResponse{
		Jwt:        issued.Token.Raw,
		Expiration: issued.ExpiresAt.Unix(),
		Cookies: openapi.Cookies{
			Auth:     openapi.Cookie{Name: issued.AuthCookie.Name, Value: issued.AuthCookie.Value},
			LoggedIn: openapi.Cookie{Name: issued.LoggedInCookie.Name, Value: issued.LoggedInCookie.Value},
		},
	})
	if err != nil {
		slogctx.Error(ctx, "Failed to filter the response", "error", err)

		body, status := toErrorModel(serviceerr.ErrServerError)
		return openapi.AuthenticateUserdefaultJSONResponse{Body: body, StatusCode: status}, nil
	}

	response := openapi.AuthenticateUser200JSONResponse{
		Body:    respBody,
		Headers: openapi.AuthenticateUser200ResponseHeaders{CacheControl: noStore},
	}

	if !s.setOnResponse {
		return response, nil
	}

	cookies, err := s.sManager.MakeCookies(ctx, issued)
	if err != nil {
		slogctx.Error(ctx, "Failed to create session cookies", "error", err)

		body, status := toErrorModel(serviceerr.ErrServerError)
		return openapi.AuthenticateUserdefaultJSONResponse{Body: body, StatusCode: status}, nil
	}

	return withCookies{AuthenticateUser200JSONResponse: response, cookies: cookies}, nil
}

// ValidateCookies implements openapi.StrictServerInterface. Missing values
// are reported invalid.
func (s *openAPIServer) ValidateCookies(ctx context.Context, request openapi.ValidateCookiesRequestObject) (openapi.ValidateCookiesResponseObject, error) {
	slogctx.Debug(ctx, "ValidateCookies() called")
	defer slogctx.Debug(ctx, "ValidateCookies() completed")

	if request.Body == nil {
		body, status := newBadRequest("request body must be a JSON object")
		return openapi.ValidateCookiesdefaultJSONResponse{Body: body, StatusCode: status}, nil
	}

	res := s.sManager.Validate(ctx, deref(request.Body.AuthCookie), deref(request.Body.LoggedInCookie))

	return openapi.ValidateCookies200JSONResponse{
		Body: openapi.ValidateCookiesResponse{
			Auth:     res.Auth,
			LoggedIn: res.LoggedIn,
			Valid:    res.Valid(),
		},
		Headers: openapi.ValidateCookies200ResponseHeaders{CacheControl: noStore},
	}, nil
}

// GetJWKS implements openapi.StrictServerInterface.
func (s *openAPIServer) GetJWKS(ctx context.Context, _ openapi.GetJWKSRequestObject) (openapi.GetJWKSResponseObject, error) {
	keys, err := s.sManager.KeySet()
	if err != nil {
		slogctx.Warn(ctx, "Key set requested but issuance is not configured")

		body, status := toErrorModel(err)
		return openapi.GetJWKSdefaultJSONResponse{Body: body, StatusCode: status}, nil
	}

	return openapi.GetJWKS200JSONResponse{
		Body:    keys,
		Headers: openapi.GetJWKS200ResponseHeaders{CacheControl: jwksCache},
	}, nil
}

func (s *openAPIServer) filterAuthenticateUserResponse(ctx context.Context, body openapi.AuthenticateUserResponse) (openapi.AuthenticateUserResponse, error) {
	if s.filters == nil {
		return body, nil
	}

	filtered, err := s.filters.Apply(ctx, AuthenticateUserResponseFilter, body)
	if err != nil {
		return openapi.AuthenticateUserResponse{}, err
	}

	body, ok := filtered.(openapi.AuthenticateUserResponse)
	if !ok {
		return openapi.AuthenticateUserResponse{}, fmt.Errorf("%s filter returned %T", AuthenticateUserResponseFilter, filtered)
	}

	return body, nil
}

// withCookies adds the session cookies to a successful AuthenticateUser
// response.
type withCookies struct {
	openapi.AuthenticateUser200JSONResponse

	cookies []*http.Cookie
}

func (response withCookies) VisitAuthenticateUserResponse(w http.ResponseWriter) error {
	for _, c := range response.cookies {
		http.SetCookie(w, c)
	}

	return response.AuthenticateUser200JSONResponse.VisitAuthenticateUserResponse(w)
}

func toErrorModel(err error) (model openapi.ErrorModel, httpStatus int) {
	var serviceErr *serviceerr.Error
	if !errors.As(err, &serviceErr) {
		serviceErr = serviceerr.ErrUnknown
	}

	// Never echo provider or key details back to the client.
	switch serviceErr.Err {
	case serviceerr.CodeUnauthenticated:
		serviceErr = serviceerr.ErrUnauthenticated
	case serviceerr.CodeTemporarilyUnavailable:
		serviceErr = serviceerr.ErrIdentityProviderUnavailable
	}

	model = openapi.ErrorModel{Error: string(serviceErr.Err)}
	if serviceErr.Description != "" {
		model.ErrorDescription = &serviceErr.Description
	}

	return model, serviceErr.HTTPStatus()
}

func newBadRequest(description string) (model openapi.ErrorModel, httpStatus int) {
	return openapi.ErrorModel{
		Error:            string(serviceerr.CodeInvalidRequest),
		ErrorDescription: &description,
	}, http.StatusBadRequest
}

// requestErrorHandler answers requests the generated handler could not decode.
func requestErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	slogctx.Info(r.Context(), "Failed to decode request", "error", err)

	body, status := newBadRequest("request body must be a JSON object")
	writeErrorModel(w, body, status)
}

// responseErrorHandler answers requests whose handler failed without an
// error response.
func responseErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	slogctx.Error(r.Context(), "Failed to handle request", "error", err)

	body, status := toErrorModel(serviceerr.ErrServerError)
	writeErrorModel(w, body, status)
}

func writeErrorModel(w http.ResponseWriter, body openapi.ErrorModel, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
