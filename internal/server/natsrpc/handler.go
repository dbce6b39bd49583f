package natsrpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authvault/authvault/internal/common"
	"github.com/authvault/authvault/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  services.UserView `json:"user"`
	Token string            `json:"token"`
}

// errorResponse mirrors the RpcException envelope consumed by the other
// services on the bus.
type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) register(ctx context.Context, data []byte) []byte {
	var req registerRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return marshalError(http.StatusBadRequest, "malformed request")
	}

	s.logger.Info(ctx, "Registration request", "email", req.Email)

	res, err := s.auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return marshalClassified(err)
	}

	return marshalResult(res)
}

func (s *Server) login(ctx context.Context, data []byte) []byte {
	var req loginRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return marshalError(http.StatusBadRequest, "malformed request")
	}

	res, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return marshalClassified(err)
	}

	return marshalResult(res)
}

func (s *Server) verify(ctx context.Context, data []byte) []byte {
	// The token travels as a bare JSON string.
	var tok string
	if err := json.Unmarshal(data, &tok); err != nil {
		return marshalError(http.StatusUnauthorized, "unauthorized")
	}

	res, err := s.auth.VerifyToken(ctx, tok)
	if err != nil {
		return marshalClassified(err)
	}

	return marshalResult(res)
}

func marshalResult(res *services.AuthResult) []byte {
	b, err := json.Marshal(authResponse{User: res.User, Token: res.Token})
	if err != nil {
		return marshalError(http.StatusInternalServerError, "internal server error")
	}
	return b
}

// marshalClassified maps the service error taxonomy to the wire envelope.
// Only the short classified message crosses the bus; internal causes stay
// in the server log.
func marshalClassified(err error) []byte {
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		return marshalError(http.StatusConflict, "user already exists")
	case errors.Is(err, common.ErrNotFound):
		return marshalError(http.StatusBadRequest, "user does not exist")
	case errors.Is(err, common.ErrInvalidCredentials):
		return marshalError(http.StatusBadRequest, "invalid credentials")
	case errors.Is(err, common.ErrUnauthorized):
		return marshalError(http.StatusUnauthorized, "unauthorized")
	default:
		return marshalError(http.StatusInternalServerError, "internal server error")
	}
}

func marshalError(status int, message string) []byte {
	b, _ := json.Marshal(errorResponse{Status: status, Message: message})
	return b
}
