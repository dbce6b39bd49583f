// Package natsrpc binds the authentication operations to the internal
// NATS message bus. Each operation is a request/reply subject with JSON
// payloads; replies are either the success shape or a {status, message}
// error envelope.
package natsrpc

import (
	"context"
	"strings"

	"github.com/authvault/authvault/internal/logging"
	"github.com/authvault/authvault/internal/server/services"
	"github.com/nats-io/nats.go"
)

// Bus subjects served by authvault.
const (
	SubjectRegister = "auth.register.user"
	SubjectLogin    = "auth.login.user"
	SubjectVerify   = "auth.verify.user"
)

// queueGroup makes concurrent authvault instances share the subjects
// instead of all answering the same request.
const queueGroup = "authvault"

// Server subscribes to the auth subjects and dispatches requests to the
// auth service.
type Server struct {
	servers []string
	auth    *services.AuthService
	logger  logging.Logger
}

func NewServer(servers []string, auth *services.AuthService, l logging.Logger) *Server {
	return &Server{
		servers: servers,
		auth:    auth,
		logger:  l.With("module", "nats_server"),
	}
}

// Run connects to the bus, subscribes, and blocks until ctx is cancelled,
// then drains the connection so in-flight requests finish.
func (s *Server) Run(ctx context.Context) error {

	nc, err := nats.Connect(strings.Join(s.servers, ","), nats.Name("authvault"))
	if err != nil {
		return err
	}

	subjects := map[string]func(context.Context, []byte) []byte{
		SubjectRegister: s.register,
		SubjectLogin:    s.login,
		SubjectVerify:   s.verify,
	}

	for subject, handle := range subjects {
		handle := handle
		_, err := nc.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
			if err := msg.Respond(handle(ctx, msg.Data)); err != nil {
				s.logger.Error(ctx, "respond failed", "subject", msg.Subject, "error", err)
			}
		})
		if err != nil {
			nc.Close()
			return err
		}
	}

	s.logger.Info(ctx, "Starting NATS transport", "servers", s.servers)

	<-ctx.Done()

	s.logger.Info(ctx, "Stopping NATS transport...")
	return nc.Drain()
}
