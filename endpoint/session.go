package endpoint

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jefftune/tune-reporting-go/service"
)

// SessionAuthenticate exchanges a long-lived API key for a short-lived
// session token, reducing key exposure in logs and URLs. The response data
// is the issued token.
type SessionAuthenticate struct {
	client *service.Client
	logger zerolog.Logger
}

// NewSessionAuthenticate creates the session authentication endpoint.
func NewSessionAuthenticate(client *service.Client, logger zerolog.Logger) *SessionAuthenticate {
	return &SessionAuthenticate{
		client: client,
		logger: logger.With().Str("endpoint", "session/authenticate").Logger(),
	}
}

// SessionToken requests a session token for the given API key.
func (s *SessionAuthenticate) SessionToken(ctx context.Context, apiKey string, callback service.Callback) (*service.Call, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, service.NewInvalidArgument(`parameter "apiKey" is not defined`)
	}

	params := map[string]any{"api_keys": strings.TrimSpace(apiKey)}
	req, err := service.NewRequest("session/authenticate", "api_key", service.Auth{}, params)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Msg("Requesting session token")
	return s.client.Do(ctx, req, callback), nil
}

// Token extracts the issued session token from a SessionToken response.
func Token(resp *service.Response) (string, error) {
	if resp == nil {
		return "", &service.ServiceError{Message: "session response is not defined"}
	}
	token, ok := resp.Data().(string)
	if !ok || strings.TrimSpace(token) == "" {
		return "", &service.ServiceError{
			Message:    "session response did not return a token",
			RequestURL: resp.RequestURL(),
		}
	}
	return token, nil
}
