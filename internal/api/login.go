package api

import (
	"context"
	"net/http"

	"github.com/debemdeboas/folio/internal/auth"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginAnswer is the user the backend returns, with whatever token field it
// chose to include.
type loginAnswer struct {
	model.User
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

// Login exchanges credentials for an authenticated session. Rejected
// credentials yield ErrInvalidCredentials and an Anonymous session.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	status, data, err := c.do(ctx, http.MethodPost, config.APILoginPath, credentials{Email: email, Password: password})
	if err != nil {
		c.logger.Error().Err(err).Msg(config.ErrBackendUnavailable)
		return auth.Anonymous{}, err
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusNotFound:
		c.logger.Info().Int("status", status).Msg("Login rejected")
		return auth.Anonymous{}, ErrInvalidCredentials
	case !success(status):
		err := &StatusError{Status: status, Message: errorMessage(data)}
		c.logger.Error().Err(err).Msg("Login failed")
		return auth.Anonymous{}, err
	}

	answer, err := decodeEntity[loginAnswer](data)
	if err != nil {
		c.logger.Error().Err(err).Msg(config.ErrDecodeResponse)
		return auth.Anonymous{}, err
	}
	if answer.ID == "" {
		return auth.Anonymous{}, ErrInvalidCredentials
	}

	token := answer.Token
	if token == "" {
		token = answer.AccessToken
	}
	return auth.Authenticated{User: answer.User, Token: token}, nil
}
