package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const tokenCookieName = "token"

type userHandler struct {
	responder    Responder
	logger       zerolog.Logger
	userRepo     *database.UserRepo
	passwords    *auth.PasswordService
	tokens       *auth.TokenService
	gate         authMiddleware
	secureCookie bool
}

func newUserHandler(userRepo *database.UserRepo, passwords *auth.PasswordService, tokens *auth.TokenService, gate authMiddleware, secureCookie bool) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()
	return userHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		userRepo:     userRepo,
		passwords:    passwords,
		tokens:       tokens,
		gate:         gate,
		secureCookie: secureCookie,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID.String(), Email: u.Email, Role: u.Role}
}

// login checks the password and issues a bearer token, also set as an HttpOnly cookie.
// An unknown email and a wrong password get the same answer.
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if err := validateRequest(req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByEmail(r.Context(), req.Email)
		if err != nil {
			if errs.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewInvalidCredentialsError())
				return
			}
			h.responder.WriteError(w, err)
			return
		}
		if err := h.passwords.Verify(user.PasswordHash, req.Password); err != nil {
			h.logger.Warn().Str("email", user.Email).Msg("failed login")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, err := h.tokens.Generate(user.ID.String(), user.Email)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Could not issue token", err))
			return
		}

		sameSite := http.SameSiteLaxMode
		if h.secureCookie {
			sameSite = http.SameSiteNoneMode
		}
		http.SetCookie(w, &http.Cookie{
			Name:     tokenCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(h.tokens.TTL().Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: sameSite,
		})

		h.responder.WriteSuccess(w, http.StatusOK, "Login successful", loginResponse{
			Token: token,
			User:  newUserView(user),
		})
	}
}

// verifyToken checks a token from the body, falling back to the cookie set at login
func (h userHandler) verifyToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyTokenRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &req); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}
		token := strings.TrimSpace(req.Token)
		if token == "" {
			if c, err := r.Cookie(tokenCookieName); err == nil {
				token = c.Value
			}
		}
		if token == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("token"))
			return
		}

		user, err := h.gate.identify(r.Context(), token)
		if err != nil {
			if errs.IsUnauthorized(err) {
				h.responder.WriteError(w, errs.NewUnauthorizedError("Invalid or expired token"))
				return
			}
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", map[string]userView{"user": newUserView(user)})
	}
}
