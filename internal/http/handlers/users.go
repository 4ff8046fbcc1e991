package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/userhub/internal/apperr"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, nu user.NewUser) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	ListWithEvents(ctx context.Context, roles []user.Role) ([]user.Listed, error)
}

type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

type UsersHandler struct {
	users  UserStore
	tokens TokenIssuer
}

func NewUsersHandler(users UserStore, tokens TokenIssuer) *UsersHandler {
	return &UsersHandler{
		users:  users,
		tokens: tokens,
	}
}

// Register creates a simple user and returns it with a fresh token.
// POST /api/users
func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !Bind(ctx, &req) {
		return
	}

	// bcrypt only takes 72 bytes; reject rather than hash a truncated secret
	if len(req.Password) > security.MaxPasswordBytes {
		fail(ctx, apperr.BadRequest("invalid_request", "Password is too long").WithDetails(gin.H{
			"fields": []FieldError{{
				Field:   "password",
				Rule:    "max_bytes",
				Param:   strconv.Itoa(security.MaxPasswordBytes),
				Message: "must be at most " + strconv.Itoa(security.MaxPasswordBytes) + " bytes",
			}},
		}))
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)

	defer cancel()

	// check if user exists
	_, err := h.users.GetByEmail(cctx, req.Email)

	if err == nil {
		fail(ctx, apperr.BadRequest("user_exists", "User already exists"))
		return
	}

	if !errors.Is(err, user.ErrNotFound) {
		failInternal(ctx, "Could not create user", err)
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		failInternal(ctx, "Could not create user", err)
		return
	}

	u, err := h.users.Create(cctx, user.NewUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleSimple,
	})

	if err != nil {
		// the unique index caught a concurrent registration
		if errors.Is(err, user.ErrEmailTaken) {
			fail(ctx, apperr.BadRequest("user_exists", "User already exists"))
			return
		}

		failInternal(ctx, "Invalid user data", err)
		return
	}

	token, err := h.tokens.GenerateToken(u.ID)

	if err != nil {
		failInternal(ctx, "Could not generate token", err)
		return
	}

	ctx.JSON(http.StatusCreated, u.WithToken(token))
}

// Login answers the same way for an unknown email and a wrong password.
// POST /api/users/login
func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !Bind(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		failInternal(ctx, "Could not log in", err)
		return
	}

	// one exit for both failures so the error body is identical
	if err != nil || security.CheckPassword(foundUser.PasswordHash, req.Password) != nil {
		fail(ctx, apperr.Unauthorized("invalid_credentials", "Invalid email or password"))
		return
	}

	token, err := h.tokens.GenerateToken(foundUser.ID)

	if err != nil {
		failInternal(ctx, "Could not generate token", err)
		return
	}

	ctx.JSON(http.StatusOK, foundUser.WithToken(token))
}

// Me returns the user attached by the auth middleware.
// GET /api/users/user
func (h *UsersHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		fail(ctx, apperr.Unauthorized("unauthorized", "Not authorized"))
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// List returns simple and admin users with their events embedded.
// GET /api/users/list
func (h *UsersHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.users.ListWithEvents(cctx, user.ListedRoles)

	if err != nil {
		failInternal(ctx, "Could not list users", err)
		return
	}

	if users == nil {
		users = []user.Listed{}
	}

	RespondJSONWithETag(ctx, http.StatusOK, users)
}
