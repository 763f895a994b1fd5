package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodonline/backend/internal/forms"
	"github.com/foodonline/backend/internal/service"
)

// RegisterPath serves the registration page and receives its submissions
const RegisterPath = "/accounts/registerUser/"

const registerTemplate = "accounts/registerUser.html"

// AccountsHandler serves the public registration page
type AccountsHandler struct {
	users     service.IUserService
	rateLimit gin.HandlerFunc
	logger    *slog.Logger
}

// NewAccountsHandler creates the handler. rateLimit may be nil to accept
// every submission.
func NewAccountsHandler(users service.IUserService, rateLimit gin.HandlerFunc, logger *slog.Logger) *AccountsHandler {
	return &AccountsHandler{
		users:     users,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

func (h *AccountsHandler) RegisterRoutes(router gin.IRouter) {
	router.GET(RegisterPath, h.RegisterUser)

	post := []gin.HandlerFunc{h.RegisterUser}
	if h.rateLimit != nil {
		post = append([]gin.HandlerFunc{h.rateLimit}, post...)
	}
	router.POST(RegisterPath, post...)
}

// RegisterUser renders an empty form on GET. On POST an invalid submission
// is rendered again with its errors and a valid one creates a customer
// account, then redirects back to the page.
func (h *AccountsHandler) RegisterUser(c *gin.Context) {
	form := &forms.RegistrationForm{}
	if c.Request.Method != http.MethodPost {
		h.render(c, form)
		return
	}

	if err := form.Bind(c); err != nil {
		var verrs forms.ValidationErrors
		if !errors.As(err, &verrs) {
			h.logger.Warn("[AccountsHandler] unreadable registration body", slog.String("error", err.Error()))
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		h.logger.Info("[AccountsHandler] invalid registration", slog.Any("errors", form.Errors()))
		h.render(c, form)
		return
	}

	user, err := h.users.RegisterCustomer(c.Request.Context(), form.ToNewUser())
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUser) {
			h.logger.Warn("[AccountsHandler] registration lost a uniqueness race", slog.String("username", form.Username))
		}
		_ = c.Error(fmt.Errorf("register customer: %w", err))
		c.Abort()
		return
	}

	h.logger.Info("[AccountsHandler] user registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("role", user.Role.String()),
	)
	c.Redirect(http.StatusFound, RegisterPath)
}

func (h *AccountsHandler) render(c *gin.Context, form *forms.RegistrationForm) {
	c.HTML(http.StatusOK, registerTemplate, gin.H{"Form": form})
}
