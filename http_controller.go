package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// HTTPController serves the JSON auth API. Route semantics, status codes,
// and body shapes are frozen; clients depend on the exact messages.
type HTTPController struct {
	logger   Logger
	auther   Authenticator
	register *RegisterUserHandler
	verify   *VerifyEmailHandler
	forgot   *InitializePasswordResetHandler
	reset    *FinalizePasswordResetHandler
	profile  *UpdateProfileHandler
	debug    bool
}

// HTTPControllerConfig wires the controller's collaborators.
type HTTPControllerConfig struct {
	Repo     RepositoryManager
	Auther   Authenticator
	Mailer   Dispatcher
	Links    LinkBuilder
	Logger   Logger
	Activity ActivitySink
	Debug    bool
}

func NewHTTPController(cfg HTTPControllerConfig) *HTTPController {
	logger := normalizeLogger(cfg.Logger)
	activity := normalizeActivitySink(cfg.Activity)

	return &HTTPController{
		logger:   logger,
		auther:   cfg.Auther,
		register: NewRegisterUserHandler(cfg.Repo, cfg.Mailer, cfg.Links, logger, activity),
		verify:   NewVerifyEmailHandler(cfg.Repo, logger, activity),
		forgot:   NewInitializePasswordResetHandler(cfg.Repo, cfg.Mailer, cfg.Links, logger, activity),
		reset:    NewFinalizePasswordResetHandler(cfg.Repo, logger, activity),
		profile:  NewUpdateProfileHandler(cfg.Repo, logger, activity),
		debug:    cfg.Debug,
	}
}

// RegisterAuthRoutes mounts the auth endpoints on the given router group.
// The profile route expects the jwtware middleware to have run already.
func RegisterAuthRoutes(router fiber.Router, ctrl *HTTPController, protect fiber.Handler) {
	router.Post("/register", ctrl.Register)
	router.Post("/login", ctrl.Login)
	router.Post("/verify-email", ctrl.VerifyEmail)
	router.Post("/forgot-password", ctrl.ForgotPassword)
	router.Post("/reset-password/:token", ctrl.ResetPassword)
	router.Put("/profile", protect, ctrl.UpdateProfile)
}

func (ctrl *HTTPController) Register(c *fiber.Ctx) error {
	payload := RegisterPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err.Error())
	}

	ctrl.debugDump(payload)

	err := ctrl.register.Execute(c.UserContext(), RegisterUserMessage{
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  payload.Password,
		Role:      payload.Role,
		Degree:    payload.Degree,
		Specialty: payload.Specialty,
		Location:  payload.Location,
	})
	if err != nil {
		return ctrl.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully. Please check your email to verify your account.",
	})
}

func (ctrl *HTTPController) Login(c *fiber.Ctx) error {
	payload := LoginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err.Error())
	}

	token, user, err := ctrl.auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return ctrl.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.Public(),
	})
}

func (ctrl *HTTPController) VerifyEmail(c *fiber.Ctx) error {
	payload := VerifyEmailPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, "invalid request body")
	}

	if payload.Token == "" {
		payload.Token = c.Query("token")
	}

	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err.Error())
	}

	err := ctrl.verify.Execute(c.UserContext(), VerifyEmailMessage{Token: payload.Token})
	if err != nil {
		return ctrl.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully. You can now login.",
	})
}

func (ctrl *HTTPController) ForgotPassword(c *fiber.Ctx) error {
	payload := ForgotPasswordPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err.Error())
	}

	err := ctrl.forgot.Execute(c.UserContext(), InitializePasswordResetMessage{Email: payload.Email})
	if err != nil {
		return ctrl.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Email sent"})
}

func (ctrl *HTTPController) ResetPassword(c *fiber.Ctx) error {
	payload := ResetPasswordPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return ctrl.badRequest(c, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err.Error())
	}

	err := ctrl.reset.Execute(c.UserContext(), FinalizePasswordResetMessage{
		Token:    c.Params("token"),
		Password: payload.Password,
	})
	if err != nil {
		return ctrl.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password Reset Successful"})
}

func (ctrl *HTTPController) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := GetClaimsContext(c.UserContext())
	if !ok {
		return ctrl.respondError(c, ErrNoTokenProvided)
	}

	userID, err := uuid.Parse(claims.UID)
	if err != nil {
		return ctrl.respondError(c, ErrTokenMalformed)
	}

	// An absent body is a valid empty patch; the update must still mark
	// onboarding complete.
	payload := UpdateProfilePayload{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return ctrl.badRequest(c, "invalid request body")
		}
	}

	if err := payload.Validate(); err != nil {
		return ctrl.badRequest(c, err.Error())
	}

	ctrl.debugDump(payload)

	var updated *User
	err = ctrl.profile.Execute(c.UserContext(), UpdateProfileMessage{
		UserID: userID,
		Patch:  payload.Patch(),
		OnResponse: func(user *User) {
			updated = user
		},
	})
	if err != nil {
		return ctrl.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    updated.Public(),
	})
}

func (ctrl *HTTPController) badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

func (ctrl *HTTPController) respondError(c *fiber.Ctx, err error) error {
	status := HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		ctrl.logger.Error("request to %s failed: %v", c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"message": PublicMessage(err)})
}

func (ctrl *HTTPController) debugDump(payload any) {
	if ctrl.debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}
}
