package auth

import (
	"time"

	"farmhith/middleware"
	authService "farmhith/services/auth"
	"farmhith/types"
	authTypes "farmhith/types/auth"
	otpTypes "farmhith/types/otp"
	"farmhith/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthController handles admin sign-in, phone OTP login and session management.
type AuthController struct {
	Service       *authService.Service
	SecureCookies bool
}

func NewAuthController(service *authService.Service, secureCookies bool) *AuthController {
	return &AuthController{
		Service:       service,
		SecureCookies: secureCookies,
	}
}

func (ac *AuthController) AdminLogin(c *fiber.Ctx) error {
	var req authTypes.AdminCredentials
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	resp, err := ac.Service.SignInAdmin(c.UserContext(), req, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ac.sessionResponse(c, "Admin signed in successfully", resp)
}

func (ac *AuthController) SendOTP(c *fiber.Ctx) error {
	var req otpTypes.SendOTPRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	resp, err := ac.Service.SendPhoneOTP(c.UserContext(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "OTP sent to your phone number",
		Data:    resp,
	})
}

func (ac *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var req otpTypes.VerifyOTPRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	resp, err := ac.Service.VerifyPhoneOTP(c.UserContext(), req, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ac.sessionResponse(c, "Signed in successfully", resp)
}

func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	var req authTypes.RefreshRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	resp, err := ac.Service.RefreshSession(c.UserContext(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ac.sessionResponse(c, "Session refreshed", resp)
}

// AdminRefresh refreshes only admin sessions; a non-admin session is revoked.
func (ac *AuthController) AdminRefresh(c *fiber.Ctx) error {
	var req authTypes.RefreshRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.RespondError(c, err)
	}

	resp, err := ac.Service.RefreshAdminSession(c.UserContext(), req)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return ac.sessionResponse(c, "Session refreshed", resp)
}

// Session returns the caller's session, or null data when signed out.
func (ac *AuthController) Session(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Session fetched successfully",
		Data:    middleware.CurrentSession(c),
	})
}

// AdminSession reports whether the caller holds an admin session.
func (ac *AuthController) AdminSession(c *fiber.Ctx) error {
	token := utils.ExtractBearerToken(c)
	sess, err := ac.Service.GetCurrentAdminSession(c.UserContext(), token)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Session fetched successfully",
		Data: fiber.Map{
			"authenticated": ac.Service.IsAdminAuthenticated(c.UserContext(), token),
			"session":       sess,
		},
	})
}

// Logout revokes the current session and clears the access cookie.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if err := ac.Service.SignOut(c.UserContext(), sess.ID); err != nil {
		return utils.RespondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     utils.AccessCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   ac.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Logged out successfully",
	})
}

func (ac *AuthController) sessionResponse(c *fiber.Ctx, message string, resp *authTypes.SessionResponse) error {
	c.Cookie(&fiber.Cookie{
		Name:     utils.AccessCookie,
		Value:    resp.AccessToken,
		Expires:  resp.ExpiresAt,
		HTTPOnly: true,
		Secure:   ac.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Token:   resp.AccessToken,
		Data:    resp,
	})
}
