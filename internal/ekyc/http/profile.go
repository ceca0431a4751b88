package http

import (
	"net/http"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/service"
	"github.com/aussiebroadwan/ekyc/pkg/authsdk"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
)

type ProfileHandler struct {
	Accounts *service.AccountService
}

// HandleGet godoc
//
//	@Summary	Get profile
//	@Tags		Profile
//	@Produce	json
//	@Success	200	{object}	authsdk.Response[authsdk.User]	"Current account"
//	@Failure	401	{object}	authsdk.Response[any]			"Missing or invalid token"
//	@Security	BearerAuth
//	@Router		/api/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	account, err := h.Accounts.Profile(r.Context(), id.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "User profile retrieved successfully", toUser(account))
}

// HandleUpdate godoc
//
//	@Summary		Update profile
//	@Description	Change username and/or email. Other fields are ignored.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	authsdk.Response[authsdk.User]	"Updated account"
//	@Failure		400		{object}	authsdk.Response[any]			"Validation failed"
//	@Failure		409		{object}	authsdk.Response[any]			"Username or email taken"
//	@Security		BearerAuth
//	@Router			/api/profile [put].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req authsdk.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.Accounts.UpdateProfile(r.Context(), id.ID, service.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "User profile updated successfully", toUser(account))
}

// HandleChangePassword godoc
//
//	@Summary	Change password
//	@Tags		Profile
//	@Accept		json
//	@Produce	json
//	@Param		body	body		authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success	200		{object}	authsdk.Response[any]			"Password changed"
//	@Failure	400		{object}	authsdk.Response[any]			"Validation failed or new passwords differ"
//	@Failure	401		{object}	authsdk.Response[any]			"Current password is incorrect"
//	@Security	BearerAuth
//	@Router		/api/change-password [post].
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req authsdk.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.Accounts.ChangePassword(r.Context(), id.ID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "Password changed successfully", nil)
}
