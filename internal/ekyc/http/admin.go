package http

import (
	"net/http"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/service"
	"github.com/aussiebroadwan/ekyc/pkg/authsdk"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
)

type AdminHandler struct {
	Accounts *service.AccountService
}

// HandleList godoc
//
//	@Summary		List users
//	@Description	Every account, newest first. Requires the admin role.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	authsdk.Response[[]authsdk.User]	"Accounts"
//	@Failure		401	{object}	authsdk.Response[any]				"Missing or invalid token"
//	@Failure		403	{object}	authsdk.Response[any]				"Not an admin"
//	@Security		BearerAuth
//	@Router			/api/all [get].
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.ListAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	users := make([]authsdk.User, len(accounts))
	for i, a := range accounts {
		users[i] = toUser(a)
	}

	httpx.WriteEnvelope(w, http.StatusOK, "Users retrieved successfully", users)
}

// HandleChangeRole godoc
//
//	@Summary		Change role
//	@Description	Set an account's role to "user" or "admin". Requires the admin role.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Account id"
//	@Param			body	body		authsdk.ChangeRoleRequest		true	"New role"
//	@Success		200		{object}	authsdk.Response[authsdk.User]	"Updated account"
//	@Failure		400		{object}	authsdk.Response[any]			"Invalid role"
//	@Failure		403		{object}	authsdk.Response[any]			"Not an admin"
//	@Failure		404		{object}	authsdk.Response[any]			"User not found"
//	@Security		BearerAuth
//	@Router			/api/users/{id}/role [put].
func (h *AdminHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangeRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	target := r.PathValue("id")
	account, err := h.Accounts.ChangeRole(r.Context(), target, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	caller, _ := IdentityFromContext(r.Context())
	slogx.FromContext(r.Context()).Info("admin changed role",
		"admin_id", caller.ID,
		"target_id", account.ID,
		"role", account.Role.String(),
	)

	httpx.WriteEnvelope(w, http.StatusOK, "User role updated successfully", toUser(account))
}
