package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vitapredict/obesity-backend/internal/auth"
	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// AdminHandler handles administrator-only user management routes
type AdminHandler struct {
	userService UserServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userService UserServiceInterface) *AdminHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &AdminHandler{
		userService: userService,
	}
}

// ListUsers returns a page of user accounts.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := utils.GetPaginationParams(r)

	users, total, err := h.userService.ListUsers(r.Context(), params.Page, params.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, users, params.Page, params.PageSize, total)
}

// GetUser returns a single user account.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), targetID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// DeleteUser removes a user account and its prediction history.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	targetID, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), actorID, targetID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// ToggleAdmin flips administrator rights on an account. The request carries
// no body; the stored flag is inverted.
func (h *AdminHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	targetID, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.ToggleAdmin(r.Context(), actorID, targetID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// ToggleActive flips the active flag on an account. The request carries no
// body; the stored flag is inverted.
func (h *AdminHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	targetID, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.ToggleActive(r.Context(), actorID, targetID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// Stats returns aggregate account and prediction counts.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.userService.GetStats(r.Context())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

// targetUserID parses the {userID} URL parameter. On failure it writes a 400
// response and reports false.
func (h *AdminHandler) targetUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		utils.BadRequest(w, "Invalid user ID", map[string]string{"userID": "must be a positive integer"})
		return 0, false
	}
	return id, true
}
