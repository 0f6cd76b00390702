package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
	"github.com/BruksfildServices01/equipment-rental/internal/httpresp"
	ucUser "github.com/BruksfildServices01/equipment-rental/internal/usecase/user"
)

type MeHandler struct {
	users *ucUser.Usecase
}

func NewMeHandler(users *ucUser.Usecase) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, user)
}
