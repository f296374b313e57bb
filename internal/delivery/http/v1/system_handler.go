package v1

import (
	"net/http"
	"time"

	"go-contact-relay/internal/delivery/http/response"
	"go-contact-relay/internal/domain"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	mailConfigUC domain.MailConfigUsecase
	now          func() time.Time
}

// NewSystemHandler registers the health and mail configuration checks
func NewSystemHandler(public *gin.RouterGroup, mailConfigUC domain.MailConfigUsecase) {
	handler := &SystemHandler{
		mailConfigUC: mailConfigUC,
		now:          time.Now,
	}

	public.GET("/health", handler.Health)
	public.GET("/test-email-config", handler.TestEmailConfig)
}

// Health godoc
// @Summary      Health Check
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	response.SuccessAt(c, http.StatusOK, domain.MsgHealthy, h.now().UTC().Format("2006-01-02T15:04:05.000Z"))
}

// TestEmailConfig godoc
// @Summary      Verify SMTP Configuration
// @Description  Connects to the SMTP server and authenticates without sending mail.
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /test-email-config [get]
func (h *SystemHandler) TestEmailConfig(c *gin.Context) {
	if err := h.mailConfigUC.VerifyTransport(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, domain.MsgEmailConfigValid, nil)
}
