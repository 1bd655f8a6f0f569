package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/peerpath/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError derives status and code from err's apierr kind. Unclassified errors are 500s
// and their message is not exposed.
func RespondAPIError(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		RespondError(c, status, apierr.CodeOf(err), nil)
		return
	}
	RespondError(c, status, apierr.CodeOf(err), err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
