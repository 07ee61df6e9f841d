package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

// JSON writes the payload as-is. The frontend consumes bare arrays and
// objects rather than an envelope, so nothing wraps the data.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error converts any error into the `{"message": ...}` body the frontend
// expects, using the status carried by the typed error.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"message": appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
