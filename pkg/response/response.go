package response

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quezon.gov.ph/portal/pkg/apperror"
	"quezon.gov.ph/portal/pkg/validator"
)

// ResponseError writes the standardized {"error": ...} body for err.
func ResponseError(c *gin.Context, err error) {
	if validator.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(code, gin.H{"error": "something went wrong, please try again"})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

// ParamUUID parses the named path parameter as a UUID.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, apperror.ErrBadRequest)
	}
	return id, nil
}

func Message(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"message": msg})
}

// BindError answers a failed ShouldBind* with 400.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}
