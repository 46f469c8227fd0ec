package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindingErrors turns a ShouldBindJSON failure into the API's error shape:
// a {field, message} entry per violated field, or a single error string for
// malformed bodies.
func bindingErrors(err error) gin.H {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]gin.H, len(verrs))
		for i, fe := range verrs {
			fields[i] = gin.H{
				"field":   strings.ToLower(fe.Field()),
				"message": validationMessage(fe),
			}
		}
		return gin.H{"errors": fields}
	}
	return gin.H{"error": err.Error()}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
