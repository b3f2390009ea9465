package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Handler serves the POS API endpoints on top of a gorm database.
type Handler struct {
	DB     *gorm.DB
	Secret []byte
}

func New(db *gorm.DB, secret []byte) *Handler {
	return &Handler{DB: db, Secret: secret}
}

// httpError is returned from transaction bodies to pick the response status
type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func newHTTPError(code int, msg string) error {
	return &httpError{code: code, msg: msg}
}

func ok(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"success": false, "message": msg})
}

// failErr maps an error from the data layer onto a response
func failErr(c *gin.Context, err error, fallback string) {
	var he *httpError
	switch {
	case errors.As(err, &he):
		fail(c, he.code, he.msg)
	case errors.Is(err, gorm.ErrRecordNotFound):
		fail(c, http.StatusNotFound, fallback)
	default:
		fail(c, http.StatusInternalServerError, fallback)
	}
}

// failBinding reports request validation problems with per-field messages
func failBinding(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	fields := map[string][]string{}
	for _, fe := range verrs {
		name := fe.Field()
		fields[name] = append(fields[name], fieldMessage(name, fe))
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": "The given data was invalid.",
		"errors":  fields,
	})
}

func fieldMessage(name string, fe validator.FieldError) string {
	label := strings.ReplaceAll(name, "_", " ")
	switch fe.Tag() {
	case "required":
		return "The " + label + " field is required."
	case "min":
		if fe.Kind().String() == "string" {
			return "The " + label + " must be at least " + fe.Param() + " characters."
		}
		return "The " + label + " must be at least " + fe.Param() + "."
	case "gt":
		return "The " + label + " must be greater than " + fe.Param() + "."
	case "oneof":
		return "The selected " + label + " is invalid."
	case "email":
		return "The " + label + " must be a valid email address."
	}
	return "The " + label + " is invalid."
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusNotFound, "Resource not found")
		return 0, false
	}
	return uint(id), true
}
