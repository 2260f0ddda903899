package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/clipperline/barbershop-api/internal/schedule"
)

// RegisterValidators hooks domain validators into gin's binding engine and
// reports field names by their JSON tag.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		_, _, err := schedule.ParseSlot(fl.Field().String())
		return err == nil
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}
