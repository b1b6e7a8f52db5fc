package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks the `validate:` tags in model.go.  dsn_template requires
// exactly one %s in the DSN, the slot the database password fills.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("dsn_template", func(fl validator.FieldLevel) bool {
		return strings.Count(fl.Field().String(), "%s") == 1
	})
	return v
}()

func validateStruct(c *Config) error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Database.Password == "" {
		return nil
	}
	return validate.Var(c.Database.DSN, "dsn_template")
}
