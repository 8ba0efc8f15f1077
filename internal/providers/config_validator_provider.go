package providers

import (
	"fmt"
	"github.com/gookit/validate"
	"promod/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks the struct tags of the whole config tree and reports the
// first failing field.
func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	return nil
}
