package template

import (
	"fmt"

	"NYCU-SDC/survey-builder/internal"
)

type ErrTemplateNotFound struct {
	ID string
}

func (e ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template not found: %s", e.ID)
}

func (e ErrTemplateNotFound) Unwrap() error {
	return internal.ErrTemplateNotFound
}
