package description

import (
	"fmt"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// Типы полей ввода, которые понимает клиент.
const (
	InputNumber = "NUMBER"
	InputString = "STRING"
)

// ValidationError - документ описания нельзя отрисовать.
// Показывается пользователю как фатальная ошибка, значения по умолчанию не подставляются.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("description: %s", e.Reason)
	}
	return fmt.Sprintf("description: field %q: %s", e.Field, e.Reason)
}

// Validate проверяет все элементы документа, включая вложенные.
func Validate(d api.Description) error {
	for _, parts := range [][]api.Part{d.Items, d.FooterLinks} {
		if err := validateParts(parts); err != nil {
			return err
		}
	}
	return nil
}

func validateParts(parts []api.Part) error {
	for _, p := range parts {
		if err := validatePart(p); err != nil {
			return err
		}
		if err := validateParts(p.Items); err != nil {
			return err
		}
	}
	return nil
}

func validatePart(p api.Part) error {
	named := p.Type != nil || p.IsCheckbox || (len(p.Choices) > 0 && !p.IsForm)
	if !named {
		return nil
	}
	if p.Name == nil || *p.Name == "" {
		return &ValidationError{Field: p.LabelText(), Reason: "missing name for input"}
	}
	name := *p.Name
	if p.Type == nil {
		return nil
	}

	switch *p.Type {
	case InputString:
		return nil
	case InputNumber:
	default:
		return &ValidationError{Field: name, Reason: fmt.Sprintf("unknown input type '%s'", *p.Type)}
	}

	if p.DefaultValue == nil {
		return nil
	}
	value, _, err := parseNumber(*p.DefaultValue)
	if err != nil {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("default value '%s' is not a number", *p.DefaultValue)}
	}
	if (p.MinValue != nil && value < *p.MinValue) || (p.MaxValue != nil && value > *p.MaxValue) {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("value %v out of range", value)}
	}
	return nil
}
