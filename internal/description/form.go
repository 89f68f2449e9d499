package description

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/buxx/rollgui2-sub000/pkg/api"
)

var ErrNoFormAction = errors.New("form has no action")

type FieldKind int

const (
	FieldString FieldKind = iota
	FieldNumber
	FieldCheckbox
	FieldChoice
)

// Field - редактируемое поле формы. Value хранит текст как его ввел пользователь.
type Field struct {
	Name          string
	Label         string
	Kind          FieldKind
	Value         string
	Checked       bool
	ExpectInteger bool
	Unit          string
	Choices       []string
	FreeChoice    bool
}

// Form - форма документа и ее текущие значения.
type Form struct {
	Action      string
	InQuery     bool
	SubmitLabel string
	Fields      []*Field
}

// Submission - готовый запрос формы: либо Query, либо Data.
type Submission struct {
	URL   string
	Query map[string]any
	Data  map[string]any
}

func newField(p api.Part) *Field {
	f := &Field{Label: p.LabelText(), ExpectInteger: p.ExpectInteger}
	if p.Name != nil {
		f.Name = *p.Name
	}

	switch {
	case p.IsCheckbox:
		f.Kind = FieldCheckbox
		f.Checked = p.Checked
	case len(p.Choices) > 0:
		f.Kind = FieldChoice
		f.Choices = p.Choices
		f.FreeChoice = p.SearchByStr
		if p.Value != nil {
			f.Value = *p.Value
		} else if p.DefaultValue != nil {
			f.Value = *p.DefaultValue
		}
	case p.Type != nil && *p.Type == InputNumber:
		f.Kind = FieldNumber
		if p.DefaultValue != nil {
			f.Value, f.Unit = SplitUnit(*p.DefaultValue)
		}
	default:
		f.Kind = FieldString
		if p.DefaultValue != nil {
			f.Value = *p.DefaultValue
		}
	}
	return f
}

// Field ищет поле по имени.
func (f *Form) Field(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// Set задает текстовое значение поля.
func (f *Form) Set(name, value string) error {
	field := f.Field(name)
	if field == nil {
		return fmt.Errorf("unknown field %q", name)
	}
	switch field.Kind {
	case FieldCheckbox:
		return fmt.Errorf("field %q is a checkbox", name)
	case FieldChoice:
		if !field.FreeChoice && !slices.Contains(field.Choices, value) {
			return fmt.Errorf("field %q: %q is not a choice", name, value)
		}
	}
	field.Value = value
	return nil
}

// Toggle переключает чекбокс.
func (f *Form) Toggle(name string) error {
	field := f.Field(name)
	if field == nil || field.Kind != FieldCheckbox {
		return fmt.Errorf("unknown checkbox %q", name)
	}
	field.Checked = !field.Checked
	return nil
}

// Values приводит значения к типам сервера:
// NUMBER -> int64 (expect_integer) или float64, чекбокс -> bool, остальное -> string.
func (f *Form) Values() (map[string]any, error) {
	values := make(map[string]any, len(f.Fields))
	for _, field := range f.Fields {
		if field.Name == "" {
			continue
		}
		switch field.Kind {
		case FieldCheckbox:
			values[field.Name] = field.Checked
		case FieldNumber:
			n, _, err := parseNumber(field.Value)
			if err != nil {
				return nil, &ValidationError{Field: field.Name, Reason: fmt.Sprintf("'%s' is not a number", field.Value)}
			}
			if field.ExpectInteger {
				if n != math.Trunc(n) {
					return nil, &ValidationError{Field: field.Name, Reason: fmt.Sprintf("'%s' is not an integer", field.Value)}
				}
				values[field.Name] = int64(n)
			} else {
				values[field.Name] = n
			}
		default:
			values[field.Name] = field.Value
		}
	}
	return values, nil
}

// Submission собирает запрос. form_values_in_query выбирает строку запроса вместо тела.
func (f *Form) Submission() (Submission, error) {
	if f.Action == "" {
		return Submission{}, ErrNoFormAction
	}
	values, err := f.Values()
	if err != nil {
		return Submission{}, err
	}
	if f.InQuery {
		return Submission{URL: f.Action, Query: values}, nil
	}
	return Submission{URL: f.Action, Data: values}, nil
}
