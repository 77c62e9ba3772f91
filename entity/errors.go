package entity

import "fmt"

// BadParameterError reports a model field that failed format validation.
// It is always fatal to the operation constructing the model; the caller
// must supply a valid value.
type BadParameterError struct {
	Name  string
	Value string
}

func (e *BadParameterError) Error() string {
	return fmt.Sprintf("bad parameter %s: %q", e.Name, e.Value)
}

func badParameter(name, value string) error {
	return &BadParameterError{Name: name, Value: value}
}
