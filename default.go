package jsonschema

import "sync"

var defaultValidator = sync.OnceValue(func() *Validator {
	v, err := New()
	if err != nil {
		panic("jsonschema: built-in dialects failed to load: " + err.Error())
	}
	return v
})

// Default returns the process-wide Validator behind the package-level
// functions.
func Default() *Validator {
	return defaultValidator()
}

// Validate validates data against schemaArg with the default Validator.
func Validate(schemaArg, data any, opts ...ValidateOption) (bool, error) {
	return Default().Validate(schemaArg, data, opts...)
}

// Check is Validator.Check on the default Validator.
func Check(schemaArg, data any, opts ...ValidateOption) error {
	return Default().Check(schemaArg, data, opts...)
}

// FullyValidate is Validator.FullyValidate on the default Validator.
func FullyValidate(schemaArg, data any, opts ...ValidateOption) (Errors, error) {
	return Default().FullyValidate(schemaArg, data, opts...)
}

func ValidateSchema(schemaArg any, opts ...ValidateOption) (bool, error) {
	return Default().ValidateSchema(schemaArg, opts...)
}

func FullyValidateSchema(schemaArg any, opts ...ValidateOption) (Errors, error) {
	return Default().FullyValidateSchema(schemaArg, opts...)
}

func RegisterFormatValidator(name string, fn FormatFunc, versions ...string) error {
	return Default().RegisterFormatValidator(name, fn, versions...)
}

func DeregisterFormatValidator(name string, versions ...string) error {
	return Default().DeregisterFormatValidator(name, versions...)
}

func RestoreDefaultFormats(versions ...string) error {
	return Default().RestoreDefaultFormats(versions...)
}

// ClearCache empties the default Validator's schema cache.
func ClearCache() {
	Default().ClearCache()
}

func SetJSONBackend(name string) error {
	return Default().SetJSONBackend(name)
}

func JSONBackend() string {
	return Default().JSONBackend()
}
