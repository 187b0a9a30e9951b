package config

import (
	"fmt"
	"strings"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Wrapped error
	Path    string
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

type InvalidVersionError struct {
	Value     string
	Supported []string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf(
		"configuration property defaultVersion has invalid value '%s'. Supported versions are: %s",
		e.Value,
		strings.Join(e.Supported, ", "),
	)
}

type InvalidBackendError struct {
	Value     string
	Supported []string
}

func (e *InvalidBackendError) Error() string {
	return fmt.Sprintf(
		"configuration property jsonBackend has invalid value '%s'. Supported backends are: %s",
		e.Value,
		strings.Join(e.Supported, ", "),
	)
}

type InvalidTimeoutError struct {
	Wrapped error
	Value   string
}

func (e *InvalidTimeoutError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("configuration property remote.timeout has invalid value '%s': %v", e.Value, e.Wrapped)
	}
	return fmt.Sprintf("configuration property remote.timeout has invalid value '%s': must be positive", e.Value)
}

func (e *InvalidTimeoutError) Unwrap() error {
	return e.Wrapped
}
