package cblock

import (
	"fmt"
	"strings"
)

// ConfigError reports a block type that could not be built from its declarative
// configuration. It is returned at load time and is fatal only to the block it names.
type ConfigError struct {
	// Block is the block being registered, zero when the error is not block specific.
	Block Key
	// Behavior is the behavior type being built, zero outside of factories.
	Behavior Key
	// Property is the offending property name, if any.
	Property string
	// Reason describes what is wrong.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

// Error formats the block, behavior and property the error concerns.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("cblock: ")
	if !e.Block.IsZero() {
		fmt.Fprintf(&b, "block '%s'", e.Block)
		if !e.Behavior.IsZero() {
			fmt.Fprintf(&b, " with '%s' behavior", e.Behavior)
		}
		b.WriteString(": ")
	} else if !e.Behavior.IsZero() {
		fmt.Fprintf(&b, "behavior '%s': ", e.Behavior)
	}
	b.WriteString(e.Reason)
	if e.Property != "" {
		fmt.Fprintf(&b, " '%s'", e.Property)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// MissingProperty returns the ConfigError for a behavior whose owner lacks a required property.
func MissingProperty(block, behavior Key, property string) *ConfigError {
	return &ConfigError{Block: block, Behavior: behavior, Property: property, Reason: "is missing the required property"}
}

// InvalidArgument returns the ConfigError for a malformed declarative argument.
func InvalidArgument(block, behavior Key, argument string, err error) *ConfigError {
	return &ConfigError{Block: block, Behavior: behavior, Reason: "invalid argument " + argument, Err: err}
}

// UnknownPropertyError is a contract violation: a property was used with a state
// whose definition does not contain it.
type UnknownPropertyError struct {
	Property string
	Block    Key
}

// Error names the property and, if known, the block.
func (e *UnknownPropertyError) Error() string {
	if e.Block.IsZero() {
		return fmt.Sprintf("cblock: unknown property '%s'", e.Property)
	}
	return fmt.Sprintf("cblock: unknown property '%s' on block '%s'", e.Property, e.Block)
}

// InvalidValueError is a contract violation: a value outside a property's domain.
type InvalidValueError struct {
	Property string
	Value    any
}

// Error names the value and the property.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("cblock: value %v is not in the domain of property '%s'", e.Value, e.Property)
}
