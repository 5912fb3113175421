// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// ConfigurationError reports a malformed or incomplete manifest. It is always
// raised before any part of a plan is executed.
type ConfigurationError struct {
	// Subject names the offending element, e.g. `source "tb/hdl/tbTop.vhd"`.
	Subject string
	Reason  string
	// Err is the underlying parser error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msg := "configuration error: "
	if e.Subject != "" {
		msg += e.Subject + ": "
	}
	msg += e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying parser error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// configErrorf is a small helper for building ConfigurationErrors.
func configErrorf(subject, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Reason: fmt.Sprintf(format, args...)}
}
