// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xhttp

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is an HTTP rejection, e.g. from access control or a rate limit.  It satisfies go-kit's
// StatusCoder, Headerer, and json.Marshaler, so go-kit's DefaultErrorEncoder writes it as
// {"code": ..., "text": ...} with the given status and headers.
type Error struct {
	Code   int
	Header http.Header
	Text   string
}

type errorBody struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

// Errorf builds an *Error with printf-style text
func Errorf(code int, format string, parameters ...interface{}) *Error {
	return &Error{Code: code, Text: fmt.Sprintf(format, parameters...)}
}

func (e *Error) Error() string { return e.Text }

func (e *Error) StatusCode() int { return e.Code }

func (e *Error) Headers() http.Header { return e.Header }

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorBody{Code: e.Code, Text: e.Text})
}

// WriteErrorf writes an Errorf result directly, for handlers outside a go-kit transport
func WriteErrorf(response http.ResponseWriter, code int, format string, parameters ...interface{}) (int, error) {
	e := Errorf(code, format, parameters...)
	body, err := e.MarshalJSON()
	if err != nil {
		return 0, err
	}

	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(e.Code)
	return response.Write(body)
}
