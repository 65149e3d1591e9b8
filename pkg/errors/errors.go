package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	// CodeConfig marks missing or unresolvable routing/channel/credential data.
	CodeConfig Code = "CONFIG_ERROR"
	// CodeValidation marks rejected user input.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeNotFound marks absent workflow state, such as a stale form submission.
	CodeNotFound Code = "NOT_FOUND"
	// CodeTransport marks failed calls to Discord or the spreadsheet backend.
	CodeTransport Code = "TRANSPORT_ERROR"
	CodeInternal  Code = "INTERNAL_ERROR"
)

// Metadata describes how an error code is presented to the submitting user.
type Metadata struct {
	UserMessage string
	Retryable   bool
}

var metadataByCode = map[Code]Metadata{
	CodeConfig: {
		UserMessage: "Este canal não está configurado para registros.",
		Retryable:   false,
	},
	CodeValidation: {
		UserMessage: "Dados inválidos, confira o formulário e tente novamente.",
		Retryable:   false,
	},
	CodeNotFound: {
		UserMessage: "Nenhuma seleção pendente encontrada, comece de novo pelos botões.",
		Retryable:   false,
	},
	CodeTransport: {
		UserMessage: "Falha ao falar com a planilha, tente novamente em instantes.",
		Retryable:   true,
	},
	CodeInternal: {
		UserMessage: "Erro inesperado ao processar o registro.",
		Retryable:   true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// UserMessage returns the reply text shown to the submitting user.
func (e *Error) UserMessage() string {
	return MetadataFor(e.Code()).UserMessage
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts a typed *Error from an error chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf reports the code carried by err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
