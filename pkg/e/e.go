package e

import (
	"fmt"
	"sort"
	"strings"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrWarrantyNotFound = fmt.Errorf("warranty not found")
	ErrNoProducts       = fmt.Errorf("no products available")

	// 413 Request Entity Too Large
	ErrRequestTooLarge = fmt.Errorf("request body too large")

	// Классы ошибок для errors.Is
	ErrValidation = fmt.Errorf("validation error")
	ErrInternal   = fmt.Errorf("internal error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidationError содержит ошибки валидации по полям запроса.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add добавляет сообщение об ошибке для поля.
func (v *ValidationError) Add(field, msg string) {
	v.Fields[field] = append(v.Fields[field], msg)
}

// HasErrors сообщает, есть ли хотя бы одна ошибка.
func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// OrNil возвращает nil, если ошибок нет. Удобно для return в валидаторах.
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Fields))
	for f := range v.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(v.Fields[f], "; ")))
	}

	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, ", "))
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InternalError — непредвиденная ошибка хранилища или рантайма.
// Op указывает операцию сервиса, в которой она возникла.
type InternalError struct {
	Op  string
	Err error
}

func NewInternalError(op string, err error) *InternalError {
	return &InternalError{Op: op, Err: err}
}

func (i *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", i.Op, i.Err)
}

func (i *InternalError) Unwrap() error {
	return i.Err
}

func (i *InternalError) Is(target error) bool {
	return target == ErrInternal
}
