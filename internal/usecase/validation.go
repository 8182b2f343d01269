package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Пределы PostgreSQL NUMERIC без указания точности.
const (
	numericMaxIntegerDigits = 131072
	numericMaxScale         = 16383
)

var (
	errPriceOutOfRange = errors.New("price is out of numeric range")
	errNotInteger      = errors.New("value is not an integer")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// createRules — правила для создания: name и price обязательны.
type createRules struct {
	Name  *string          `json:"name" validate:"required,max=255"`
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// updateRules — при обновлении поля необязательны, но переданные должны быть валидны.
type updateRules struct {
	Name *string `json:"name" validate:"omitnil,required,max=255"`
}

// ValidateCreateProduct проверяет тело запроса на создание продукта.
func ValidateCreateProduct(payload ProductPayload) (*CreateProductReq, error) {
	verr := e.NewValidationError()

	name, _ := parseName(payload, verr)
	price, _ := parsePrice(payload, verr)
	period := parseWarrantyPeriod(payload, verr)

	collectRuleErrors(validate.Struct(createRules{Name: name, Price: price}), verr)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return NewCreateProductReq(*name, *price, period), nil
}

// ValidateUpdateProduct проверяет тело запроса на частичное обновление продукта.
func ValidateUpdateProduct(payload ProductPayload) (*UpdateProductReq, error) {
	verr := e.NewValidationError()

	name, nameNull := parseName(payload, verr)
	if nameNull {
		verr.Add(FieldName, requiredMsg(FieldName))
	}

	price, priceNull := parsePrice(payload, verr)
	if priceNull {
		verr.Add(FieldPrice, requiredMsg(FieldPrice))
	}

	period := parseWarrantyPeriod(payload, verr)

	collectRuleErrors(validate.Struct(updateRules{Name: name}), verr)

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &UpdateProductReq{
		Name:           name,
		Price:          price,
		WarrantyPeriod: period,
	}, nil
}

// parseName возвращает обрезанное название; пустая строка трактуется как отсутствие значения.
// Второе значение: ключ передан, но значение null или пустое.
func parseName(payload ProductPayload, verr *e.ValidationError) (*string, bool) {
	raw, ok := lookup(payload, FieldName)
	if !ok {
		return nil, false
	}
	if raw == nil {
		return nil, true
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		verr.Add(FieldName, fmt.Sprintf("The %s field must be a string.", displayName(FieldName)))
		return nil, false
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, true
	}

	return &name, false
}

// parsePrice принимает JSON-число или числовую строку.
func parsePrice(payload ProductPayload, verr *e.ValidationError) (*decimal.Decimal, bool) {
	raw, ok := lookup(payload, FieldPrice)
	if !ok {
		return nil, false
	}
	if raw == nil {
		return nil, true
	}

	literal, isString, err := scalarLiteral(raw)
	if err == nil && isString && literal == "" {
		return nil, true
	}

	var price decimal.Decimal
	if err == nil {
		price, err = decimal.NewFromString(literal)
	}
	if err == nil && !fitsNumeric(price) {
		err = errPriceOutOfRange
	}
	if err != nil {
		verr.Add(FieldPrice, fmt.Sprintf("The %s field must be a number.", displayName(FieldPrice)))
		return nil, false
	}

	return &price, false
}

// fitsNumeric проверяет, что значение помещается в PostgreSQL NUMERIC без указания точности.
func fitsNumeric(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -numericMaxScale {
		return false
	}
	return int64(d.NumDigits())+exp <= numericMaxIntegerDigits
}

// parseWarrantyPeriod принимает целое число (или строку с ним) в диапазоне int32.
// JSON-число с нулевой дробной частью (12.0, 1.2e1) тоже считается целым.
// null эквивалентен отсутствию поля.
func parseWarrantyPeriod(payload ProductPayload, verr *e.ValidationError) *int32 {
	raw, ok := lookup(payload, FieldWarrantyPeriod)
	if !ok || raw == nil {
		return nil
	}

	literal, isString, err := scalarLiteral(raw)
	if err == nil && isString && literal == "" {
		return nil
	}

	var period int64
	if err == nil {
		period, err = strconv.ParseInt(literal, 10, 32)
		if err != nil && !isString {
			period, err = integralNumber(literal)
		}
	}
	if err != nil {
		verr.Add(FieldWarrantyPeriod, fmt.Sprintf("The %s field must be an integer.", displayName(FieldWarrantyPeriod)))
		return nil
	}

	p := int32(period)
	return &p
}

// integralNumber разбирает JSON-число вида 12.0 или 1.2e1 как целое в диапазоне int32.
func integralNumber(literal string) (int64, error) {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, errNotInteger
	}
	return int64(f), nil
}

// lookup возвращает значение поля; nil при JSON null. ok=false, если поле не передано.
func lookup(payload ProductPayload, field string) (json.RawMessage, bool) {
	raw, ok := payload[field]
	if !ok {
		return nil, false
	}

	if bytes.Equal(raw, []byte("null")) {
		return nil, true
	}

	return raw, true
}

// scalarLiteral возвращает текст JSON-числа или содержимое строки (обрезанное).
func scalarLiteral(raw json.RawMessage) (string, bool, error) {
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", true, err
		}
		return strings.TrimSpace(s), true, nil
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false, err
		}
		return n.String(), false, nil
	default:
		return "", false, errors.New("not a scalar")
	}
}

// collectRuleErrors переводит ошибки validator в сообщения по полям.
// Поля, уже получившие ошибку типа, пропускаются.
func collectRuleErrors(err error, verr *e.ValidationError) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, exists := verr.Fields[field]; exists {
			continue
		}

		switch fe.Tag() {
		case "required":
			verr.Add(field, requiredMsg(field))
		case "max":
			verr.Add(field, fmt.Sprintf("The %s field must not be greater than %s characters.", displayName(field), fe.Param()))
		default:
			verr.Add(field, fmt.Sprintf("The %s field is invalid.", displayName(field)))
		}
	}
}

func requiredMsg(field string) string {
	return fmt.Sprintf("The %s field is required.", displayName(field))
}

func displayName(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
