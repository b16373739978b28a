package fields

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Ошибки базовых проверок. Текст ошибки уходит клиенту как есть,
// поэтому менять формулировки нельзя.
var (
	ErrCannotBeNull  = errors.New("cannot be null")
	ErrIsRequired    = errors.New("is required")
	ErrCannotBeEmpty = errors.New("cannot be empty")
)

// Validator проверяет значение одного атрибута запроса и возвращает
// нормализованное значение. Значения приходят из разобранного JSON:
// string, float64, []interface{}, map[string]interface{} или nil.
type Validator interface {
	Validate(value interface{}) (interface{}, error)
}

// Base задает правила присутствия атрибута: required - значение обязано
// быть в запросе, nullable - значение может быть null.
//
// Проверки независимы: required=true отклоняет null даже при nullable=true.
// Так вел себя исходный протокол, поведение сохранено намеренно.
type Base struct {
	Required bool
	Nullable bool
}

// check выполняет базовую проверку null и пустоты. Типовые проверки
// наследников выполняются только после нее.
func (f Base) check(value interface{}) error {
	if value == nil {
		if !f.Nullable {
			return ErrCannotBeNull
		}
		if f.Required {
			return ErrIsRequired
		}

		return nil
	}

	if !f.Nullable && isEmpty(value) {
		return ErrCannotBeEmpty
	}

	return nil
}

// isEmpty определяет пустоту только для строк, списков и объектов.
// Числовой ноль пустым значением не считается.
func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	}

	return false
}

// defaultMaxLength - ограничение длины строки, если не задано свое.
const defaultMaxLength = 255

// Char - строковый атрибут с ограничением длины.
type Char struct {
	Base
	MaxLength int
}

func (f Char) Validate(value interface{}) (interface{}, error) {
	if err := f.check(value); err != nil || value == nil {
		return nil, err
	}

	s, ok := value.(string)
	if !ok {
		return nil, errors.New("must be a string")
	}

	if max := f.maxLength(); len(s) > max {
		return nil, fmt.Errorf("must be at most %d characters long", max)
	}

	return s, nil
}

func (f Char) maxLength() int {
	if f.MaxLength == 0 {
		return defaultMaxLength
	}

	return f.MaxLength
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// Email - строковый атрибут вида localpart@domain.
type Email struct {
	Base
}

func (f Email) Validate(value interface{}) (interface{}, error) {
	checked, err := Char{Base: f.Base}.Validate(value)
	if err != nil || checked == nil {
		return nil, err
	}

	s := checked.(string)
	if !emailPattern.MatchString(s) {
		return nil, errors.New("is not a valid email address")
	}

	return s, nil
}

// Phone - номер телефона: строка или число, 11 знаков, начинается с 7.
// Числовое значение приводится к десятичной строке.
type Phone struct {
	Base
}

func (f Phone) Validate(value interface{}) (interface{}, error) {
	if err := f.check(value); err != nil || value == nil {
		return nil, err
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		if v != math.Trunc(v) {
			return nil, errors.New("must be a string or a whole number")
		}
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return nil, errors.New("must be a string or a number")
	}

	if len(s) != 11 {
		return nil, errors.New("must be 11 characters long")
	}

	if s[0] != '7' {
		return nil, errors.New("must start with 7")
	}

	return s, nil
}

var datePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// dateLayout - формат дат протокола: DD.MM.YYYY.
const dateLayout = "02.01.2006"

// Date - дата в формате DD.MM.YYYY. Нормализованное значение - строка,
// существование даты в календаре проверяется разбором.
type Date struct {
	Base
}

func (f Date) Validate(value interface{}) (interface{}, error) {
	checked, err := Char{Base: f.Base, MaxLength: 10}.Validate(value)
	if err != nil || checked == nil {
		return nil, err
	}

	s := checked.(string)
	if !datePattern.MatchString(s) {
		return nil, errors.New("must be a date in DD.MM.YYYY format")
	}

	if _, err := time.Parse(dateLayout, s); err != nil {
		return nil, fmt.Errorf("is not a valid date: %s", s)
	}

	return s, nil
}

// maxAgeDays - предельный возраст в днях (120 лет по 365 дней).
const maxAgeDays = 120 * 365

// BirthDay - дата рождения: не в будущем и не старше 120 лет.
type BirthDay struct {
	Base
}

func (f BirthDay) Validate(value interface{}) (interface{}, error) {
	checked, err := Date{Base: f.Base}.Validate(value)
	if err != nil || checked == nil {
		return nil, err
	}

	s := checked.(string)
	birthday, _ := time.Parse(dateLayout, s)

	now := time.Now()
	if birthday.After(now) {
		return nil, errors.New("cannot be in the future")
	}

	if now.Sub(birthday).Hours() > maxAgeDays*24 {
		return nil, errors.New("age cannot exceed 120 years")
	}

	return s, nil
}

// Коды пола.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// Gender - код пола: 0 (unknown), 1 (male) или 2 (female).
type Gender struct {
	Base
}

func (f Gender) Validate(value interface{}) (interface{}, error) {
	if err := f.check(value); err != nil || value == nil {
		return nil, err
	}

	code, ok := toInt(value)
	if !ok || code < GenderUnknown || code > GenderFemale {
		return nil, errors.New("must be 0, 1 or 2")
	}

	return code, nil
}

// ClientIDs - список неотрицательных целых идентификаторов клиентов.
type ClientIDs struct {
	Base
}

func (f ClientIDs) Validate(value interface{}) (interface{}, error) {
	if err := f.check(value); err != nil || value == nil {
		return nil, err
	}

	list, ok := value.([]interface{})
	if !ok {
		return nil, errors.New("must be a list")
	}

	ids := make([]int, 0, len(list))
	for _, item := range list {
		id, ok := toInt(item)
		if !ok || id < 0 {
			return nil, errors.New("must contain only non-negative integers")
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// toInt приводит значение из JSON к целому. Дробные числа не приводятся.
func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}

		return int(v), true
	}

	return 0, false
}

// argumentsRegistry сопоставляет ключи arguments с валидаторами их значений.
// Вложенные валидаторы создаются со значениями по умолчанию исходного
// протокола: required=true, nullable=false.
var argumentsRegistry = map[string]Validator{
	"phone":      Phone{Base: Base{Required: true}},
	"email":      Email{Base: Base{Required: true}},
	"gender":     Gender{Base: Base{Required: true}},
	"date":       Date{Base: Base{Required: true}},
	"birthday":   BirthDay{Base: Base{Required: true}},
	"client_ids": ClientIDs{Base: Base{Required: true}},
	"first_name": Char{Base: Base{Required: true}},
	"last_name":  Char{Base: Base{Required: true}},
}

// Arguments - объект arguments конверта. Допускаются только известные ключи,
// значение каждого ключа проверяется его собственным валидатором.
// Ключи обходятся в отсортированном порядке, чтобы первая ошибка
// была детерминированной.
type Arguments struct {
	Base
}

func (f Arguments) Validate(value interface{}) (interface{}, error) {
	if err := f.check(value); err != nil || value == nil {
		return nil, err
	}

	args, ok := value.(map[string]interface{})
	if !ok {
		return nil, errors.New("must be a mapping")
	}

	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		validator, ok := argumentsRegistry[key]
		if !ok {
			return nil, fmt.Errorf("unknown key %q", key)
		}

		if _, err := validator.Validate(args[key]); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	return args, nil
}
