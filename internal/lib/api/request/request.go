package request

import (
	"errors"
	"fmt"

	"github.com/PIRSON21/scoring/internal/lib/api/fields"
)

// AdminLogin - выделенный логин администратора.
const AdminLogin = "admin"

// Поля конверта запроса. Сочетания required/nullable повторяют исходный
// протокол, в том числе то, что required отклоняет null при nullable=true.
var (
	accountField   = fields.Char{Base: fields.Base{Nullable: true}}
	loginField     = fields.Char{Base: fields.Base{Required: true, Nullable: true}}
	tokenField     = fields.Char{Base: fields.Base{Required: true, Nullable: true}}
	argumentsField = fields.Arguments{Base: fields.Base{Required: true, Nullable: true}}
	methodField    = fields.Char{Base: fields.Base{Required: true}}
)

// MethodRequest - конверт запроса: учетные данные вызывающего, имя метода
// и аргументы бизнес-метода. Собирается только через NewMethodRequest,
// частично заполненного конверта не бывает.
type MethodRequest struct {
	Account   string
	Login     string
	Token     string
	Arguments map[string]interface{}
	Method    string
}

// NewMethodRequest собирает конверт из разобранного JSON. Атрибуты
// проверяются в порядке объявления, первая ошибка прерывает сборку.
func NewMethodRequest(body map[string]interface{}) (*MethodRequest, error) {
	if body == nil {
		return nil, errors.New("request body is not a mapping")
	}

	req := new(MethodRequest)

	account, err := validate("account", accountField, body["account"])
	if err != nil {
		return nil, err
	}
	if account != nil {
		req.Account = account.(string)
	}

	login, err := validate("login", loginField, body["login"])
	if err != nil {
		return nil, err
	}
	req.Login = login.(string)

	token, err := validate("token", tokenField, body["token"])
	if err != nil {
		return nil, err
	}
	req.Token = token.(string)

	args, err := validate("arguments", argumentsField, body["arguments"])
	if err != nil {
		return nil, err
	}
	req.Arguments = args.(map[string]interface{})

	method, err := validate("method", methodField, body["method"])
	if err != nil {
		return nil, err
	}
	req.Method = method.(string)

	return req, nil
}

// IsAdmin сообщает, что запрос пришел от администратора.
func (r *MethodRequest) IsAdmin() bool {
	return r.Login == AdminLogin
}

// Поля запроса online_score. Все атрибуты необязательные, осмысленность
// их сочетания проверяет IsValid.
var (
	firstNameField = fields.Char{Base: fields.Base{Nullable: true}}
	lastNameField  = fields.Char{Base: fields.Base{Nullable: true}}
	emailField     = fields.Email{Base: fields.Base{Nullable: true}}
	phoneField     = fields.Phone{Base: fields.Base{Nullable: true}}
	birthdayField  = fields.BirthDay{Base: fields.Base{Nullable: true}}
	genderField    = fields.Gender{Base: fields.Base{Nullable: true}}
)

// OnlineScoreRequest - аргументы метода online_score. Необязательные
// атрибуты хранятся указателями, чтобы отличать отсутствие значения.
type OnlineScoreRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *string
	Gender    *int
}

// NewOnlineScoreRequest собирает запрос online_score из arguments конверта.
func NewOnlineScoreRequest(arguments map[string]interface{}) (*OnlineScoreRequest, error) {
	if arguments == nil {
		return nil, errors.New("arguments is not a mapping")
	}

	req := new(OnlineScoreRequest)

	firstName, err := validate("first_name", firstNameField, arguments["first_name"])
	if err != nil {
		return nil, err
	}
	if firstName != nil {
		req.FirstName = strPtr(firstName)
	}

	lastName, err := validate("last_name", lastNameField, arguments["last_name"])
	if err != nil {
		return nil, err
	}
	if lastName != nil {
		req.LastName = strPtr(lastName)
	}

	email, err := validate("email", emailField, arguments["email"])
	if err != nil {
		return nil, err
	}
	if email != nil {
		req.Email = strPtr(email)
	}

	phone, err := validate("phone", phoneField, arguments["phone"])
	if err != nil {
		return nil, err
	}
	if phone != nil {
		req.Phone = strPtr(phone)
	}

	birthday, err := validate("birthday", birthdayField, arguments["birthday"])
	if err != nil {
		return nil, err
	}
	if birthday != nil {
		req.Birthday = strPtr(birthday)
	}

	gender, err := validate("gender", genderField, arguments["gender"])
	if err != nil {
		return nil, err
	}
	if gender != nil {
		code := gender.(int)
		req.Gender = &code
	}

	return req, nil
}

// IsValid проверяет, что задана хотя бы одна осмысленная пара атрибутов:
// телефон с почтой, имя с фамилией либо пол с датой рождения.
func (r *OnlineScoreRequest) IsValid() bool {
	if has(r.Phone) && has(r.Email) {
		return true
	}

	if has(r.FirstName) && has(r.LastName) {
		return true
	}

	if r.Gender != nil && has(r.Birthday) {
		return true
	}

	return false
}

// Поля запроса clients_interests.
var (
	clientIDsField = fields.ClientIDs{Base: fields.Base{Required: true, Nullable: true}}
	dateField      = fields.Date{Base: fields.Base{Nullable: true}}
)

// ClientsInterestsRequest - аргументы метода clients_interests.
type ClientsInterestsRequest struct {
	ClientIDs []int
	Date      *string
}

// NewClientsInterestsRequest собирает запрос clients_interests из arguments
// конверта.
func NewClientsInterestsRequest(arguments map[string]interface{}) (*ClientsInterestsRequest, error) {
	if arguments == nil {
		return nil, errors.New("arguments is not a mapping")
	}

	req := new(ClientsInterestsRequest)

	ids, err := validate("client_ids", clientIDsField, arguments["client_ids"])
	if err != nil {
		return nil, err
	}
	req.ClientIDs = ids.([]int)

	date, err := validate("date", dateField, arguments["date"])
	if err != nil {
		return nil, err
	}
	if date != nil {
		req.Date = strPtr(date)
	}

	return req, nil
}

// IsValid всегда истинен: межатрибутных ограничений у clients_interests нет,
// пустой список client_ids допустим и дает пустой ответ.
func (r *ClientsInterestsRequest) IsValid() bool {
	return true
}

// validate прогоняет значение через валидатор поля и добавляет к ошибке
// имя атрибута.
func validate(name string, field fields.Validator, value interface{}) (interface{}, error) {
	checked, err := field.Validate(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return checked, nil
}

func strPtr(value interface{}) *string {
	s := value.(string)
	return &s
}

func has(s *string) bool {
	return s != nil && *s != ""
}
