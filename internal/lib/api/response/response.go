package response

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/PIRSON21/scoring/internal/config"
)

// StatusInvalidRequest - код любых ошибок валидации протокола.
const StatusInvalidRequest = http.StatusUnprocessableEntity

// defaultErrors - тексты ошибок по умолчанию для кодов протокола.
var defaultErrors = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	StatusInvalidRequest:           "Invalid Request",
	http.StatusInternalServerError: "Internal Server Error",
}

// Success - конверт успешного ответа.
type Success struct {
	Response interface{} `json:"response"`
	Code     int         `json:"code"`
}

// Error - конверт ошибки.
type Error struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// OK отправляет полезную нагрузку в конверте успешного ответа.
func OK(w http.ResponseWriter, r *http.Request, payload interface{}) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, Success{Response: payload, Code: http.StatusOK})
}

// Fail отправляет конверт ошибки с переданным кодом. Пустое сообщение
// заменяется текстом по умолчанию для этого кода.
func Fail(w http.ResponseWriter, r *http.Request, code int, message string) {
	if message == "" {
		message = DefaultText(code)
	}

	render.Status(r, code)
	render.JSON(w, r, Error{Error: message, Code: code})
}

// DefaultText возвращает текст ошибки по умолчанию для кода протокола.
func DefaultText(code int) string {
	if text, ok := defaultErrors[code]; ok {
		return text
	}

	return "Unknown Error"
}

// ErrorHandler отправляет 500. Вне локального окружения детали ошибки
// клиенту не показываются.
func ErrorHandler(w http.ResponseWriter, r *http.Request, cfg *config.Config, err error) {
	var message string
	if cfg.Environment == "local" && err != nil {
		message = err.Error()
	}

	Fail(w, r, http.StatusInternalServerError, message)
}
