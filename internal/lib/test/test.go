package test

import "encoding/json"

func MustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	// Форматы конвертов ответа для сравнения тел в тестах.
	ExpectedError    = `{"error":%q,"code":%d}`
	ExpectedResponse = `{"response":%s,"code":%d}`
)
