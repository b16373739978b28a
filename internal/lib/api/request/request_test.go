package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PIRSON21/scoring/internal/lib/api/request"
)

func TestNewMethodRequest(t *testing.T) {
	cases := []struct {
		Name  string
		Body  map[string]interface{}
		Error string
		Check func(t *testing.T, req *request.MethodRequest)
	}{
		{
			Name: "Valid envelope",
			Body: map[string]interface{}{
				"account": "horns",
				"login":   "h&f",
				"token":   "sdd",
				"arguments": map[string]interface{}{
					"phone": "79175002040",
				},
				"method": "online_score",
			},
			Check: func(t *testing.T, req *request.MethodRequest) {
				assert.Equal(t, "horns", req.Account)
				assert.Equal(t, "h&f", req.Login)
				assert.Equal(t, "online_score", req.Method)
				assert.False(t, req.IsAdmin())
			},
		},
		{
			Name: "Missing account is allowed",
			Body: map[string]interface{}{
				"login":     "h&f",
				"token":     "sdd",
				"arguments": map[string]interface{}{},
				"method":    "online_score",
			},
			Check: func(t *testing.T, req *request.MethodRequest) {
				assert.Equal(t, "", req.Account)
			},
		},
		{
			Name: "Admin login",
			Body: map[string]interface{}{
				"login":     "admin",
				"token":     "sdd",
				"arguments": map[string]interface{}{},
				"method":    "online_score",
			},
			Check: func(t *testing.T, req *request.MethodRequest) {
				assert.True(t, req.IsAdmin())
			},
		},
		{
			Name: "Missing login",
			Body: map[string]interface{}{
				"token":     "sdd",
				"arguments": map[string]interface{}{},
				"method":    "online_score",
			},
			Error: "login: is required",
		},
		{
			Name: "Null login",
			Body: map[string]interface{}{
				"login":     nil,
				"token":     "sdd",
				"arguments": map[string]interface{}{},
				"method":    "online_score",
			},
			Error: "login: is required",
		},
		{
			Name: "Missing token",
			Body: map[string]interface{}{
				"login":     "h&f",
				"arguments": map[string]interface{}{},
				"method":    "online_score",
			},
			Error: "token: is required",
		},
		{
			Name: "Missing arguments",
			Body: map[string]interface{}{
				"login":  "h&f",
				"token":  "sdd",
				"method": "online_score",
			},
			Error: "arguments: is required",
		},
		{
			Name: "Missing method",
			Body: map[string]interface{}{
				"login":     "h&f",
				"token":     "sdd",
				"arguments": map[string]interface{}{},
			},
			Error: "method: cannot be null",
		},
		{
			Name: "Empty method",
			Body: map[string]interface{}{
				"login":     "h&f",
				"token":     "sdd",
				"arguments": map[string]interface{}{},
				"method":    "",
			},
			Error: "method: cannot be empty",
		},
		{
			Name: "First failure wins in declaration order",
			Body: map[string]interface{}{
				"arguments": map[string]interface{}{},
			},
			Error: "login: is required",
		},
		{
			Name: "Invalid nested argument",
			Body: map[string]interface{}{
				"login": "h&f",
				"token": "sdd",
				"arguments": map[string]interface{}{
					"phone": "89175002040",
				},
				"method": "online_score",
			},
			Error: "arguments: phone: must start with 7",
		},
		{
			Name:  "Nil body",
			Body:  nil,
			Error: "request body is not a mapping",
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			req, err := request.NewMethodRequest(tc.Body)

			if tc.Error != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tc.Error)
				assert.Nil(t, req)
				return
			}

			require.NoError(t, err)
			tc.Check(t, req)
		})
	}
}

func TestOnlineScoreRequestIsValid(t *testing.T) {
	cases := []struct {
		Name      string
		Arguments map[string]interface{}
		Valid     bool
	}{
		{
			Name: "Phone and email",
			Arguments: map[string]interface{}{
				"phone": "79175002040",
				"email": "stupnikov@otus.ru",
			},
			Valid: true,
		},
		{
			Name: "First name and last name",
			Arguments: map[string]interface{}{
				"first_name": "Станислав",
				"last_name":  "Ступников",
			},
			Valid: true,
		},
		{
			Name: "Gender and birthday",
			Arguments: map[string]interface{}{
				"gender":   float64(1),
				"birthday": "01.01.2000",
			},
			Valid: true,
		},
		{
			Name: "Gender unknown still counts as present",
			Arguments: map[string]interface{}{
				"gender":   float64(0),
				"birthday": "01.01.2000",
			},
			Valid: true,
		},
		{
			Name: "First name alone",
			Arguments: map[string]interface{}{
				"first_name": "Станислав",
			},
			Valid: false,
		},
		{
			Name: "Phone without email",
			Arguments: map[string]interface{}{
				"phone": "79175002040",
			},
			Valid: false,
		},
		{
			Name: "Gender without birthday",
			Arguments: map[string]interface{}{
				"gender": float64(2),
			},
			Valid: false,
		},
		{
			Name:      "No arguments at all",
			Arguments: map[string]interface{}{},
			Valid:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			req, err := request.NewOnlineScoreRequest(tc.Arguments)
			require.NoError(t, err)

			assert.Equal(t, tc.Valid, req.IsValid())
		})
	}
}

func TestNewOnlineScoreRequestErrors(t *testing.T) {
	cases := []struct {
		Name      string
		Arguments map[string]interface{}
		Error     string
	}{
		{
			Name: "Invalid email",
			Arguments: map[string]interface{}{
				"email": "not-an-email",
			},
			Error: "email: is not a valid email address",
		},
		{
			Name: "Invalid phone",
			Arguments: map[string]interface{}{
				"phone": "123",
			},
			Error: "phone: must be 11 characters long",
		},
		{
			Name: "Invalid birthday",
			Arguments: map[string]interface{}{
				"birthday": "01.01.1800",
			},
			Error: "birthday: age cannot exceed 120 years",
		},
		{
			Name:      "Nil arguments",
			Arguments: nil,
			Error:     "arguments is not a mapping",
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			req, err := request.NewOnlineScoreRequest(tc.Arguments)

			require.Error(t, err)
			assert.EqualError(t, err, tc.Error)
			assert.Nil(t, req)
		})
	}
}

func TestNewClientsInterestsRequest(t *testing.T) {
	t.Run("Valid arguments", func(t *testing.T) {
		req, err := request.NewClientsInterestsRequest(map[string]interface{}{
			"client_ids": []interface{}{float64(1), float64(2), float64(3)},
			"date":       "20.07.2017",
		})
		require.NoError(t, err)

		assert.Equal(t, []int{1, 2, 3}, req.ClientIDs)
		require.NotNil(t, req.Date)
		assert.Equal(t, "20.07.2017", *req.Date)
		assert.True(t, req.IsValid())
	})

	t.Run("Date is optional", func(t *testing.T) {
		req, err := request.NewClientsInterestsRequest(map[string]interface{}{
			"client_ids": []interface{}{float64(7)},
		})
		require.NoError(t, err)

		assert.Nil(t, req.Date)
		assert.True(t, req.IsValid())
	})

	t.Run("Missing client_ids", func(t *testing.T) {
		_, err := request.NewClientsInterestsRequest(map[string]interface{}{
			"date": "20.07.2017",
		})

		require.Error(t, err)
		assert.EqualError(t, err, "client_ids: is required")
	})

	t.Run("Negative client id", func(t *testing.T) {
		_, err := request.NewClientsInterestsRequest(map[string]interface{}{
			"client_ids": []interface{}{float64(-1)},
		})

		require.Error(t, err)
		assert.EqualError(t, err, "client_ids: must contain only non-negative integers")
	})
}
