package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PhoneNumber accepts either a JSON string or a JSON number.
type PhoneNumber string

func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PhoneNumber(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PhoneNumber(n.String())
	return nil
}

type RegisterRequest struct {
	Name        string      `json:"name" binding:"required,max=100"`
	Email       string      `json:"email" binding:"required,email,max=255"`
	Password    string      `json:"password" binding:"required,min=6,max=72"`
	PhoneNumber PhoneNumber `json:"phoneNumber" binding:"required,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// LoginResult carries the issued tokens to the handler, which turns them into cookies.
type LoginResult struct {
	User         UserResponse
	AccessToken  string
	RefreshToken string
}
