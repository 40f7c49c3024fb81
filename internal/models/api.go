package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

type VoicesResponse struct {
	Voices    []Voice `json:"voices"`
	Available bool    `json:"available"`
}

type TTSHealthResponse struct {
	Available bool   `json:"available"`
	Service   string `json:"service"`
}

type TTSRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Language string `json:"language"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

type SubscribeResponse struct {
	Success           bool   `json:"success,omitempty"`
	Message           string `json:"message"`
	AlreadySubscribed bool   `json:"already_subscribed,omitempty"`
}
