package service

import (
	"net/url"
	"strings"
)

// Share holds the computed sharing affordances for the dashboard: the
// public form link and a pre-filled WhatsApp message. Pure presentation
// data; nothing here carries state.
type Share struct {
	FormURL     string `json:"form_url"`
	WhatsAppURL string `json:"whatsapp_url"`
	Message     string `json:"message"`
}

// NewShare builds the share payload from the public base URL and the
// configured campaign name.
func NewShare(baseURL, campaign string) Share {
	formURL := strings.TrimRight(baseURL, "/") + "/inscripcion"
	message := "¡ÚNETE! " + campaign + "\n\n" +
		"Inscripción rápida y segura.\n" +
		"Confirma tu participación aquí:\n" + formURL
	return Share{
		FormURL:     formURL,
		WhatsAppURL: "https://wa.me/?text=" + url.QueryEscape(message),
		Message:     message,
	}
}
