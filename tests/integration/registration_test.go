//go:build integration

package integration

import (
	"net/http"
	"testing"
)

type registrationCreated struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

type registrationRejected struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Fields  []struct {
		Field  string `json:"field"`
		Reason string `json:"reason"`
	} `json:"fields"`
}

func TestCreateRegistration(t *testing.T) {
	body := map[string]any{
		"company_name":   "Comercial Rio Negro LTDA",
		"trade_name":     "Mercadinho Rio Negro",
		"cnpj":           "12.345.678/0001-90",
		"ie_exempt":      true,
		"segment":        "Supermercado",
		"whatsapp":       "(92) 99999-1234",
		"street":         "Av. Eduardo Ribeiro",
		"number":         "620",
		"district":       "Centro",
		"city":           "Manaus",
		"state":          "AM",
		"delivery":       true,
		"accepts_pix":    true,
		"terms_accepted": true,
	}

	resp := doPost(t, "/api/v1/registrations", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	created := decodeJSON[registrationCreated](t, resp)
	if created.ID == "" {
		t.Error("registration id is empty")
	}
	if created.CreatedAt == "" {
		t.Error("registration created_at is empty")
	}
}

func TestCreateRegistration_Invalid(t *testing.T) {
	body := map[string]any{
		"company_name": "Sem CNPJ LTDA",
		"trade_name":   "Sem CNPJ",
		"cnpj":         "123",
		"ie_exempt":    true,
		"street":       "Rua A",
		"number":       "1",
		"district":     "Centro",
		"city":         "Manaus",
		"state":        "AM",
	}

	resp := doPost(t, "/api/v1/registrations", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	rejected := decodeJSON[registrationRejected](t, resp)
	if len(rejected.Fields) == 0 {
		t.Fatal("expected rejected fields in response")
	}

	got := make(map[string]bool, len(rejected.Fields))
	for _, f := range rejected.Fields {
		got[f.Field] = true
	}
	if !got["cnpj"] {
		t.Error("cnpj should be rejected")
	}
	if !got["terms_accepted"] {
		t.Error("terms_accepted should be rejected")
	}
}
