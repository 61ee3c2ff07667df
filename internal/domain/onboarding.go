package domain

import (
	"fmt"
	"strings"
)

// OnboardingField identifica un dato de perfil pedido durante el onboarding.
type OnboardingField string

const (
	FieldName     OnboardingField = "name"
	FieldAge      OnboardingField = "age"
	FieldReason   OnboardingField = "reason"
	FieldConcern  OnboardingField = "concern"
	FieldDuration OnboardingField = "duration"
	FieldFeeling  OnboardingField = "feeling"
)

// DefaultOnboardingFields replica el flujo name -> age -> reason.
var DefaultOnboardingFields = []OnboardingField{FieldName, FieldAge, FieldReason}

var fieldLabels = map[OnboardingField]string{
	FieldName:     "name",
	FieldAge:      "age",
	FieldReason:   "reason for reaching out",
	FieldConcern:  "main concern",
	FieldDuration: "how long you've been feeling this way",
	FieldFeeling:  "current feeling",
}

// Label devuelve el texto usado en los prompts de onboarding.
func (f OnboardingField) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Valid indica si el campo es conocido.
func (f OnboardingField) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// ParseOnboardingFields convierte una lista de nombres en campos validos.
// name tiene que ir primero y no se aceptan repetidos.
func ParseOnboardingFields(names []string) ([]OnboardingField, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("onboarding fields: empty list")
	}
	seen := make(map[OnboardingField]bool, len(names))
	fields := make([]OnboardingField, 0, len(names))
	for _, n := range names {
		f := OnboardingField(strings.ToLower(strings.TrimSpace(n)))
		if !f.Valid() {
			return nil, fmt.Errorf("onboarding fields: unknown field %q", n)
		}
		if seen[f] {
			return nil, fmt.Errorf("onboarding fields: duplicated field %q", f)
		}
		seen[f] = true
		fields = append(fields, f)
	}
	if fields[0] != FieldName {
		return nil, fmt.Errorf("onboarding fields: %q must be first", FieldName)
	}
	return fields, nil
}

// Profile son los datos recolectados en el onboarding.
type Profile struct {
	Name     string `json:"name,omitempty"`
	Age      string `json:"age,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Concern  string `json:"concern,omitempty"`
	Duration string `json:"duration,omitempty"`
	Feeling  string `json:"feeling,omitempty"`
}

func (p *Profile) slot(f OnboardingField) *string {
	switch f {
	case FieldName:
		return &p.Name
	case FieldAge:
		return &p.Age
	case FieldReason:
		return &p.Reason
	case FieldConcern:
		return &p.Concern
	case FieldDuration:
		return &p.Duration
	case FieldFeeling:
		return &p.Feeling
	}
	return nil
}

// Set guarda el valor del campo; campos desconocidos se ignoran.
func (p *Profile) Set(f OnboardingField, value string) {
	if s := p.slot(f); s != nil {
		*s = value
	}
}

// Get devuelve el valor del campo o "" si no fue cargado.
func (p Profile) Get(f OnboardingField) string {
	if s := p.slot(f); s != nil {
		return *s
	}
	return ""
}

// Len cuenta los campos cargados.
func (p Profile) Len() int {
	n := 0
	for f := range fieldLabels {
		if p.Get(f) != "" {
			n++
		}
	}
	return n
}
