package domain

import "testing"

func TestParseOnboardingFields(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []OnboardingField
		wantErr bool
	}{
		{name: "default", in: []string{"name", "age", "reason"}, want: DefaultOnboardingFields},
		{name: "normaliza", in: []string{" Name ", "CONCERN", "feeling"}, want: []OnboardingField{FieldName, FieldConcern, FieldFeeling}},
		{name: "vacio", in: nil, wantErr: true},
		{name: "desconocido", in: []string{"name", "zodiac"}, wantErr: true},
		{name: "repetido", in: []string{"name", "age", "age"}, wantErr: true},
		{name: "name no es primero", in: []string{"age", "name"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOnboardingFields(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v want %v", got, tt.want)
				}
			}
		})
	}
}

func TestProfile_SetGetLen(t *testing.T) {
	var p Profile
	p.Set(FieldName, "Maria")
	p.Set(FieldDuration, "two weeks")
	p.Set(OnboardingField("zodiac"), "leo")

	if p.Get(FieldName) != "Maria" || p.Duration != "two weeks" {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.Get(OnboardingField("zodiac")) != "" {
		t.Fatalf("unknown fields must be ignored")
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", p.Len())
	}
}

func TestOnboardingField_Label(t *testing.T) {
	if FieldReason.Label() != "reason for reaching out" {
		t.Fatalf("unexpected label %q", FieldReason.Label())
	}
	if OnboardingField("other").Label() != "other" || OnboardingField("other").Valid() {
		t.Fatalf("unknown field label/validity")
	}
}

func TestParseEmotion(t *testing.T) {
	cases := map[string]Emotion{
		"sadness":   EmotionSadness,
		" JOY ":     EmotionJoy,
		"love":      EmotionNeutral,
		"":          EmotionNeutral,
		"neutral":   EmotionNeutral,
		"Disgust\n": EmotionDisgust,
	}
	for in, want := range cases {
		if got := ParseEmotion(in); got != want {
			t.Fatalf("ParseEmotion(%q) = %q, want %q", in, got, want)
		}
	}
	if SupportMotivation.String() != "motivation" || SupportNone.String() != "none" {
		t.Fatalf("unexpected SupportKind strings")
	}
}
