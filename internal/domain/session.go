package domain

// HistoryLimit es la cantidad de mensajes recientes que conserva una sesion.
const HistoryLimit = 5

// Session guarda el estado conversacional de un usuario.
type Session struct {
	UserID  string   `json:"user_id"`
	Step    int      `json:"step"`
	Profile Profile  `json:"profile"`
	History []string `json:"history"`
}

// NewSession crea una sesion vacia en el paso 0.
func NewSession(userID string) *Session {
	return &Session{UserID: userID}
}

// OnboardingDone indica si ya se completaron todos los campos.
func (s *Session) OnboardingDone(fields []OnboardingField) bool {
	return s.Step >= len(fields)
}

// AppendHistory agrega el mensaje y recorta a los ultimos limit mensajes.
func (s *Session) AppendHistory(text string, limit int) {
	if limit <= 0 {
		limit = HistoryLimit
	}
	s.History = append(s.History, text)
	if len(s.History) > limit {
		trimmed := make([]string, limit)
		copy(trimmed, s.History[len(s.History)-limit:])
		s.History = trimmed
	}
}

// Snapshot devuelve una copia que puede leerse fuera del lock de la sesion.
func (s *Session) Snapshot() Session {
	cp := *s
	cp.History = append([]string(nil), s.History...)
	return cp
}
