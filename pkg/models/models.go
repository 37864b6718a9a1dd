package models

// Tipos de mensaje difundidos por websocket
const (
	MessageQuizState = "quizState"
	MessageCooldown  = "cooldown"
)

// Question estructura para representar una pregunta del banco.
// Las letras A, B, C... se derivan de la posición de cada opción, no se guardan.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Settings configuración persistida del quiz
type Settings struct {
	SourceText    string `json:"sourceText"`
	RewardCode    string `json:"rewardCode"`
	RequiredCount int    `json:"requiredCount"`
}

// APIResponse estructura estándar para respuestas de API
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Option opción con su letra de presentación
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// QuestionView pregunta tal como se presenta al jugador (sin la respuesta correcta)
type QuestionView struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
	Current int      `json:"current"`
	Total   int      `json:"total"`
}

// QuizStatus estado visible del quiz para la pantalla de inicio
type QuizStatus struct {
	State           string `json:"state"`
	CooldownSeconds int    `json:"cooldownSeconds"`
	TotalQuestions  int    `json:"totalQuestions"`
	RequiredCount   int    `json:"requiredCount"`
	RunLength       int    `json:"runLength"`
	CanStart        bool   `json:"canStart"`
	Current         int    `json:"current,omitempty"`
	RewardCode      string `json:"rewardCode,omitempty"`
}

// CooldownMessage cuenta regresiva del bloqueo
type CooldownMessage struct {
	Seconds int `json:"seconds"`
}

// AnswerResult resultado de responder una pregunta
type AnswerResult struct {
	Correct         bool   `json:"correct"`
	State           string `json:"state"`
	Current         int    `json:"current"`
	Total           int    `json:"total"`
	CooldownSeconds int    `json:"cooldownSeconds,omitempty"`
	RewardCode      string `json:"rewardCode,omitempty"`
}

// OptionLetter devuelve la letra de presentación para la posición i (A, B, ..., Z, AA, AB, ...)
func OptionLetter(i int) string {
	if i < 0 {
		return ""
	}
	letter := ""
	for n := i; ; n = n/26 - 1 {
		letter = string(rune('A'+n%26)) + letter
		if n < 26 {
			break
		}
	}
	return letter
}

// View construye la vista de la pregunta para la posición index (0-based) dentro de una partida de total preguntas
func (q Question) View(index, total int) QuestionView {
	options := make([]Option, len(q.Options))
	for i, text := range q.Options {
		options[i] = Option{Letter: OptionLetter(i), Text: text}
	}
	return QuestionView{
		ID:      q.ID,
		Text:    q.Text,
		Options: options,
		Current: index + 1,
		Total:   total,
	}
}
