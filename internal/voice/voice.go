package voice

import (
	"context"
	"strings"

	"painlog/internal/logger"
	. "painlog/internal/models"
)

type Action string

const (
	ActionPainRecorded       Action = "pain_recorded"
	ActionMedicationReminder Action = "medication_reminder"
	ActionTherapySuggestion  Action = "therapy_suggestion"
	ActionUnrecognized       Action = "unrecognized"
)

const (
	HighPainIntensity = 8
	LowPainIntensity  = 3
	notesPrefix       = "Registro por comando de voz: "
)

// PainRecorder persists the entry a matched pain rule produces.
type PainRecorder interface {
	RecordPain(ctx context.Context, entry *PainEntry) error
}

type Result struct {
	Action  Action     `json:"action"`
	Message string     `json:"message"`
	Entry   *PainEntry `json:"entry,omitempty"`
}

type rule struct {
	keywords  []string
	action    Action
	intensity *int
	message   string
}

func intensity(i int) *int { return &i }

// rules are evaluated in order and the first match wins. Text containing both
// "dor forte" and "terapia" therefore records pain; keep the order stable.
var rules = []rule{
	{
		keywords:  []string{"dor forte", "dor intensa"},
		action:    ActionPainRecorded,
		intensity: intensity(HighPainIntensity),
		message:   "Dor forte registrada. Que tal tentar uma terapia de respiração?",
	},
	{
		keywords:  []string{"dor fraca", "pouca dor"},
		action:    ActionPainRecorded,
		intensity: intensity(LowPainIntensity),
		message:   "Dor leve registrada. Continue cuidando bem de você!",
	},
	{
		keywords: []string{"medicamento", "remédio"},
		action:   ActionMedicationReminder,
		message:  "Vou mostrar seus medicamentos. Lembre-se de tomar conforme prescrito.",
	},
	{
		keywords: []string{"terapia", "exercício"},
		action:   ActionTherapySuggestion,
		message:  "Vou abrir as terapias guiadas para você. Escolha a que preferir.",
	},
}

const unrecognizedMessage = `Não entendi o comando. Tente dizer "dor forte", "medicamento" ou "terapia".`

type Interpreter struct {
	recorder PainRecorder
	log      logger.Logger
}

func New(recorder PainRecorder) *Interpreter {
	return &Interpreter{
		recorder: recorder,
		log:      logger.New("voice"),
	}
}

func (i *Interpreter) Interpret(ctx context.Context, rawText string, userID UserID) (Result, error) {
	log := i.log.Function("Interpret")

	command := strings.ToLower(rawText)

	for _, r := range rules {
		if !r.matches(command) {
			continue
		}

		result := Result{Action: r.action, Message: r.message}
		if r.intensity == nil {
			log.Debug("Matched rule", "action", r.action, "userID", userID)
			return result, nil
		}

		notes := notesPrefix + command
		entry := &PainEntry{
			UserID:    userID,
			Intensity: *r.intensity,
			Notes:     &notes,
		}
		if err := i.recorder.RecordPain(ctx, entry); err != nil {
			return Result{}, log.Err("failed to record pain from voice command", err, "userID", userID)
		}

		log.Info("Recorded pain from voice command", "userID", userID, "intensity", entry.Intensity, "id", entry.ID)
		result.Entry = entry
		return result, nil
	}

	return Result{Action: ActionUnrecognized, Message: unrecognizedMessage}, nil
}

func (r rule) matches(command string) bool {
	for _, keyword := range r.keywords {
		if strings.Contains(command, keyword) {
			return true
		}
	}
	return false
}
