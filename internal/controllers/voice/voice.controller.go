package voiceController

import (
	"context"

	"painlog/internal/access"
	"painlog/internal/events"
	"painlog/internal/logger"
	. "painlog/internal/models"
	"painlog/internal/voice"
)

type VoiceController struct {
	interpreter *voice.Interpreter
	accessModel *access.Model
	eventBus    *events.EventBus
	log         logger.Logger
}

func New(
	recorder voice.PainRecorder,
	accessModel *access.Model,
	eventBus *events.EventBus,
) *VoiceController {
	return &VoiceController{
		interpreter: voice.New(recorder),
		accessModel: accessModel,
		eventBus:    eventBus,
		log:         logger.New("VoiceController"),
	}
}

// Process requires write access up front because the matched rule may record
// a pain entry.
func (vc *VoiceController) Process(
	ctx context.Context,
	caller UserID,
	request VoiceCommandRequest,
) (voice.Result, error) {
	log := vc.log.Function("Process")

	userID, err := ParseUserID("user_id", request.UserID)
	if err != nil {
		return voice.Result{}, err
	}

	if err := vc.accessModel.Require(ctx, caller, userID, AccessWrite); err != nil {
		return voice.Result{}, log.Err("caller may not issue voice commands for user", err, "caller", caller, "userID", userID)
	}

	result, err := vc.interpreter.Interpret(ctx, request.Command, userID)
	if err != nil {
		return voice.Result{}, log.Err("failed to process voice command", err, "userID", userID)
	}

	vc.eventBus.Publish(ctx, events.VoiceCommandProcessed, userID.String(), map[string]any{
		"action": result.Action,
	})

	return result, nil
}
