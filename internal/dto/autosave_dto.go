package dto

import (
	"time"

	"ai-briefbuilder-be/internal/entity"

	"github.com/google/uuid"
)

// AutosaveMessage is the payload put on the autosave topic.
type AutosaveMessage struct {
	BriefId  uuid.UUID         `json:"brief_id"`
	Patch    entity.BriefPatch `json:"patch"`
	IssuedAt time.Time         `json:"issued_at"`
}
