package domain

import (
	"time"

	"github.com/google/uuid"
)

// AvatarContentType is the encoding every stored avatar is normalized to.
const AvatarContentType = "image/png"

// Avatar is a user's normalized profile image.
type Avatar struct {
	UserID      uuid.UUID
	Data        []byte
	ContentType string
	UpdatedAt   time.Time
}
