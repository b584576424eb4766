package model

import (
	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
)

// Lifecycle model names.
const (
	UIDCompany       = "company"
	UIDProject       = "project"
	UIDDocument      = "document"
	UIDPhoto         = "photo"
	UIDPhotoCategory = "photo-category"
	UIDUser          = "user"
)

// ProjectChild is implemented by records whose creation marks their project as started.
type ProjectChild interface {
	RecordID() string
	ProjectRelation() relation.Ref
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func uuidRef(id *uuid.UUID) relation.Ref {
	if id == nil || *id == uuid.Nil {
		return relation.Ref{}
	}
	return relation.ID(id.String())
}
