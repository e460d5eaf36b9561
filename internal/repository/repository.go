// Package repository persists the entities folio owns locally.
package repository

import (
	"github.com/rs/zerolog"

	"github.com/debemdeboas/folio/internal/model"
)

type ResumeStore interface {
	Load() model.Resume
	Save(resume model.Resume) (model.Resume, error)
}

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}
