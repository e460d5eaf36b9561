package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/db"
	"github.com/debemdeboas/folio/internal/model"
)

// ResumeRepository keeps the single resume as one JSON value under a fixed
// key. Every save replaces the whole value.
type ResumeRepository struct { // implements ResumeStore
	kv  db.KV
	key string

	now func() time.Time
}

func NewResumeRepository(kv db.KV, key string) *ResumeRepository {
	return &ResumeRepository{
		kv:  kv,
		key: key,
		now: time.Now,
	}
}

// Load never fails: anything that cannot be read back as a resume yields
// model.DefaultResume.
func (r *ResumeRepository) Load() model.Resume {
	data, found, err := r.kv.Load(r.key)
	if err != nil {
		repoLogger.Warn().Err(err).Str("key", r.key).Msg(config.ErrLoadResume)
		return model.DefaultResume()
	}
	if !found {
		repoLogger.Debug().Str("key", r.key).Msg("No stored resume")
		return model.DefaultResume()
	}

	var resume model.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		repoLogger.Warn().Err(err).Str("key", r.key).Msg(config.ErrLoadResume)
		return model.DefaultResume()
	}
	// Save always assigns an id, so a value without one (`null`, `{}`) was
	// not written by it.
	if resume.ID == "" {
		repoLogger.Warn().Str("key", r.key).Msg(config.ErrLoadResume)
		return model.DefaultResume()
	}

	normalize(&resume)
	return resume
}

func (r *ResumeRepository) Save(resume model.Resume) (model.Resume, error) {
	saved := resume.Clone()
	if saved.ID == "" {
		saved.ID = model.DefaultResumeID
	}

	now := r.now().UTC()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	normalize(&saved)

	data, err := json.Marshal(saved)
	if err != nil {
		return resume, fmt.Errorf("failed to encode resume: %w", err)
	}
	if err := r.kv.Put(r.key, data); err != nil {
		return resume, fmt.Errorf("failed to save resume: %w", err)
	}

	repoLogger.Info().Str("key", r.key).Int("bytes", len(data)).Msg("Resume saved")
	return saved, nil
}

// Sections decoded from `null` or left out come back as empty lists.
func normalize(r *model.Resume) {
	if r.Experience == nil {
		r.Experience = []model.Experience{}
	}
	if r.Education == nil {
		r.Education = []model.Education{}
	}
	if r.Skills == nil {
		r.Skills = []model.SkillCategory{}
	}
	if r.Certifications == nil {
		r.Certifications = []model.Certification{}
	}
}
