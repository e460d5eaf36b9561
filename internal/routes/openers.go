package routes

import (
	"context"
	"errors"
	"fmt"

	"github.com/debemdeboas/folio/internal/api"
	"github.com/debemdeboas/folio/internal/editor"
	"github.com/debemdeboas/folio/internal/form"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/repository"
)

// Openers returns the session openers for every editable kind. Project drafts
// carry imageSlots image inputs.
func Openers(client *api.Client, resume repository.ResumeStore, imageSlots int) map[string]editor.Opener {
	return map[string]editor.Opener{
		editor.KindProject: ProjectOpener(client, imageSlots),
		editor.KindPost:    PostOpener(client),
		editor.KindResume:  ResumeOpener(resume),
	}
}

// resultError surfaces a failed mutation's user-facing message while keeping
// the underlying cause reachable with errors.Is.
type resultError struct {
	res api.Result
}

func (e *resultError) Error() string {
	return e.res.Message
}

func (e *resultError) Unwrap() error {
	return e.res.Err
}

func fetchError(kind, id string, err error) error {
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("%w: %s %q", editor.ErrSourceNotFound, kind, id)
	}
	return fmt.Errorf("failed to fetch %s %q: %w", kind, id, err)
}

// ProjectOpener opens a create session for an empty id and an edit session
// seeded from the backend otherwise. Edits send only the changed fields.
func ProjectOpener(client *api.Client, imageSlots int) editor.Opener {
	schema := editor.NewProjectSchema(imageSlots)
	fromModel := func(p *model.Project) form.Project { return form.ProjectFromModel(p, imageSlots) }

	return func(ctx context.Context, id string) (editor.Editor, error) {
		if id == "" {
			return editor.NewSession(schema, nil, func(ctx context.Context, draft form.Project) (form.Project, error) {
				project := draft.ToModel(nil)
				res := client.CreateProject(ctx, project)
				if !res.OK {
					return draft, &resultError{res}
				}
				project.ID = model.ProjectID(res.ID)
				return fromModel(&project), nil
			}), nil
		}

		base, err := client.GetProject(ctx, model.ProjectID(id))
		if err != nil {
			return nil, fetchError(editor.KindProject, id, err)
		}

		source := fromModel(base)
		return editor.NewSession(schema, &source, func(ctx context.Context, draft form.Project) (form.Project, error) {
			updated := draft.ToModel(base)
			patch, err := editor.Diff(*base, updated)
			if err != nil {
				return draft, err
			}
			if len(patch) == 0 {
				return fromModel(base), nil
			}

			res := client.UpdateProject(ctx, base.ID, patch)
			if !res.OK {
				return draft, &resultError{res}
			}
			base = &updated
			return fromModel(base), nil
		}), nil
	}
}

// PostOpener is ProjectOpener for blog posts. Existing posts are looked up by
// slug and updated by id.
func PostOpener(client *api.Client) editor.Opener {
	return func(ctx context.Context, slug string) (editor.Editor, error) {
		if slug == "" {
			return editor.NewSession(editor.PostSchema, nil, func(ctx context.Context, draft form.Post) (form.Post, error) {
				post := draft.ToModel(nil)
				res := client.CreatePost(ctx, post)
				if !res.OK {
					return draft, &resultError{res}
				}
				post.ID = model.PostID(res.ID)
				return form.PostFromModel(&post), nil
			}), nil
		}

		base, err := client.GetPost(ctx, slug)
		if err != nil {
			return nil, fetchError(editor.KindPost, slug, err)
		}

		source := form.PostFromModel(base)
		return editor.NewSession(editor.PostSchema, &source, func(ctx context.Context, draft form.Post) (form.Post, error) {
			updated := draft.ToModel(base)
			patch, err := editor.Diff(*base, updated)
			if err != nil {
				return draft, err
			}
			if len(patch) == 0 {
				return form.PostFromModel(base), nil
			}

			res := client.UpdatePost(ctx, base.ID, patch)
			if !res.OK {
				return draft, &resultError{res}
			}
			base = &updated
			return form.PostFromModel(base), nil
		}), nil
	}
}

// ResumeOpener edits the single locally stored resume; id is ignored.
func ResumeOpener(store repository.ResumeStore) editor.Opener {
	return func(ctx context.Context, _ string) (editor.Editor, error) {
		source := store.Load()
		return editor.NewSession(editor.ResumeSchema, &source, func(ctx context.Context, draft model.Resume) (model.Resume, error) {
			return store.Save(draft)
		}), nil
	}
}
