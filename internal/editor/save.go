package editor

import (
	"context"
	"errors"
	"strings"

	"github.com/viet-college/app-dept-pages/internal/models"
	"go.uber.org/zap"
)

// SaveSections persists the working copy. Pending hero files are uploaded
// first and a failed upload aborts the save. After a successful save the
// working copy is reloaded from the store; after a failed one it is kept as
// it was so the operator can retry.
func (e *Editor) SaveSections(ctx context.Context) error {
	op, err := e.begin(ctx)
	if err != nil {
		return err
	}
	defer op.end()

	if err := e.uploadPendingHero(op); err != nil {
		return err
	}

	e.mu.Lock()
	snapshot := models.CloneDocument(e.doc)
	e.mu.Unlock()

	if err := e.store.UpdateSections(op.ctx, op.slug, snapshot); err != nil {
		if !models.IsPersistenceError(err) {
			err = &models.PersistenceError{Op: "save sections", Err: err}
		}
		err = e.stale(op, err)
		e.fail(op, OpSaveSections, "Failed to save page", err)
		return err
	}

	doc, err := e.fetch(op)
	if err != nil {
		if errors.Is(err, models.ErrStaleSlug) {
			return err
		}
		// saved, but the copy could not be refreshed; keep what was sent
		e.logger.Warn("failed to reload page after save", zap.String("slug", op.slug), zap.Error(err))
		doc = snapshot
	}
	if err := e.commit(op, func() { e.doc = doc }); err != nil {
		return err
	}

	e.succeed(op, OpSaveSections, "Page saved")
	return nil
}

func validateRegulation(program, regulation string) (string, string, error) {
	program = strings.TrimSpace(program)
	regulation = strings.TrimSpace(regulation)
	if program == "" || regulation == "" {
		return "", "", models.NewValidationError("", "program and regulation name required")
	}
	return program, regulation, nil
}

// UploadSyllabus uploads a syllabus file and upserts it as the regulation of a
// program on the server. It takes effect immediately, independent of the
// sections save, and refreshes only the curriculum programs of the working copy.
func (e *Editor) UploadSyllabus(ctx context.Context, program, regulation string, file *models.File) ([]models.Program, error) {
	program, regulation, err := validateRegulation(program, regulation)
	if err != nil {
		return nil, err
	}
	if file.Empty() {
		return nil, models.NewValidationError("file", "select a file first")
	}

	op, err := e.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer op.end()

	const target = "curriculum"
	if err := e.startUpload(target); err != nil {
		return nil, err
	}
	defer e.finishUpload(op, target)

	url, err := e.upload(op, *file, models.BucketSyllabus)
	if err != nil {
		e.fail(op, OpUploadSyllabus, "Syllabus upload failed", err)
		return nil, err
	}

	programs, err := e.store.UploadSyllabus(op.ctx, op.slug, models.SyllabusRequest{
		ProgramName:    program,
		RegulationName: regulation,
		FileURL:        url,
		FileName:       file.BaseName(),
	})
	if err != nil {
		if !models.IsPersistenceError(err) && !models.IsBadRequest(err) && !models.IsNotFound(err) {
			err = &models.PersistenceError{Op: "upload syllabus", Err: err}
		}
		err = e.stale(op, err)
		e.fail(op, OpUploadSyllabus, "Failed to save syllabus", err)
		return nil, err
	}

	if err := e.commit(op, func() { e.doc.Curriculum.Programs = models.CopyPrograms(programs) }); err != nil {
		return nil, err
	}
	e.succeed(op, OpUploadSyllabus, "Syllabus uploaded")
	return models.CopyPrograms(programs), nil
}

// RequestRegulationDelete asks for confirmation before a regulation is deleted
func (e *Editor) RequestRegulationDelete(program, regulation string) error {
	program, regulation, err := validateRegulation(program, regulation)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.slug == "" {
		return models.ErrNoSlugSelected
	}
	if _, err := models.RemoveRegulation(e.doc.Curriculum.Programs, program, regulation); err != nil {
		return err
	}
	e.pendingDelete = &RegulationRef{Program: program, Regulation: regulation}
	return nil
}

// PendingRegulationDelete returns the regulation awaiting confirmation
func (e *Editor) PendingRegulationDelete() (RegulationRef, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pendingDelete == nil {
		return RegulationRef{}, false
	}
	return *e.pendingDelete, true
}

// CancelRegulationDelete dismisses the pending confirmation
func (e *Editor) CancelRegulationDelete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingDelete = nil
}

// ConfirmRegulationDelete deletes the regulation awaiting confirmation on the
// server. The program stays even when its last regulation goes.
func (e *Editor) ConfirmRegulationDelete(ctx context.Context) ([]models.Program, error) {
	e.mu.Lock()
	pending := e.pendingDelete
	e.pendingDelete = nil
	e.mu.Unlock()
	if pending == nil {
		return nil, models.NewValidationError("", "no regulation selected for deletion")
	}

	op, err := e.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer op.end()

	programs, err := e.store.DeleteRegulation(op.ctx, op.slug, pending.Program, pending.Regulation)
	if err != nil {
		if !models.IsPersistenceError(err) && !models.IsNotFound(err) && !models.IsBadRequest(err) {
			err = &models.PersistenceError{Op: "delete regulation", Err: err}
		}
		err = e.stale(op, err)
		e.fail(op, OpDeleteRegulation, "Failed to delete regulation", err)
		return nil, err
	}

	if err := e.commit(op, func() { e.doc.Curriculum.Programs = models.CopyPrograms(programs) }); err != nil {
		return nil, err
	}
	e.succeed(op, OpDeleteRegulation, "Regulation deleted")
	return models.CopyPrograms(programs), nil
}
