package editor

import (
	"context"
	"fmt"

	"github.com/viet-college/app-dept-pages/internal/models"
	"go.uber.org/zap"
)

// bucketForField picks the storage bucket of an element field
func bucketForField(field string) (string, error) {
	switch field {
	case "icon":
		return models.BucketIcons, nil
	case "image":
		return models.BucketImages, nil
	}
	return "", models.NewValidationError(field, "field does not hold an asset")
}

func targetKey(ref ListRef, id, field string) string {
	return fmt.Sprintf("%s[%s].%s", ref.key(), id, field)
}

// IsUploading reports whether an upload for target is in flight. Targets are
// "hero.image", "hero.video", "placements.recruiterImages", "curriculum" or
// "<section>.<list>[<id>].<field>".
func (e *Editor) IsUploading(target string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uploading[target]
}

// startUpload marks target busy; a second upload for the same target is refused
func (e *Editor) startUpload(target string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.uploading[target] {
		return models.NewValidationError(target, "upload already in progress")
	}
	e.uploading[target] = true
	return nil
}

func (e *Editor) finishUpload(op *operation, target string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation == op.generation {
		delete(e.uploading, target)
	}
}

func (e *Editor) upload(op *operation, file models.File, bucket string) (string, error) {
	url, err := e.storage.Upload(op.ctx, file, bucket)
	if err != nil {
		if !models.IsUploadError(err) && !models.IsBadRequest(err) {
			err = &models.UploadError{Bucket: bucket, Err: err}
		}
		return "", e.stale(op, err)
	}
	return url, nil
}

// UploadListAsset uploads file right away and writes its URL into the field
// of the list element. The element is left unchanged when the upload fails.
func (e *Editor) UploadListAsset(ctx context.Context, ref ListRef, id, field string, file *models.File) (string, error) {
	if file.Empty() {
		return "", models.NewValidationError("file", "select a file first")
	}
	bucket, err := bucketForField(field)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	h, err := e.resolve(ref)
	if err == nil {
		if item, ok := h.item(id); !ok {
			err = models.ErrItemNotFound
		} else if _, ferr := models.GetStringField(item, field); ferr != nil {
			err = ferr
		}
	}
	e.mu.Unlock()
	if err != nil {
		return "", err
	}

	op, err := e.begin(ctx)
	if err != nil {
		return "", err
	}
	defer op.end()

	target := targetKey(ref, id, field)
	if err := e.startUpload(target); err != nil {
		return "", err
	}
	defer e.finishUpload(op, target)

	url, err := e.upload(op, *file, bucket)
	if err != nil {
		e.fail(op, OpUploadAsset, "Upload failed", err)
		return "", err
	}

	var applyErr error
	if err := e.commit(op, func() {
		h, rerr := e.resolve(ref)
		if rerr != nil {
			applyErr = rerr
			return
		}
		applyErr = h.update(id, field, url)
	}); err != nil {
		return "", err
	}
	if applyErr != nil {
		// the element went away while the file was uploading
		e.fail(op, OpUploadAsset, "Uploaded file could not be attached", applyErr)
		return "", applyErr
	}

	e.succeed(op, OpUploadAsset, "File uploaded")
	return url, nil
}

// UploadRecruiterImage uploads a recruiter logo and appends it to the placements section
func (e *Editor) UploadRecruiterImage(ctx context.Context, file *models.File) (string, error) {
	if file.Empty() {
		return "", models.NewValidationError("file", "select a file first")
	}
	op, err := e.begin(ctx)
	if err != nil {
		return "", err
	}
	defer op.end()

	const target = "placements.recruiterImages"
	if err := e.startUpload(target); err != nil {
		return "", err
	}
	defer e.finishUpload(op, target)

	url, err := e.upload(op, *file, models.BucketRecruiters)
	if err != nil {
		e.fail(op, OpUploadAsset, "Upload failed", err)
		return "", err
	}
	if err := e.commit(op, func() { e.addRecruiterImage(url) }); err != nil {
		return "", err
	}
	e.succeed(op, OpUploadAsset, "Recruiter logo uploaded")
	return url, nil
}

// SetPendingHeroImage selects a hero image to upload on the next save. A nil
// file clears the selection.
func (e *Editor) SetPendingHeroImage(file *models.File) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if file.Empty() {
		e.pendingHeroImage = nil
		return
	}
	f := *file
	e.pendingHeroImage = &f
}

// SetPendingHeroVideo selects a hero video to upload on the next save
func (e *Editor) SetPendingHeroVideo(file *models.File) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if file.Empty() {
		e.pendingHeroVideo = nil
		return
	}
	f := *file
	e.pendingHeroVideo = &f
}

// HasPendingHeroAssets reports whether hero files wait for the next save
func (e *Editor) HasPendingHeroAssets() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingHeroImage != nil || e.pendingHeroVideo != nil
}

type heroAsset struct {
	target    string
	operation string
	field     string
	pending   func(e *Editor) **models.File
	persist   func(ctx context.Context, store PageStore, slug, url string) error
	apply     func(doc *models.Document, url string)
}

var heroAssets = []heroAsset{
	{
		target:    "hero.image",
		operation: OpUploadHeroImage,
		field:     "image",
		pending:   func(e *Editor) **models.File { return &e.pendingHeroImage },
		persist: func(ctx context.Context, s PageStore, slug, url string) error {
			return s.UploadHeroImage(ctx, slug, url)
		},
		apply: func(doc *models.Document, url string) { doc.Hero.Image = url },
	},
	{
		target:    "hero.video",
		operation: OpUploadHeroVideo,
		field:     "video",
		pending:   func(e *Editor) **models.File { return &e.pendingHeroVideo },
		persist: func(ctx context.Context, s PageStore, slug, url string) error {
			return s.UploadHeroVideo(ctx, slug, url)
		},
		apply: func(doc *models.Document, url string) { doc.Hero.Video = url },
	},
}

// uploadPendingHero uploads the pending hero image then video. Each uploaded
// URL is persisted on its own right away, so it survives a failed sections
// save, and written into the working copy. The first upload failure stops.
func (e *Editor) uploadPendingHero(op *operation) error {
	for _, asset := range heroAssets {
		e.mu.Lock()
		pending := *asset.pending(e)
		e.mu.Unlock()
		if pending == nil {
			continue
		}

		if err := e.startUpload(asset.target); err != nil {
			return err
		}
		bucket := models.BucketImages
		if asset.field == "video" {
			bucket = models.BucketVideos
		}
		url, err := e.upload(op, *pending, bucket)
		e.finishUpload(op, asset.target)
		if err != nil {
			e.fail(op, asset.operation, "Hero "+asset.field+" upload failed, page not saved", err)
			return err
		}

		if err := asset.persist(op.ctx, e.store, op.slug, url); err != nil {
			// the sections save below carries the URL as well
			e.logger.Warn("failed to record hero asset on its own",
				zap.String("slug", op.slug),
				zap.String("field", asset.field),
				zap.Error(err))
		}

		if err := e.commit(op, func() {
			asset.apply(&e.doc, url)
			if *asset.pending(e) == pending {
				*asset.pending(e) = nil
			}
		}); err != nil {
			return err
		}
	}
	return nil
}

// SaveHeroAssets uploads and records pending hero files without saving the
// other sections
func (e *Editor) SaveHeroAssets(ctx context.Context) error {
	op, err := e.begin(ctx)
	if err != nil {
		return err
	}
	defer op.end()

	if err := e.uploadPendingHero(op); err != nil {
		return err
	}
	e.succeed(op, OpUploadHeroImage, "Hero media saved")
	return nil
}
