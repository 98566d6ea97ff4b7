// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/notesafe/notesafe/internal/crypto"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/store"
	"github.com/notesafe/notesafe/internal/utils"
	"github.com/notesafe/notesafe/models"
)

// recordService implements [RecordService]. Repositories see only encrypted
// designated fields (note content, annotation audio and transcription); the
// cipher runs here, in the service layer. Change-log payloads are plaintext
// snapshots taken before encryption.
//
// When cipherCtx is nil the store operates in plaintext mode and all
// encrypt/decrypt calls are pass-throughs.
type recordService struct {
	stores    *store.ClientStorages
	changeLog ChangeLogService
	cipher    crypto.CipherService
	cipherCtx *crypto.Context
	ids       *utils.UUIDGenerator

	logger *logger.Logger
}

// NewRecordService constructs a [RecordService]. Pass a nil cipherCtx to
// disable encryption at rest.
func NewRecordService(stores *store.ClientStorages, changeLog ChangeLogService, cipher crypto.CipherService, cipherCtx *crypto.Context, logger *logger.Logger) RecordService {
	return &recordService{
		stores:    stores,
		changeLog: changeLog,
		cipher:    cipher,
		cipherCtx: cipherCtx,
		ids:       utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// ── Notes ───────────────────────────────────────────────────────────────────

func (r *recordService) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	now := time.Now().UTC()
	if note.ID == "" {
		note.ID = r.ids.Generate()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	snapshot, err := json.Marshal(note)
	if err != nil {
		return models.Note{}, fmt.Errorf("snapshot note %s: %w", note.ID, err)
	}

	stored, err := r.encryptNote(note)
	if err != nil {
		return models.Note{}, err
	}
	if err = r.stores.NoteRepository.SaveNote(ctx, stored); err != nil {
		return models.Note{}, err
	}

	if _, err = r.changeLog.Record(ctx, models.EntityNote, note.ID, models.ChangeCreate, snapshot); err != nil {
		return models.Note{}, err
	}

	return note, nil
}

func (r *recordService) GetNote(ctx context.Context, id string) (models.Note, error) {
	stored, err := r.stores.NoteRepository.GetNote(ctx, id)
	if err != nil {
		return models.Note{}, err
	}

	return r.decryptNote(stored)
}

func (r *recordService) ListNotes(ctx context.Context, filter store.NoteFilter) ([]models.Note, error) {
	stored, err := r.stores.NoteRepository.ListNotes(ctx, filter)
	if err != nil {
		return nil, err
	}

	notes := make([]models.Note, 0, len(stored))
	for _, note := range stored {
		plain, decErr := r.decryptNote(note)
		if decErr != nil {
			return nil, decErr
		}
		notes = append(notes, plain)
	}

	return notes, nil
}

func (r *recordService) UpdateNote(ctx context.Context, note models.Note) (models.Note, error) {
	if note.ID == "" {
		return models.Note{}, fmt.Errorf("%w: note id is required", ErrInvalidDataProvided)
	}
	note.UpdatedAt = time.Now().UTC()

	snapshot, err := json.Marshal(note)
	if err != nil {
		return models.Note{}, fmt.Errorf("snapshot note %s: %w", note.ID, err)
	}

	stored, err := r.encryptNote(note)
	if err != nil {
		return models.Note{}, err
	}
	if err = r.stores.NoteRepository.UpdateNote(ctx, stored); err != nil {
		return models.Note{}, err
	}

	if _, err = r.changeLog.Record(ctx, models.EntityNote, note.ID, models.ChangeUpdate, snapshot); err != nil {
		return models.Note{}, err
	}

	return note, nil
}

func (r *recordService) DeleteNote(ctx context.Context, id string) error {
	if err := r.stores.NoteRepository.DeleteNote(ctx, id); err != nil {
		return err
	}

	// Annotations go with the note via the schema cascade; the remote side
	// cascades the same way when it applies this delete.
	_, err := r.changeLog.Record(ctx, models.EntityNote, id, models.ChangeDelete, nil)
	return err
}

// ── Voice annotations ───────────────────────────────────────────────────────

func (r *recordService) CreateAnnotation(ctx context.Context, annotation models.VoiceAnnotation) (models.VoiceAnnotation, error) {
	now := time.Now().UTC()
	if annotation.ID == "" {
		annotation.ID = r.ids.Generate()
	}
	if annotation.NoteID == "" {
		return models.VoiceAnnotation{}, fmt.Errorf("%w: annotation note id is required", ErrInvalidDataProvided)
	}
	if annotation.Timestamp.IsZero() {
		annotation.Timestamp = now
	}
	annotation.UpdatedAt = now

	snapshot, err := json.Marshal(annotation)
	if err != nil {
		return models.VoiceAnnotation{}, fmt.Errorf("snapshot annotation %s: %w", annotation.ID, err)
	}

	stored, err := r.encryptAnnotation(annotation)
	if err != nil {
		return models.VoiceAnnotation{}, err
	}
	if err = r.stores.AnnotationRepository.SaveAnnotation(ctx, stored); err != nil {
		return models.VoiceAnnotation{}, err
	}

	if _, err = r.changeLog.Record(ctx, models.EntityVoiceAnnotation, annotation.ID, models.ChangeCreate, snapshot); err != nil {
		return models.VoiceAnnotation{}, err
	}

	return annotation, nil
}

func (r *recordService) GetAnnotation(ctx context.Context, id string) (models.VoiceAnnotation, error) {
	stored, err := r.stores.AnnotationRepository.GetAnnotation(ctx, id)
	if err != nil {
		return models.VoiceAnnotation{}, err
	}

	return r.decryptAnnotation(stored)
}

func (r *recordService) ListAnnotations(ctx context.Context, noteID string) ([]models.VoiceAnnotation, error) {
	stored, err := r.stores.AnnotationRepository.ListAnnotations(ctx, noteID)
	if err != nil {
		return nil, err
	}

	annotations := make([]models.VoiceAnnotation, 0, len(stored))
	for _, annotation := range stored {
		plain, decErr := r.decryptAnnotation(annotation)
		if decErr != nil {
			return nil, decErr
		}
		annotations = append(annotations, plain)
	}

	return annotations, nil
}

func (r *recordService) UpdateAnnotation(ctx context.Context, annotation models.VoiceAnnotation) (models.VoiceAnnotation, error) {
	if annotation.ID == "" {
		return models.VoiceAnnotation{}, fmt.Errorf("%w: annotation id is required", ErrInvalidDataProvided)
	}
	annotation.UpdatedAt = time.Now().UTC()

	snapshot, err := json.Marshal(annotation)
	if err != nil {
		return models.VoiceAnnotation{}, fmt.Errorf("snapshot annotation %s: %w", annotation.ID, err)
	}

	stored, err := r.encryptAnnotation(annotation)
	if err != nil {
		return models.VoiceAnnotation{}, err
	}
	if err = r.stores.AnnotationRepository.UpdateAnnotation(ctx, stored); err != nil {
		return models.VoiceAnnotation{}, err
	}

	if _, err = r.changeLog.Record(ctx, models.EntityVoiceAnnotation, annotation.ID, models.ChangeUpdate, snapshot); err != nil {
		return models.VoiceAnnotation{}, err
	}

	return annotation, nil
}

func (r *recordService) DeleteAnnotation(ctx context.Context, id string) error {
	if err := r.stores.AnnotationRepository.DeleteAnnotation(ctx, id); err != nil {
		return err
	}

	_, err := r.changeLog.Record(ctx, models.EntityVoiceAnnotation, id, models.ChangeDelete, nil)
	return err
}

// ── Tags ────────────────────────────────────────────────────────────────────

func (r *recordService) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	now := time.Now().UTC()
	if tag.ID == "" {
		tag.ID = r.ids.Generate()
	}
	if tag.Name == "" {
		return models.Tag{}, fmt.Errorf("%w: tag name is required", ErrInvalidDataProvided)
	}
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = now
	}
	tag.UpdatedAt = now

	snapshot, err := json.Marshal(tag)
	if err != nil {
		return models.Tag{}, fmt.Errorf("snapshot tag %s: %w", tag.ID, err)
	}

	if err = r.stores.TagRepository.SaveTag(ctx, tag); err != nil {
		return models.Tag{}, err
	}

	if _, err = r.changeLog.Record(ctx, models.EntityTag, tag.ID, models.ChangeCreate, snapshot); err != nil {
		return models.Tag{}, err
	}

	return tag, nil
}

func (r *recordService) GetTag(ctx context.Context, id string) (models.Tag, error) {
	return r.stores.TagRepository.GetTag(ctx, id)
}

func (r *recordService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return r.stores.TagRepository.ListTags(ctx)
}

func (r *recordService) UpdateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	if tag.ID == "" {
		return models.Tag{}, fmt.Errorf("%w: tag id is required", ErrInvalidDataProvided)
	}
	tag.UpdatedAt = time.Now().UTC()

	snapshot, err := json.Marshal(tag)
	if err != nil {
		return models.Tag{}, fmt.Errorf("snapshot tag %s: %w", tag.ID, err)
	}

	if err = r.stores.TagRepository.UpdateTag(ctx, tag); err != nil {
		return models.Tag{}, err
	}

	if _, err = r.changeLog.Record(ctx, models.EntityTag, tag.ID, models.ChangeUpdate, snapshot); err != nil {
		return models.Tag{}, err
	}

	return tag, nil
}

func (r *recordService) DeleteTag(ctx context.Context, id string) error {
	if err := r.stores.TagRepository.DeleteTag(ctx, id); err != nil {
		return err
	}

	_, err := r.changeLog.Record(ctx, models.EntityTag, id, models.ChangeDelete, nil)
	return err
}

// ── Remote apply ────────────────────────────────────────────────────────────

// ApplyRemote implements [RecordService]. Deletes of already-absent entities
// succeed so that replays are harmless.
func (r *recordService) ApplyRemote(ctx context.Context, change models.ChangeLogEntry) error {
	if change.ChangeKind == models.ChangeDelete {
		return r.applyRemoteDelete(ctx, change)
	}

	switch change.EntityKind {
	case models.EntityNote:
		var note models.Note
		if err := json.Unmarshal(change.Payload, &note); err != nil {
			return fmt.Errorf("%w: note %s: %w", ErrDecodePayload, change.EntityID, err)
		}
		// Update snapshots may not carry the creation time. The upsert only
		// uses created_at when it inserts, so backfill it for the case
		// where this device has never seen the note.
		if note.CreatedAt.IsZero() {
			note.CreatedAt = note.UpdatedAt
			if note.CreatedAt.IsZero() {
				note.CreatedAt = change.Timestamp
			}
		}
		stored, err := r.encryptNote(note)
		if err != nil {
			return err
		}
		return r.stores.NoteRepository.UpsertNote(ctx, stored)

	case models.EntityVoiceAnnotation:
		var annotation models.VoiceAnnotation
		if err := json.Unmarshal(change.Payload, &annotation); err != nil {
			return fmt.Errorf("%w: annotation %s: %w", ErrDecodePayload, change.EntityID, err)
		}
		stored, err := r.encryptAnnotation(annotation)
		if err != nil {
			return err
		}
		return r.stores.AnnotationRepository.UpsertAnnotation(ctx, stored)

	case models.EntityTag:
		var tag models.Tag
		if err := json.Unmarshal(change.Payload, &tag); err != nil {
			return fmt.Errorf("%w: tag %s: %w", ErrDecodePayload, change.EntityID, err)
		}
		if tag.CreatedAt.IsZero() {
			tag.CreatedAt = tag.UpdatedAt
			if tag.CreatedAt.IsZero() {
				tag.CreatedAt = change.Timestamp
			}
		}
		return r.stores.TagRepository.UpsertTag(ctx, tag)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownEntityKind, change.EntityKind)
	}
}

func (r *recordService) applyRemoteDelete(ctx context.Context, change models.ChangeLogEntry) error {
	var err error

	switch change.EntityKind {
	case models.EntityNote:
		err = r.stores.NoteRepository.DeleteNote(ctx, change.EntityID)
		if errors.Is(err, store.ErrNoteNotFound) {
			err = nil
		}
	case models.EntityVoiceAnnotation:
		err = r.stores.AnnotationRepository.DeleteAnnotation(ctx, change.EntityID)
		if errors.Is(err, store.ErrAnnotationNotFound) {
			err = nil
		}
	case models.EntityTag:
		err = r.stores.TagRepository.DeleteTag(ctx, change.EntityID)
		if errors.Is(err, store.ErrTagNotFound) {
			err = nil
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownEntityKind, change.EntityKind)
	}

	return err
}

// ── Field encryption ────────────────────────────────────────────────────────

func (r *recordService) encryptNote(note models.Note) (models.Note, error) {
	if r.cipherCtx == nil {
		return note, nil
	}

	content, err := r.cipher.EncryptString(r.cipherCtx, note.Content)
	if err != nil {
		return models.Note{}, fmt.Errorf("encrypt note %s content: %w", note.ID, err)
	}
	note.Content = content

	return note, nil
}

func (r *recordService) decryptNote(note models.Note) (models.Note, error) {
	if r.cipherCtx == nil {
		return note, nil
	}

	content, err := r.cipher.DecryptString(r.cipherCtx, note.Content)
	if err != nil {
		return models.Note{}, fmt.Errorf("decrypt note %s content: %w", note.ID, err)
	}
	note.Content = content

	return note, nil
}

func (r *recordService) encryptAnnotation(annotation models.VoiceAnnotation) (models.VoiceAnnotation, error) {
	if r.cipherCtx == nil {
		return annotation, nil
	}

	audio, err := r.cipher.Encrypt(r.cipherCtx, annotation.AudioData)
	if err != nil {
		return models.VoiceAnnotation{}, fmt.Errorf("encrypt annotation %s audio: %w", annotation.ID, err)
	}
	transcription, err := r.cipher.EncryptString(r.cipherCtx, annotation.Transcription)
	if err != nil {
		return models.VoiceAnnotation{}, fmt.Errorf("encrypt annotation %s transcription: %w", annotation.ID, err)
	}

	annotation.AudioData = audio
	annotation.Transcription = transcription

	return annotation, nil
}

func (r *recordService) decryptAnnotation(annotation models.VoiceAnnotation) (models.VoiceAnnotation, error) {
	if r.cipherCtx == nil {
		return annotation, nil
	}

	audio, err := r.cipher.Decrypt(r.cipherCtx, annotation.AudioData)
	if err != nil {
		return models.VoiceAnnotation{}, fmt.Errorf("decrypt annotation %s audio: %w", annotation.ID, err)
	}
	transcription, err := r.cipher.DecryptString(r.cipherCtx, annotation.Transcription)
	if err != nil {
		return models.VoiceAnnotation{}, fmt.Errorf("decrypt annotation %s transcription: %w", annotation.ID, err)
	}

	annotation.AudioData = audio
	annotation.Transcription = transcription

	return annotation, nil
}
