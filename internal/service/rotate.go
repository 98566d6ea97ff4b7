// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package service

import (
	"context"

	"github.com/notesafe/notesafe/internal/crypto"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/store"
	"github.com/notesafe/notesafe/models"
)

// ReencryptAll implements [RecordService]. It walks every note and every
// annotation, decrypting sensitive fields with oldCtx and re-encrypting them
// with newCtx. UpdatedAt is preserved so rotation never influences conflict
// resolution, and no change-log entries are appended: rotation is a purely
// local re-keying, the plaintext never changes.
//
// A record whose fields fail to decrypt (wrong old key, tampered blob) is
// logged, counted in failed, and left untouched; the walk continues. Only an
// infrastructure error (store failure) aborts the pass.
func (r *recordService) ReencryptAll(ctx context.Context, oldCtx, newCtx *crypto.Context) (reencrypted, failed int, err error) {
	log := logger.FromContext(ctx)

	notes, err := r.stores.NoteRepository.ListNotes(ctx, store.NoteFilter{})
	if err != nil {
		return 0, 0, err
	}

	for _, note := range notes {
		// A note and its annotations rotate independently: a note whose
		// content no longer decrypts must not strand healthy annotations
		// under the old key.
		if rotErr := r.rotateNote(ctx, note, oldCtx, newCtx); rotErr != nil {
			log.Warn().
				Str("func", "recordService.ReencryptAll").
				Str("note_id", note.ID).
				Err(rotErr).
				Msg("skipping note that failed re-encryption")
			failed++
		} else {
			reencrypted++
		}

		annotations, listErr := r.stores.AnnotationRepository.ListAnnotations(ctx, note.ID)
		if listErr != nil {
			return reencrypted, failed, listErr
		}
		for _, annotation := range annotations {
			if rotErr := r.rotateAnnotation(ctx, annotation, oldCtx, newCtx); rotErr != nil {
				log.Warn().
					Str("func", "recordService.ReencryptAll").
					Str("annotation_id", annotation.ID).
					Err(rotErr).
					Msg("skipping annotation that failed re-encryption")
				failed++
				continue
			}
			reencrypted++
		}
	}

	log.Info().
		Str("func", "recordService.ReencryptAll").
		Int("reencrypted", reencrypted).
		Int("failed", failed).
		Msg("key rotation pass finished")

	return reencrypted, failed, nil
}

func (r *recordService) rotateNote(ctx context.Context, stored models.Note, oldCtx, newCtx *crypto.Context) error {
	content, err := r.cipher.DecryptString(oldCtx, stored.Content)
	if err != nil {
		return err
	}
	content, err = r.cipher.EncryptString(newCtx, content)
	if err != nil {
		return err
	}
	stored.Content = content

	return r.stores.NoteRepository.UpdateNote(ctx, stored)
}

func (r *recordService) rotateAnnotation(ctx context.Context, stored models.VoiceAnnotation, oldCtx, newCtx *crypto.Context) error {
	audio, err := r.cipher.Decrypt(oldCtx, stored.AudioData)
	if err != nil {
		return err
	}
	transcription, err := r.cipher.DecryptString(oldCtx, stored.Transcription)
	if err != nil {
		return err
	}

	if stored.AudioData, err = r.cipher.Encrypt(newCtx, audio); err != nil {
		return err
	}
	if stored.Transcription, err = r.cipher.EncryptString(newCtx, transcription); err != nil {
		return err
	}

	return r.stores.AnnotationRepository.UpdateAnnotation(ctx, stored)
}
