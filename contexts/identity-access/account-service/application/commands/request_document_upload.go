package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/domain/entities"
	domainerrors "funded/contexts/identity-access/account-service/domain/errors"
	"funded/contexts/identity-access/account-service/domain/services"
	"funded/contexts/identity-access/account-service/ports"
)

type RequestDocumentUploadCommand struct {
	Actor       application.Actor
	Type        string
	ContentType string
}

type RequestDocumentUploadResult struct {
	Document entities.VerificationDocument
	Upload   ports.PresignedUpload
}

type RequestDocumentUploadUseCase struct {
	Users       ports.UserRepository
	Storage     ports.DocumentStorage
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute issues a presigned upload URL and records the document as
// unverified. The client uploads the file directly to storage.
func (u RequestDocumentUploadUseCase) Execute(ctx context.Context, cmd RequestDocumentUploadCommand) (RequestDocumentUploadResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if !cmd.Actor.Authenticated() {
		return RequestDocumentUploadResult{}, domainerrors.ErrUnauthorized
	}
	user, err := u.Users.GetUser(ctx, cmd.Actor.UserID)
	if err != nil {
		return RequestDocumentUploadResult{}, err
	}
	if user.Student == nil {
		return RequestDocumentUploadResult{}, domainerrors.ErrStudentProfileNotFound
	}

	documentID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return RequestDocumentUploadResult{}, err
	}
	objectKey, err := services.DocumentObjectKey(user.UserID, documentID, cmd.Type, cmd.ContentType)
	if err != nil {
		return RequestDocumentUploadResult{}, err
	}
	if u.Storage == nil {
		return RequestDocumentUploadResult{}, domainerrors.ErrStorageUnavailable
	}
	upload, err := u.Storage.PresignUpload(ctx, objectKey, strings.ToLower(strings.TrimSpace(cmd.ContentType)))
	if err != nil {
		logger.Error("document presign failed",
			"event", "student_document_presign_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
		return RequestDocumentUploadResult{}, fmt.Errorf("%w: %v", domainerrors.ErrStorageUnavailable, err)
	}

	doc := entities.VerificationDocument{
		DocumentID: documentID,
		UserID:     user.UserID,
		Type:       strings.ToLower(strings.TrimSpace(cmd.Type)),
		URL:        upload.ObjectURL,
		ObjectKey:  objectKey,
		CreatedAt:  now(u.Clock),
	}
	if err := u.Users.AddDocument(ctx, doc); err != nil {
		return RequestDocumentUploadResult{}, err
	}

	logger.Info("student document upload issued",
		"event", "student_document_upload_issued",
		"module", moduleName,
		"layer", "application",
		"user_id", user.UserID,
		"document_id", doc.DocumentID,
		"type", doc.Type,
	)
	return RequestDocumentUploadResult{Document: doc, Upload: upload}, nil
}
