package services

import (
	"context"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

// DocumentStore is the cloud drive holding the user's Word documents.
// Every error names the failed operation and is a *domain.AuthError or *domain.RemoteError.
type DocumentStore interface {
	// ListDocuments returns every .docx file visible to the user,
	// most recently modified first; unknown modification times sort last.
	ListDocuments(ctx context.Context) ([]models.DocumentRef, error)

	// GetDocumentInfo returns the drive metadata of one item
	GetDocumentInfo(ctx context.Context, id string) (*models.DocumentRef, error)

	// DownloadDocument returns the raw document bytes
	DownloadDocument(ctx context.Context, id string) ([]byte, error)

	// UploadDocument replaces the item content and returns the updated item
	UploadDocument(ctx context.Context, id string, data []byte) (*models.DocumentRef, error)
}
