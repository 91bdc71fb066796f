package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentID is a UUID-based identifier for Document
type DocumentID string

// NewDocumentID generates a new UUID v4 DocumentID
func NewDocumentID() DocumentID {
	return DocumentID(uuid.New().String())
}

// String returns the string representation of DocumentID
func (id DocumentID) String() string {
	return string(id)
}

// Document is a user-uploaded artifact whose text has already been extracted
type Document struct {
	ID        DocumentID
	UserID    string
	Title     string
	Content   string
	BlobPath  string // Object path of the raw upload, empty when blob storage is disabled
	CreatedAt time.Time
}
