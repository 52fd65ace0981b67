package lsp

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Document is one open text document mirrored from the client.
type Document struct {
	URI        DocumentURI
	LanguageID string
	Version    int
	Content    string
}

// Extension returns the file extension of the document's path, ".mcfunction"
// for a function file.
func (d Document) Extension() string {
	return filepath.Ext(URIToFilePath(d.URI))
}

// DocumentStore tracks the open documents by URI. The client owns the truth;
// the store only mirrors what sync notifications report.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[DocumentURI]*Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[DocumentURI]*Document)}
}

// Open records a newly opened document, replacing any previous entry.
func (s *DocumentStore) Open(item TextDocumentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[item.URI] = &Document{
		URI:        item.URI,
		LanguageID: item.LanguageID,
		Version:    item.Version,
		Content:    item.Text,
	}
}

// Change applies content changes to an open document. A change without a
// range replaces the whole content; a ranged change splices the new text into
// place. Changes apply in order, each against the result of the previous one.
func (s *DocumentStore) Change(id VersionedTextDocumentIdentifier, changes []TextDocumentContentChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id.URI]
	if !ok {
		return fmt.Errorf("change %s: %w", id.URI, ErrDocumentNotOpen)
	}

	for _, change := range changes {
		if change.Range == nil {
			doc.Content = change.Text
			continue
		}
		pc := NewPositionConverter(doc.Content)
		start, end := pc.RangeToByteOffsets(*change.Range)
		if end < start {
			start, end = end, start
		}
		doc.Content = doc.Content[:start] + change.Text + doc.Content[end:]
	}
	doc.Version = id.Version
	return nil
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns a snapshot of an open document.
func (s *DocumentStore) Get(uri DocumentURI) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// Len returns the number of open documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
