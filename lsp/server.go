// Package lsp implements a Language Server Protocol server for Hack completion.
package lsp

import (
	"context"
	"errors"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hackcomplete"
	"github.com/rlch/hackcomplete/source"
)

// Server implements the LSP Server interface for Hack completion.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// source answers completion requests. It is built from the workspace config on
	// initialize unless one was given to NewServer.
	source    hackcomplete.Source
	config    *hackcomplete.Config
	stopWatch context.CancelFunc

	workspaceRoot string
}

// Document represents an open document in the server.
type Document struct {
	URI     protocol.DocumentURI
	Version int32
	Content string
}

// NewServer creates a new LSP server. If src is nil the server builds its sources from
// the workspace configuration when the client initializes.
func NewServer(client protocol.Client, logger *zap.Logger, src hackcomplete.Source) *Server {
	return &Server{
		client:    client,
		logger:    logger,
		documents: make(map[protocol.DocumentURI]*Document),
		source:    src,
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.Any("params", params))

	// Extract workspace root from params
	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
		s.logger.Info("Workspace root (from RootPath)", zap.String("root", s.workspaceRoot))
	}

	cfg := s.loadConfig()

	s.mu.Lock()
	s.config = cfg
	needSource := s.source == nil
	s.mu.Unlock()

	if needSource {
		s.startSource(ctx, cfg)
	}

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: cfg.TriggerCharacters,
				ResolveProvider:   false,
			},
			// Workspace symbol search, definition and hover over listing sources
			WorkspaceSymbolProvider: true,
			DefinitionProvider:      true,
			HoverProvider:           true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "hackcomplete-lsp",
			Version: hackcomplete.Version,
		},
	}, nil
}

// loadConfig reads the workspace configuration, falling back to defaults.
func (s *Server) loadConfig() *hackcomplete.Config {
	if s.workspaceRoot == "" {
		return hackcomplete.DefaultConfig()
	}

	cfg, err := hackcomplete.LoadConfig(s.workspaceRoot)
	if err != nil {
		if !errors.Is(err, hackcomplete.ErrConfigNotFound) {
			s.logger.Warn("Failed to load config, using defaults", zap.Error(err))
		}

		return hackcomplete.DefaultConfig()
	}

	s.logger.Info("Loaded config", zap.String("path", cfg.Path()))

	return cfg
}

// startSource builds the configured sources and starts watching them if asked to.
func (s *Server) startSource(ctx context.Context, cfg *hackcomplete.Config) {
	src, err := source.FromConfig(cfg, s.workspaceRoot, s.logger)
	if err != nil {
		s.logger.Error("Failed to build completion sources", zap.Error(err))
		s.showMessage(ctx, protocol.MessageTypeError, "hackcomplete: "+err.Error())

		return
	}

	s.mu.Lock()
	s.source = src
	s.mu.Unlock()

	if !cfg.Watch {
		return
	}

	watchCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.stopWatch = cancel
	s.mu.Unlock()

	go func() {
		err := src.Watch(watchCtx)
		if err != nil {
			s.logger.Error("Source watcher stopped", zap.Error(err))
		}
	}()
}

func (s *Server) showMessage(ctx context.Context, typ protocol.MessageType, msg string) {
	err := s.client.ShowMessage(ctx, &protocol.ShowMessageParams{Type: typ, Message: msg})
	if err != nil {
		s.logger.Debug("Failed to show message", zap.Error(err))
	}
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopWatch != nil {
		s.stopWatch()
		s.stopWatch = nil
	}

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(_ context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[params.TextDocument.URI] = &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(_ context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Debug("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one with full sync)
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
	}

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(_ context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, params.TextDocument.URI)

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Debug("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// getDocument returns a copy of a document by URI. Handlers work on the copy so edits
// arriving mid-request do not change the text under them.
func (s *Server) getDocument(uri protocol.DocumentURI) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]
	if !ok {
		return Document{}, false
	}

	return *doc, true
}

// currentVersion reports the version of an open document.
func (s *Server) currentVersion(uri protocol.DocumentURI) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]
	if !ok {
		return 0, false
	}

	return doc.Version, true
}

func (s *Server) getSource() hackcomplete.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.source
}
