package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hackcomplete"
	"github.com/rlch/hackcomplete/complete"
)

// Completion handles textDocument/completion requests.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	src := s.getSource()
	if src == nil {
		return &protocol.CompletionList{}, nil
	}

	offset := offsetAt(doc.Content, params.Position)
	q := complete.Query{
		Text:        doc.Content,
		Offset:      offset,
		PrefixGuess: wordPrefix(doc.Content, offset),
	}
	prefix := q.Prefix()

	s.logger.Debug("Completion prefix", zap.String("prefix", prefix), zap.Int("offset", offset))

	symbols, err := src.Candidates(ctx, hackcomplete.Request{
		Path:   URIToPath(doc.URI),
		Text:   doc.Content,
		Offset: offset,
		Prefix: prefix,
	})
	if err != nil {
		// Sources fail independently; rank whatever the others returned.
		s.logger.Warn("Completion source failed", zap.Error(err))
	}

	// The buffer moved on while the sources were working.
	if version, ok := s.currentVersion(doc.URI); !ok || version != doc.Version {
		s.logger.Debug("Discarding stale completion",
			zap.Int32("requested", doc.Version),
			zap.Int32("current", version))

		return &protocol.CompletionList{IsIncomplete: true}, nil
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        completionItems(q, symbols),
	}, nil
}

// completionItems ranks symbols for q and converts them to LSP items. Each item replaces
// the text matched by its replacement prefix, and SortText pins the ranked order.
func completionItems(q complete.Query, symbols []hackcomplete.Symbol) []protocol.CompletionItem {
	results := hackcomplete.Resolve(q, symbols)
	end := positionAt(q.Text, q.Offset)
	items := make([]protocol.CompletionItem, 0, len(results))

	for i, r := range results {
		items = append(items, protocol.CompletionItem{
			Label:      r.Label(),
			Kind:       completionKind(r.Kind),
			Detail:     r.Detail,
			FilterText: r.Name,
			SortText:   fmt.Sprintf("%05d", i),
			TextEdit: &protocol.TextEdit{
				Range: protocol.Range{
					Start: positionAt(q.Text, q.Offset-len(r.ReplacementPrefix)),
					End:   end,
				},
				NewText: r.Name,
			},
		})
	}

	return items
}

// completionKind maps a source symbol kind to the LSP item kind.
func completionKind(kind string) protocol.CompletionItemKind {
	switch kind {
	case "function":
		return protocol.CompletionItemKindFunction
	case "method":
		return protocol.CompletionItemKindMethod
	case "class", "trait":
		return protocol.CompletionItemKindClass
	case "interface":
		return protocol.CompletionItemKindInterface
	case "enum":
		return protocol.CompletionItemKindEnum
	case "constant":
		return protocol.CompletionItemKindConstant
	case "property":
		return protocol.CompletionItemKindProperty
	case "variable":
		return protocol.CompletionItemKindVariable
	case "keyword":
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindText
	}
}
