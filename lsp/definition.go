package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hackcomplete"
	"github.com/rlch/hackcomplete/complete"
)

// Definition handles textDocument/definition requests.
// The identifier under the cursor is looked up by name among the symbols of a listing
// source; every match with a known declaration site is returned.
func (s *Server) Definition(_ context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	s.logger.Debug("Definition",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	_, matches := s.symbolsAt(params.TextDocument.URI, params.Position)

	var locations []protocol.Location

	for _, sym := range matches {
		if sym.File != "" {
			locations = append(locations, symbolLocation(sym))
		}
	}

	return locations, nil
}

// Hover handles textDocument/hover requests with the label and detail of the first
// symbol named like the identifier under the cursor.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	rng, matches := s.symbolsAt(params.TextDocument.URI, params.Position)
	if len(matches) == 0 {
		return nil, nil //nolint:nilnil
	}

	sym := matches[0]

	value := "```hack\n" + sym.Label() + "\n```"
	if sym.Detail != "" {
		value += "\n\n" + sym.Detail
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: value,
		},
		Range: &rng,
	}, nil
}

// symbolsAt returns the range of the identifier at pos and the listed symbols named like it.
func (s *Server) symbolsAt(uri protocol.DocumentURI, pos protocol.Position) (protocol.Range, []hackcomplete.Symbol) {
	doc, ok := s.getDocument(uri)
	if !ok {
		return protocol.Range{}, nil
	}

	lister, ok := s.getSource().(hackcomplete.Lister)
	if !ok {
		return protocol.Range{}, nil
	}

	start, end := identifierAt(doc.Content, offsetAt(doc.Content, pos))
	if start == end {
		return protocol.Range{}, nil
	}

	name := doc.Content[start:end]

	var matches []hackcomplete.Symbol

	for _, sym := range lister.Symbols() {
		if sym.Name == name {
			matches = append(matches, sym)
		}
	}

	return protocol.Range{
		Start: positionAt(doc.Content, start),
		End:   positionAt(doc.Content, end),
	}, matches
}

// identifierAt returns the bounds of the identifier around offset, including a leading
// '$' or a whole ':'-led element name.
func identifierAt(content string, offset int) (int, int) {
	end := offset
	for end < len(content) && isIdentifierByte(content[end]) {
		end++
	}

	// Carry on through element name joiners, then keep the result only if the name it
	// locates still covers the cursor.
	long := end
	for long+1 < len(content) && (content[long] == ':' || content[long] == '-') &&
		isIdentifierByte(content[long+1]) && isIdentifierByte(content[long-1]) {
		long++
		for long < len(content) && isIdentifierByte(content[long]) {
			long++
		}
	}

	if long > end {
		if name := complete.Locate(content, long); long-len(name) <= offset {
			return long - len(name), long
		}
	}

	name := complete.Locate(content, end)

	return end - len(name), end
}

func isIdentifierByte(b byte) bool {
	return isWordByte(b) || b >= 0x80
}
