package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/hackcomplete"
	"github.com/rlch/hackcomplete/complete"
)

// Symbols handles workspace/symbol requests.
// Symbols known to listing sources are filtered and ranked like completions, with the
// query as the prefix. Symbols without a declaration site are skipped.
func (s *Server) Symbols(_ context.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	s.logger.Debug("Symbols", zap.String("query", params.Query))

	lister, ok := s.getSource().(hackcomplete.Lister)
	if !ok {
		return nil, nil
	}

	var located []hackcomplete.Symbol

	for _, sym := range lister.Symbols() {
		if sym.File != "" {
			located = append(located, sym)
		}
	}

	catalog := hackcomplete.NewCatalog(located)

	matched := complete.Filter(catalog.Candidates(), params.Query)
	complete.Ranker{Prefix: params.Query}.Sort(matched)

	symbols := make([]protocol.SymbolInformation, 0, len(matched))

	for _, c := range matched {
		sym, _ := catalog.Symbol(c)

		symbols = append(symbols, protocol.SymbolInformation{
			Name:     c.DisplayName,
			Kind:     symbolKind(sym.Kind),
			Location: symbolLocation(sym),
		})
	}

	return symbols, nil
}

// symbolLocation is the start of the declaration line of sym.
func symbolLocation(sym hackcomplete.Symbol) protocol.Location {
	line := uint32(max(0, sym.Line-1)) //nolint:gosec // G115: values are small line numbers

	return protocol.Location{
		URI: PathToURI(sym.File),
		Range: protocol.Range{
			Start: protocol.Position{Line: line},
			End:   protocol.Position{Line: line},
		},
	}
}

func symbolKind(kind string) protocol.SymbolKind {
	switch kind {
	case "function":
		return protocol.SymbolKindFunction
	case "method":
		return protocol.SymbolKindMethod
	case "class", "trait":
		return protocol.SymbolKindClass
	case "interface":
		return protocol.SymbolKindInterface
	case "enum":
		return protocol.SymbolKindEnum
	case "constant":
		return protocol.SymbolKindConstant
	case "property":
		return protocol.SymbolKindProperty
	default:
		return protocol.SymbolKindVariable
	}
}
