package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/tape/compiler"
	"github.com/chazu/tape/vm"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "tape-lsp"

var log = commonlog.GetLogger("tape.lsp")

// document is an open editor buffer and its most recent compilation.
type document struct {
	text string
	prog *vm.Program // nil when the text does not compile
	err  error
}

// LspServer provides bracket-aware editor features for tape programs.
// Programs are compiled, never executed.
type LspServer struct {
	opts compiler.Options

	mu   sync.Mutex
	docs map[string]*document // URI → document

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server. opts controls how documents are compiled
// for diagnostics.
func NewLSP(opts compiler.Options) *LspServer {
	s := &LspServer{
		opts:    opts,
		docs:    make(map[string]*document),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentDefinition: s.textDocumentDefinition,
		TextDocumentReferences: s.textDocumentReferences,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	commonlog.NewInfoMessage(0, "tape LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true
	capabilities.DefinitionProvider = true
	capabilities.ReferencesProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	s.docs = make(map[string]*document)
	s.mu.Unlock()
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	doc := s.update(uri, params.TextDocument.Text)
	s.publishDiagnostics(ctx, uri, doc)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc := s.update(uri, whole.Text)
			s.publishDiagnostics(ctx, uri, doc)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// update compiles text and stores it as the current content of uri.
func (s *LspServer) update(uri protocol.DocumentUri, text string) *document {
	doc := s.analyze(text)
	if doc.err != nil {
		log.Debugf("%s: %v", uri, doc.err)
	}

	s.mu.Lock()
	s.docs[string(uri)] = doc
	s.mu.Unlock()
	return doc
}

func (s *LspServer) analyze(text string) *document {
	prog, err := compiler.CompileWith(text, s.opts)
	return &document{text: text, prog: prog, err: err}
}

func (s *LspServer) lookup(uri protocol.DocumentUri) *document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[string(uri)]
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	return completionItems(), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.lookup(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return hoverAt(doc, params.Position), nil
}

func (s *LspServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.lookup(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	loc := definitionAt(params.TextDocument.URI, doc, params.Position)
	if loc == nil {
		return nil, nil
	}
	return *loc, nil
}

func (s *LspServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc := s.lookup(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return referencesAt(params.TextDocument.URI, doc, params.Position), nil
}

// --- Program-backed logic ---

var opcodeDocs = map[vm.Opcode]string{
	vm.OpMoveRight: "Move the cell pointer one cell to the right.",
	vm.OpMoveLeft:  "Move the cell pointer one cell to the left.",
	vm.OpIncrement: "Add one to the current cell, wrapping at 256.",
	vm.OpDecrement: "Subtract one from the current cell, wrapping at 0.",
	vm.OpOpenLoop:  "Jump past the matching `]` if the current cell is zero.",
	vm.OpCloseLoop: "Jump back to the matching `[` if the current cell is not zero.",
	vm.OpRead:      "Read one value from input into the current cell.",
	vm.OpWrite:     "Write the current cell to output.",
}

func completionItems() []protocol.CompletionItem {
	ops := []vm.Opcode{
		vm.OpMoveRight, vm.OpMoveLeft, vm.OpIncrement, vm.OpDecrement,
		vm.OpOpenLoop, vm.OpCloseLoop, vm.OpRead, vm.OpWrite,
	}
	items := make([]protocol.CompletionItem, 0, len(ops))
	for _, op := range ops {
		info := op.Info()
		kind := protocol.CompletionItemKindOperator
		detail := info.Name
		insert := string(info.Symbol)
		doc := opcodeDocs[op]
		items = append(items, protocol.CompletionItem{
			Label:         insert,
			Kind:          &kind,
			Detail:        &detail,
			Documentation: doc,
			InsertText:    &insert,
		})
	}
	return items
}

// instructionAt returns the instruction index under pos, or -1.
func instructionAt(doc *document, pos protocol.Position) int {
	if doc.prog == nil {
		return -1
	}
	off := runeOffset(doc.text, pos)
	if off < 0 {
		return -1
	}
	return doc.prog.InstructionAt(off)
}

func hoverAt(doc *document, pos protocol.Position) *protocol.Hover {
	idx := instructionAt(doc, pos)
	if idx < 0 {
		return nil
	}
	in := doc.prog.At(idx)
	info := in.Op.Info()

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** `%c` (instruction %d)\n\n%s", info.Name, info.Symbol, idx, opcodeDocs[in.Op])
	if partner := doc.prog.Partner(idx); partner >= 0 {
		p := compiler.PositionOf(doc.text, doc.prog.Offset(partner))
		fmt.Fprintf(&b, "\n\nMatches `%c` at %s, jump target %d.", doc.prog.At(partner).Op.Info().Symbol, p, in.Target)
	}

	r := runeRange(doc.text, doc.prog.Offset(idx))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &r,
	}
}

// definitionAt resolves a bracket to its partner.
func definitionAt(uri protocol.DocumentUri, doc *document, pos protocol.Position) *protocol.Location {
	idx := instructionAt(doc, pos)
	if idx < 0 {
		return nil
	}
	partner := doc.prog.Partner(idx)
	if partner < 0 {
		return nil
	}
	return &protocol.Location{
		URI:   uri,
		Range: runeRange(doc.text, doc.prog.Offset(partner)),
	}
}

// referencesAt returns both brackets of the pair under pos.
func referencesAt(uri protocol.DocumentUri, doc *document, pos protocol.Position) []protocol.Location {
	idx := instructionAt(doc, pos)
	if idx < 0 {
		return nil
	}
	partner := doc.prog.Partner(idx)
	if partner < 0 {
		return nil
	}
	opening, closing := idx, partner
	if doc.prog.At(idx).Op == vm.OpCloseLoop {
		opening, closing = partner, idx
	}
	return []protocol.Location{
		{URI: uri, Range: runeRange(doc.text, doc.prog.Offset(opening))},
		{URI: uri, Range: runeRange(doc.text, doc.prog.Offset(closing))},
	}
}

// --- Diagnostics ---

func diagnosticsFor(doc *document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc.err == nil {
		return diagnostics
	}

	var r protocol.Range
	var ce *compiler.CompileError
	if errors.As(doc.err, &ce) {
		r = toRange(ce.Pos)
	}

	severity := protocol.DiagnosticSeverityError
	source := lspName
	return append(diagnostics, protocol.Diagnostic{
		Range:    r,
		Severity: &severity,
		Source:   &source,
		Message:  doc.err.Error(),
	})
}

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, doc *document) {
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnosticsFor(doc),
	})
}

// --- Position helpers ---

// Columns are counted in runes, matching compiler offsets.

// runeOffset converts an LSP position to a rune offset in text, or -1 when
// the position is not on a rune.
func runeOffset(text string, pos protocol.Position) int {
	line, col := int(pos.Line)+1, int(pos.Character)+1
	sc := compiler.NewScanner(text)
	for sc.Scan() {
		p := sc.Pos()
		if p.Line == line && p.Column == col {
			return p.Offset
		}
		if p.Line > line {
			break
		}
	}
	return -1
}

func toPosition(p compiler.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(p.Column - 1),
	}
}

// toRange covers the single rune at p.
func toRange(p compiler.Position) protocol.Range {
	start := toPosition(p)
	end := start
	end.Character++
	return protocol.Range{Start: start, End: end}
}

func runeRange(text string, offset int) protocol.Range {
	return toRange(compiler.PositionOf(text, offset))
}

func boolPtr(b bool) *bool {
	return &b
}
