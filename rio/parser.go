package rio

import (
	"io"
	"strings"

	"github.com/lszeremeta/sesame-rio-api/rdf"
)

// Parser reads one serialization and reports its content to a Handler.
// A parser is used by one goroutine at a time.
type Parser interface {
	Format() Format
	SetValueFactory(vf rdf.ValueFactory)
	SetHandler(h Handler)
	SetErrorListener(l ParseErrorListener)
	SetLocationListener(l ParseLocationListener)
	// SetConfig validates and installs cfg. Invalid values fail with ErrCodeConfiguration.
	SetConfig(cfg *ParserConfig) error
	Config() *ParserConfig
	SupportedSettings() []AnySetting
	// Parse reads r to the end, resolving relative IRIs against baseURI.
	Parse(r io.Reader, baseURI string) error
}

// ParseErrorListener is notified of problems found while parsing.
type ParseErrorListener interface {
	Warning(msg string, line, col int)
	Error(msg string, line, col int)
	FatalError(msg string, line, col int)
}

// ParseLocationListener is notified as the parser advances.
type ParseLocationListener interface {
	ParseLocation(line, col int)
}

// ParserBase carries the state and policy shared by parsers. Embed it and call
// BeginParse at the start of Parse.
type ParserBase struct {
	format    Format
	extra     []AnySetting
	handler   Handler
	vf        rdf.ValueFactory
	errors    ParseErrorListener
	locations ParseLocationListener
	config    *ParserConfig
	baseURI   string
	bnodes    map[string]rdf.BlankNode
}

// NewParserBase returns a base for format. extra lists the format's own settings.
func NewParserBase(format Format, extra ...AnySetting) ParserBase {
	return ParserBase{
		format: format,
		extra:  extra,
		vf:     rdf.NewValueFactory(),
		config: NewParserConfig(),
	}
}

func (p *ParserBase) Format() Format { return p.format }

func (p *ParserBase) SetValueFactory(vf rdf.ValueFactory) {
	if vf == nil {
		vf = rdf.NewValueFactory()
	}
	p.vf = vf
}

func (p *ParserBase) SetHandler(h Handler)                        { p.handler = h }
func (p *ParserBase) SetErrorListener(l ParseErrorListener)       { p.errors = l }
func (p *ParserBase) SetLocationListener(l ParseLocationListener) { p.locations = l }

func (p *ParserBase) SetConfig(cfg *ParserConfig) error {
	if cfg == nil {
		cfg = NewParserConfig()
	}
	if err := cfg.Validate(p.format, p.SupportedSettings()); err != nil {
		return err
	}
	p.config = cfg
	return nil
}

func (p *ParserBase) Config() *ParserConfig {
	if p.config == nil {
		p.config = NewParserConfig()
	}
	return p.config
}

func (p *ParserBase) SupportedSettings() []AnySetting {
	return append(ParserBaseSettings(), p.extra...)
}

// Handler returns the installed handler, or a no-op handler.
func (p *ParserBase) Handler() Handler {
	if p.handler == nil {
		return HandlerBase{}
	}
	return p.handler
}

// ValueFactory returns the installed value factory.
func (p *ParserBase) ValueFactory() rdf.ValueFactory {
	if p.vf == nil {
		p.vf = rdf.NewValueFactory()
	}
	return p.vf
}

// BeginParse resets per-document state.
func (p *ParserBase) BeginParse(baseURI string) {
	p.baseURI = baseURI
	p.bnodes = make(map[string]rdf.BlankNode)
}

// BaseURI returns the current base IRI.
func (p *ParserBase) BaseURI() string { return p.baseURI }

// SetBaseURI changes the base IRI mid-document, as base directives do.
func (p *ParserBase) SetBaseURI(base string) { p.baseURI = base }

// ResolveIRI resolves ref against the base IRI and checks its syntax when
// VerifyIRISyntax is enabled.
func (p *ParserBase) ResolveIRI(ref string, line, col int) (rdf.IRI, error) {
	return p.CreateIRI(rdf.ResolveIRI(p.baseURI, ref), line, col)
}

// CreateIRI builds an IRI term, checking its syntax when VerifyIRISyntax is enabled.
func (p *ParserBase) CreateIRI(value string, line, col int) (rdf.IRI, error) {
	if Get(p.config, BasicParserSettings.VerifyIRISyntax) {
		if err := rdf.ValidateIRI(value); err != nil {
			if rerr := p.ReportError(BasicParserSettings.VerifyIRISyntax, err.Error(), line, col); rerr != nil {
				return rdf.IRI{}, rerr
			}
		}
	}
	return p.ValueFactory().CreateIRI(value), nil
}

// CreateBNode maps an identifier from the input to a blank node. An empty id
// yields a fresh node. Identifiers are kept only when PreserveBNodeIDs is set;
// otherwise each distinct id maps to one fresh node for the rest of the document.
func (p *ParserBase) CreateBNode(id string) rdf.BlankNode {
	vf := p.ValueFactory()
	if id == "" {
		return vf.CreateBNode()
	}
	if Get(p.config, BasicParserSettings.PreserveBNodeIDs) {
		return vf.CreateBNodeWithID(id)
	}
	if p.bnodes == nil {
		p.bnodes = make(map[string]rdf.BlankNode)
	}
	if b, ok := p.bnodes[id]; ok {
		return b
	}
	b := vf.CreateBNode()
	p.bnodes[id] = b
	return b
}

// CreateLiteral builds a literal, verifying and normalizing the language tag as configured.
func (p *ParserBase) CreateLiteral(lexical, lang string, datatype rdf.IRI, line, col int) (rdf.Literal, error) {
	vf := p.ValueFactory()
	if lang != "" {
		if Get(p.config, BasicParserSettings.VerifyLanguageTags) && !rdf.ValidLangTag(lang) {
			if err := p.ReportError(BasicParserSettings.VerifyLanguageTags, "invalid language tag "+lang, line, col); err != nil {
				return rdf.Literal{}, err
			}
		}
		if Get(p.config, BasicParserSettings.NormalizeLanguageTags) {
			lang = strings.ToLower(lang)
		}
		return vf.CreateLangLiteral(lexical, lang), nil
	}
	if datatype.Value != "" {
		return vf.CreateTypedLiteral(lexical, datatype), nil
	}
	return vf.CreateLiteral(lexical), nil
}

// ReportLocation forwards the position to the location listener.
func (p *ParserBase) ReportLocation(line, col int) {
	if p.locations != nil {
		p.locations.ParseLocation(line, col)
	}
}

// ReportWarning notifies the error listener without affecting the parse.
func (p *ParserBase) ReportWarning(msg string, line, col int) {
	if p.errors != nil {
		p.errors.Warning(msg, line, col)
	}
}

// ReportError applies the error-condition policy for cond. A disabled condition
// is a warning; an enabled condition in the non-fatal set is an error the parser
// recovers from. Both return nil. Otherwise the error is fatal and returned.
func (p *ParserBase) ReportError(cond *Setting[bool], msg string, line, col int) error {
	if !Get(p.config, cond) {
		p.ReportWarning(msg, line, col)
		return nil
	}
	if p.config.IsNonFatal(cond) {
		if p.errors != nil {
			p.errors.Error(msg, line, col)
		}
		return nil
	}
	err := p.ReportFatal(msg, line, col)
	err.Condition = cond.Key()
	return err
}

// ReportFatal notifies the error listener and returns a fatal parse error.
func (p *ParserBase) ReportFatal(msg string, line, col int) *Error {
	if p.errors != nil {
		p.errors.FatalError(msg, line, col)
	}
	return NewParseError(p.format.Name(), line, col, msg)
}

// StartRDF forwards the start event to the handler.
func (p *ParserBase) StartRDF() error { return AsHandlerError(p.Handler().StartRDF()) }

// EndRDF forwards the end event to the handler.
func (p *ParserBase) EndRDF() error { return AsHandlerError(p.Handler().EndRDF()) }

// EmitNamespace forwards a namespace declaration to the handler.
func (p *ParserBase) EmitNamespace(prefix, name string) error {
	return AsHandlerError(p.Handler().HandleNamespace(prefix, name))
}

// EmitStatement forwards a statement to the handler.
func (p *ParserBase) EmitStatement(st rdf.Statement) error {
	return AsHandlerError(p.Handler().HandleStatement(st))
}

// EmitComment forwards a comment to the handler.
func (p *ParserBase) EmitComment(text string) error {
	return AsHandlerError(p.Handler().HandleComment(text))
}
