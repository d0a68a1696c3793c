package rdf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// DecodeNQuads reads N-Quads (or N-Triples) statements from r. Blank lines
// and #-comments are skipped. It covers the subset of the grammar produced
// by common serializers: IRIs in angle brackets, "_:" blank nodes, and
// double-quoted literals with optional ^^datatype or @language suffix.
func DecodeNQuads(r io.Reader) ([]Quad, error) {
	var quads []Quad
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		q, err := parseStatement(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		quads = append(quads, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read statements: %w", err)
	}
	return quads, nil
}

// ReadFile decodes an N-Quads/N-Triples file into a memory store.
func ReadFile(path string) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	quads, err := DecodeNQuads(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewMemoryStore(quads...), nil
}

func parseStatement(line string) (Quad, error) {
	p := &stmtParser{input: line}

	subject, err := p.readTerm()
	if err != nil {
		return Quad{}, fmt.Errorf("subject: %w", err)
	}
	predicate, err := p.readTerm()
	if err != nil {
		return Quad{}, fmt.Errorf("predicate: %w", err)
	}
	object, err := p.readTerm()
	if err != nil {
		return Quad{}, fmt.Errorf("object: %w", err)
	}

	graph := ""
	p.skipSpace()
	if p.peek() == '<' {
		g, err := p.readTerm()
		if err != nil {
			return Quad{}, fmt.Errorf("graph: %w", err)
		}
		graph = g.Value()
	}

	p.skipSpace()
	if p.peek() != '.' {
		return Quad{}, fmt.Errorf("missing terminating dot")
	}

	return Quad{Subject: subject, Predicate: predicate, Object: object, Graph: graph}, nil
}

type stmtParser struct {
	input string
	pos   int
}

func (p *stmtParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *stmtParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *stmtParser) readTerm() (Term, error) {
	p.skipSpace()
	switch p.peek() {
	case '<':
		return p.readIRI()
	case '_':
		return p.readBlankNode()
	case '"':
		return p.readLiteral()
	case 0:
		return nil, fmt.Errorf("unexpected end of statement")
	default:
		return nil, fmt.Errorf("unexpected character %q", p.input[p.pos])
	}
}

func (p *stmtParser) readIRI() (Term, error) {
	end := strings.IndexByte(p.input[p.pos:], '>')
	if end < 0 {
		return nil, fmt.Errorf("unterminated IRI")
	}
	iri := p.input[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return IRI(iri), nil
}

func (p *stmtParser) readBlankNode() (Term, error) {
	if !strings.HasPrefix(p.input[p.pos:], "_:") {
		return nil, fmt.Errorf("malformed blank node")
	}
	start := p.pos + 2
	end := start
	for end < len(p.input) && p.input[end] != ' ' && p.input[end] != '\t' {
		end++
	}
	label := p.input[start:end]
	if label == "" {
		return nil, fmt.Errorf("empty blank node label")
	}
	p.pos = end
	return BlankNode(label), nil
}

func (p *stmtParser) readLiteral() (Term, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\\' && p.pos+1 < len(p.input) {
			next := p.input[p.pos+1]
			switch next {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(next)
			}
			p.pos += 2
			continue
		}
		if c == '"' {
			p.pos++
			return p.readLiteralSuffix(sb.String())
		}
		sb.WriteByte(c)
		p.pos++
	}
	return nil, fmt.Errorf("unterminated literal")
}

func (p *stmtParser) readLiteralSuffix(lexical string) (Term, error) {
	lit := Literal{Lexical: lexical}
	if strings.HasPrefix(p.input[p.pos:], "^^") {
		p.pos += 2
		if p.peek() != '<' {
			return nil, fmt.Errorf("malformed datatype")
		}
		dt, err := p.readIRI()
		if err != nil {
			return nil, err
		}
		lit.Datatype = dt.Value()
		return lit, nil
	}
	if p.peek() == '@' {
		p.pos++
		start := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != ' ' && p.input[p.pos] != '\t' {
			p.pos++
		}
		lit.Language = p.input[start:p.pos]
	}
	return lit, nil
}
