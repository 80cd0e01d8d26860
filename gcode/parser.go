package gcode

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

type Parser struct {
	br   *bufio.Reader
	line int
}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

var (
	rx       = regexp.MustCompile(`^([A-Z][0-9.\-]*)+$`)
	rxSplit  = regexp.MustCompile(`[A-Z][0-9.\-]*`)
	rxQuoted = regexp.MustCompile(`"[^"]*"`)
)

// Line returns the number of the line last returned by Read.
func (p *Parser) Line() int { return p.line }

// Read returns the next non-empty line as a Block. Comments and quoted
// strings are dropped, and the free text of an M117 message is ignored.
func (p *Parser) Read() (ln Block, err error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return nil, err
		}
		p.line++

		s = strings.ToUpper(strings.TrimSpace(s))
		if isMessage(s) {
			return Block{{W: 'M', Arg: 117}}, nil
		}

		s = strings.SplitN(s, ";", 2)[0]
		s = rxQuoted.ReplaceAllString(s, "")
		s = strings.Replace(s, " ", "", -1)
		s = strings.Replace(s, "\t", "", -1)

		if s == "" {
			continue
		}

		if !rx.MatchString(s) {
			return nil, fmt.Errorf("line %d: invalid or unhandled line: %s", p.line, s)
		}

		codes := rxSplit.FindAllString(s, -1)
		res := make([]Word, len(codes))

		for i, c := range codes {
			res[i].W = c[0]
			if len(c) == 1 {
				continue
			}
			_, err = fmt.Sscanf(c[1:], "%f", &res[i].Arg)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse %s: %w", p.line, c, err)
			}
		}

		return res, nil
	}
}

// isMessage matches `M117` followed by free text or nothing.
func isMessage(s string) bool {
	if !strings.HasPrefix(s, "M117") {
		return false
	}
	rest := s[len("M117"):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}
