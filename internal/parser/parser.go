package parser

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxToken bounds the length of a single argument or redirect
// path. Tokens at or beyond the bound reject the whole line.
const DefaultMaxToken = 256

// ErrTooLong is returned when any token exceeds the parser's bound.
var ErrTooLong = errors.New("argument too long")

// Command is one parsed input line, ready for execution.
// Args[0] is the program name; InFile/OutFile are redirect paths and
// may both be set.
type Command struct {
	Args       []string
	InFile     string
	OutFile    string
	Background bool
}

// Empty reports whether the line held no arguments (a blank line or a
// lone trailing '&'). Callers treat an empty Command as a no-op.
func (c *Command) Empty() bool { return len(c.Args) == 0 }

// Name returns the program name, or "" for an empty Command.
func (c *Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Parser tokenizes raw input lines into Commands.
type Parser struct {
	maxToken int
}

// New returns a Parser enforcing maxToken as the per-token length
// bound; non-positive values fall back to DefaultMaxToken.
func New(maxToken int) *Parser {
	if maxToken <= 0 {
		maxToken = DefaultMaxToken
	}
	return &Parser{maxToken: maxToken}
}

// Parse tokenizes one line. Redirect operators may be glued to their
// path (">out.txt") or stand alone and take the following token
// ("> out.txt"); an operator with no path is an error. A final "&"
// token detaches the command and is not counted as an argument.
// No partial Command is ever returned alongside an error.
func (p *Parser) Parse(line string) (*Command, error) {
	tokens := strings.Fields(line)
	cmd := &Command{}

	if n := len(tokens); n > 0 && tokens[n-1] == "&" {
		cmd.Background = true
		tokens = tokens[:n-1]
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if len(tok) >= p.maxToken {
			return nil, ErrTooLong
		}
		switch tok[0] {
		case '>', '<':
			path := tok[1:]
			if path == "" {
				if i+1 >= len(tokens) {
					return nil, fmt.Errorf("no whitespace after '%c' operator", tok[0])
				}
				i++
				path = tokens[i]
				if len(path) >= p.maxToken {
					return nil, ErrTooLong
				}
			}
			if tok[0] == '>' {
				cmd.OutFile = path
			} else {
				cmd.InFile = path
			}
		default:
			cmd.Args = append(cmd.Args, tok)
		}
	}

	return cmd, nil
}
