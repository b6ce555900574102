// Package pipeline provides the buffered token-stream contract shared by
// the lexer's output and the parser's input.
package pipeline

import "github.com/piecake/pie/internal/token"

// TokenStream is a buffered view over a token sequence.
type TokenStream interface {
	// Next consumes and returns the next token from the stream.
	Next() token.Token
	// Peek returns the next n tokens without consuming them. If fewer than
	// n remain, it returns what is left (padded with END at the tail).
	Peek(n int) []token.Token
}

// SliceStream is a TokenStream over an already-tokenized slice, which is
// how this implementation always obtains its tokens: the lexer tokenizes
// eagerly (spec.md §2: "a flat sequence of (kind, text) records").
type SliceStream struct {
	toks []token.Token
	pos  int
}

// NewSliceStream wraps toks (which must end in an END token).
func NewSliceStream(toks []token.Token) *SliceStream {
	return &SliceStream{toks: toks}
}

func (s *SliceStream) Next() token.Token {
	if s.pos >= len(s.toks) {
		return token.Token{Kind: token.END}
	}
	t := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t
}

func (s *SliceStream) Peek(n int) []token.Token {
	out := make([]token.Token, 0, n)
	for i := 0; i < n; i++ {
		idx := s.pos + i
		if idx >= len(s.toks) {
			out = append(out, token.Token{Kind: token.END})
			continue
		}
		out = append(out, s.toks[idx])
	}
	return out
}
