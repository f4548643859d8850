package alphabet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownSymbol is matched by every *UnknownSymbolError.
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrEmpty         = errors.New("alphabet: no symbols")
	ErrDuplicate     = errors.New("alphabet: duplicate symbol")
)

// UnknownSymbolError reports a symbol that is not part of the configured alphabet.
type UnknownSymbolError struct {
	Symbol rune
	// Offset is the position in the input where the symbol was seen,
	// or -1 when the symbol did not come from an input string.
	Offset int
}

func (e *UnknownSymbolError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("unknown symbol %s at offset %d", strconv.QuoteRune(e.Symbol), e.Offset)
	}
	return fmt.Sprintf("unknown symbol %s", strconv.QuoteRune(e.Symbol))
}

func (e *UnknownSymbolError) Is(target error) bool { return target == ErrUnknownSymbol }

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Alphabet is the ordered, finite set of symbols an automaton transitions on.
// The order is the order in which the determinizer explores symbols.
type Alphabet struct {
	symbols []rune
	index   map[rune]int
}

// New builds an alphabet from symbols, keeping their order.
func New(symbols []rune) (*Alphabet, error) {
	if len(symbols) == 0 {
		return nil, ErrEmpty
	}
	a := &Alphabet{
		symbols: make([]rune, 0, len(symbols)),
		index:   make(map[rune]int, len(symbols)),
	}
	for _, r := range symbols {
		if _, ok := a.index[r]; ok {
			return nil, fmt.Errorf("%w %s", ErrDuplicate, strconv.QuoteRune(r))
		}
		a.index[r] = len(a.symbols)
		a.symbols = append(a.symbols, r)
	}
	return a, nil
}

// FromString is New over the runes of s.
func FromString(s string) (*Alphabet, error) { return New([]rune(s)) }

// Alphanumeric returns the default 62 symbol alphabet: a-z, A-Z, 0-9.
func Alphanumeric() *Alphabet {
	a, err := FromString(alphanumeric)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Alphabet) Len() int { return len(a.symbols) }

// Symbols returns a copy of the symbols in alphabet order.
func (a *Alphabet) Symbols() []rune {
	out := make([]rune, len(a.symbols))
	copy(out, a.symbols)
	return out
}

func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Index returns the position of r, or an *UnknownSymbolError.
func (a *Alphabet) Index(r rune) (int, error) {
	i, ok := a.index[r]
	if !ok {
		return -1, &UnknownSymbolError{Symbol: r, Offset: -1}
	}
	return i, nil
}

func (a *Alphabet) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, r := range a.symbols {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.QuoteRune(r))
	}
	sb.WriteByte('}')
	return sb.String()
}
