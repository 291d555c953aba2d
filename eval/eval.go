// Package eval implements a safe arithmetic expression evaluator used by the
// calculator tool. Input is validated against a strict character whitelist and
// a denylist of dangerous tokens before any evaluation happens; evaluation
// itself is a restricted parser that resolves only numeric literals, the
// constants pi and e, and the operators + - * / ( ).
package eval

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/finmesh/logging"
)

// Status values for evaluation results.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Sentinel errors surfaced by Evaluate.
var (
	// ErrDisallowedChar is returned when the expression contains a character
	// outside the whitelist. No evaluation is attempted.
	ErrDisallowedChar = errors.New("disallowed character in expression")
	// ErrDeniedToken is returned when the expression contains a denylisted
	// token. The whitelist already excludes letters; this is defense in depth
	// should the whitelist ever be relaxed.
	ErrDeniedToken = errors.New("dangerous token in expression")
	// ErrDivideByZero is returned when a denominator evaluates to zero.
	ErrDivideByZero = errors.New("cannot divide by zero")
	// ErrInvalidResult is returned when the result is NaN or infinite.
	ErrInvalidResult = errors.New("invalid result")
)

// whitelist matches the entire expression: digits, arithmetic operators,
// parentheses, decimal points and whitespace only.
var whitelist = regexp.MustCompile(`^[0-9+\-*/().\s]+$`)

// denylist tokens rejected case-insensitively even if the whitelist passes.
var denylist = []string{"import", "exec", "eval", "__", "open", "file"}

// Result is the uniform outcome shape of an evaluation.
type Result struct {
	Status     string  `json:"status"`
	Result     float64 `json:"result,omitempty"`
	Expression string  `json:"expression"`
	Error      string  `json:"error,omitempty"`
	RetryHint  string  `json:"retry_hint,omitempty"`
}

// Evaluator validates and evaluates restricted arithmetic expressions.
type Evaluator struct {
	logger logging.Logger
}

// New creates an Evaluator. A nil logger disables logging.
func New(logger logging.Logger) *Evaluator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Evaluator{logger: logger}
}

// Evaluate validates the expression and computes its arithmetic value.
// Validation failures never reach the parser.
func (e *Evaluator) Evaluate(expression string) Result {
	start := time.Now()

	if !whitelist.MatchString(expression) {
		e.logger.Warn("expression rejected", "expression", expression, "error", ErrDisallowedChar.Error())
		return Result{
			Status:     StatusError,
			Expression: expression,
			Error:      ErrDisallowedChar.Error(),
			RetryHint:  "use only numbers and basic operators (+, -, *, /, parentheses)",
		}
	}

	lowered := strings.ToLower(expression)
	for _, token := range denylist {
		if strings.Contains(lowered, token) {
			e.logger.Warn("expression rejected", "expression", expression, "error", ErrDeniedToken.Error())
			return Result{
				Status:     StatusError,
				Expression: expression,
				Error:      ErrDeniedToken.Error(),
				RetryHint:  "use only basic arithmetic",
			}
		}
	}

	value, err := parse(expression)
	latency := time.Since(start)
	if err != nil {
		e.logger.Error("evaluation failed", "expression", expression, "error", err.Error(), "latency", latency)
		hint := "check the expression and try again"
		if errors.Is(err, ErrDivideByZero) {
			hint = "correct the expression so the denominator is not zero"
		}
		return Result{
			Status:     StatusError,
			Expression: expression,
			Error:      err.Error(),
			RetryHint:  hint,
		}
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		e.logger.Error("evaluation failed", "expression", expression, "error", ErrInvalidResult.Error(), "latency", latency)
		return Result{
			Status:     StatusError,
			Expression: expression,
			Error:      ErrInvalidResult.Error(),
			RetryHint:  "check the expression and try again",
		}
	}

	e.logger.Info("evaluation succeeded", "expression", expression, "result", value, "latency", latency)
	return Result{Status: StatusSuccess, Result: value, Expression: expression}
}

// parse evaluates the expression with a recursive descent parser.
//
// Grammar:
//
//	expr   = term   { ("+" | "-") term }
//	term   = unary  { ("*" | "/") unary }
//	unary  = { "+" | "-" } primary
//	primary = number | constant | "(" expr ")"
func parse(expression string) (float64, error) {
	p := &parser{input: expression}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return v, nil
}

// constants resolvable by the parser. Unreachable through the current
// whitelist (it excludes letters); kept so a relaxed whitelist cannot expose
// anything beyond these names.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	// Everything \s admits in the whitelist, form feed included.
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r', '\f':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '+' && c != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if c == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		c, ok := p.peek()
		if !ok || (c != '*' && c != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if c == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, ErrDivideByZero
			}
			left /= right
		}
	}
}

func (p *parser) unary() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, errors.New("unexpected end of expression")
	}
	switch c {
	case '+':
		p.pos++
		return p.unary()
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, errors.New("unexpected end of expression")
	}
	if c == '(' {
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		c, ok = p.peek()
		if !ok || c != ')' {
			return 0, errors.New("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}
	if c >= '0' && c <= '9' || c == '.' {
		return p.number()
	}
	if isAlpha(c) {
		return p.constant()
	}
	return 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
}

func (p *parser) number() (float64, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '.' {
			if seenDot {
				return 0, fmt.Errorf("malformed number at position %d", start)
			}
			seenDot = true
			p.pos++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	text := p.input[start:p.pos]
	if text == "." {
		return 0, fmt.Errorf("malformed number at position %d", start)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q", text)
	}
	return v, nil
}

func (p *parser) constant() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && isAlpha(p.input[p.pos]) {
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])
	v, ok := constants[name]
	if !ok {
		return 0, fmt.Errorf("unknown identifier %q", name)
	}
	return v, nil
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
