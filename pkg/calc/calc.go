// Package calc evaluates the constrained arithmetic expressions accepted
// by the amount prompt.
//
// The grammar is deliberately small: decimal numbers (either "." or ","
// as the decimal separator) combined with + - * /. Evaluation is strictly
// left to right with no operator precedence and no parentheses, so
// "10+10*2" is 40, not 30. Expressions here are short sums of receipts
// typed at a prompt; upgrading to conventional precedence would change
// the result of inputs that are already accepted.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnexpectedShape reports an expression that scanned cleanly but left
// an unconsumed operator or operand behind, e.g. "10+".
var ErrUnexpectedShape = errors.New("unexpected expression shape")

type operator byte

const (
	opNone operator = 0
	opAdd  operator = '+'
	opSub  operator = '-'
	opMul  operator = '*'
	opDiv  operator = '/'
)

func operatorFor(r rune) operator {
	switch r {
	case '+', '-', '*', '/':
		return operator(r)
	}
	return opNone
}

func (op operator) apply(lhs, rhs float64) float64 {
	switch op {
	case opAdd:
		return lhs + rhs
	case opSub:
		return lhs - rhs
	case opMul:
		return lhs * rhs
	case opDiv:
		// Division by zero follows float64 semantics (±Inf/NaN).
		return lhs / rhs
	}
	return 0
}

// Eval parses and evaluates expr, folding operands left to right as soon
// as an operator has both sides available. Characters outside the grammar
// end the current number token and are otherwise dropped. Returns a
// wrapped strconv error for malformed numbers and ErrUnexpectedShape for
// a dangling operator or operand imbalance.
func Eval(expr string) (float64, error) {
	var (
		op    = opNone
		stack []float64
		start = -1
	)

	push := func(end int) error {
		if start < 0 {
			return nil
		}
		tok := strings.ReplaceAll(expr[start:end], ",", ".")
		start = -1
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return fmt.Errorf("parsing number %q: %w", tok, err)
		}
		stack = append(stack, v)
		if op != opNone && len(stack) == 2 {
			stack = []float64{op.apply(stack[0], stack[1])}
			op = opNone
		}
		return nil
	}

	for i, r := range expr {
		switch {
		case r >= '0' && r <= '9':
			if start < 0 {
				start = i
			}
		case r == '.' || r == ',':
			// Part of the current number token, if any. A leading
			// separator with no digits before it is dropped.
		default:
			if err := push(i); err != nil {
				return 0, err
			}
			if next := operatorFor(r); next != opNone {
				op = next
			}
		}
	}
	if err := push(len(expr)); err != nil {
		return 0, err
	}

	if op == opNone && len(stack) == 1 {
		return stack[0], nil
	}
	return 0, ErrUnexpectedShape
}
