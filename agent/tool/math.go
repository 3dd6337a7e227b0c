package tool

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	contractx "oneprompt/agent/contract"
)

type MathEvaluateOutput struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
}

func executeMathTool(tool string, args map[string]any) contractx.ToolResult {
	expression, ok := stringArg(args, "expression")
	if !ok {
		return contractx.ToolResult{
			Tool:  tool,
			Error: "expression is required and must be a string",
		}
	}

	expression = strings.TrimSpace(expression)
	result, err := EvaluateExpression(expression)
	if err != nil {
		return contractx.ToolResult{
			Tool:  tool,
			Error: err.Error(),
		}
	}

	return contractx.ToolResult{
		Tool: tool,
		Result: MathEvaluateOutput{
			Expression: expression,
			Result:     result,
		},
	}
}

type mathToken struct {
	kind  byte // 'n' number, 'o' operator, '(' or ')'
	value float64
	op    byte
}

// negation is distinguished from binary minus during tokenizing so the
// shunting-yard pass can give it the highest precedence.
const opNegate = '~'

// EvaluateExpression computes an arithmetic expression supporting
// + - * / % ^, parentheses, decimals, and unary minus.
func EvaluateExpression(expression string) (float64, error) {
	tokens, err := tokenizeExpression(expression)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("expression is empty")
	}

	rpn, err := toPostfix(tokens)
	if err != nil {
		return 0, err
	}
	return evalPostfix(rpn)
}

func tokenizeExpression(expression string) ([]mathToken, error) {
	var tokens []mathToken
	i := 0
	for i < len(expression) {
		ch := expression[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			dots := 0
			for i < len(expression) && (expression[i] >= '0' && expression[i] <= '9' || expression[i] == '.') {
				if expression[i] == '.' {
					dots++
				}
				i++
			}
			if dots > 1 {
				return nil, fmt.Errorf("invalid number %q", expression[start:i])
			}
			value, err := strconv.ParseFloat(expression[start:i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", expression[start:i])
			}
			tokens = append(tokens, mathToken{kind: 'n', value: value})
		case ch == '(' || ch == ')':
			tokens = append(tokens, mathToken{kind: ch})
			i++
		case strings.IndexByte("+-*/%^", ch) >= 0:
			op := ch
			if (ch == '-' || ch == '+') && expectsOperand(tokens) {
				if ch == '+' {
					// Unary plus is a no-op.
					i++
					continue
				}
				op = opNegate
			}
			tokens = append(tokens, mathToken{kind: 'o', op: op})
			i++
		default:
			if unicode.IsPrint(rune(ch)) {
				return nil, fmt.Errorf("unexpected character %q at position %d", ch, i)
			}
			return nil, fmt.Errorf("unexpected byte 0x%02x at position %d", ch, i)
		}
	}
	return tokens, nil
}

// expectsOperand reports whether the next token position is an operand slot,
// which makes a following sign unary.
func expectsOperand(tokens []mathToken) bool {
	if len(tokens) == 0 {
		return true
	}
	last := tokens[len(tokens)-1]
	return last.kind == 'o' || last.kind == '('
}

func precedence(op byte) int {
	switch op {
	case opNegate:
		return 4
	case '^':
		return 3
	case '*', '/', '%':
		return 2
	default:
		return 1
	}
}

func rightAssociative(op byte) bool {
	return op == '^' || op == opNegate
}

func toPostfix(tokens []mathToken) ([]mathToken, error) {
	var output []mathToken
	var stack []mathToken

	for _, tok := range tokens {
		switch tok.kind {
		case 'n':
			output = append(output, tok)
		case 'o':
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind != 'o' {
					break
				}
				if precedence(top.op) > precedence(tok.op) ||
					(precedence(top.op) == precedence(tok.op) && !rightAssociative(tok.op)) {
					output = append(output, top)
					stack = stack[:len(stack)-1]
					continue
				}
				break
			}
			stack = append(stack, tok)
		case '(':
			stack = append(stack, tok)
		case ')':
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == '(' {
					matched = true
					break
				}
				output = append(output, top)
			}
			if !matched {
				return nil, fmt.Errorf("expression has unbalanced parentheses")
			}
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == '(' {
			return nil, fmt.Errorf("expression has unbalanced parentheses")
		}
		output = append(output, top)
	}
	return output, nil
}

func evalPostfix(rpn []mathToken) (float64, error) {
	var stack []float64
	pop := func() (float64, bool) {
		if len(stack) == 0 {
			return 0, false
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, true
	}

	for _, tok := range rpn {
		if tok.kind == 'n' {
			stack = append(stack, tok.value)
			continue
		}

		if tok.op == opNegate {
			v, ok := pop()
			if !ok {
				return 0, fmt.Errorf("expression is malformed")
			}
			stack = append(stack, -v)
			continue
		}

		right, okRight := pop()
		left, okLeft := pop()
		if !okRight || !okLeft {
			return 0, fmt.Errorf("expression is malformed")
		}

		switch tok.op {
		case '+':
			stack = append(stack, left+right)
		case '-':
			stack = append(stack, left-right)
		case '*':
			stack = append(stack, left*right)
		case '/':
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			stack = append(stack, left/right)
		case '%':
			if right == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			stack = append(stack, math.Mod(left, right))
		case '^':
			stack = append(stack, math.Pow(left, right))
		}
	}

	if len(stack) != 1 {
		return 0, fmt.Errorf("expression is malformed")
	}
	return stack[0], nil
}
