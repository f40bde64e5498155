// Package query provides jq-based projection of JSON documents before
// schema inference.
package query

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// ErrNoResults is returned by Select when the expression produced nothing.
var ErrNoResults = errors.New("jq expression produced no results")

// Engine executes jq queries against JSON values.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// QueryResult contains the results of a jq query.
type QueryResult struct {
	Values   []jsonvalue.Value // Extracted values
	Errors   []string          // Runtime errors (e.g., type mismatch)
	RawCount int               // Count before deduplication
}

// Query executes a jq expression against v. Null outputs are skipped.
// gojq does not keep object member order, so objects built or passed through
// by the expression come back with their keys sorted.
func (e *Engine) Query(v jsonvalue.Value, expression string, deduplicate bool, maxResults int) (*QueryResult, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	input, err := toGoJQ(v)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{
		Values: make([]jsonvalue.Value, 0),
		Errors: make([]string, 0),
	}

	seen := make(map[string]bool)
	iter := code.Run(input)

	for {
		out, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := out.(error); isErr {
			result.Errors = append(result.Errors, formatJQError("query", err))
			continue
		}

		if out == nil {
			continue
		}

		val, err := jsonvalue.FromAny(out)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("query: %v", err))
			continue
		}

		result.RawCount++

		if deduplicate {
			key := val.Compact()
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		result.Values = append(result.Values, val)

		if maxResults > 0 && len(result.Values) >= maxResults {
			break
		}
	}

	return result, nil
}

// Select projects v through expression for inference. A single output is
// returned as-is and several outputs are collected into an array.
func (e *Engine) Select(v jsonvalue.Value, expression string) (jsonvalue.Value, error) {
	res, err := e.Query(v, expression, false, 0)
	if err != nil {
		return jsonvalue.Value{}, err
	}

	switch len(res.Values) {
	case 0:
		if len(res.Errors) > 0 {
			return jsonvalue.Value{}, fmt.Errorf("%w: %s", ErrNoResults, strings.Join(res.Errors, "; "))
		}
		return jsonvalue.Value{}, ErrNoResults
	case 1:
		return res.Values[0], nil
	default:
		return jsonvalue.Array(res.Values...), nil
	}
}

func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// toGoJQ converts v into the value shapes gojq operates on. Integer literals
// become int or *big.Int so they stay integers through the query.
func toGoJQ(v jsonvalue.Value) (any, error) {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return nil, nil
	case jsonvalue.KindBool:
		return v.Bool(), nil
	case jsonvalue.KindString:
		return v.Str(), nil
	case jsonvalue.KindInteger:
		lit := v.Literal()
		if i, err := strconv.Atoi(lit); err == nil {
			return i, nil
		}
		n, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer literal %q", lit)
		}
		return n, nil
	case jsonvalue.KindNumber:
		f, err := strconv.ParseFloat(v.Literal(), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number literal %q: %w", v.Literal(), err)
		}
		return f, nil
	case jsonvalue.KindArray:
		items := v.Items()
		out := make([]any, len(items))
		for i, item := range items {
			conv, err := toGoJQ(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case jsonvalue.KindObject:
		out := make(map[string]any, v.Len())
		for _, m := range v.Members() {
			conv, err := toGoJQ(m.Value)
			if err != nil {
				return nil, err
			}
			out[m.Key] = conv
		}
		return out, nil
	default:
		return nil, errors.New("invalid JSON value")
	}
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime jq errors (like "cannot iterate over: null") are plain errors
// without typed wrappers in gojq, so hints are chosen by string matching.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return fmt.Errorf("invalid jq expression: %w", err)
	}

	if _, err := gojq.Compile(query); err != nil {
		return fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return nil
}
