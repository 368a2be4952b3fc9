// Package calculator provides the locally-executed "calculate" tool.
//
// Expressions are restricted to digits, decimal points, parentheses, spaces
// and the operators + - * / (with ** for exponentiation). [Sanitize] rejects
// anything else before evaluation, and [Evaluate] computes the value with a
// small recursive-descent parser; no dynamic code evaluation is involved.
//
// The main entry point is [NewCalculatorTool]. [Calculate] is exported for
// direct invocation without the tool wrapper.
package calculator
