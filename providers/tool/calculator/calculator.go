package calculator

import (
	"context"
	"fmt"

	"github.com/leofalp/weathercalc/providers/tool"
)

// ToolName is the name the calculator is advertised under.
const ToolName = "calculate"

// NewCalculatorTool returns the "calculate" tool backed by [Calculate].
func NewCalculatorTool() *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		ToolName,
		Calculate,
		tool.WithDescription("Perform basic arithmetic calculations"),
		tool.WithErrorPrefix(tool.DefaultErrorPrefix),
	)
}

// Calculate evaluates req.Expression. Division by zero is not an error: the
// result is +Inf, -Inf or NaN.
//
//	out, err := Calculate(ctx, calculator.Input{Expression: "(3+4)*2"})
//	fmt.Println(out.Text()) // Result: (3+4)*2 = 14
func Calculate(ctx context.Context, req Input) (Output, error) {
	value, err := Evaluate(req.Expression)
	if err != nil {
		return Output{}, err
	}
	return Output{Expression: req.Expression, Value: value}, nil
}

// Input holds the expression to evaluate.
type Input struct {
	Expression string `json:"expression" jsonschema:"description=Mathematical expression to evaluate (e.g., \"2 + 2\", \"10 * 5\"),required"`
}

// Output is the evaluated expression together with its value.
type Output struct {
	Expression string
	Value      float64
}

// Text renders the result as "Result: {expression} = {value}".
func (o Output) Text() string {
	return fmt.Sprintf("Result: %s = %s", o.Expression, FormatNumber(o.Value))
}
