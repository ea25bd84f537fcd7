// Package evaluator runs lowered programs by walking their bound trees.
//
// Each function body is a flat list of statements executed with a program
// counter. Global variables live in a store owned by the caller so they
// persist across evaluations; locals live in a frame pushed per call.
package evaluator

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/risor-io/quill/bound"
	"github.com/risor-io/quill/errors"
	"github.com/risor-io/quill/symbols"
)

// DefaultContextCheckInterval is the number of statements between checks
// of ctx.Done().
const DefaultContextCheckInterval = 1000

// ErrHalted is returned when an observer stops evaluation.
var ErrHalted = stderrors.New("execution halted by observer")

// Variables is the global variable store. It is owned by the caller and
// reused across evaluations of chained submissions.
type Variables map[*symbols.GlobalVariableSymbol]any

type frame struct {
	function *symbols.FunctionSymbol
	locals   map[symbols.VariableSymbol]any
}

type compiledBody struct {
	statements []bound.Stmt
	labels     map[*bound.Label]int
}

// Evaluator runs one program. It is not safe for concurrent use.
type Evaluator struct {
	program *bound.Program
	globals Variables
	frames  []frame
	bodies  map[*symbols.FunctionSymbol]*compiledBody

	stdout io.Writer
	stdin  io.Reader
	reader *bufio.Reader
	rand   *rand.Rand
	logger zerolog.Logger

	observer             Observer
	observerConfig       ObserverConfig
	contextCheckInterval int
	steps                int
	ctx                  context.Context
}

// New returns an evaluator for program. A nil globals map is replaced by an
// empty one.
func New(program *bound.Program, globals Variables, options ...Option) *Evaluator {
	if globals == nil {
		globals = Variables{}
	}
	e := &Evaluator{
		program:              program,
		globals:              globals,
		bodies:               map[*symbols.FunctionSymbol]*compiledBody{},
		stdout:               os.Stdout,
		stdin:                os.Stdin,
		logger:               zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.rand == nil {
		e.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.reader = bufio.NewReader(e.stdin)
	if e.observer != nil {
		e.observerConfig = NormalizeConfig(e.observer.Config())
	}
	return e
}

// Globals returns the global variable store.
func (e *Evaluator) Globals() Variables {
	return e.globals
}

// Evaluate runs the program's entry point and returns its result. The
// result is nil for programs with a main function and for empty scripts.
// Runtime failures are returned as *errors.RuntimeError.
func (e *Evaluator) Evaluate(ctx context.Context) (any, error) {
	fn := e.program.MainFunction
	if fn == nil {
		fn = e.program.ScriptFunction
	}
	if fn == nil {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.ctx = ctx
	e.frames = e.frames[:0]
	start := time.Now()
	e.frames = append(e.frames, frame{function: fn, locals: map[symbols.VariableSymbol]any{}})
	value, err := e.evaluateFunction(fn)
	e.frames = e.frames[:0]

	event := e.logger.Debug().Str("function", fn.Name()).Dur("elapsed", time.Since(start))
	if err != nil {
		event.Err(err).Msg("evaluation failed")
		return nil, err
	}
	event.Msg("evaluation finished")
	return value, nil
}

func (e *Evaluator) body(fn *symbols.FunctionSymbol) (*compiledBody, error) {
	if b, ok := e.bodies[fn]; ok {
		return b, nil
	}
	block, ok := e.program.Body(fn)
	if !ok {
		return nil, fmt.Errorf("no body for function %q", fn.Name())
	}
	b := &compiledBody{statements: block.Statements, labels: map[*bound.Label]int{}}
	for i, s := range block.Statements {
		if ls, ok := s.(*bound.LabelStatement); ok {
			b.labels[ls.Label] = i + 1
		}
	}
	e.bodies[fn] = b
	return b, nil
}

func (e *Evaluator) checkContext() error {
	if e.ctx == nil || e.contextCheckInterval <= 0 {
		return nil
	}
	if e.steps%e.contextCheckInterval != 0 {
		return nil
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	default:
		return nil
	}
}

func (e *Evaluator) step(fn *symbols.FunctionSymbol, index int, s bound.Stmt) error {
	e.steps++
	if err := e.checkContext(); err != nil {
		return err
	}
	if e.observer == nil {
		return nil
	}
	switch e.observerConfig.StepMode {
	case StepNone:
		return nil
	case StepSampled:
		if e.steps%e.observerConfig.SampleInterval != 0 {
			return nil
		}
	}
	event := StepEvent{Function: fn.Name(), Index: index, Statement: s, FrameDepth: len(e.frames)}
	if !e.observer.OnStep(event) {
		return ErrHalted
	}
	return nil
}

func (e *Evaluator) evaluateFunction(fn *symbols.FunctionSymbol) (any, error) {
	body, err := e.body(fn)
	if err != nil {
		return nil, err
	}

	var last any
	index := 0
	for index < len(body.statements) {
		s := body.statements[index]
		if err := e.step(fn, index, s); err != nil {
			return nil, err
		}
		switch s := s.(type) {
		case *bound.VariableDeclaration:
			value, err := e.evaluate(s.Initializer)
			if err != nil {
				return nil, err
			}
			e.assign(s.Variable, value)
			last = value
			index++
		case *bound.ExpressionStatement:
			value, err := e.evaluate(s.Expression)
			if err != nil {
				return nil, err
			}
			last = value
			index++
		case *bound.LabelStatement:
			index++
		case *bound.GotoStatement:
			index = body.labels[s.Label]
		case *bound.ConditionalGotoStatement:
			value, err := e.evaluate(s.Condition)
			if err != nil {
				return nil, err
			}
			if value.(bool) == s.JumpIfTrue {
				index = body.labels[s.Label]
			} else {
				index++
			}
		case *bound.ReturnStatement:
			if s.Expression == nil {
				return nil, nil
			}
			return e.evaluate(s.Expression)
		default:
			return nil, fmt.Errorf("unexpected statement %s", s.Kind())
		}
	}
	return last, nil
}

func (e *Evaluator) assign(v symbols.VariableSymbol, value any) {
	if g, ok := v.(*symbols.GlobalVariableSymbol); ok {
		e.globals[g] = value
		return
	}
	e.frames[len(e.frames)-1].locals[v] = value
}

func (e *Evaluator) lookup(v symbols.VariableSymbol) any {
	if g, ok := v.(*symbols.GlobalVariableSymbol); ok {
		return e.globals[g]
	}
	return e.frames[len(e.frames)-1].locals[v]
}

func (e *Evaluator) evaluate(expr bound.Expr) (any, error) {
	if c := expr.ConstantValue(); c != nil {
		return c.Value, nil
	}
	switch expr := expr.(type) {
	case *bound.LiteralExpression:
		return expr.Value, nil
	case *bound.VariableExpression:
		return e.lookup(expr.Variable), nil
	case *bound.AssignmentExpression:
		value, err := e.evaluate(expr.Expression)
		if err != nil {
			return nil, err
		}
		e.assign(expr.Variable, value)
		return value, nil
	case *bound.UnaryExpression:
		return e.evaluateUnary(expr)
	case *bound.BinaryExpression:
		return e.evaluateBinary(expr)
	case *bound.CallExpression:
		return e.evaluateCall(expr)
	case *bound.ConversionExpression:
		value, err := e.evaluate(expr.Expression)
		if err != nil {
			return nil, err
		}
		return e.convert(value, expr.Type())
	}
	return nil, fmt.Errorf("unexpected expression %s", expr.Kind())
}

func (e *Evaluator) evaluateUnary(expr *bound.UnaryExpression) (any, error) {
	operand, err := e.evaluate(expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Op.Kind {
	case bound.Identity:
		return operand.(int32), nil
	case bound.Negation:
		return -operand.(int32), nil
	case bound.LogicalNegation:
		return !operand.(bool), nil
	case bound.OnesComplement:
		return ^operand.(int32), nil
	}
	return nil, fmt.Errorf("unexpected unary operator %d", expr.Op.Kind)
}

func (e *Evaluator) evaluateBinary(expr *bound.BinaryExpression) (any, error) {
	left, err := e.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Kind {
	case bound.LogicalAnd:
		if !left.(bool) {
			return false, nil
		}
		return e.evaluate(expr.Right)
	case bound.LogicalOr:
		if left.(bool) {
			return true, nil
		}
		return e.evaluate(expr.Right)
	}

	right, err := e.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Kind {
	case bound.Equals:
		return left == right, nil
	case bound.NotEquals:
		return left != right, nil
	}

	if expr.Op.LeftType == symbols.TypeBool {
		a, b := left.(bool), right.(bool)
		switch expr.Op.Kind {
		case bound.BitwiseAnd:
			return a && b, nil
		case bound.BitwiseOr:
			return a || b, nil
		case bound.BitwiseXor:
			return a != b, nil
		}
	}

	if expr.Op.LeftType == symbols.TypeString && expr.Op.Kind == bound.Addition {
		return left.(string) + right.(string), nil
	}

	a, b := left.(int32), right.(int32)
	switch expr.Op.Kind {
	case bound.Addition:
		return a + b, nil
	case bound.Subtraction:
		return a - b, nil
	case bound.Multiplication:
		return a * b, nil
	case bound.Division:
		if b == 0 {
			return nil, e.runtimeError(errors.NewRuntimeError(errors.E3002, errors.ErrDivisionByZero))
		}
		return a / b, nil
	case bound.BitwiseAnd:
		return a & b, nil
	case bound.BitwiseOr:
		return a | b, nil
	case bound.BitwiseXor:
		return a ^ b, nil
	case bound.Less:
		return a < b, nil
	case bound.LessOrEquals:
		return a <= b, nil
	case bound.Greater:
		return a > b, nil
	case bound.GreaterOrEquals:
		return a >= b, nil
	}
	return nil, fmt.Errorf("unexpected binary operator %d", expr.Op.Kind)
}

func (e *Evaluator) evaluateCall(expr *bound.CallExpression) (any, error) {
	args := make([]any, len(expr.Arguments))
	for i, arg := range expr.Arguments {
		value, err := e.evaluate(arg)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}

	switch expr.Function {
	case symbols.Print:
		_, err := fmt.Fprintln(e.stdout, FormatValue(args[0]))
		return nil, err
	case symbols.Input:
		return e.readLine()
	case symbols.Random:
		limit := args[0].(int32)
		if limit < 0 {
			return nil, e.runtimeError(errors.RuntimeErrorf(errors.E3010,
				"random: max must not be negative (got %d)", limit))
		}
		if limit == 0 {
			return int32(0), nil
		}
		return e.rand.Int31n(limit), nil
	}

	fn := expr.Function
	locals := make(map[symbols.VariableSymbol]any, len(args))
	for i, p := range fn.Parameters() {
		locals[p] = args[i]
	}
	e.frames = append(e.frames, frame{function: fn, locals: locals})
	defer func() { e.frames = e.frames[:len(e.frames)-1] }()

	if e.observer != nil && e.observerConfig.ObserveCalls {
		if !e.observer.OnCall(CallEvent{Function: fn.Name(), Args: args, FrameDepth: len(e.frames)}) {
			return nil, ErrHalted
		}
	}
	value, err := e.evaluateFunction(fn)
	if err != nil {
		return nil, err
	}
	if e.observer != nil && e.observerConfig.ObserveReturns {
		if !e.observer.OnReturn(ReturnEvent{Function: fn.Name(), Value: value, FrameDepth: len(e.frames) - 1}) {
			return nil, ErrHalted
		}
	}
	return value, nil
}

func (e *Evaluator) readLine() (any, error) {
	line, err := e.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// convert performs an explicit conversion whose validity depends on the
// runtime value.
func (e *Evaluator) convert(value any, to *symbols.TypeSymbol) (any, error) {
	switch to {
	case symbols.TypeAny:
		return value, nil
	case symbols.TypeString:
		return FormatValue(value), nil
	case symbols.TypeBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
		}
	case symbols.TypeInt:
		switch v := value.(type) {
		case int32:
			return v, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
			if err == nil {
				return int32(n), nil
			}
		}
	}
	return nil, e.runtimeError(errors.RuntimeErrorf(errors.E3001,
		"cannot convert %s to %s", describe(value), to))
}

func describe(value any) string {
	if t := symbols.TypeOf(value); t != nil {
		return fmt.Sprintf("%s %s", t, bound.FormatValue(value))
	}
	return "nothing"
}

// runtimeError attaches the current call stack, innermost first.
func (e *Evaluator) runtimeError(err *errors.RuntimeError) *errors.RuntimeError {
	for i := len(e.frames) - 1; i >= 0; i-- {
		err.Stack = append(err.Stack, errors.StackFrame{Function: e.frames[i].function.Name()})
	}
	return err
}

// FormatValue renders a value the way print and string conversion do.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case string:
		return v
	}
	return fmt.Sprint(value)
}
