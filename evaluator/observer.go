package evaluator

import "github.com/risor-io/quill/bound"

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every statement.
	// Use for: detailed tracing, statement-level debugging.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	// Use for: profilers that only need Call/Return events.
	StepNone

	// StepSampled calls OnStep every N statements.
	// Use for: statistical profiling.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of statements between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveCalls enables OnCall callbacks.
	ObserveCalls bool

	// ObserveReturns enables OnReturn callbacks.
	ObserveReturns bool
}

// NewObserverConfig creates a config with safe defaults.
// ObserveCalls and ObserveReturns default to true.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveCalls:   true,
		ObserveReturns: true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer receives evaluation events. It can be used for tracing,
// profiling or coverage without changing the evaluator.
//
// Implementations can embed NoOpObserver and override only the methods
// they need. Methods are called synchronously and should be fast.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when evaluation starts.
	Config() ObserverConfig

	// OnStep is called before a statement runs, according to StepMode.
	// Returns false to halt evaluation immediately.
	OnStep(event StepEvent) bool

	// OnCall is called when a user-defined function is invoked.
	// Returns false to halt evaluation immediately.
	OnCall(event CallEvent) bool

	// OnReturn is called when a user-defined function returns.
	// Returns false to halt evaluation immediately.
	OnReturn(event ReturnEvent) bool
}

// StepEvent describes a statement about to run.
type StepEvent struct {
	// Function is the name of the function being evaluated.
	Function string

	// Index is the position of the statement in the lowered body.
	Index int

	// Statement is the statement about to run.
	Statement bound.Stmt

	// FrameDepth is the current depth of the call stack.
	FrameDepth int
}

// CallEvent describes a function call.
type CallEvent struct {
	// Function is the name of the function being called.
	Function string

	// Args are the evaluated arguments.
	Args []any

	// FrameDepth is the call stack depth after the call.
	FrameDepth int
}

// ReturnEvent describes a function return.
type ReturnEvent struct {
	// Function is the name of the function returning.
	Function string

	// Value is the returned value, or nil for void functions.
	Value any

	// FrameDepth is the call stack depth after returning.
	FrameDepth int
}

// NoOpObserver is an Observer that does nothing. Embed it to provide
// defaults for methods you don't need.
//
// NoOpObserver uses StepAll with ObserveCalls and ObserveReturns enabled.
// Override Config() to use a different mode.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

var _ Observer = NoOpObserver{}
