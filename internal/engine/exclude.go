package engine

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shaiso/Concierge/internal/domain"
	"github.com/shaiso/Concierge/internal/telemetry"
)

// Engine — движок исключения шагов.
type Engine struct {
	steps    *StepRegistry
	flows    *FlowRegistry
	recorder telemetry.Recorder
	logger   *slog.Logger
}

// Config — конфигурация Engine.
type Config struct {
	// Steps — реестр шагов (default: DefaultSteps()).
	Steps *StepRegistry

	// Flows — реестр flows (default: DefaultFlows()).
	Flows *FlowRegistry

	// Recorder — приёмник tracks-событий (default: LogRecorder).
	Recorder telemetry.Recorder

	// Logger
	Logger *slog.Logger
}

// New создаёт Engine.
func New(cfg Config) *Engine {
	steps := cfg.Steps
	if steps == nil {
		steps = DefaultSteps()
	}
	flows := cfg.Flows
	if flows == nil {
		flows = DefaultFlows()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = &telemetry.LogRecorder{Logger: logger}
	}
	return &Engine{
		steps:    steps,
		flows:    flows,
		recorder: recorder,
		logger:   logger,
	}
}

// Steps возвращает реестр шагов.
func (e *Engine) Steps() *StepRegistry { return e.steps }

// Flows возвращает реестр flows.
func (e *Engine) Flows() *FlowRegistry { return e.flows }

// ShouldExcludeStep решает, можно ли исключить шаг.
//
// Пустое множество fulfilled никогда не исключает: защита от пропуска
// шага на первом рендере, когда контекст ещё не собран. Иначе шаг
// исключаем, когда каждое обязательное значение
// (providesDependencies минус optionalDependencies) уже входит
// в fulfilled.
func (e *Engine) ShouldExcludeStep(stepName string, fulfilled []string) bool {
	if len(fulfilled) == 0 {
		return false
	}

	step, err := e.steps.Get(stepName)
	if err != nil {
		e.logger.Warn("exclusion check for unregistered step", "step", stepName)
		return false
	}

	for _, provided := range step.ProvidesDependencies {
		if slices.Contains(step.OptionalDependencies, provided) {
			continue
		}
		if !slices.Contains(fulfilled, provided) {
			return false
		}
	}
	return true
}

// submitAndMaybeExclude — общая последовательность fulfillment-проверки:
// отправить шаг с синтезированными зависимостями, записать
// tracks-событие исключения и исключить шаг, если контракт позволяет.
func (e *Engine) submitAndMaybeExclude(
	ctx context.Context, sess *domain.SignupSession, stepName string,
	wasSkipped bool, deps map[string]any, trackValue any,
	fulfilled []string,
) bool {
	sess.SubmitStep(stepName, wasSkipped, deps)
	e.recorder.Record(ctx, telemetry.ExcludeStepEvent(stepName, trackValue))

	if !e.ShouldExcludeStep(stepName, fulfilled) {
		return false
	}
	sess.ExcludeStep(stepName)
	e.logger.Debug("step excluded", "step", stepName, "flow", sess.FlowName)
	return true
}
