package world

type WorldMetrics struct {
	Tick uint64 `json:"tick"`

	Robots    int `json:"robots"`
	Obstacles int `json:"obstacles"`
	Targeted  int `json:"targeted"`
	Idle      int `json:"idle"`

	StepMS float64 `json:"step_ms"`

	// Running totals since start.
	AssignedTotal      uint64 `json:"assigned_total"`
	ReleasedTotal      uint64 `json:"released_total"`
	NoAvailableTotal   uint64 `json:"no_available_total"`
	MissingTargetTotal uint64 `json:"missing_target_total"`
	ZeroLengthTotal    uint64 `json:"zero_length_total"`
	NonFiniteTotal     uint64 `json:"non_finite_total"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	m, _ := w.metrics.Load().(WorldMetrics)
	return m
}

func (w *World) publish(nextTick uint64, stepMS float64) {
	targeted := 0
	for _, r := range w.robots {
		if r.HasTarget() {
			targeted++
		}
	}
	w.metrics.Store(WorldMetrics{
		Tick:               nextTick,
		Robots:             len(w.robots),
		Obstacles:          w.registry.Len(),
		Targeted:           targeted,
		Idle:               len(w.robots) - targeted,
		StepMS:             stepMS,
		AssignedTotal:      w.totals.assigned,
		ReleasedTotal:      w.totals.released,
		NoAvailableTotal:   w.totals.noAvailable,
		MissingTargetTotal: w.totals.missingTarget,
		ZeroLengthTotal:    w.totals.zeroLength,
		NonFiniteTotal:     w.totals.nonFinite,
	})
	w.view.Store(w.buildView(nextTick))
}
