package gesture

// Pipeline chains the distance filter and the episode segmenter behind a
// single per-sample entry point. It also owns the one coupling between
// the two stages: when the segmenter falls back to idle, the filter
// history is cleared so the next episode starts from fresh readings.
type Pipeline struct {
	Filter    *Filter
	Segmenter *Segmenter
}

// NewPipeline builds both stages from cfg.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		Filter:    NewFilter(cfg),
		Segmenter: NewSegmenter(cfg),
	}
}

// Update processes one raw sample and returns EventEpisodeReady when it
// completes a valid episode.
func (p *Pipeline) Update(s Sample) Event {
	filt := p.Filter.Update(s)
	prev := p.Segmenter.State()
	ev := p.Segmenter.Step(filt, s.TimeMS)
	if prev != StateIdle && p.Segmenter.State() == StateIdle {
		p.Filter.Reset()
	}
	return ev
}

// Episode exposes the segmenter's episode buffer.
func (p *Pipeline) Episode() *Episode { return p.Segmenter.Episode() }

// Reset returns both stages to their initial state.
func (p *Pipeline) Reset() {
	p.Filter.Reset()
	p.Segmenter.Reset()
}
