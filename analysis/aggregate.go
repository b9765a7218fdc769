package analysis

import (
	"errors"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Deathstalkerraged/mongodb-logdump-parse/parser"
)

// ErrNoPatterns is returned when the whole input yielded zero
// recognizable query patterns. It is distinct from an unreadable
// source: upstream read errors are reported per file before this.
var ErrNoPatterns = errors.New("no query patterns found within curly braces")

// fragmentCacheSize bounds the normalization memo. Log exports repeat
// identical lines heavily, so most fragments hit the cache.
const fragmentCacheSize = 8192

// DurationStats accumulates durationMillis across every record folded
// into one pattern.
type DurationStats struct {
	Records int
	TotalMs int64
	MinMs   int64
	MaxMs   int64
}

func (d *DurationStats) observe(ms int64) {
	if d.Records == 0 || ms < d.MinMs {
		d.MinMs = ms
	}
	if ms > d.MaxMs {
		d.MaxMs = ms
	}
	d.Records++
	d.TotalMs += ms
}

// AvgMs returns the mean duration in milliseconds, 0 when no record
// carried a duration.
func (d DurationStats) AvgMs() float64 {
	if d.Records == 0 {
		return 0
	}
	return float64(d.TotalMs) / float64(d.Records)
}

// PatternCount pairs a representative pattern with its aggregate state.
type PatternCount struct {
	// Pattern is the first-seen representative. Later records with the
	// same identity only move the counters, never the representative.
	Pattern *QueryPattern

	// Count is the number of records folded into this identity.
	Count int

	// Duration accumulates durationMillis across all folded records.
	Duration DurationStats

	// ValueCounts tallies, per dotted field path, how many records
	// carried each sampled value. Unlike Pattern.FieldValues it sees
	// every record, which is what the value distribution view needs.
	ValueCounts map[string]map[string]int
}

// GlobalStats counts what a run saw, for the report summary.
type GlobalStats struct {
	Fields    int // raw fields scanned
	Fragments int // balanced-brace candidates found
	Skipped   int // fragments dropped by parse failure or unrecognized shape
	Records   int // fragments normalized into a pattern
}

// Aggregator folds normalized patterns into identity-keyed counts.
// Usage mirrors a streaming analyzer:
//
//	agg := analysis.NewAggregator(analysis.DefaultSampling())
//	for f := range fields {
//	    agg.ProcessField(f.Text)
//	}
//	patterns, err := agg.Finalize()
type Aggregator struct {
	sampling Sampling
	byKey    map[string]*PatternCount
	order    []string // identity keys in first-seen order
	global   GlobalStats
	memo     *lru.Cache[string, *QueryPattern]
}

// NewAggregator creates an aggregator with the given sampling bounds.
func NewAggregator(s Sampling) *Aggregator {
	memo, _ := lru.New[string, *QueryPattern](fragmentCacheSize)
	return &Aggregator{
		sampling: s.withDefaults(),
		byKey:    make(map[string]*PatternCount),
		memo:     memo,
	}
}

// ProcessField scans one raw text field for fragments and folds every
// recognized record into the aggregate. Malformed or unrecognizable
// fragments are skipped silently; they are expected noise.
func (a *Aggregator) ProcessField(text string) {
	a.global.Fields++
	parser.ScanFragments(text, a.processFragment)
}

func (a *Aggregator) processFragment(fragment string) {
	a.global.Fragments++

	p, ok := a.normalize(fragment)
	if !ok {
		a.global.Skipped++
		return
	}

	a.global.Records++
	a.fold(p)
}

// normalize parses a fragment into a pattern, memoizing by fragment
// text. A nil cache entry memoizes a failed parse.
func (a *Aggregator) normalize(fragment string) (*QueryPattern, bool) {
	if p, hit := a.memo.Get(fragment); hit {
		return p, p != nil
	}

	p, ok := ParsePatternSampled(fragment, a.sampling)
	if !ok {
		a.memo.Add(fragment, nil)
		return nil, false
	}
	a.memo.Add(fragment, p)
	return p, true
}

// fold merges one record into the identity map. A fresh identity
// inserts the full pattern; an existing one keeps its first-seen
// representative and only advances the counters.
func (a *Aggregator) fold(p *QueryPattern) {
	key := p.Key()

	entry, ok := a.byKey[key]
	if !ok {
		entry = &PatternCount{
			Pattern:     p,
			ValueCounts: make(map[string]map[string]int),
		}
		a.byKey[key] = entry
		a.order = append(a.order, key)
	}

	entry.Count++
	if p.DurationMs != nil {
		entry.Duration.observe(*p.DurationMs)
	}
	for path, value := range p.FieldValues {
		values := entry.ValueCounts[path]
		if values == nil {
			values = make(map[string]int)
			entry.ValueCounts[path] = values
		}
		values[value]++
	}
}

// Finalize returns every aggregated pattern sorted by descending count;
// ties keep first-seen order. Returns ErrNoPatterns when nothing was
// aggregated.
func (a *Aggregator) Finalize() ([]PatternCount, error) {
	if len(a.order) == 0 {
		return nil, ErrNoPatterns
	}

	out := make([]PatternCount, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.byKey[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	return out, nil
}

// Global returns the run counters accumulated so far.
func (a *Aggregator) Global() GlobalStats {
	return a.global
}

// Config bundles the tunables of a full analysis run.
type Config struct {
	Sampling   Sampling
	Thresholds Thresholds

	// MinDurationMs drops patterns whose slowest observed duration is
	// below the cutoff (0 keeps everything, including patterns with no
	// duration at all).
	MinDurationMs int64
}

// Result bundles the read-only views handed to the renderers.
type Result struct {
	Patterns      []PatternCount
	Collections   CollectionStats
	Distributions FieldDistributions
	Global        GlobalStats
}

// Aggregate consumes the filtered field stream to completion and
// computes every derived view.
func Aggregate(in <-chan parser.RawField, cfg Config) (*Result, error) {
	agg := NewAggregator(cfg.Sampling)
	for f := range in {
		agg.ProcessField(f.Text)
	}

	patterns, err := agg.Finalize()
	if err != nil {
		return nil, err
	}

	if cfg.MinDurationMs > 0 {
		patterns = filterMinDuration(patterns, cfg.MinDurationMs)
	}

	t := cfg.Thresholds.withDefaults()
	return &Result{
		Patterns:      patterns,
		Collections:   AnalyzeCollections(patterns),
		Distributions: AnalyzeDistributions(patterns, t),
		Global:        agg.Global(),
	}, nil
}

func filterMinDuration(patterns []PatternCount, minMs int64) []PatternCount {
	kept := patterns[:0]
	for _, pc := range patterns {
		if pc.Duration.Records > 0 && pc.Duration.MaxMs < minMs {
			continue
		}
		kept = append(kept, pc)
	}
	return kept
}
