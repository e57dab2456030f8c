package files

import (
	"io"
	"time"
)

const (
	// progressInterval throttles callback delivery
	progressInterval = 100 * time.Millisecond
	// rateWindow bounds the sliding window used for the rate estimate
	rateWindow = 3 * time.Second
)

// rateSample is a point in time used for the sliding-window rate.
type rateSample struct {
	at     time.Time
	loaded int64
}

// progressReader wraps an io.Reader and recomputes a Progress snapshot
// on every read. Snapshots are delivered through the callback at most
// once per progressInterval, plus a final snapshot when the reader is
// exhausted. The latest snapshot always wins; no history is kept.
type progressReader struct {
	reader   io.Reader
	total    int64
	loaded   int64
	callback ProgressFunc

	started  time.Time
	lastSent time.Time
	samples  []rateSample
}

// newProgressReader wraps r so that callback observes transfer
// progress. A nil callback returns r unchanged.
func newProgressReader(r io.Reader, total int64, callback ProgressFunc) io.Reader {
	if callback == nil {
		return r
	}
	return &progressReader{
		reader:   r,
		total:    total,
		callback: callback,
		started:  time.Now(),
	}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		p.report(false)
	}
	if err == io.EOF {
		p.report(true)
	}
	return n, err
}

func (p *progressReader) report(final bool) {
	now := time.Now()
	if !final && now.Sub(p.lastSent) < progressInterval && p.loaded < p.total {
		return
	}
	p.lastSent = now

	p.samples = append(p.samples, rateSample{at: now, loaded: p.loaded})
	cutoff := now.Add(-rateWindow)
	valid := p.samples[:0]
	for _, s := range p.samples {
		if s.at.After(cutoff) {
			valid = append(valid, s)
		}
	}
	p.samples = valid

	p.callback(p.snapshot(now))
}

func (p *progressReader) snapshot(now time.Time) Progress {
	progress := Progress{
		Loaded: p.loaded,
		Total:  p.total,
	}

	if p.total > 0 {
		progress.Percentage = float64(p.loaded) / float64(p.total) * 100
		if progress.Percentage > 100 {
			progress.Percentage = 100
		}
	}

	// Windowed rate; falls back to the overall average when the
	// window holds a single sample.
	if len(p.samples) >= 2 {
		oldest := p.samples[0]
		newest := p.samples[len(p.samples)-1]
		elapsed := newest.at.Sub(oldest.at).Seconds()
		if elapsed > 0 {
			progress.Rate = int64(float64(newest.loaded-oldest.loaded) / elapsed)
		}
	}
	if progress.Rate == 0 {
		elapsed := now.Sub(p.started).Seconds()
		if elapsed > 0 {
			progress.Rate = int64(float64(p.loaded) / elapsed)
		}
	}

	if progress.Rate > 0 && p.total > p.loaded {
		remaining := float64(p.total-p.loaded) / float64(progress.Rate)
		progress.TimeRemaining = time.Duration(remaining * float64(time.Second))
	}

	return progress
}
