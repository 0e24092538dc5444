package sim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/natefinch/atomic"
	"go.uber.org/zap/zapcore"
)

// ErrorStats summarizes the distance between sampled and true values.
type ErrorStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`

	sum float64
}

func (s *ErrorStats) Observe(err float64) {
	s.Count++
	s.sum += err
	s.Mean = s.sum / float64(s.Count)
	s.Max = math.Max(s.Max, err)
}

func (s *ErrorStats) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("count", s.Count)
	encoder.AddFloat64("mean", s.Mean)
	encoder.AddFloat64("max", s.Max)
	return nil
}

// Report is the outcome of a simulated session.
type Report struct {
	Seed    int64  `json:"seed"`
	Frames  uint32 `json:"frames"`
	Objects int    `json:"objects"`

	Link         LinkStats `json:"link"`
	Packets      int       `json:"packets"`
	DecodeErrors int       `json:"decode_errors"`
	Applied      int       `json:"applied"`
	Rejected     int       `json:"rejected"`

	Samples int `json:"samples"`
	Misses  int `json:"misses"`

	Position ErrorStats `json:"position"`
	Rotation ErrorStats `json:"rotation"`
	Health   ErrorStats `json:"health"`
}

func (r *Report) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt64("seed", r.Seed)
	encoder.AddUint32("frames", r.Frames)
	encoder.AddInt("objects", r.Objects)
	if err := encoder.AddObject("link", &r.Link); err != nil {
		return err
	}
	encoder.AddInt("packets", r.Packets)
	encoder.AddInt("decode errors", r.DecodeErrors)
	encoder.AddInt("applied", r.Applied)
	encoder.AddInt("rejected", r.Rejected)
	encoder.AddInt("samples", r.Samples)
	encoder.AddInt("misses", r.Misses)
	if err := encoder.AddObject("position", &r.Position); err != nil {
		return err
	}
	if err := encoder.AddObject("rotation", &r.Rotation); err != nil {
		return err
	}
	return encoder.AddObject("health", &r.Health)
}

// Write persists report as JSON. The file is replaced atomically.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by Write.
func ReadReport(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, nil
}
