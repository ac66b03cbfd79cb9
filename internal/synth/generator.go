package synth

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/okian/gestus/internal/adapters/perception"
	"github.com/okian/gestus/internal/domain/model"
	"github.com/okian/gestus/pkg/logger"
)

// Generator produces deterministic synthetic perception frames for a scenario.
type Generator struct {
	rng      *rand.Rand
	scenario string
	width    int
	height   int
}

// NewGenerator validates cfg and returns a generator seeded from it.
func NewGenerator(cfg *Config) (*Generator, error) {
	if !slices.Contains(Scenarios, cfg.Scenario) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, cfg.Scenario)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: frame size %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	}
	return &Generator{
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)), //nolint:gosec // reproducible jitter, not security sensitive
		scenario: cfg.Scenario,
		width:    cfg.Width,
		height:   cfg.Height,
	}, nil
}

// ScenarioAt returns the scenario in effect for the 0-based frame i.
func (g *Generator) ScenarioAt(i int) string {
	if g.scenario != ScenarioMixed {
		return g.scenario
	}
	return mixedCycle[(i/mixedBlockFrames)%len(mixedCycle)]
}

// Frame builds the 0-based frame i.
func (g *Generator) Frame(i int) model.Frame {
	scenario := g.ScenarioAt(i)

	var bob float64
	if scenario == ScenarioDance {
		bob = danceAmplitude * math.Sin(2*math.Pi*float64(i)/dancePeriod)
	}

	pose := g.standingPose(bob)
	switch scenario {
	case ScenarioWave:
		pose[model.LeftWrist] = g.point(0.38, raisedWristY)
	case ScenarioHandshake:
		pose[model.LeftWrist] = g.point(0.5, handshakeY)
		pose[model.RightWrist] = g.point(0.5+handshakeGap, handshakeY)
	}

	return model.Frame{
		Width:  g.width,
		Height: g.height,
		Pose:   pose,
		Faces:  model.FaceResult{Faces: []model.FaceObservation{g.face(scenario == ScenarioAnomaly)}},
	}
}

// standingPose is a front-facing person with hands at rest, shifted
// vertically by bob.
func (g *Generator) standingPose(bob float64) model.Landmarks {
	return model.Landmarks{
		model.Nose:          g.point(0.5, eyeY+0.04+bob),
		model.LeftEye:       g.point(0.46, eyeY+bob),
		model.RightEye:      g.point(0.54, eyeY+bob),
		model.LeftShoulder:  g.point(0.4, shoulderY+bob),
		model.RightShoulder: g.point(0.6, shoulderY+bob),
		model.LeftElbow:     g.point(0.36, (shoulderY+restWristY)/2+bob),
		model.RightElbow:    g.point(0.64, (shoulderY+restWristY)/2+bob),
		model.LeftWrist:     g.point(0.35, restWristY+bob),
		model.RightWrist:    g.point(0.65, restWristY+bob),
		model.LeftHip:       g.point(0.44, hipY+bob),
		model.RightHip:      g.point(0.56, hipY+bob),
		model.LeftKnee:      g.point(0.44, kneeY),
		model.RightKnee:     g.point(0.56, kneeY),
		model.LeftAnkle:     g.point(0.44, ankleY),
		model.RightAnkle:    g.point(0.56, ankleY),
	}
}

func (g *Generator) point(x, y float64) model.Point {
	return model.Point{X: x + g.noise(), Y: y + g.noise()}
}

func (g *Generator) noise() float64 {
	return (g.rng.Float64()*2 - 1) * jitter
}

// face returns one upper-body sized face, calm or distressed.
func (g *Generator) face(distressed bool) model.FaceObservation {
	w := int(float64(g.width) * faceWidthRatio)
	h := int(float64(g.height) * faceHeightRatio)
	region := model.Region{X: (g.width - w) / 2, Y: g.height / 10, W: w, H: h}

	if distressed {
		fear := distressedBase + g.rng.Float64()*distressedRange
		return model.FaceObservation{
			Region:   region,
			Dominant: "fear",
			Emotions: map[string]float64{
				"fear":     fear,
				"surprise": g.rng.Float64() * 10,
				"neutral":  100 - fear,
			},
		}
	}

	happy := calmBase + g.rng.Float64()*calmRange
	return model.FaceObservation{
		Region:   region,
		Dominant: "happy",
		Emotions: map[string]float64{
			"happy":    happy,
			"fear":     g.rng.Float64() * 5,
			"surprise": g.rng.Float64() * 5,
			"neutral":  100 - happy,
		},
	}
}

// Generate writes cfg.Frames frames to w and records per-scenario counts.
func (g *Generator) Generate(ctx context.Context, w *perception.Writer, frames int, stats *Stats) error {
	if stats.ScenarioFrames == nil {
		stats.ScenarioFrames = make(map[string]int)
	}
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation cancelled at frame %d: %w", i, err)
		}
		if err := w.Write(g.Frame(i)); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", i, err)
		}
		stats.ScenarioFrames[g.ScenarioAt(i)]++
		stats.FramesGenerated++
	}
	logger.Get().Debug(ctx, "frames generated", logger.Int("count", stats.FramesGenerated))
	return nil
}
