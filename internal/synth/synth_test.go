package synth_test

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gestus/internal/domain/gesture"
	"github.com/okian/gestus/internal/domain/model"
	"github.com/okian/gestus/internal/domain/report"
	"github.com/okian/gestus/internal/synth"
	"github.com/okian/gestus/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newConfig(scenario string, frames int) *synth.Config {
	return &synth.Config{
		Frames:   frames,
		Scenario: scenario,
		Seed:     synth.DefaultSeed,
		Width:    synth.DefaultWidth,
		Height:   synth.DefaultHeight,
	}
}

func TestGenerator(t *testing.T) {
	Convey("Given generators for each scenario", t, func() {
		classifier := gesture.New()

		Convey("When the same seed is used twice", func() {
			a, err := synth.NewGenerator(newConfig(synth.ScenarioMixed, 1))
			So(err, ShouldBeNil)
			b, err := synth.NewGenerator(newConfig(synth.ScenarioMixed, 1))
			So(err, ShouldBeNil)

			Convey("Then the frames are identical", func() {
				for i := 0; i < 5; i++ {
					So(a.Frame(i), ShouldResemble, b.Frame(i))
				}
			})
		})

		Convey("When a wave frame is built", func() {
			g, err := synth.NewGenerator(newConfig(synth.ScenarioWave, 1))
			So(err, ShouldBeNil)
			f := g.Frame(0)

			Convey("Then a hand is raised and the face is upper-body sized", func() {
				So(classifier.HandRaised(f.Pose), ShouldBeTrue)
				So(classifier.HandsTogether(f.Pose), ShouldBeFalse)
				So(f.Faces.Faces, ShouldHaveLength, 1)
				So(float64(f.Faces.Faces[0].Region.H)/float64(f.Height), ShouldBeLessThan, 0.6)
			})
		})

		Convey("When a handshake frame is built", func() {
			g, err := synth.NewGenerator(newConfig(synth.ScenarioHandshake, 1))
			So(err, ShouldBeNil)
			f := g.Frame(0)

			Convey("Then the wrists are together", func() {
				So(classifier.HandsTogether(f.Pose), ShouldBeTrue)
				So(classifier.HandRaised(f.Pose), ShouldBeFalse)
			})
		})

		Convey("When dance frames are built", func() {
			g, err := synth.NewGenerator(newConfig(synth.ScenarioDance, 1))
			So(err, ShouldBeNil)
			var window []model.PoseSnapshot
			for i := 0; i < 10; i++ {
				snap, ok := g.Frame(i).Pose.Snapshot()
				So(ok, ShouldBeTrue)
				window = append(window, snap)
			}

			Convey("Then ten snapshots already show sustained motion", func() {
				So(classifier.SustainedDanceMotion(window), ShouldBeTrue)
			})
		})

		Convey("When the idle pose is held", func() {
			g, err := synth.NewGenerator(newConfig(synth.ScenarioIdle, 1))
			So(err, ShouldBeNil)
			var window []model.PoseSnapshot
			for i := 0; i < 30; i++ {
				snap, _ := g.Frame(i).Pose.Snapshot()
				window = append(window, snap)
			}

			Convey("Then no gesture is recognized", func() {
				So(classifier.SustainedDanceMotion(window), ShouldBeFalse)
				So(classifier.HandRaised(g.Frame(0).Pose), ShouldBeFalse)
			})
		})

		Convey("When the mixed scenario is used", func() {
			g, err := synth.NewGenerator(newConfig(synth.ScenarioMixed, 1))
			So(err, ShouldBeNil)

			Convey("Then blocks of 60 frames cycle through the scenarios", func() {
				So(g.ScenarioAt(0), ShouldEqual, synth.ScenarioIdle)
				So(g.ScenarioAt(60), ShouldEqual, synth.ScenarioWave)
				So(g.ScenarioAt(180), ShouldEqual, synth.ScenarioDance)
				So(g.ScenarioAt(300), ShouldEqual, synth.ScenarioAnomaly)
				So(g.ScenarioAt(360), ShouldEqual, synth.ScenarioIdle)
			})
		})

		Convey("When the config is invalid", func() {
			_, errScenario := synth.NewGenerator(newConfig("cartwheel", 1))
			bad := newConfig(synth.ScenarioIdle, 1)
			bad.Height = 0
			_, errSize := synth.NewGenerator(bad)

			Convey("Then the sentinel errors are returned", func() {
				So(errors.Is(errScenario, synth.ErrUnknownScenario), ShouldBeTrue)
				So(errors.Is(errSize, synth.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given an output directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		for _, scenario := range synth.Scenarios {
			Convey("When the "+scenario+" scenario is generated and verified", func() {
				frames := 120
				if scenario == synth.ScenarioMixed {
					frames = 360
				}
				cfg := newConfig(scenario, frames)
				cfg.OutputFile = filepath.Join(dir, "nested", scenario+".jsonl")
				cfg.Verify = true

				stats, err := synth.Run(ctx, cfg)

				Convey("Then the analyzer agrees with the generator", func() {
					So(err, ShouldBeNil)
					So(stats.FramesGenerated, ShouldEqual, frames)

					f, err := os.Open(cfg.OutputFile)
					So(err, ShouldBeNil)
					defer f.Close()
					lines := 0
					sc := bufio.NewScanner(f)
					sc.Buffer(make([]byte, 64*1024), 1024*1024)
					for sc.Scan() {
						lines++
					}
					So(lines, ShouldEqual, frames)
				})
			})
		}

		Convey("When no frames are requested", func() {
			_, err := synth.Run(ctx, newConfig(synth.ScenarioIdle, 0))

			Convey("Then the config is rejected", func() {
				So(errors.Is(err, synth.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			cfg := newConfig(synth.ScenarioIdle, 10)
			cfg.OutputFile = filepath.Join(dir, "cancelled.jsonl")
			_, err := synth.Run(cctx, cfg)

			Convey("Then generation stops", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given generation stats for a wave-only stream", t, func() {
		stats := &synth.Stats{
			FramesGenerated: 40,
			ScenarioFrames:  map[string]int{synth.ScenarioWave: 40},
		}

		Convey("Then a matching summary passes", func() {
			So(synth.Verify(&report.Summary{Frames: 40, Waves: 2}, stats), ShouldBeNil)
		})

		Convey("Then a missing wave fails", func() {
			err := synth.Verify(&report.Summary{Frames: 40}, stats)
			So(errors.Is(err, synth.ErrVerification), ShouldBeTrue)
		})

		Convey("Then an unexpected dance fails", func() {
			err := synth.Verify(&report.Summary{Frames: 40, Waves: 2, Dances: 1}, stats)
			So(errors.Is(err, synth.ErrVerification), ShouldBeTrue)
		})

		Convey("Then a frame count mismatch fails", func() {
			err := synth.Verify(&report.Summary{Frames: 39, Waves: 2}, stats)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDefaultOutputFile(t *testing.T) {
	Convey("Default output files are unique JSONL names", t, func() {
		a, b := synth.DefaultOutputFile(), synth.DefaultOutputFile()
		So(a, ShouldNotEqual, b)
		So(filepath.Ext(a), ShouldEqual, ".jsonl")
	})
}
