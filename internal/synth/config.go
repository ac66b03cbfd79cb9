package synth

import "time"

// Config holds configuration for a synthetic stream.
type Config struct {
	Frames     int    // Number of frames to generate
	Scenario   string // Scenario name, see Scenarios
	Seed       uint64 // Seed for the jitter source
	Width      int    // Frame width in pixels
	Height     int    // Frame height in pixels
	OutputFile string // Output JSONL file
	LogFile    string // Log file for tool output
	Verify     bool   // Run the generated stream through the analyzer
	Verbose    bool   // Enable debug logging
}

// Stats holds generation statistics.
type Stats struct {
	FramesGenerated int
	ScenarioFrames  map[string]int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
