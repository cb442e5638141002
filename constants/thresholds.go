package constants

// Heuristic thresholds tuned against real document corpora. The specific
// values are part of observed classifier behavior; change them only with
// fixture evidence.
const (
	// MeaningfulTextChars is the minimum stripped text length for a sampled
	// page to count as textual.
	MeaningfulTextChars = 50

	// DiagramMinDimension marks embedded images at least this wide and tall
	// as probable diagrams.
	DiagramMinDimension = 200

	// Scanned classification: low native text or image-dominated pages.
	ScannedTextDensityMax    = 0.1
	ScannedAvgTextMax        = 100
	ScannedImageDensityMin   = 0.8
	ScannedImageAvgTextMax   = 200

	// Strategy selection cutoffs.
	TableFocusDensityMin = 0.3
	HybridImageDensity   = 0.5
	HybridTextDensityMax = 0.5
	TextFocusDensityMin  = 0.7

	// HybridPageOCRDensity is the per-area text density below which the
	// hybrid strategy schedules OCR augmentation for a page.
	HybridPageOCRDensity = 0.01

	// SampleAllPagesMax is the largest document analyzed without sampling.
	SampleAllPagesMax = 20

	// TableProbePagesMax bounds the secondary table-detection pass.
	TableProbePagesMax = 20

	// OCRBatchSize bounds concurrent page-OCR operations.
	OCRBatchSize = 5

	// ReadingTimeWPM divides word counts into estimated reading minutes.
	ReadingTimeWPM = 200

	// LowWordCountWarning triggers the "very little text extracted" warning.
	LowWordCountWarning = 100

	// DisplayEquationChars switches normalized equations from inline to
	// display delimiters.
	DisplayEquationChars = 50
)
