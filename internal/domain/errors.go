package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput means tokenization produced no words or segmentation
	// produced no sentences.
	ErrEmptyInput = errors.New("input contains no words or sentences")

	// ErrDivisionByZero is raised by the scorer when a count is zero.
	ErrDivisionByZero = errors.New("readability requires non-zero sentence and word counts")

	// ErrTranslationDisabled is returned when non-English text needs a
	// translation but no translator is configured.
	ErrTranslationDisabled = errors.New("translation is disabled")

	ErrUnknownProvider = errors.New("unknown provider")

	ErrNotFound = errors.New("not found")
)

// Stage names a step of the analysis pipeline.
type Stage string

const (
	StageSegment   Stage = "segment"
	StageTokenize  Stage = "tokenize"
	StageDetect    Stage = "detect-language"
	StageScore     Stage = "score"
	StageTranslate Stage = "translate"
	StageSentiment Stage = "sentiment"
)

// StageError records which pipeline stage failed. The cause is kept intact
// for errors.Is and errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// External reports whether the failing stage called an external service.
func (e *StageError) External() bool {
	switch e.Stage {
	case StageDetect, StageTranslate, StageSentiment:
		return true
	}
	return false
}
