package generator

import (
	"errors"
	"fmt"
)

// Stage names a pipeline step.
type Stage string

const (
	StageTitles  Stage = "generate_titles"
	StageContent Stage = "generate_content"
)

// ErrorKind classifies a stage failure.
type ErrorKind string

const (
	KindGeneration ErrorKind = "generation_failure"
	KindParse      ErrorKind = "parse_failure"
)

var (
	// ErrGeneration 表示调用模型失败（网络、鉴权、空响应等）。
	ErrGeneration = errors.New("generation failed")
	// ErrParse 表示模型输出中解析不到任何标题。
	ErrParse = errors.New("no numbered titles in model output")
)

// StageError is returned by a stage whose output degraded to empty.
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StageTitles:
		return fmt.Sprintf("Title generation failed: %v", e.Err)
	case StageContent:
		return fmt.Sprintf("Content generation failed: %v", e.Err)
	default:
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
}

func (e *StageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrGeneration) / ErrParse match by kind even when
// the wrapped cause is an SDK error.
func (e *StageError) Is(target error) bool {
	switch target {
	case ErrGeneration:
		return e.Kind == KindGeneration
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

func generationFailure(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindGeneration, Err: err}
}

func parseFailure(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindParse, Err: err}
}

// KindOf returns the kind of a stage failure, or "" for other errors.
func KindOf(err error) ErrorKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
