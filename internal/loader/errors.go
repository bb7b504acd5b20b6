package loader

import "fmt"

// LoadError describes a startup data file that could not be used
type LoadError struct {
	Source string // file path or stream name
	Field  string // offending column, key or row; empty when the whole source failed
	Err    error
}

func (e *LoadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("load %s (%s): %v", e.Source, e.Field, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
