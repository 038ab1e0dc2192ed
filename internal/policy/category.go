package policy

import (
	"fmt"
	"strings"
)

// Category classifies a raised error for expected-error matching.
type Category string

// Categorizer lets an error name its own category.
type Categorizer interface {
	Category() string
}

// CategoryOf returns the category of err itself, without walking its
// wrap chain. Errors that implement Categorizer name themselves; others are
// named after their dynamic type, without package or pointer
// (*fs.PathError is "PathError").
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	if c, ok := err.(Categorizer); ok {
		return Category(c.Category())
	}
	name := strings.TrimLeft(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return Category(name)
}

func (c Category) String() string { return string(c) }

// CategoryError is a plain error tagged with a category. Units use it to
// raise an error of a configured category.
type CategoryError struct {
	Kind    string
	Message string
}

// NewCategoryError returns an error of category kind.
func NewCategoryError(kind, message string) *CategoryError {
	return &CategoryError{Kind: kind, Message: message}
}

func (e *CategoryError) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return e.Kind + ": " + e.Message
}

func (e *CategoryError) Category() string { return e.Kind }
