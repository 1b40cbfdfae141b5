// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pipelines

import "fmt"

// ErrReadFile is returned when an input can not be read.
type ErrReadFile struct {
	Path string
	Err  error
}

func (e *ErrReadFile) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ErrReadFile) Unwrap() error {
	return e.Err
}

// ErrWriteFile is returned when file I/O operations fail.
type ErrWriteFile struct {
	Op   string // mkdir, write
	Path string
	Err  error
}

func (e *ErrWriteFile) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrWriteFile) Unwrap() error {
	return e.Err
}

// ErrParse is returned when a document can not be converted to a tree.
type ErrParse struct {
	Name string
	Err  error
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Name, e.Err)
}

func (e *ErrParse) Unwrap() error {
	return e.Err
}

// ErrRenumber is returned when the footnote transform rejects a tree.
type ErrRenumber struct {
	Name string
	Err  error
}

func (e *ErrRenumber) Error() string {
	return fmt.Sprintf("renumber %s: %v", e.Name, e.Err)
}

func (e *ErrRenumber) Unwrap() error {
	return e.Err
}

// ErrRender is returned when the renumbered tree can not be rendered.
type ErrRender struct {
	Name string
	Err  error
}

func (e *ErrRender) Error() string {
	return fmt.Sprintf("render %s: %v", e.Name, e.Err)
}

func (e *ErrRender) Unwrap() error {
	return e.Err
}

// ErrDatabase is returned when database operations fail.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// Error code constants for reporting.
const (
	ErrCodeReadFile  = "READ_FILE"
	ErrCodeWriteFile = "WRITE_FILE"
	ErrCodeParse     = "PARSE"
	ErrCodeRenumber  = "RENUMBER"
	ErrCodeRender    = "RENDER"
	ErrCodeDatabase  = "DATABASE"
	ErrCodeUnknown   = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
func ErrorCode(err error) string {
	switch err.(type) {
	case *ErrReadFile:
		return ErrCodeReadFile
	case *ErrWriteFile:
		return ErrCodeWriteFile
	case *ErrParse:
		return ErrCodeParse
	case *ErrRenumber:
		return ErrCodeRenumber
	case *ErrRender:
		return ErrCodeRender
	case *ErrDatabase:
		return ErrCodeDatabase
	default:
		return ErrCodeUnknown
	}
}
