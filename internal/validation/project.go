package validation

import (
	"fmt"
	"os"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const maxProjectNameLength = 64

// ValidNameRegex matches only letters (upper and lower case), numbers, dashes, and underscores
var ValidNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// templateIDRegex matches the normalized snake_case form produced for catalog ids.
var templateIDRegex = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// wasmMagic is the leading bytes of every WebAssembly binary ("\0asm").
var wasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// IsValidProjectName reports whether name can be used for a generated project.
func IsValidProjectName(name string) error {
	if name == "" {
		return NewValidationError("project name", "project name cannot be empty")
	}
	if len(name) > maxProjectNameLength {
		return NewValidationError("project name", fmt.Sprintf("project name cannot be longer than %d characters", maxProjectNameLength))
	}
	if !ValidNameRegex.MatchString(name) {
		return NewValidationError("project name", "project name may contain only letters, numbers, dashes and underscores")
	}
	return nil
}

func isProjectName(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		panic(fmt.Sprintf("input field name is not a string: %s", fl.FieldName()))
	}

	return IsValidProjectName(field.String()) == nil
}

func isTemplateID(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		panic(fmt.Sprintf("input field name is not a string: %s", fl.FieldName()))
	}

	return templateIDRegex.MatchString(field.String())
}

// isWasmFile checks the file at the given path starts with the WASM magic.
func isWasmFile(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		panic(fmt.Sprintf("input field name is not a string: %s", fl.FieldName()))
	}

	f, err := os.Open(field.String())
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(wasmMagic))
	if _, err := f.Read(header); err != nil {
		return false
	}

	for i, b := range wasmMagic {
		if header[i] != b {
			return false
		}
	}
	return true
}
