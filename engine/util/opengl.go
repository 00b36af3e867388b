package util

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// CheckForGLError returns the oldest pending GL error, if any.
func CheckForGLError() error {
	errorCodeOfGL := gl.GetError()
	if errorCodeOfGL != gl.NO_ERROR {
		return errors.Errorf("GL error: 0x%x", errorCodeOfGL)
	}
	return nil
}
