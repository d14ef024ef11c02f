package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCode(t *testing.T) {
	err := Wrap(FormatError("bad header"), "failed to parse upload")
	assert.Equal(t, CodeFormatError, GetCode(err))
	assert.Equal(t, "failed to parse upload: bad header", err.Error())
}

func TestWrapForeignErrorGetsInternalCode(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "something broke")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.True(t, stderrors.Is(err, base))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, WithCode(CodeExportError, nil))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeExportError, stderrors.New("disk full"))
	assert.Equal(t, CodeExportError, GetCode(err))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, CodeFormatError, FormatError("x").Code)
	assert.Equal(t, CodeEncodingError, EncodingError("x").Code)
	assert.Equal(t, CodeExportError, ExportError("x").Code)
	assert.Equal(t, CodeInvalidInput, InvalidInput("x").Code)
	assert.True(t, IsAppError(FormatError("x")))
}
