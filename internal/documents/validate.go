package documents

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	dErrors "chainregistry/pkg/domain-errors"
)

// Validator rejects inputs that cannot be staged.
type Validator struct {
	maxBytes    int64
	validatePDF bool
	pdfConf     *model.Configuration
}

// NewValidator builds a validator. maxBytes <= 0 disables the size bound.
func NewValidator(maxBytes int64, validatePDF bool) *Validator {
	v := &Validator{maxBytes: maxBytes, validatePDF: validatePDF}
	if validatePDF {
		api.DisableConfigDir()
		v.pdfConf = model.NewDefaultConfiguration()
		v.pdfConf.ValidationMode = model.ValidationRelaxed
	}
	return v
}

// Validate returns a malformed error for empty, oversized or, when strict PDF
// checking is enabled, structurally broken PDF input.
func (v *Validator) Validate(raw []byte) error {
	if v == nil {
		if len(raw) == 0 {
			return dErrors.New(dErrors.CodeMalformed, "file is empty")
		}
		return nil
	}
	if len(raw) == 0 {
		return dErrors.New(dErrors.CodeMalformed, "file is empty")
	}
	if v.maxBytes > 0 && int64(len(raw)) > v.maxBytes {
		return dErrors.New(dErrors.CodeMalformed, fmt.Sprintf("file exceeds %d bytes", v.maxBytes))
	}
	if v.validatePDF && sniffBytes(raw) == MimePDF {
		if err := api.Validate(bytes.NewReader(raw), v.pdfConf); err != nil {
			return dErrors.Wrap(err, dErrors.CodeMalformed, "file is not a readable PDF")
		}
	}
	return nil
}
