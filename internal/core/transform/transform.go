// Package transform converts decoded JSON into other text formats.
package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/jsonstudio/internal/core/model"
	"github.com/agenthands/jsonstudio/internal/core/value"
)

// Formats lists every supported target.
var Formats = []model.Format{model.FormatYAML, model.FormatCSV}

// ParseFormat accepts a format name in any case.
func ParseFormat(name string) (model.Format, error) {
	f := model.Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return model.Format(name), unsupported(model.Format(name))
}

// TransformJSON renders v as format. Failures are reported in the result's
// Error field with empty Content.
func TransformJSON(ctx context.Context, v value.Value, format model.Format) model.TransformResult {
	if err := ctx.Err(); err != nil {
		return model.TransformResult{Format: format, Error: err.Error()}
	}

	content, err := Convert(v, format)
	if err != nil {
		return model.TransformResult{Format: format, Error: err.Error()}
	}
	return model.TransformResult{Content: content, Format: format}
}

// Convert is TransformJSON with a plain error return.
func Convert(v value.Value, format model.Format) (string, error) {
	switch format {
	case model.FormatYAML:
		return ToYAML(v)
	case model.FormatCSV:
		return ToCSV(v)
	}
	return "", unsupported(format)
}

func unsupported(format model.Format) error {
	return &Error{Kind: ErrUnsupportedFormat, Msg: fmt.Sprintf("Unsupported format: %s", format)}
}
