package web

import (
	"context"
	_ "embed"
	"strconv"

	"github.com/louisbranch/localeforms/internal/platform/issue"
	"github.com/louisbranch/localeforms/internal/platform/issue/format"
	"github.com/louisbranch/localeforms/internal/platform/issue/schemacheck"
	"github.com/louisbranch/localeforms/internal/platform/issue/structcheck"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "localeforms/web"

//go:embed schema/profile.schema.json
var profileSchemaJSON []byte

// validation runs both issue sources and renders their messages in the
// request language.
type validation struct {
	formatter *format.Formatter
	schema    *schemacheck.Schema
	checker   *structcheck.Checker
	tracer    trace.Tracer
}

func newValidation() (*validation, error) {
	schema, err := schemacheck.Compile("profile.schema.json", profileSchemaJSON)
	if err != nil {
		return nil, err
	}
	return &validation{
		formatter: format.New(nil),
		schema:    schema,
		checker:   structcheck.New(),
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// validateDocument checks a decoded form document against the profile schema.
func (v *validation) validateDocument(ctx context.Context, locale string, doc map[string]any) map[string]string {
	_, span := v.tracer.Start(ctx, "web.form.validate", trace.WithAttributes(
		attribute.String("locale", locale),
		attribute.String("schema", v.schema.Name()),
	))
	defer span.End()

	return v.finish(span, v.schema.Validate(doc, v.formatter.ErrorMap(locale)))
}

// validateStruct checks a decoded API request against its struct tags.
func (v *validation) validateStruct(ctx context.Context, locale string, value any) map[string]string {
	_, span := v.tracer.Start(ctx, "web.api.validate", trace.WithAttributes(
		attribute.String("locale", locale),
	))
	defer span.End()

	return v.finish(span, v.checker.Check(value, v.formatter.ErrorMap(locale)))
}

func (v *validation) finish(span trace.Span, issues []issue.Issue) map[string]string {
	span.SetAttributes(attribute.Int("issues", len(issues)))
	if len(issues) == 0 {
		return nil
	}
	span.SetStatus(otelcodes.Error, strconv.Itoa(len(issues))+" validation issue(s)")
	return issue.Flatten(issues...)
}
