package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	projectsStartedCounter    metric.Int64Counter
	projectStartFailedCounter metric.Int64Counter
	documentsGeneratedCounter metric.Int64Counter
	photosUploadedCounter     metric.Int64Counter
	photoUploadSize           metric.Int64Histogram
)

// InitDomainMetrics creates the instruments on the global meter provider.
// Call it after SetupMetrics; recording before that is a no-op.
func InitDomainMetrics() error {
	meter := otel.Meter("backoffice.projects")

	var err error

	projectsStartedCounter, err = meter.Int64Counter(
		"projects_started_total",
		metric.WithDescription("Projects stamped with a start timestamp"),
		metric.WithUnit("{project}"),
	)
	if err != nil {
		return err
	}

	projectStartFailedCounter, err = meter.Int64Counter(
		"project_start_trigger_failures_total",
		metric.WithDescription("Swallowed failures of the project start trigger"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	documentsGeneratedCounter, err = meter.Int64Counter(
		"documents_generated_total",
		metric.WithDescription("Generated project documents"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return err
	}

	photosUploadedCounter, err = meter.Int64Counter(
		"photos_uploaded_total",
		metric.WithDescription("Uploaded project photos"),
		metric.WithUnit("{photo}"),
	)
	if err != nil {
		return err
	}

	photoUploadSize, err = meter.Int64Histogram(
		"photo_upload_size",
		metric.WithDescription("Size of uploaded project photos"),
		metric.WithUnit("By"),
	)
	return err
}

// RecordProjectStarted counts a project start, labelled by the record type that triggered it.
func RecordProjectStarted(ctx context.Context, trigger string) {
	if projectsStartedCounter != nil {
		projectsStartedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("trigger", trigger)))
	}
}

func RecordProjectStartFailed(ctx context.Context, stage string) {
	if projectStartFailedCounter != nil {
		projectStartFailedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}

func RecordDocumentGenerated(ctx context.Context, docType string, signed bool) {
	if documentsGeneratedCounter != nil {
		documentsGeneratedCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", docType),
			attribute.Bool("signed", signed),
		))
	}
}

func RecordPhotoUploaded(ctx context.Context, mime string, sizeB int64) {
	if photosUploadedCounter != nil {
		photosUploadedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("mime", mime)))
	}
	if photoUploadSize != nil {
		photoUploadSize.Record(ctx, sizeB)
	}
}
