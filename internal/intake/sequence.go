package intake

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-cms-assetfield/internal/fields"
	"github.com/goliatone/go-cms-assetfield/internal/logging"
	"github.com/goliatone/go-cms-assetfield/pkg/activity"
	"github.com/goliatone/go-cms-assetfield/pkg/interfaces"
)

// source describes where the bytes of a new asset come from: a local file
// staged through an upload, or a URL the host imports itself.
type source struct {
	fileName    string
	contentType string
	title       string
	open        func() (io.ReadCloser, error)
	url         string
}

func fileSource(file File) source {
	return source{
		fileName:    file.Name,
		contentType: file.ContentType,
		title:       file.Name,
		open:        file.Open,
	}
}

func urlSource(rawURL, fileName, contentType string) source {
	return source{
		fileName:    fileName,
		contentType: contentType,
		title:       rawURL,
		url:         rawURL,
	}
}

type job struct {
	taskID string
	source source
}

// run executes the creation sequence for one job and records its outcome.
func (p *Pipeline) run(ctx context.Context, j job) error {
	logger := logging.WithTask(p.logger, j.taskID, j.source.fileName)
	assetID, err := p.create(ctx, logger, j)
	if err != nil {
		logger.Error("intake.task.failed", "error", err)
		p.tracker.Fail(j.taskID, err)
		p.reporter.Error(ctx, err)
		p.emit(ctx, activity.VerbFailed, assetID, map[string]any{
			"file_name": j.source.fileName,
			"error":     err.Error(),
		})
		return err
	}
	p.tracker.Complete(j.taskID)
	logger.Info("intake.task.done", "asset_id", assetID)
	p.emit(ctx, activity.VerbUploaded, assetID, map[string]any{
		"file_name": j.source.fileName,
	})
	return nil
}

// create uploads, creates, processes, publishes and links one asset. A
// failed publish is logged and the asset is linked as a draft. The returned
// id is set once the record exists, even on failure.
func (p *Pipeline) create(ctx context.Context, logger interfaces.Logger, j job) (string, error) {
	src := j.source
	locale := p.linker.Locale()
	fail := func(step fields.Step, err error) error {
		return fields.FailStep(step, src.fileName, err)
	}

	draft := interfaces.AssetDraft{
		Locale:      locale,
		Title:       src.title,
		Description: src.title,
		File: interfaces.AssetFileDraft{
			FileName:    src.fileName,
			ContentType: src.contentType,
			UploadURL:   src.url,
		},
	}

	if src.url == "" {
		p.tracker.Progress(j.taskID, PercentUploadStarted)
		data, err := readAll(src.open)
		if err != nil {
			return "", fail(fields.StepRead, err)
		}
		upload, err := step(ctx, p, func(ctx context.Context) (*interfaces.Upload, error) {
			return p.space.CreateUpload(ctx, data)
		})
		if err != nil {
			return "", fail(fields.StepUpload, err)
		}
		draft.File.UploadID = upload.ID
		p.tracker.Progress(j.taskID, PercentUploaded)
	}

	raw, err := step(ctx, p, func(ctx context.Context) (*interfaces.Asset, error) {
		return p.space.CreateAsset(ctx, draft)
	})
	if err != nil {
		return "", fail(fields.StepCreate, err)
	}
	p.tracker.Progress(j.taskID, PercentCreated)
	logger.Debug("intake.asset.created", "asset_id", raw.ID)

	if _, err := step(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.space.ProcessAsset(ctx, raw, locale)
	}); err != nil {
		return raw.ID, fail(fields.StepProcess, err)
	}
	p.tracker.Progress(j.taskID, PercentProcessing)

	processed, err := step(ctx, p, func(ctx context.Context) (*interfaces.Asset, error) {
		return p.space.WaitUntilAssetProcessed(ctx, raw.ID, locale)
	})
	if err != nil {
		return raw.ID, fail(fields.StepAwait, err)
	}
	p.tracker.Progress(j.taskID, PercentProcessed)

	asset := processed
	published, err := step(ctx, p, func(ctx context.Context) (*interfaces.Asset, error) {
		return p.space.PublishAsset(ctx, processed)
	})
	if err != nil {
		logger.Warn("intake.asset.publish_failed", "asset_id", processed.ID, "error", err)
	} else if published != nil {
		asset = published
	}
	p.tracker.Progress(j.taskID, PercentPublishAttempt)

	if err := p.linker.WriteLinks(ctx, []string{asset.ID}, fields.ModeAdd); err != nil {
		return asset.ID, fail(fields.StepLink, err)
	}
	return asset.ID, nil
}

// step runs one remote call under the configured step timeout. Calls that
// return a nil result without an error are treated as failures.
func step[T any](ctx context.Context, p *Pipeline, call func(context.Context) (T, error)) (T, error) {
	stepCtx, cancel := p.stepContext(ctx)
	defer cancel()
	result, err := call(stepCtx)
	if err != nil {
		return result, err
	}
	if isNil(any(result)) {
		return result, fmt.Errorf("intake: host returned no result")
	}
	return result, nil
}

func isNil(v any) bool {
	switch value := v.(type) {
	case *interfaces.Asset:
		return value == nil
	case *interfaces.Upload:
		return value == nil
	default:
		return false
	}
}

func (p *Pipeline) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.stepTimeout > 0 {
		return context.WithTimeout(ctx, p.stepTimeout)
	}
	return context.WithCancel(ctx)
}

func readAll(open func() (io.ReadCloser, error)) ([]byte, error) {
	if open == nil {
		return nil, fmt.Errorf("intake: file has no content")
	}
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
