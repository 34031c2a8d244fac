package worker

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"dreamtoons/internal/domain"
	"dreamtoons/internal/facecheck"
	"dreamtoons/internal/infra"
	"dreamtoons/internal/providers/script"
	"dreamtoons/internal/providers/synth"
	"dreamtoons/internal/storage"
)

// imageEditor is the photo-to-avatar stylization call, served by the OpenAI
// image edit endpoint.
type imageEditor interface {
	EditImage(ctx context.Context, prompt string, photo []byte) ([]byte, error)
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Comics      domain.ComicJobRepository
	Avatars     domain.AvatarJobRepository
	Scripts     script.Generator
	Synth       synth.Synthesizer
	Editor      imageEditor
	Store       storage.BlobStore
	Faces       facecheck.Checker
	Logger      *infra.Logger
	Concurrency int
}

// Orchestrator drives claimed jobs through their full lifecycle. Exactly one
// orchestrator invocation owns a job at a time; status writes are its only
// side channel.
type Orchestrator struct {
	comics      domain.ComicJobRepository
	avatars     domain.AvatarJobRepository
	scripts     script.Generator
	synth       synth.Synthesizer
	editor      imageEditor
	store       storage.BlobStore
	faces       facecheck.Checker
	logger      *infra.Logger
	concurrency int

	// newSeed produces the job-wide synthesis seed, swappable in tests.
	newSeed func() int64
}

func NewOrchestrator(opts Options) *Orchestrator {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 2
	}
	faces := opts.Faces
	if faces == nil {
		faces = facecheck.AlwaysPass{}
	}
	return &Orchestrator{
		comics:      opts.Comics,
		avatars:     opts.Avatars,
		scripts:     opts.Scripts,
		synth:       opts.Synth,
		editor:      opts.Editor,
		store:       opts.Store,
		faces:       faces,
		logger:      opts.Logger,
		concurrency: concurrency,
		newSeed:     func() int64 { return rand.Int64N(1 << 31) },
	}
}

// ProcessComic runs one claimed comic job to a terminal state. Pipeline
// failures settle the job as error; only a failed terminal status write is
// returned to the caller.
func (o *Orchestrator) ProcessComic(ctx context.Context, job *domain.ComicJob) error {
	log := o.logger.With().Str("job_id", job.ID).Str("user_id", job.UserID).Logger()

	panelScript, err := o.scripts.Generate(ctx, job.Story, job.RequestedPanels, job.Style)
	if err != nil {
		return o.failComic(ctx, job.ID, domain.FailureFrom(err))
	}

	// Title lands before the panels so polling clients see it early. A miss
	// here is not worth failing the whole job.
	if err := o.comics.UpdateTitle(ctx, job.ID, panelScript.Title); err != nil {
		log.Warn().Err(err).Msg("worker: title update failed")
	}

	reference, err := o.store.Download(ctx, job.AvatarPath)
	if err != nil {
		f := domain.FailureFrom(fmt.Errorf("%w: load avatar reference: %w", domain.ErrStorage, err))
		return o.failComic(ctx, job.ID, f)
	}

	seed := o.newSeed()
	results := make([]domain.PanelResult, len(panelScript.Panels))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, panel := range panelScript.Panels {
		g.Go(func() error {
			results[i] = o.renderPanel(ctx, job, panel, panelScript.CharacterSheet, reference, seed, i)
			return nil
		})
	}
	// Tasks never return errors into the group; a failed panel must not
	// cancel its siblings.
	_ = g.Wait()

	paths, first := domain.ReducePanels(results)
	if len(paths) == 0 {
		if first == nil {
			first = domain.NewFailure(domain.ErrorTypeUnknown, "no panels produced")
		}
		return o.failComic(ctx, job.ID, first)
	}
	if err := o.comics.Complete(ctx, job.ID, paths, len(paths)); err != nil {
		return fmt.Errorf("worker: complete job %s: %w", job.ID, err)
	}
	log.Info().Int("panels", len(paths)).Int("failed", len(results)-len(paths)).Msg("worker: comic complete")
	return nil
}

// renderPanel synthesizes and stores one panel. All failures are settled
// into the result value.
func (o *Orchestrator) renderPanel(ctx context.Context, job *domain.ComicJob, panel domain.PanelDescription, characterSheet string, reference []byte, seed int64, index int) domain.PanelResult {
	data, err := o.synth.Synthesize(ctx, synth.Request{
		Prompt:         buildPanelPrompt(panel, characterSheet, job.Style),
		NegativePrompt: buildNegativePrompt(panel),
		Reference:      reference,
		Seed:           &seed,
		RequestID:      fmt.Sprintf("%s-%d", job.ID, index),
	})
	if err != nil {
		o.logger.Warn().Err(err).Str("job_id", job.ID).Int("panel", index).Msg("worker: panel synthesis failed")
		return domain.PanelResult{Index: index, Err: domain.FailureFrom(err)}
	}

	path := storage.PanelPath(job.UserID, job.ID, index)
	stored, err := o.store.Upload(ctx, path, data, "image/png")
	if err != nil {
		wrapped := fmt.Errorf("%w: store panel %d: %w", domain.ErrStorage, index, err)
		o.logger.Warn().Err(err).Str("job_id", job.ID).Int("panel", index).Msg("worker: panel upload failed")
		return domain.PanelResult{Index: index, Err: domain.FailureFrom(wrapped)}
	}
	return domain.PanelResult{Index: index, Path: stored}
}

func (o *Orchestrator) failComic(ctx context.Context, jobID string, f *domain.Failure) error {
	if err := o.comics.Fail(ctx, jobID, f.Type, f.Message); err != nil {
		return fmt.Errorf("worker: fail job %s: %w", jobID, err)
	}
	o.logger.Info().Str("job_id", jobID).Str("error_type", string(f.Type)).Msg("worker: comic failed")
	return nil
}

// ProcessAvatar runs one claimed avatar job to a terminal state.
func (o *Orchestrator) ProcessAvatar(ctx context.Context, job *domain.AvatarJob) error {
	log := o.logger.With().Str("job_id", job.ID).Str("user_id", job.UserID).Logger()

	photo, err := o.store.Download(ctx, job.PhotoPath)
	if err != nil {
		f := domain.FailureFrom(fmt.Errorf("%w: load photo: %w", domain.ErrStorage, err))
		return o.failAvatar(ctx, job.ID, f)
	}

	// Detector errors are inconclusive, not verdicts: the job proceeds.
	hasFace, err := o.faces.HasFace(ctx, photo)
	if err != nil {
		log.Warn().Err(err).Msg("worker: face check unavailable, continuing")
	} else if !hasFace {
		f := domain.FailureFrom(fmt.Errorf("%w: upload a clear photo of a face", domain.ErrNoFace))
		return o.failAvatar(ctx, job.ID, f)
	}

	data, err := o.editor.EditImage(ctx, job.Prompt, photo)
	if err != nil {
		return o.failAvatar(ctx, job.ID, synthesisFailure(err))
	}
	if len(data) == 0 {
		f := domain.FailureFrom(fmt.Errorf("%w: backend returned empty image", domain.ErrSynthesis))
		return o.failAvatar(ctx, job.ID, f)
	}

	path := storage.AvatarPath(job.UserID, job.ID)
	stored, err := o.store.Upload(ctx, path, data, "image/png")
	if err != nil {
		f := domain.FailureFrom(fmt.Errorf("%w: store avatar: %w", domain.ErrStorage, err))
		return o.failAvatar(ctx, job.ID, f)
	}

	if err := o.avatars.Finalize(ctx, job.UserID, job.StyleName, stored); err != nil {
		f := domain.FailureFrom(fmt.Errorf("%w: finalize avatar: %w", domain.ErrDatabase, err))
		return o.failAvatar(ctx, job.ID, f)
	}
	if err := o.avatars.Complete(ctx, job.ID, stored); err != nil {
		return fmt.Errorf("worker: complete avatar %s: %w", job.ID, err)
	}
	log.Info().Str("style", job.StyleName).Msg("worker: avatar complete")
	return nil
}

func (o *Orchestrator) failAvatar(ctx context.Context, jobID string, f *domain.Failure) error {
	if err := o.avatars.Fail(ctx, jobID, f.Type, f.Message); err != nil {
		return fmt.Errorf("worker: fail avatar %s: %w", jobID, err)
	}
	o.logger.Info().Str("job_id", jobID).Str("error_type", string(f.Type)).Msg("worker: avatar failed")
	return nil
}

// synthesisFailure classifies an image-edit error, defaulting unrecognized
// errors to the image generation bucket rather than unknown.
func synthesisFailure(err error) *domain.Failure {
	f := domain.FailureFrom(err)
	if f.Type == domain.ErrorTypeUnknown {
		f.Type = domain.ErrorTypeImageGeneration
	}
	return f
}
