package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gisops/webtool/pkg/webtool"
)

// PublishService implements the Publisher interface.
// Thread-Safety: NOT safe for concurrent Publish() calls on the same
// instance. Create separate instances for concurrent runs.
type PublishService struct {
	draftCreator webtool.DraftCreator
	patcher      webtool.DraftPatcher
	stager       webtool.Stager
	portal       webtool.Portal
	approver     webtool.Approver
	logger       webtool.Logger
}

// NewPublishService creates a new PublishService with all dependencies injected.
//
// Panic vs. Error Boundary Rationale:
//   - Panics on nil dependencies: These are programmer errors that should fail loudly
//     at application startup, not during request handling.
//   - Returns errors for runtime conditions: Configuration validation, portal failures,
//     and file system errors are recoverable runtime conditions handled by the caller.
func NewPublishService(
	draftCreator webtool.DraftCreator,
	patcher webtool.DraftPatcher,
	stager webtool.Stager,
	portal webtool.Portal,
	approver webtool.Approver,
	logger webtool.Logger,
) *PublishService {
	if draftCreator == nil {
		panic("draftCreator cannot be nil")
	}
	if patcher == nil {
		panic("patcher cannot be nil")
	}
	if stager == nil {
		panic("stager cannot be nil")
	}
	if portal == nil {
		panic("portal cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &PublishService{
		draftCreator: draftCreator,
		patcher:      patcher,
		stager:       stager,
		portal:       portal,
		approver:     approver,
		logger:       logger,
	}
}

// Publish executes a publish run using the provided configuration.
// It orchestrates the full pipeline: draft, patch, stage, sign in, upload.
func (s *PublishService) Publish(ctx context.Context, config webtool.PublishConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	s.logger.Verbose("Starting publish of service '%s'", config.ServiceName)
	s.logger.Verbose("Tool: %s in %s", config.ToolName, config.ToolboxPath)

	if config.Overwrite {
		approved, err := s.approver.RequestApproval(ctx, config.ServiceName)
		if err != nil {
			return fmt.Errorf("approval failed: %w", err)
		}
		if !approved {
			return fmt.Errorf("overwrite of service '%s' was not approved: %w",
				config.ServiceName, webtool.ErrApprovalDenied)
		}
	}

	draftPath := filepath.Join(config.OutputDir, config.ServiceName+webtool.DraftExtension)
	packagePath := filepath.Join(config.OutputDir, config.ServiceName+webtool.PackageExtension)

	if err := s.createDraft(ctx, config, draftPath); err != nil {
		return err
	}

	// The draft is shared from run history, so job directory reuse must be
	// enabled before staging or the published tool loses its result.
	if err := s.patcher.EnableJobDirReuse(draftPath); err != nil {
		return err
	}
	s.logger.Verbose("Enabled job directory reuse in %s", draftPath)

	if err := s.stager.Stage(ctx, draftPath, packagePath); err != nil {
		return err
	}

	if err := s.portal.SignIn(ctx, config.Username, config.Password); err != nil {
		return fmt.Errorf("portal sign-in failed: %w", err)
	}

	result, err := s.portal.Upload(ctx, packagePath, webtool.UploadOptions{
		ServerURL: config.ServerURL,
		Override:  config.Overwrite,
		Public:    config.Public,
	})
	if err != nil {
		return err
	}

	for _, msg := range result.Messages {
		s.logger.Verbose("Portal: %s", msg)
	}

	serviceURL := result.ServiceURL
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("%s/rest/services/%s/GPServer/%s",
			config.ServerURL, config.ServiceName, config.ToolName)
	}

	s.logger.Info("✓ Service published successfully")
	s.logger.Info("  %s", serviceURL)
	return nil
}

// createDraft builds the draft spec from the publish config and runs the
// draft creation step.
func (s *PublishService) createDraft(ctx context.Context, config webtool.PublishConfig, draftPath string) error {
	maxRecords := config.MaxRecords
	if maxRecords == 0 {
		maxRecords = webtool.DefaultMaxRecords
	}
	executionType := config.ExecutionType
	if executionType == "" {
		executionType = webtool.DefaultExecutionType
	}

	spec := webtool.DraftSpec{
		ServiceName:              config.ServiceName,
		TargetServer:             config.ServerURL,
		ToolboxPath:              config.ToolboxPath,
		ToolName:                 config.ToolName,
		ToolInputs:               config.ToolInputs,
		MaxRecords:               maxRecords,
		ExecutionType:            executionType,
		MessageLevel:             webtool.DefaultMessageLevel,
		CopyDataToServer:         false,
		ConstantValues:           config.ConstantValues,
		OverwriteExistingService: config.Overwrite,
	}

	if err := s.draftCreator.CreateDraft(ctx, spec, draftPath); err != nil {
		return err
	}
	return nil
}

// Verify PublishService implements the Publisher interface at compile time
var _ webtool.Publisher = (*PublishService)(nil)
