package services

import (
	"context"

	"github.com/gisops/webtool/pkg/webtool"
)

// mockDraftCreator records the spec and path it was called with.
type mockDraftCreator struct {
	calls []webtool.DraftSpec
	paths []string
	err   error
}

func (m *mockDraftCreator) CreateDraft(ctx context.Context, spec webtool.DraftSpec, draftPath string) error {
	m.calls = append(m.calls, spec)
	m.paths = append(m.paths, draftPath)
	return m.err
}

// mockPatcher records the draft paths it patched.
type mockPatcher struct {
	paths []string
	err   error
}

func (m *mockPatcher) EnableJobDirReuse(path string) error {
	m.paths = append(m.paths, path)
	return m.err
}

// mockStager records staging calls.
type mockStager struct {
	draftPaths   []string
	packagePaths []string
	err          error
}

func (m *mockStager) Stage(ctx context.Context, draftPath, packagePath string) error {
	m.draftPaths = append(m.draftPaths, draftPath)
	m.packagePaths = append(m.packagePaths, packagePath)
	return m.err
}

// mockPortal records sign-in and upload calls.
type mockPortal struct {
	signInCalls int
	username    string
	password    string
	signInErr   error

	uploadCalls  int
	uploadedPath string
	uploadOpts   webtool.UploadOptions
	uploadResult *webtool.UploadResult
	uploadErr    error
}

func (m *mockPortal) SignIn(ctx context.Context, username, password string) error {
	m.signInCalls++
	m.username = username
	m.password = password
	return m.signInErr
}

func (m *mockPortal) Upload(ctx context.Context, packagePath string, opts webtool.UploadOptions) (*webtool.UploadResult, error) {
	m.uploadCalls++
	m.uploadedPath = packagePath
	m.uploadOpts = opts
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	if m.uploadResult != nil {
		return m.uploadResult, nil
	}
	return &webtool.UploadResult{ItemID: "item-1"}, nil
}

// mockApprover returns a scripted approval decision.
type mockApprover struct {
	calls    int
	services []string
	approved bool
	err      error
}

func (m *mockApprover) RequestApproval(ctx context.Context, serviceName string) (bool, error) {
	m.calls++
	m.services = append(m.services, serviceName)
	return m.approved, m.err
}

// mockSolver returns a scripted solve result.
type mockSolver struct {
	calls    int
	requests []webtool.SolveRequest
	result   *webtool.SolveResult
	err      error
}

func (m *mockSolver) Solve(ctx context.Context, req webtool.SolveRequest) (*webtool.SolveResult, error) {
	m.calls++
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
