package webtool

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PublishConfig contains all parameters needed to publish a packaged
// geoprocessing tool as a hosted web tool.
type PublishConfig struct {
	// ServiceName is the name of the geoprocessing service to publish as
	ServiceName string

	// PortalURL is the portal that federates the hosting server
	PortalURL string

	// ServerURL is the federated server that will host the web tool
	ServerURL string

	// Username is a portal account with publisher or administrator privilege
	Username string

	// Password for the user. Never passed as a CLI flag; resolved from
	// $WEBTOOL_PASSWORD, a .env file, or an interactive prompt.
	Password string

	// ToolboxPath is the path to the packaged toolbox
	ToolboxPath string

	// ToolName is the tool inside the toolbox to run and publish
	ToolName string

	// ToolInputs are the parameter values used to run the tool once before
	// publishing. The web tool is shared from run history, so the tool must
	// execute at least once.
	ToolInputs map[string]string

	// ConstantValues are tool parameter names fixed at publish time and
	// hidden from web tool consumers (e.g. the network data source).
	ConstantValues []string

	// OutputDir is the directory where the .sddraft and .sd files are written
	OutputDir string

	// Overwrite replaces an existing service with the same name
	Overwrite bool

	// Force bypasses interactive approval when used with Overwrite
	Force bool

	// Public shares the published service with everyone
	Public bool

	// MaxRecords caps the records returned by the published service
	MaxRecords int

	// ExecutionType is the service execution mode (Synchronous/Asynchronous)
	ExecutionType string

	// Timeout is the global timeout for the entire publish run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the PublishConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *PublishConfig) Validate() error {
	var errs []error

	if c.ServiceName == "" {
		errs = append(errs, fmt.Errorf("ServiceName is required: %w", ErrInvalidConfig))
	}

	if c.PortalURL == "" {
		errs = append(errs, fmt.Errorf("PortalURL is required: %w", ErrInvalidConfig))
	}

	if c.ServerURL == "" {
		errs = append(errs, fmt.Errorf("ServerURL is required: %w", ErrInvalidConfig))
	}

	if c.Username == "" {
		errs = append(errs, fmt.Errorf("Username is required: %w", ErrInvalidConfig))
	}

	if c.ToolboxPath == "" {
		errs = append(errs, fmt.Errorf("ToolboxPath is required: %w", ErrInvalidConfig))
	}

	if c.ToolName == "" {
		errs = append(errs, fmt.Errorf("ToolName is required: %w", ErrInvalidConfig))
	}

	if c.OutputDir == "" {
		errs = append(errs, fmt.Errorf("OutputDir is required: %w", ErrInvalidConfig))
	}

	// Force requires Overwrite to be set
	if c.Force && !c.Overwrite {
		errs = append(errs, fmt.Errorf("force flag requires overwrite to be enabled: %w", ErrInvalidConfig))
	}

	if c.MaxRecords < 0 {
		errs = append(errs, fmt.Errorf("MaxRecords cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// DirectionsConfig contains all parameters needed for a directions run.
type DirectionsConfig struct {
	// StopsPath is a JSON file with the ordered stop locations to visit
	StopsPath string

	// SolverURL is the route-solving service endpoint
	SolverURL string

	// TravelMode is the travel mode descriptor (e.g. "Driving Time")
	TravelMode string

	// StartTime is the departure time used for time-aware solving.
	// The zero value means "now" as decided by the solver.
	StartTime time.Time

	// OutputPath is where the exported directions artifact is written
	OutputPath string

	// Timeout is the global timeout for the entire solve run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the DirectionsConfig has all required fields.
// It returns a multi-error if multiple validation failures occur.
func (c *DirectionsConfig) Validate() error {
	var errs []error

	if c.StopsPath == "" {
		errs = append(errs, fmt.Errorf("StopsPath is required: %w", ErrInvalidConfig))
	}

	if c.SolverURL == "" {
		errs = append(errs, fmt.Errorf("SolverURL is required: %w", ErrInvalidConfig))
	}

	if c.TravelMode == "" {
		errs = append(errs, fmt.Errorf("TravelMode is required: %w", ErrInvalidConfig))
	}

	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("OutputPath is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// DraftSpec describes the sharing draft the packaging pipeline should
// produce for a tool run. Field semantics mirror the server's sharing
// draft settings.
type DraftSpec struct {
	ServiceName      string
	TargetServer     string
	ToolboxPath      string
	ToolName         string
	ToolInputs       map[string]string
	MaxRecords       int
	ExecutionType    string
	MessageLevel     string
	CopyDataToServer bool
	// ConstantValues are parameter names fixed at publish time and hidden
	// from web tool consumers (e.g. the network data source).
	ConstantValues           []string
	OverwriteExistingService bool
}

// UploadOptions controls how a staged service definition is published.
type UploadOptions struct {
	// ServerURL is the federated server that will host the service
	ServerURL string

	// Override replaces the service definition of an existing service
	Override bool

	// Public shares the published service with everyone
	Public bool
}

// UploadResult reports the outcome of publishing a service definition.
type UploadResult struct {
	// ItemID is the portal item created for the uploaded package
	ItemID string

	// ServiceURL is the REST endpoint of the published service
	ServiceURL string

	// Messages is the textual status/log returned by the portal
	Messages []string
}

// Severity tags a solver diagnostic message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseSeverity parses the solver's wire representation of a severity.
// Unknown values map to SeverityInfo rather than failing the whole solve.
func ParseSeverity(s string) Severity {
	switch s {
	case "Warning":
		return SeverityWarning
	case "Error":
		return SeverityError
	default:
		return SeverityInfo
	}
}

// MarshalJSON encodes the severity in its string wire form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the severity from its string wire form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseSeverity(str)
	return nil
}

// Stop is a single stop location for a route solve.
type Stop struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SolveRequest carries the inputs of a route solve.
type SolveRequest struct {
	Stops      []Stop    `json:"stops"`
	TravelMode string    `json:"travelMode"`
	StartTime  time.Time `json:"startTime,omitzero"`
}

// SolverMessage is a severity-tagged diagnostic from the route solver.
type SolverMessage struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
}

// Direction is a single turn-by-turn instruction.
type Direction struct {
	Sequence int     `json:"sequence"`
	Text     string  `json:"text"`
	Meters   float64 `json:"meters"`
	Minutes  float64 `json:"minutes"`
}

// SolveResult is the outcome of a route solve: either directions or a set
// of severity-tagged diagnostics explaining the failure.
type SolveResult struct {
	Succeeded  bool            `json:"solveSucceeded"`
	Messages   []SolverMessage `json:"messages,omitempty"`
	Directions []Direction     `json:"directions,omitempty"`
}

// WarningMessages returns the warning-severity diagnostics.
func (r *SolveResult) WarningMessages() []SolverMessage {
	return r.messagesWithSeverity(SeverityWarning)
}

// ErrorMessages returns the error-severity diagnostics.
func (r *SolveResult) ErrorMessages() []SolverMessage {
	return r.messagesWithSeverity(SeverityError)
}

func (r *SolveResult) messagesWithSeverity(sev Severity) []SolverMessage {
	var out []SolverMessage
	for _, m := range r.Messages {
		if m.Severity == sev {
			out = append(out, m)
		}
	}
	return out
}
