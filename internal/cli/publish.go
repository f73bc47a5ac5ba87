package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gisops/webtool/internal/config"
	"github.com/gisops/webtool/internal/files/filesystem"
	"github.com/gisops/webtool/internal/logging"
	"github.com/gisops/webtool/internal/params"
	"github.com/gisops/webtool/internal/portal"
	"github.com/gisops/webtool/internal/sddraft"
	"github.com/gisops/webtool/internal/services"
	"github.com/gisops/webtool/internal/staging"
	"github.com/gisops/webtool/internal/ui"
	"github.com/gisops/webtool/pkg/webtool"
)

var publishCmd = &cobra.Command{
	Use:   "publish [project_path]",
	Short: "Publish a geoprocessing tool as a hosted web tool",
	Long: `Publish runs the packaged tool once, creates a sharing draft from the run,
patches the draft so the service reuses its job directory, stages it into
a service definition, and uploads it to the portal.

The project directory (default ".") may contain a webtool.yaml with the
portal, service, and tool settings. Flags override environment variables,
which override webtool.yaml.

Password Authentication:
  For security, the password is NOT accepted as a CLI flag. Use one of:
    1. $WEBTOOL_PASSWORD environment variable
    2. A .env file next to the project (loaded automatically)
    3. The interactive prompt
  Never put passwords in shell commands (visible in history and process list)

Examples:
  # Publish using webtool.yaml in the current directory
  webtool publish

  # Publish overriding the service name
  webtool publish ./myproject --service BufferPoints

  # Overwrite an existing service without prompting (CI/CD)
  webtool publish --overwrite --force

  # Publish with extra tool inputs (overrides inputs from file and yaml)
  webtool publish --input distance="500 Meters" --input mode=fast`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

type publishFlagValues struct {
	serviceName   string
	portalURL     string
	serverURL     string
	username      string
	toolbox       string
	toolName      string
	inputs        []string
	inputsFile    string
	constants     []string
	outputDir     string
	overwrite     bool
	force         bool
	public        bool
	maxRecords    int
	executionType string
	timeout       time.Duration
}

var publishFlags publishFlagValues

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVar(&publishFlags.serviceName, "service", "",
		"Name of the service to publish (default: service.name in webtool.yaml)")
	publishCmd.Flags().StringVar(&publishFlags.portalURL, "portal-url", "",
		"Portal URL\nPrecedence: --portal-url > $WEBTOOL_PORTAL_URL > webtool.yaml")
	publishCmd.Flags().StringVar(&publishFlags.serverURL, "server-url", "",
		"Federated server URL that will host the web tool\n"+
			"Precedence: --server-url > $WEBTOOL_SERVER_URL > webtool.yaml")
	publishCmd.Flags().StringVarP(&publishFlags.username, "username", "U", "",
		"Portal user with publisher privilege (default: $WEBTOOL_USERNAME or webtool.yaml)")
	publishCmd.Flags().StringVar(&publishFlags.toolbox, "toolbox", "",
		"Path to the packaged toolbox (default: tool.toolbox in webtool.yaml)")
	publishCmd.Flags().StringVar(&publishFlags.toolName, "tool", "",
		"Tool inside the toolbox to run and publish (default: tool.name in webtool.yaml)")
	publishCmd.Flags().StringSliceVar(&publishFlags.inputs, "input", nil,
		"Tool input as key=value (can be specified multiple times)\n"+
			"Overrides values from --inputs-file and webtool.yaml")
	publishCmd.Flags().StringVar(&publishFlags.inputsFile, "inputs-file", "",
		"JSON file with tool input values (default: tool.inputs_file in webtool.yaml)")
	publishCmd.Flags().StringSliceVar(&publishFlags.constants, "constant", nil,
		"Tool parameter to fix at publish time and hide from consumers\n"+
			"(can be specified multiple times; default: tool.constant_values in webtool.yaml)")
	publishCmd.Flags().StringVarP(&publishFlags.outputDir, "output-dir", "o", "",
		"Directory for the intermediate .sddraft and .sd files")
	publishCmd.Flags().BoolVar(&publishFlags.overwrite, "overwrite", false,
		"Overwrite an existing service with the same name\n"+
			"Requires interactive confirmation unless --force is used")
	publishCmd.Flags().BoolVar(&publishFlags.force, "force", false,
		"Skip the interactive approval prompt for overwrites\n"+
			"Use with --overwrite for CI/CD pipelines")
	publishCmd.Flags().BoolVar(&publishFlags.public, "public", false,
		"Share the published service with everyone")
	publishCmd.Flags().IntVar(&publishFlags.maxRecords, "max-records", 0,
		fmt.Sprintf("Maximum records returned by the service (default %d)", webtool.DefaultMaxRecords))
	publishCmd.Flags().StringVar(&publishFlags.executionType, "execution-type", "",
		"Service execution mode: Synchronous|Asynchronous (default Synchronous)")
	publishCmd.Flags().DurationVar(&publishFlags.timeout, "timeout", webtool.DefaultTimeout,
		"Catastrophic failure protection timeout\n"+
			"Prevents indefinite hangs from network issues\n"+
			"Examples: 30s, 5m, 1h30m")

	_ = publishCmd.RegisterFlagCompletionFunc("execution-type", completeExecutionTypes)
}

// buildPublishConfig builds a PublishConfig from CLI flags, environment,
// and webtool.yaml. Extracted for testability.
func buildPublishConfig(cmd *cobra.Command, sourcePath string, verbose bool) (webtool.PublishConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := config.Load(sourcePath)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return webtool.PublishConfig{}, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
		}
		// No webtool.yaml: environment and flags must carry everything.
		projectCfg, err = config.FromEnv()
		if err != nil {
			return webtool.PublishConfig{}, err
		}
	}

	cfg := webtool.PublishConfig{
		ServiceName:   firstNonEmpty(publishFlags.serviceName, projectCfg.Service.Name),
		PortalURL:     firstNonEmpty(publishFlags.portalURL, projectCfg.Portal.URL),
		ServerURL:     firstNonEmpty(publishFlags.serverURL, projectCfg.Portal.ServerURL),
		Username:      firstNonEmpty(publishFlags.username, projectCfg.Portal.Username),
		ToolboxPath:   firstNonEmpty(publishFlags.toolbox, projectCfg.Tool.Toolbox),
		ToolName:      firstNonEmpty(publishFlags.toolName, projectCfg.Tool.Name),
		OutputDir:     firstNonEmpty(publishFlags.outputDir, projectCfg.Service.OutputDir),
		Overwrite:     publishFlags.overwrite,
		Force:         publishFlags.force,
		Public:        publishFlags.public,
		MaxRecords:    publishFlags.maxRecords,
		ExecutionType: firstNonEmpty(publishFlags.executionType, projectCfg.Service.ExecutionType),
		Timeout:       publishFlags.timeout,
		Verbose:       verbose,
	}
	if cfg.MaxRecords == 0 {
		cfg.MaxRecords = projectCfg.Service.MaxRecords
	}

	cfg.ConstantValues = publishFlags.constants
	if len(cfg.ConstantValues) == 0 {
		cfg.ConstantValues = projectCfg.Tool.ConstantValues
	}

	inputs, err := resolveToolInputs(projectCfg, verbose)
	if err != nil {
		return webtool.PublishConfig{}, err
	}
	cfg.ToolInputs = inputs

	// Apply timeout from webtool.yaml if --timeout wasn't explicitly set
	if projectCfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, parseErr := time.ParseDuration(projectCfg.Timeout)
		if parseErr != nil {
			return webtool.PublishConfig{}, fmt.Errorf("invalid timeout in %s: %w", config.ConfigFileName, parseErr)
		}
		cfg.Timeout = parsed
	}

	return cfg, nil
}

// resolveToolInputs merges tool inputs: webtool.yaml < inputs file < --input.
func resolveToolInputs(projectCfg *config.ProjectConfig, verbose bool) (map[string]string, error) {
	inputs := make(map[string]string)
	for k, v := range projectCfg.Inputs {
		inputs[k] = v
	}

	inputsFile := firstNonEmpty(publishFlags.inputsFile, projectCfg.Tool.InputsFile)
	if inputsFile != "" {
		fsProvider := filesystem.NewOSFileSystem()
		data, err := fsProvider.ReadFile(inputsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read inputs file '%s': %w", inputsFile, err)
		}
		fileInputs, err := params.ParseToolInputs(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse inputs file '%s': %w", inputsFile, err)
		}
		for k, v := range fileInputs {
			inputs[k] = v
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Loaded %d tool inputs from %s\n", len(fileInputs), inputsFile)
		}
	}

	cliInputs, err := params.ParseKeyValuePairs(publishFlags.inputs)
	if err != nil {
		return nil, fmt.Errorf("invalid --input format: %w", err)
	}
	for k, v := range cliInputs {
		inputs[k] = v
	}

	return inputs, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func runPublish(cmd *cobra.Command, args []string) error {
	sourcePath := "."
	if len(args) == 1 {
		sourcePath = args[0]
	}
	verbose := getVerboseFlag(cmd)

	cfg, err := buildPublishConfig(cmd, sourcePath, verbose)
	if err != nil {
		return err
	}

	password, err := resolvePassword(cfg.Username)
	if err != nil {
		return err
	}
	cfg.Password = password

	// Create dependencies
	// Select approver implementation based on --force flag
	var approver webtool.Approver
	if publishFlags.force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}
	logger := logging.NewConsoleLogger(verbose)
	fsProvider := filesystem.NewOSFileSystem()

	packagingClient := staging.NewClient(cfg.ServerURL, fsProvider, logger)
	patcher := sddraft.NewPatcher(fsProvider, logger)
	portalClient := portal.NewClient(cfg.PortalURL, fsProvider, logger)

	publisher := services.NewPublishService(
		packagingClient,
		patcher,
		packagingClient,
		portalClient,
		approver,
		logger,
	)

	// Setup context with timeout and signal handling for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling publish...")
		cancel()
	}()

	if err := publisher.Publish(ctx, cfg); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}
	return nil
}
