package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/wizard"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".onboard.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d)", configPath, cfg.Version)
	return &cfg, nil
}

// Variables holds template variables that can be expanded in hook commands.
// Values reach the shell through the environment, never as command text.
type Variables struct {
	Session string
	EndUser string
	Step    string
}

// Environment variables carrying Variables into hook commands.
const (
	EnvSession = "ONBOARD_SESSION"
	EnvEndUser = "ONBOARD_ENDUSER"
	EnvStep    = "ONBOARD_STEP"
)

func (v Variables) environ() []string {
	return []string{
		EnvSession + "=" + v.Session,
		EnvEndUser + "=" + v.EndUser,
		EnvStep + "=" + v.Step,
	}
}

// Execute runs a hook command and returns its output.
// Template variables in the command ({{session}}, {{enduser}}, {{step}}) become
// quoted references to ONBOARD_SESSION, ONBOARD_ENDUSER and ONBOARD_STEP, which
// are set in the command environment. A failing or timed out command is reported in
// the output with a nil error; only context cancellation is returned.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), vars.environ()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", timeout, stdout.String()), nil
	}

	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		output := stdout.String()
		if stderr.Len() > 0 {
			output += "\n[stderr]\n" + stderr.String()
		}
		return fmt.Sprintf("[Hook command failed: %v]\n%s", err, output), nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		logger.Debug("Hook stderr: %s", stderr.String())
		output += "\n[stderr]\n" + stderr.String()
	}

	logger.Debug("Hook executed successfully, output length: %d bytes", len(output))
	return output, nil
}

// ExecuteAll runs hooks in order and joins their non-empty outputs.
func ExecuteAll(ctx context.Context, hooks []*HookConfig, workDir string, vars Variables) (string, error) {
	var outputs []string
	for _, hook := range hooks {
		out, err := Execute(ctx, hook, workDir, vars)
		if err != nil {
			return "", err
		}
		if out != "" {
			outputs = append(outputs, out)
		}
	}
	return strings.Join(outputs, "\n"), nil
}

// Observer runs the configured hooks when the wizard completes or turns fatal.
// Output is logged; hooks never affect the wizard.
func Observer(cfg *Config, workDir, session string) wizard.Observer {
	return wizard.ObserverFunc(func(ctx context.Context, e wizard.Event) {
		if cfg == nil {
			return
		}
		var hooks []*HookConfig
		switch e.Kind {
		case wizard.EventCompleted:
			hooks = cfg.Hooks.OnComplete
		case wizard.EventFatal:
			hooks = cfg.Hooks.OnFatal
		default:
			return
		}
		vars := Variables{Session: session, EndUser: e.Identifier, Step: fmt.Sprint(e.Step + 1)}
		out, err := ExecuteAll(ctx, hooks, workDir, vars)
		if err != nil {
			logger.Warn("%s hooks interrupted: %v", e.Kind, err)
			return
		}
		if out != "" {
			logger.Info("%s hooks output:\n%s", e.Kind, out)
		}
	})
}

// expandVariables replaces {{variable}} placeholders with quoted references to
// their environment variables. The end-user id comes from the backend and must
// never be parsed by the shell.
func expandVariables(command string) string {
	replacements := map[string]string{
		"{{session}}": `"$` + EnvSession + `"`,
		"{{enduser}}": `"$` + EnvEndUser + `"`,
		"{{step}}":    `"$` + EnvStep + `"`,
	}

	result := command
	for placeholder, ref := range replacements {
		result = strings.ReplaceAll(result, placeholder, ref)
	}
	return result
}
