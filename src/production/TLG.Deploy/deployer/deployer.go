package deployer

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/goccy/go-yaml"

	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
)

// AllFunctions is the choice that deploys the whole service
const AllFunctions = "All"

// FunctionsDir holds one main package per Lambda function, named after the function
const FunctionsDir = "./src/production/TLG.Functions"

type serverlessFile struct {
	Service   string        `yaml:"service"`
	Functions yaml.MapSlice `yaml:"functions"`
}

// ListFunctions returns the function names declared in serverless.yml, in file order
func ListFunctions(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file serverlessFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	names := make([]string, 0, len(file.Functions))
	for _, item := range file.Functions {
		name, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("function name %v in %s is not a string", item.Key, path)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no functions declared in %s", path)
	}
	return names, nil
}

// Runner executes external commands
type Runner interface {
	Run(ctx context.Context, env []string, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) Run(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Deployer builds the Lambda binaries and hands them to the serverless CLI
type Deployer struct {
	runner   Runner
	buildDir string
	logger   *logger.Logger
}

func NewDeployer(runner Runner, buildDir string, log *logger.Logger) *Deployer {
	return &Deployer{
		runner:   runner,
		buildDir: buildDir,
		logger:   log.WithComponent("deployer"),
	}
}

// Build clears the build directory and compiles every function as
// build/<fn>/bootstrap for the arm64 provided runtime, zipped as build/<fn>.zip.
func (d *Deployer) Build(ctx context.Context, functions []string) error {
	d.logger.Info("Clearing previous build")
	if err := os.RemoveAll(d.buildDir); err != nil {
		return fmt.Errorf("failed to clear %s: %w", d.buildDir, err)
	}

	env := []string{"GOOS=linux", "GOARCH=arm64", "CGO_ENABLED=0"}
	for _, fn := range functions {
		binary := filepath.Join(d.buildDir, fn, "bootstrap")
		d.logger.Logger.Info().Str("function", fn).Str("output", binary).Msg("Building")
		if err := os.MkdirAll(filepath.Dir(binary), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(binary), err)
		}

		if err := d.runner.Run(ctx, env, "go", "build",
			"-tags", "lambda.norpc",
			"-ldflags", "-s -w",
			"-o", binary,
			FunctionsDir+"/"+fn,
		); err != nil {
			return fmt.Errorf("failed to build %s: %w", fn, err)
		}

		if err := zipBootstrap(binary, filepath.Join(d.buildDir, fn+".zip")); err != nil {
			return fmt.Errorf("failed to package %s: %w", fn, err)
		}
	}
	return nil
}

// Deploy runs serverless deploy for the whole stack or for one function
func (d *Deployer) Deploy(ctx context.Context, stage, function string) error {
	args := []string{"deploy"}
	if function != AllFunctions {
		args = append(args, "function", "-f", function)
	}
	args = append(args, "--stage", stage, "--verbose")

	d.logger.Logger.Info().Str("stage", stage).Str("function", function).Msg("Deploying")
	if err := d.runner.Run(ctx, nil, "serverless", args...); err != nil {
		return fmt.Errorf("serverless deploy failed: %w", err)
	}
	return nil
}

func zipBootstrap(binary, target string) error {
	src, err := os.Open(binary)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	header := &zip.FileHeader{Name: "bootstrap", Method: zip.Deflate}
	header.SetMode(0o755)
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return zw.Close()
}
